package expr

// Poly 单变量多项式，coeffs[i] 为 x^i 的系数表达式。
type Poly []Expr

// PolyIn 尝试把表达式视为变量 name 的多项式。
// 变量出现在负幂或不可展开位置时返回 false。
func PolyIn(e Expr, name string) (Poly, bool) {
	switch t := e.(type) {
	case *Num:
		return Poly{e}, true
	case *Sym:
		if t.name == name {
			return Poly{Zero(), One()}, true
		}
		return Poly{e}, true
	case *Sum:
		out := Poly{}
		for _, term := range t.terms {
			p, ok := PolyIn(term, name)
			if !ok {
				return nil, false
			}
			out = polyAdd(out, p)
		}
		return out.trim(), true
	case *Product:
		out := Poly{One()}
		for _, f := range t.factors {
			p, ok := PolyIn(f, name)
			if !ok {
				return nil, false
			}
			out = polyMul(out, p)
		}
		return out.trim(), true
	case *Power:
		base, ok := PolyIn(t.base, name)
		if !ok {
			return nil, false
		}
		if t.exp < 0 {
			// 负幂仅当基式不含该变量时保持常数项
			if len(base) <= 1 {
				return Poly{e}, true
			}
			return nil, false
		}
		out := Poly{One()}
		for i := 0; i < t.exp; i++ {
			out = polyMul(out, base)
		}
		return out.trim(), true
	}
	return nil, false
}

// Expr 多项式还原为表达式
func (p Poly) Expr(name string) Expr {
	x := Symbol(name)
	terms := make([]Expr, 0, len(p))
	for i, c := range p {
		terms = append(terms, Mul(c, Pow(x, i)))
	}
	return Add(terms...)
}

// Degree 次数(零多项式为 -1)
func (p Poly) Degree() int { return len(p.trim()) - 1 }

func (p Poly) trim() Poly {
	n := len(p)
	for n > 0 && p[n-1].IsZero() {
		n--
	}
	return p[:n]
}

func polyAdd(a, b Poly) Poly {
	n := max(len(a), len(b))
	out := make(Poly, n)
	for i := range out {
		var x, y Expr = Zero(), Zero()
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = Add(x, y)
	}
	return out
}

func polyMul(a, b Poly) Poly {
	if len(a) == 0 || len(b) == 0 {
		return Poly{}
	}
	out := make(Poly, len(a)+len(b)-1)
	for i := range out {
		out[i] = Zero()
	}
	for i, x := range a {
		for j, y := range b {
			out[i+j] = Add(out[i+j], Mul(x, y))
		}
	}
	return out
}

// ------------------------------ 数值系数多项式 ------------------------------

// numPoly 系数全为常数的多项式，用于约分。
type numPoly []*Num

func numPolyIn(e Expr, name string) (numPoly, bool) {
	p, ok := PolyIn(e, name)
	if !ok {
		return nil, false
	}
	out := make(numPoly, len(p))
	for i, c := range p {
		n, ok := c.(*Num)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out.trim(), true
}

func (p numPoly) trim() numPoly {
	n := len(p)
	for n > 0 && p[n-1].isZero() {
		n--
	}
	return p[:n]
}

func (p numPoly) expr(name string) Expr {
	q := make(Poly, len(p))
	for i, c := range p {
		q[i] = c
	}
	return q.Expr(name)
}

// numPolyDivMod 多项式带余除法
func numPolyDivMod(a, b numPoly) (q, r numPoly) {
	if len(b) == 0 {
		panic("expr: 多项式除零")
	}
	r = make(numPoly, len(a))
	copy(r, a)
	if len(a) < len(b) {
		return numPoly{}, r.trim()
	}
	q = make(numPoly, len(a)-len(b)+1)
	inv := numInv(b[len(b)-1])
	for i := len(a) - len(b); i >= 0; i-- {
		c := numMul(r[i+len(b)-1], inv)
		q[i] = c
		for j, bc := range b {
			r[i+j] = numAdd(r[i+j], numNeg(numMul(c, bc)))
		}
	}
	return q, r.trim()
}

// numPolyGCD 首一最大公因式
func numPolyGCD(a, b numPoly) numPoly {
	a, b = a.trim(), b.trim()
	for len(b) > 0 {
		_, r := numPolyDivMod(a, b)
		a, b = b, r
	}
	if len(a) == 0 {
		return a
	}
	// 首一化
	inv := numInv(a[len(a)-1])
	out := make(numPoly, len(a))
	for i, c := range a {
		out[i] = numMul(c, inv)
	}
	return out
}
