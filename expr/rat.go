package expr

// Rat 表达式分式 N/D，求解过程中的基本元素。
// 每次运算后调用 reduce 做常数折叠、相同因子消去与
// 单变量数值系数多项式的最大公因式约分。
type Rat struct {
	N, D Expr
}

// RatOf 把表达式提升为分式
func RatOf(e Expr) Rat { return Rat{N: e, D: One()} }

// RatZero 零分式
func RatZero() Rat { return Rat{N: Zero(), D: One()} }

// RatDiv 构造分式 n/d 并约分
func RatDiv(n, d Expr) Rat { return (Rat{N: n, D: d}).reduce() }

// IsZero 分子为零
func (r Rat) IsZero() bool { return r.N.IsZero() }

// Expr 折叠为单个表达式
func (r Rat) Expr() Expr {
	if n, ok := r.D.(*Num); ok && n.isOne() {
		return r.N
	}
	return Div(r.N, r.D)
}

func (r Rat) String() string { return r.Expr().String() }

// Add 分式加法
func (r Rat) Add(o Rat) Rat {
	return Rat{
		N: Add(Mul(r.N, o.D), Mul(o.N, r.D)),
		D: Mul(r.D, o.D),
	}.reduce()
}

// Sub 分式减法
func (r Rat) Sub(o Rat) Rat { return r.Add(o.Neg()) }

// Neg 取负
func (r Rat) Neg() Rat { return Rat{N: Neg(r.N), D: r.D} }

// Mul 分式乘法
func (r Rat) Mul(o Rat) Rat {
	return Rat{N: Mul(r.N, o.N), D: Mul(r.D, o.D)}.reduce()
}

// Div 分式除法
func (r Rat) Div(o Rat) Rat {
	if o.IsZero() {
		panic("expr: 分式除零")
	}
	return Rat{N: Mul(r.N, o.D), D: Mul(r.D, o.N)}.reduce()
}

// Inv 倒数
func (r Rat) Inv() Rat {
	if r.IsZero() {
		panic("expr: 分式除零")
	}
	return Rat{N: r.D, D: r.N}.reduce()
}

// Eval 数值求值
func (r Rat) Eval(env map[string]complex128) (complex128, error) {
	n, err := r.N.Eval(env)
	if err != nil {
		return 0, err
	}
	d, err := r.D.Eval(env)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, errDivZero(r.D)
	}
	return n / d, nil
}

func errDivZero(d Expr) error {
	return &EvalError{Msg: "分母求值为零: " + d.String()}
}

// EvalError 数值求值错误
type EvalError struct{ Msg string }

func (e *EvalError) Error() string { return e.Msg }

func (r Rat) reduce() Rat {
	if r.D.IsZero() {
		panic("expr: 分式分母为零")
	}
	if r.N.IsZero() {
		return RatZero()
	}
	// 分母为常数时折入分子
	if n, ok := r.D.(*Num); ok {
		return Rat{N: Mul(numInv(n), r.N), D: One()}
	}
	// 相同表达式直接消去
	if r.N.Equal(r.D) {
		return Rat{N: One(), D: One()}
	}
	// 消去分子分母共有的积式因子
	if n, d, ok := cancelFactors(r.N, r.D); ok {
		return Rat{N: n, D: d}.reduce()
	}
	// 单变量数值系数多项式约分
	if name, ok := soleVar(r.N, r.D); ok {
		np, okN := numPolyIn(r.N, name)
		dp, okD := numPolyIn(r.D, name)
		if okN && okD && len(np) > 0 && len(dp) > 0 {
			g := numPolyGCD(np, dp)
			if len(g) > 1 { // 非常数公因式
				qn, _ := numPolyDivMod(np, g)
				qd, _ := numPolyDivMod(dp, g)
				return Rat{N: qn.expr(name), D: qd.expr(name)}.reduce()
			}
		}
	}
	return r
}

// cancelFactors 消去两个表达式共有的积式基因子，返回是否发生了消去
func cancelFactors(n, d Expr) (Expr, Expr, bool) {
	nf := productFactors(n)
	df := productFactors(d)
	cancelled := false
	for k, ne := range nf {
		de, ok := df[k]
		if !ok || k[0] == '#' { // 数值系数不动
			continue
		}
		m := min(ne.exp, de.exp)
		if m <= 0 {
			continue
		}
		ne.exp -= m
		de.exp -= m
		nf[k], df[k] = ne, de
		cancelled = true
	}
	if !cancelled {
		return n, d, false
	}
	return rebuildProduct(nf), rebuildProduct(df), true
}

type factorExp struct {
	base Expr
	exp  int
}

// productFactors 把表达式拆为基因子 → 幂 的映射
func productFactors(e Expr) map[string]factorExp {
	out := map[string]factorExp{}
	add := func(base Expr, n int) {
		k := base.key()
		fe := out[k]
		fe.base = base
		fe.exp += n
		out[k] = fe
	}
	switch t := e.(type) {
	case *Product:
		for _, f := range t.factors {
			if pw, ok := f.(*Power); ok {
				add(pw.base, pw.exp)
			} else {
				add(f, 1)
			}
		}
	case *Power:
		add(t.base, t.exp)
	default:
		add(e, 1)
	}
	return out
}

func rebuildProduct(fs map[string]factorExp) Expr {
	args := []Expr{}
	for _, fe := range fs {
		if fe.exp != 0 {
			args = append(args, Pow(fe.base, fe.exp))
		}
	}
	return Mul(args...)
}

// soleVar 分子分母合计只含一个符号时返回该符号名
func soleVar(n, d Expr) (string, bool) {
	set := map[string]struct{}{}
	n.vars(set)
	d.vars(set)
	if len(set) != 1 {
		return "", false
	}
	for k := range set {
		return k, true
	}
	return "", false
}
