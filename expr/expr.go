// Package expr 实现电路求解所需的符号代数内核。
//
// 表达式为不可变结构: 常数(精确复有理数)、符号、和式、积式与整数幂。
// 构造函数在创建时完成确定性化简(展平、折叠常数、合并同类项)，
// 因此两个语义相同且结构可归一的表达式拥有相同的规范键。
package expr

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Expr 符号表达式
type Expr interface {
	String() string                                       // 可读输出
	Equal(o Expr) bool                                    // 规范键相等
	Eval(env map[string]complex128) (complex128, error)   // 数值求值
	Subst(name string, v Expr) Expr                       // 符号替换
	IsZero() bool                                         // 是否为常数零
	key() string                                          // 规范键(排序/合并用)
	vars(set map[string]struct{})                         // 收集符号名
}

// ------------------------------ 常数 ------------------------------

// Num 精确复有理常数 re + im*j
type Num struct {
	re, im *big.Rat
}

var (
	ratZero = new(big.Rat)
	ratOne  = big.NewRat(1, 1)
)

func newNum(re, im *big.Rat) *Num {
	return &Num{re: new(big.Rat).Set(re), im: new(big.Rat).Set(im)}
}

// Int 整数常数
func Int(n int64) Expr { return newNum(big.NewRat(n, 1), ratZero) }

// NewRat 有理常数 p/q
func NewRat(p, q int64) Expr {
	if q == 0 {
		panic("expr: 分母为零")
	}
	return newNum(big.NewRat(p, q), ratZero)
}

// Float 由浮点数构造常数(精确转换)
func Float(f float64) Expr {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic(fmt.Sprintf("expr: 非法浮点值 %v", f))
	}
	return newNum(r, ratZero)
}

// Rational 由任意精度有理数构造常量
func Rational(r *big.Rat) Expr { return newNum(new(big.Rat).Set(r), ratZero) }

// J 虚数单位
func J() Expr { return newNum(ratZero, ratOne) }

// Zero 常数0
func Zero() Expr { return Int(0) }

// One 常数1
func One() Expr { return Int(1) }

func (n *Num) isZero() bool { return n.re.Sign() == 0 && n.im.Sign() == 0 }
func (n *Num) isOne() bool  { return n.re.Cmp(ratOne) == 0 && n.im.Sign() == 0 }

// Complex128 常数的数值形式
func (n *Num) Complex128() complex128 {
	re, _ := n.re.Float64()
	im, _ := n.im.Float64()
	return complex(re, im)
}

func numAdd(a, b *Num) *Num {
	return &Num{re: new(big.Rat).Add(a.re, b.re), im: new(big.Rat).Add(a.im, b.im)}
}

func numNeg(a *Num) *Num {
	return &Num{re: new(big.Rat).Neg(a.re), im: new(big.Rat).Neg(a.im)}
}

func numMul(a, b *Num) *Num {
	// (a+bj)(c+dj) = ac-bd + (ad+bc)j
	ac := new(big.Rat).Mul(a.re, b.re)
	bd := new(big.Rat).Mul(a.im, b.im)
	ad := new(big.Rat).Mul(a.re, b.im)
	bc := new(big.Rat).Mul(a.im, b.re)
	return &Num{re: ac.Sub(ac, bd), im: ad.Add(ad, bc)}
}

func numInv(a *Num) *Num {
	// 1/(a+bj) = (a-bj)/(a²+b²)
	if a.isZero() {
		panic("expr: 常数除零")
	}
	d := new(big.Rat).Mul(a.re, a.re)
	d.Add(d, new(big.Rat).Mul(a.im, a.im))
	re := new(big.Rat).Quo(a.re, d)
	im := new(big.Rat).Quo(new(big.Rat).Neg(a.im), d)
	return &Num{re: re, im: im}
}

func numPow(a *Num, n int) *Num {
	if n < 0 {
		return numPow(numInv(a), -n)
	}
	out := &Num{re: new(big.Rat).Set(ratOne), im: new(big.Rat)}
	for i := 0; i < n; i++ {
		out = numMul(out, a)
	}
	return out
}

func numEqual(a, b *Num) bool { return a.re.Cmp(b.re) == 0 && a.im.Cmp(b.im) == 0 }

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

func (n *Num) String() string {
	switch {
	case n.im.Sign() == 0:
		return ratString(n.re)
	case n.re.Sign() == 0:
		return imagString(n.im)
	default:
		im := imagString(new(big.Rat).Abs(n.im))
		sign := "+"
		if n.im.Sign() < 0 {
			sign = "-"
		}
		return fmt.Sprintf("(%s %s %s)", ratString(n.re), sign, im)
	}
}

func imagString(r *big.Rat) string {
	if r.Cmp(ratOne) == 0 {
		return "j"
	}
	if new(big.Rat).Neg(r).Cmp(ratOne) == 0 {
		return "-j"
	}
	if r.IsInt() {
		return r.Num().String() + "j"
	}
	return "(" + r.RatString() + ")j"
}

func (n *Num) Equal(o Expr) bool { return n.key() == o.key() }
func (n *Num) IsZero() bool      { return n.isZero() }
func (n *Num) key() string       { return "#" + n.re.RatString() + "," + n.im.RatString() }

func (n *Num) Eval(map[string]complex128) (complex128, error) { return n.Complex128(), nil }
func (n *Num) Subst(string, Expr) Expr                        { return n }
func (n *Num) vars(map[string]struct{})                       {}

// ------------------------------ 符号 ------------------------------

// Sym 符号变量
type Sym struct {
	name string
}

// Symbol 构造符号
func Symbol(name string) Expr {
	if name == "" {
		panic("expr: 符号名为空")
	}
	return &Sym{name: name}
}

// Name 符号名
func (s *Sym) Name() string { return s.name }

func (s *Sym) String() string    { return s.name }
func (s *Sym) Equal(o Expr) bool { return s.key() == o.key() }
func (s *Sym) IsZero() bool      { return false }
func (s *Sym) key() string       { return "$" + s.name }

func (s *Sym) Eval(env map[string]complex128) (complex128, error) {
	v, ok := env[s.name]
	if !ok {
		return 0, fmt.Errorf("未定义符号: %s", s.name)
	}
	return v, nil
}

func (s *Sym) Subst(name string, v Expr) Expr {
	if s.name == name {
		return v
	}
	return s
}

func (s *Sym) vars(set map[string]struct{}) { set[s.name] = struct{}{} }

// ------------------------------ 和式 ------------------------------

// Sum 和式。项已按规范键排序，常数项折叠在首位。
type Sum struct {
	terms []Expr
}

// Add 构造和式并化简
func Add(args ...Expr) Expr {
	c := &Num{re: new(big.Rat), im: new(big.Rat)}
	merged := map[string]*Num{} // 基项键 → 合并系数
	bases := map[string]Expr{}
	var flat func(e Expr)
	flat = func(e Expr) {
		switch t := e.(type) {
		case *Sum:
			for _, x := range t.terms {
				flat(x)
			}
		case *Num:
			c = numAdd(c, t)
		default:
			coeff, base := splitCoeff(e)
			k := base.key()
			if old, ok := merged[k]; ok {
				merged[k] = numAdd(old, coeff)
			} else {
				merged[k] = coeff
				bases[k] = base
			}
		}
	}
	for _, a := range args {
		flat(a)
	}
	keys := make([]string, 0, len(merged))
	for k, co := range merged {
		if !co.isZero() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	terms := make([]Expr, 0, len(keys)+1)
	if !c.isZero() {
		terms = append(terms, c)
	}
	for _, k := range keys {
		terms = append(terms, scaleTerm(merged[k], bases[k]))
	}
	switch len(terms) {
	case 0:
		return Zero()
	case 1:
		return terms[0]
	}
	return &Sum{terms: terms}
}

// Sub 差
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Neg 取负
func Neg(a Expr) Expr { return Mul(Int(-1), a) }

func (s *Sum) String() string {
	var b strings.Builder
	for i, t := range s.terms {
		neg, abs := negTerm(t)
		if i == 0 {
			if neg {
				b.WriteString("-")
			}
		} else {
			if neg {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		}
		b.WriteString(abs.String())
	}
	return b.String()
}

func (s *Sum) Equal(o Expr) bool { return s.key() == o.key() }
func (s *Sum) IsZero() bool      { return false }

func (s *Sum) key() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.key()
	}
	return "+(" + strings.Join(parts, ",") + ")"
}

func (s *Sum) Eval(env map[string]complex128) (complex128, error) {
	var out complex128
	for _, t := range s.terms {
		v, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		out += v
	}
	return out, nil
}

func (s *Sum) Subst(name string, v Expr) Expr {
	args := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		args[i] = t.Subst(name, v)
	}
	return Add(args...)
}

func (s *Sum) vars(set map[string]struct{}) {
	for _, t := range s.terms {
		t.vars(set)
	}
}

// ------------------------------ 积式 ------------------------------

// Product 积式。因子已按规范键排序，数值系数折叠在首位。
type Product struct {
	factors []Expr
}

// Mul 构造积式并化简
func Mul(args ...Expr) Expr {
	c := &Num{re: new(big.Rat).Set(ratOne), im: new(big.Rat)}
	exps := map[string]int{} // 基因子键 → 幂
	bases := map[string]Expr{}
	var flat func(e Expr, n int)
	flat = func(e Expr, n int) {
		switch t := e.(type) {
		case *Product:
			for _, x := range t.factors {
				flat(x, n)
			}
		case *Power:
			flat(t.base, t.exp*n)
		case *Num:
			c = numMul(c, numPow(t, n))
		default:
			k := e.key()
			exps[k] += n
			bases[k] = e
		}
	}
	for _, a := range args {
		flat(a, 1)
	}
	if c.isZero() {
		return Zero()
	}
	keys := make([]string, 0, len(exps))
	for k, n := range exps {
		if n != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	factors := make([]Expr, 0, len(keys)+1)
	if !c.isOne() {
		factors = append(factors, c)
	}
	for _, k := range keys {
		if n := exps[k]; n == 1 {
			factors = append(factors, bases[k])
		} else {
			factors = append(factors, &Power{base: bases[k], exp: exps[k]})
		}
	}
	switch len(factors) {
	case 0:
		return One()
	case 1:
		return factors[0]
	}
	return &Product{factors: factors}
}

// Div 商，表示为 a*b^-1
func Div(a, b Expr) Expr { return Mul(a, Pow(b, -1)) }

func (p *Product) String() string {
	var numParts, denParts []string
	for _, f := range p.factors {
		if pw, ok := f.(*Power); ok && pw.exp < 0 {
			inv := Expr(pw.base)
			if pw.exp != -1 {
				inv = &Power{base: pw.base, exp: -pw.exp}
			}
			denParts = append(denParts, factorString(inv))
			continue
		}
		numParts = append(numParts, factorString(f))
	}
	num := "1"
	if len(numParts) > 0 {
		num = strings.Join(numParts, "*")
	}
	if len(denParts) == 0 {
		return num
	}
	den := strings.Join(denParts, "*")
	if len(denParts) > 1 {
		den = "(" + den + ")"
	}
	return num + "/" + den
}

func factorString(f Expr) string {
	switch t := f.(type) {
	case *Sum:
		return "(" + t.String() + ")"
	case *Num:
		if t.re.Sign() < 0 || t.im.Sign() != 0 {
			return "(" + t.String() + ")"
		}
	}
	return f.String()
}

func (p *Product) Equal(o Expr) bool { return p.key() == o.key() }
func (p *Product) IsZero() bool      { return false }

func (p *Product) key() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		parts[i] = f.key()
	}
	return "*(" + strings.Join(parts, ",") + ")"
}

func (p *Product) Eval(env map[string]complex128) (complex128, error) {
	out := complex128(1)
	for _, f := range p.factors {
		v, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		out *= v
	}
	return out, nil
}

func (p *Product) Subst(name string, v Expr) Expr {
	args := make([]Expr, len(p.factors))
	for i, f := range p.factors {
		args[i] = f.Subst(name, v)
	}
	return Mul(args...)
}

func (p *Product) vars(set map[string]struct{}) {
	for _, f := range p.factors {
		f.vars(set)
	}
}

// ------------------------------ 幂 ------------------------------

// Power 整数幂。负幂表示除法。
type Power struct {
	base Expr
	exp  int
}

// Pow 构造幂并化简
func Pow(base Expr, n int) Expr {
	switch {
	case n == 0:
		return One()
	case n == 1:
		return base
	}
	switch t := base.(type) {
	case *Num:
		return numPow(t, n)
	case *Power:
		return Pow(t.base, t.exp*n)
	case *Product:
		args := make([]Expr, len(t.factors))
		for i, f := range t.factors {
			args[i] = Pow(f, n)
		}
		return Mul(args...)
	}
	return &Power{base: base, exp: n}
}

func (p *Power) String() string {
	if p.exp < 0 {
		return "1/" + (&Power{base: p.base, exp: -p.exp}).stringAbs()
	}
	return p.stringAbs()
}

func (p *Power) stringAbs() string {
	if p.exp == 1 {
		return factorString(p.base)
	}
	return fmt.Sprintf("%s^%d", factorString(p.base), p.exp)
}

func (p *Power) Equal(o Expr) bool { return p.key() == o.key() }
func (p *Power) IsZero() bool      { return false }
func (p *Power) key() string       { return fmt.Sprintf("^(%s,%d)", p.base.key(), p.exp) }

func (p *Power) Eval(env map[string]complex128) (complex128, error) {
	b, err := p.base.Eval(env)
	if err != nil {
		return 0, err
	}
	n := p.exp
	if n < 0 {
		if b == 0 {
			return 0, fmt.Errorf("求值除零: %s", p.base)
		}
		b = 1 / b
		n = -n
	}
	out := complex128(1)
	for i := 0; i < n; i++ {
		out *= b
	}
	return out, nil
}

func (p *Power) Subst(name string, v Expr) Expr {
	return Pow(p.base.Subst(name, v), p.exp)
}

func (p *Power) vars(set map[string]struct{}) { p.base.vars(set) }

// ------------------------------ 辅助 ------------------------------

// splitCoeff 拆分项的数值系数与基项
func splitCoeff(e Expr) (*Num, Expr) {
	one := &Num{re: new(big.Rat).Set(ratOne), im: new(big.Rat)}
	p, ok := e.(*Product)
	if !ok {
		return one, e
	}
	n, ok := p.factors[0].(*Num)
	if !ok {
		return one, e
	}
	rest := p.factors[1:]
	if len(rest) == 1 {
		return n, rest[0]
	}
	return n, &Product{factors: rest}
}

// scaleTerm 系数乘基项，保持规范形式
func scaleTerm(c *Num, base Expr) Expr {
	if c.isOne() {
		return base
	}
	if p, ok := base.(*Product); ok {
		factors := make([]Expr, 0, len(p.factors)+1)
		factors = append(factors, c)
		factors = append(factors, p.factors...)
		return &Product{factors: factors}
	}
	return &Product{factors: []Expr{c, base}}
}

// negTerm 判断项是否带负号并返回其绝对值形式
func negTerm(e Expr) (bool, Expr) {
	switch t := e.(type) {
	case *Num:
		if t.re.Sign() < 0 && t.im.Sign() == 0 {
			return true, numNeg(t)
		}
	case *Product:
		if n, ok := t.factors[0].(*Num); ok && n.re.Sign() < 0 && n.im.Sign() == 0 {
			return true, scaleTerm(numNeg(n), mustBase(t))
		}
	}
	return false, e
}

func mustBase(p *Product) Expr {
	_, base := splitCoeff(p)
	return base
}

// Symbols 返回表达式中出现的符号名(已排序)
func Symbols(e Expr) []string {
	set := map[string]struct{}{}
	e.vars(set)
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Const 若表达式为常数则返回其数值
func Const(e Expr) (complex128, bool) {
	if n, ok := e.(*Num); ok {
		return n.Complex128(), true
	}
	return 0, false
}
