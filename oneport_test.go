package lcapy

import (
	"math/cmplx"
	"testing"

	"lcapy/expr"
	"lcapy/types"
)

func approx(t *testing.T, got complex128, want complex128) {
	t.Helper()
	if cmplx.Abs(got-want) > 1e-9 {
		t.Errorf("数值不正确: 期望 %v, 实际 %v", want, got)
	}
}

// TestOnePortThevenin 测试戴维南/诺顿端口量。
func TestOnePortThevenin(t *testing.T) {
	p := Ser(Vdc(expr.Int(10)), R(expr.Int(2)))

	voc, err := p.Voc()
	if err != nil {
		t.Fatal(err)
	}
	v, err := voc.Eval(nil)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, v, 10)

	isc, err := p.Isc()
	if err != nil {
		t.Fatal(err)
	}
	i, err := isc.Eval(nil)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, i, 5)

	z, err := p.Z()
	if err != nil {
		t.Fatal(err)
	}
	zv, err := z.Eval(map[string]complex128{types.LaplaceVar: 3})
	if err != nil {
		t.Fatal(err)
	}
	approx(t, zv, 2)

	// Voc = Z * Isc
	approx(t, v, zv*i)

	y, err := p.Y()
	if err != nil {
		t.Fatal(err)
	}
	yv, err := y.Eval(map[string]complex128{types.LaplaceVar: 3})
	if err != nil {
		t.Fatal(err)
	}
	approx(t, yv, 0.5)
}

// TestOnePortPredicates 测试展开电路的模式判定。
func TestOnePortPredicates(t *testing.T) {
	if p := Ser(Vdc(expr.Int(10)), R(expr.Int(2))); !p.IsDC() {
		t.Error("期望直流电路判定")
	}
	if p := Ser(Vac(expr.Int(4), nil, expr.Int(100)), R(expr.Int(2))); !p.IsAC() {
		t.Error("期望相量电路判定")
	}
	if p := Ser(Vstep(expr.Int(5)), R(expr.Int(2)), C(expr.Int(1))); !p.IsCausal() {
		t.Error("期望因果电路判定")
	}
	if p := Par(LIC(expr.Int(2), expr.Int(3)), R(expr.Int(2))); !p.IsIVP() {
		t.Error("期望初值问题判定")
	}
}

// TestOnePortComposition 测试组合路径无关性: 不同嵌套展开为同一网表。
func TestOnePortComposition(t *testing.T) {
	r1, r2, r3 := expr.Int(1), expr.Int(2), expr.Int(3)
	a := Ser(R(r1), Ser(R(r2), R(r3)))
	b := Ser(Ser(R(r1), R(r2)), R(r3))

	na, err := a.Circuit().Netlist()
	if err != nil {
		t.Fatal(err)
	}
	nb, err := b.Circuit().Netlist()
	if err != nil {
		t.Fatal(err)
	}
	if na != nb {
		t.Errorf("网表不一致: %q 与 %q", na, nb)
	}

	pa := Par(R(r1), Par(R(r2), R(r3)))
	pb := Par(Par(R(r1), R(r2)), R(r3))
	if len(pa.sub) != 3 || len(pb.sub) != 3 {
		t.Errorf("并联组未展平: %d 与 %d", len(pa.sub), len(pb.sub))
	}
}

// TestOnePortSimplify 测试同类元件的串并联合并。
func TestOnePortSimplify(t *testing.T) {
	// 串联电阻相加
	p, err := Ser(R(expr.Int(2)), R(expr.Int(4))).Simplify()
	if err != nil {
		t.Fatal(err)
	}
	if p.kind != opLeaf {
		t.Fatal("期望合并为单个电阻")
	}
	if !p.el.Value.Equal(expr.Int(6)) {
		t.Errorf("合并值不正确: 期望 6, 实际 %s", p.el.Value)
	}

	// 并联电阻积除以和
	p, err = Par(R(expr.Int(3)), R(expr.Int(6))).Simplify()
	if err != nil {
		t.Fatal(err)
	}
	if p.kind != opLeaf || !p.el.Value.Equal(expr.Int(2)) {
		t.Errorf("并联合并不正确: 期望 2 欧电阻, 实际 %v", p)
	}

	// 串联直流电压源相加
	p, err = Ser(Vdc(expr.Int(4)), Vdc(expr.Int(6))).Simplify()
	if err != nil {
		t.Fatal(err)
	}
	if p.kind != opLeaf || !p.el.Value.Equal(expr.Int(10)) {
		t.Errorf("串联合并不正确: 期望 10 伏源, 实际 %v", p)
	}

	// 初值一致的串联电感合并并保留初值
	p, err = Ser(LIC(expr.Int(1), expr.Int(2)), LIC(expr.Int(3), expr.Int(2))).Simplify()
	if err != nil {
		t.Fatal(err)
	}
	if p.kind != opLeaf || !p.el.Value.Equal(expr.Int(4)) {
		t.Errorf("串联合并不正确: 期望 4 亨电感, 实际 %v", p)
	}
	if !p.el.HasIC() || !p.el.IC.Equal(expr.Int(2)) {
		t.Errorf("初始电流不正确: 期望 2, 实际 %v", p.el.IC)
	}

	// 并联电感初值求和
	p, err = Par(LIC(expr.Int(2), expr.Int(1)), LIC(expr.Int(2), expr.Int(3))).Simplify()
	if err != nil {
		t.Fatal(err)
	}
	if p.kind != opLeaf || !p.el.IC.Equal(expr.Int(4)) {
		t.Errorf("初始电流求和不正确: 期望 4, 实际 %v", p.el.IC)
	}
}

// TestOnePortSimplifyConflict 测试初值矛盾的合并报错。
func TestOnePortSimplifyConflict(t *testing.T) {
	if _, err := Ser(LIC(expr.Int(1), expr.Int(2)), LIC(expr.Int(1), expr.Int(3))).Simplify(); err == nil {
		t.Error("期望串联电感初值矛盾报错, 实际无错误")
	}
	if _, err := Par(CIC(expr.Int(1), expr.Int(2)), CIC(expr.Int(1), expr.Int(3))).Simplify(); err == nil {
		t.Error("期望并联电容初值矛盾报错, 实际无错误")
	}
}

// TestOnePortLadder 测试 L 形与梯形网络的传递函数。
func TestOnePortLadder(t *testing.T) {
	// RC 低通: H = (1/sC)/(R+1/sC) = 1/(2s+1), s=1 处为 1/3
	c, out := LSection(R(expr.Int(2)), C(expr.Int(1)))
	h, err := c.Transfer("1", "0", out, "0")
	if err != nil {
		t.Fatal(err)
	}
	v, err := h.Eval(map[string]complex128{types.LaplaceVar: 1})
	if err != nil {
		t.Fatal(err)
	}
	approx(t, v, complex(1.0/3.0, 0))

	// 三臂梯形: 末串臂空载无电流, 输出即分压点电压 1/2
	c, out = Ladder(R(expr.Int(1)), R(expr.Int(1)), R(expr.Int(1)))
	h, err = c.Transfer("1", "0", out, "0")
	if err != nil {
		t.Fatal(err)
	}
	v, err = h.Eval(map[string]complex128{types.LaplaceVar: 1})
	if err != nil {
		t.Fatal(err)
	}
	approx(t, v, 0.5)
}

// TestOnePortRC 测试阶跃 RC 网络的电容电压。
// 电容与 V-R 支路并联构成回路，端口本身开路。
func TestOnePortRC(t *testing.T) {
	c := Par(Ser(Vstep(expr.Int(5)), R(expr.Int(2))), C(expr.Int(1))).Circuit()
	if !c.IsCausal() {
		t.Fatal("期望因果电路判定")
	}
	// 电容电压 5/(s(2s+1)) 在 s=1 处为 5/3
	r, err := c.ElementVoltage("C1")
	if err != nil {
		t.Fatal(err)
	}
	v, err := r.Eval(map[string]complex128{types.LaplaceVar: 1})
	if err != nil {
		t.Fatal(err)
	}
	approx(t, v, complex(5.0/3.0, 0))
}
