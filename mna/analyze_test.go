package mna

import (
	"testing"

	"lcapy/types"
)

func mustAnalyzer(t *testing.T, netlist string, cache *Cache) *Analyzer {
	t.Helper()
	return NewAnalyzer(mustLoad(t, netlist), cache)
}

// TestAnalyzerVocIsc 测试开路电压、短路电流与阻抗满足戴维南关系。
func TestAnalyzerVocIsc(t *testing.T) {
	an := mustAnalyzer(t, `
V1 1 0 dc 10
R1 1 2 4
R2 2 0 6`, nil)

	voc, err := an.Voc("2", "0")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := voc.Eval(nil); !approx(got, 6) {
		t.Errorf("Voc 不正确: 期望 6, 实际 %v", got)
	}

	isc, err := an.Isc("2", "0")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := isc.Eval(nil); !approx(got, 2.5) {
		t.Errorf("Isc 不正确: 期望 5/2, 实际 %v", got)
	}

	z, err := an.Impedance("2", "0")
	if err != nil {
		t.Fatal(err)
	}
	// R1 || R2 = 2.4，纯电阻网络的阻抗不含 s
	if got, _ := z.Eval(nil); !approx(got, 2.4) {
		t.Errorf("Z 不正确: 期望 12/5, 实际 %v", got)
	}

	// Voc = Z * Isc
	gv, _ := voc.Eval(nil)
	gz, _ := z.Eval(nil)
	gi, _ := isc.Eval(nil)
	if !approx(gv, gz*gi) {
		t.Errorf("戴维南关系不成立: %v != %v * %v", gv, gz, gi)
	}

	y, err := an.Admittance("2", "0")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := y.Eval(nil); !approx(got, 1/2.4) {
		t.Errorf("Y 不正确: 期望 5/12, 实际 %v", got)
	}
}

// TestAnalyzerImpedanceRLC 测试含储能元件的 s 域阻抗，
// 并验证阻抗计算忽略源与初值。
func TestAnalyzerImpedanceRLC(t *testing.T) {
	an := mustAnalyzer(t, `
V1 1 0 dc 4
R1 1 2 2
C1 2 0 1 3`, nil)

	z, err := an.Impedance("2", "0")
	if err != nil {
		t.Fatal(err)
	}
	// Z(2,0) = R || 1/(sC) = 2/(2s+1)
	for _, s := range []complex128{1, complex(0, 2)} {
		want := 2 / (2*s + 1)
		got, err := z.Eval(map[string]complex128{types.LaplaceVar: s})
		if err != nil {
			t.Fatal(err)
		}
		if !approx(got, want) {
			t.Errorf("s=%v 处不正确: 期望 %v, 实际 %v", s, want, got)
		}
	}
}

// TestAnalyzerTransfer 测试 s 域电压传递函数 1/(2s+1)。
func TestAnalyzerTransfer(t *testing.T) {
	an := mustAnalyzer(t, `
R1 1 0 1
R2 1 2 2
C1 2 0 1`, nil)

	h, err := an.Transfer("1", "0", "2", "0")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []complex128{1, 3, complex(2, 1)} {
		want := 1 / (2*s + 1)
		got, err := h.Eval(map[string]complex128{types.LaplaceVar: s})
		if err != nil {
			t.Fatal(err)
		}
		if !approx(got, want) {
			t.Errorf("s=%v 处不正确: 期望 %v, 实际 %v", s, want, got)
		}
	}
}

// TestAnalyzerSuperposition 测试叠加性质: 双直流源电路的
// 直接求解与逐源求解之和一致。
func TestAnalyzerSuperposition(t *testing.T) {
	netlist := `
V1 1 0 dc 10
R1 1 2 4
R2 2 0 6
I1 2 0 dc 2`
	an := mustAnalyzer(t, netlist, nil)

	direct, err := an.NodeVoltage("2")
	if err != nil {
		t.Fatal(err)
	}
	if !direct.Mode.IsDC() {
		t.Fatalf("分析模式不正确: 期望 dc, 实际 %s", direct.Mode)
	}

	sup, err := an.Superpose(request{kind: reqNodeVoltage, a: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(sup.Terms) != 2 {
		t.Fatalf("分项数不正确: 期望 2, 实际 %d", len(sup.Terms))
	}
	gd, _ := direct.Eval(nil)
	gs, _ := sup.Eval(nil)
	if !approx(gd, gs) {
		t.Errorf("叠加和与直接求解不一致: %v != %v", gs, gd)
	}
}

// TestAnalyzerMixedSources 测试混合源电路自动退回叠加求解，
// 分项域各自标注，合并结果提升到 s 域且仅主张 t>=0。
func TestAnalyzerMixedSources(t *testing.T) {
	an := mustAnalyzer(t, `
V1 1 0 dc 8
R1 1 2 4
I1 2 0 ac 1 0 100
R2 2 0 4`, nil)

	if an.Mode().IsValid() {
		t.Fatalf("直接分类应为无效: 实际 %s", an.Mode())
	}

	res, err := an.NodeVoltage("2")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Terms) != 2 {
		t.Fatalf("分项数不正确: 期望 2, 实际 %d", len(res.Terms))
	}
	if !res.Mode.Laplacian() {
		t.Errorf("结果域不正确: 期望 laplace, 实际 %s", res.Mode)
	}
	if res.Validity != types.ValidNonNegative {
		t.Errorf("有效域不正确: 期望 t>=0, 实际 %s", res.Validity)
	}

	// 直流分项: 分压 8*4/(4+4)=4 的阶跃象函数 4/s
	// 交流分项: L{cos(100t)} = s/(s^2+10^4) 注入 R1||R2=2
	for _, s := range []complex128{1, complex(1, 2)} {
		want := 4/s + s/(s*s+100*100)*2
		got, err := res.Eval(map[string]complex128{types.LaplaceVar: s})
		if err != nil {
			t.Fatal(err)
		}
		if !approx(got, want) {
			t.Errorf("s=%v 处不正确: 期望 %v, 实际 %v", s, want, got)
		}
	}
}

// TestAnalyzerCache 测试缓存命中: 同一请求返回同一结果，
// 构建路径不同的同构图经共享缓存复用求解。
func TestAnalyzerCache(t *testing.T) {
	cache := NewCache()
	an := mustAnalyzer(t, `
V1 1 0 dc 10
R1 1 2 4
R2 2 0 6`, cache)

	r1, err := an.NodeVoltage("2")
	if err != nil {
		t.Fatal(err)
	}
	r2, err := an.NodeVoltage("2")
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 {
		t.Error("重复请求应命中缓存")
	}
	if cache.Len() != 1 {
		t.Errorf("缓存条目数不正确: 期望 1, 实际 %d", cache.Len())
	}

	// 同构图: 元件次序不同，经导线引入别名节点
	other := mustAnalyzer(t, `
R2 2 0 6
W1 1 x
V1 x 0 dc 10
R1 1 2 4`, cache)
	r3, err := other.NodeVoltage("2")
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r3 {
		t.Error("同构图应共享缓存条目")
	}
	if cache.Len() != 1 {
		t.Errorf("同构图不应新增缓存条目: 期望 1, 实际 %d", cache.Len())
	}
}

// TestAnalyzerPartialICError 测试不完整初值的错误传播。
func TestAnalyzerPartialICError(t *testing.T) {
	an := mustAnalyzer(t, `
V1 1 0 dc 4
L1 1 2 1 1
C1 2 0 2`, nil)

	if _, err := an.NodeVoltage("2"); err == nil {
		t.Error("分类错误应向上传递")
	}
}

// TestKillSourcesCurrentQuery 测试断源图中被移除电流源的查询。
func TestKillSourcesCurrentQuery(t *testing.T) {
	g := mustLoad(t, `
V1 1 0 dc 10
R1 1 2 4
I1 2 0 dc 2
R2 2 0 6`)
	an := NewAnalyzer(g, nil)

	sup, err := an.Superpose(request{kind: reqBranchCurrent, a: "I1"})
	if err != nil {
		t.Fatal(err)
	}
	// V1 单独作用时 I1 开路贡献为零，I1 单独作用时为其源电流 -2
	got, err := sup.Eval(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, -2) {
		t.Errorf("I(I1) 不正确: 期望 -2, 实际 %v", got)
	}
}
