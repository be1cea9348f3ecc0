package graph

import (
	"errors"
	"testing"

	"lcapy/element"
	"lcapy/expr"
	"lcapy/types"
)

func mustGraph(t *testing.T, cfg Config, els ...*element.Element) *Graph {
	t.Helper()
	g, err := New(cfg, els...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// TestClassifyDC 直流源电路判为直流模式。
func TestClassifyDC(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewVoltageSource("V1", "1", "0", types.WaveformDC, expr.Symbol("V1")),
		element.NewResistor("R1", "1", "2", expr.Symbol("R1")),
		element.NewInductor("L1", "2", "0", expr.Symbol("L1"), nil),
	)
	m := Classify(g)
	if !m.IsDC() {
		t.Errorf("分类不正确: 期望 dc, 实际 %s", m)
	}
	if m.IsIVP() || m.IsAC() || m.IsCausal() {
		t.Error("直流模式下谓词判定不一致")
	}

	// 无初值的电容不改变直流判定
	g = mustGraph(t, Config{},
		element.NewVoltageSource("V1", "1", "0", types.WaveformDC, expr.Int(4)),
		element.NewResistor("R1", "1", "2", expr.Int(1)),
		element.NewCapacitor("C1", "2", "0", expr.Int(2), nil),
	)
	if m = Classify(g); !m.IsDC() {
		t.Errorf("无初值电容不应改变直流判定: 实际 %s", m)
	}
}

// TestClassifyAC 同频交流源电路判为相量模式。
func TestClassifyAC(t *testing.T) {
	omega := expr.Symbol(types.DefaultOmega)
	g := mustGraph(t, Config{},
		element.NewACVoltageSource("V1", "1", "0", expr.Symbol("V1"), omega, nil),
		element.NewResistor("R1", "1", "2", expr.Symbol("R1")),
		element.NewInductor("L1", "2", "0", expr.Symbol("L1"), nil),
	)
	m := Classify(g)
	if !m.IsAC() {
		t.Fatalf("分类不正确: 期望 ac, 实际 %s", m)
	}
	if !m.Omega.Equal(omega) {
		t.Errorf("角频率不正确: 期望 %s, 实际 %s", omega, m.Omega)
	}

	// 储能元件携带初值时不再是相量模式
	g = mustGraph(t, Config{},
		element.NewACVoltageSource("V1", "1", "0", expr.Symbol("V1"), omega, nil),
		element.NewResistor("R1", "1", "2", expr.Symbol("R1")),
		element.NewCapacitor("C1", "2", "0", expr.Int(1), expr.Int(2)),
	)
	if m = Classify(g); m.IsAC() || !m.IsIVP() {
		t.Errorf("含初值电容分类不正确: 期望 laplace-ivp, 实际 %s", m)
	}
}

// TestClassifyMixedFrequency 不同频率的交流源无法直接分类。
func TestClassifyMixedFrequency(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewACVoltageSource("V1", "1", "0", expr.Int(4), expr.Int(100), nil),
		element.NewResistor("R1", "1", "2", expr.Int(5)),
		element.NewACCurrentSource("I1", "2", "0", expr.Int(1), expr.Int(200), nil),
		element.NewResistor("R2", "2", "0", expr.Int(5)),
	)
	m := Classify(g)
	if m.IsValid() {
		t.Fatalf("分类不正确: 期望无效, 实际 %s", m)
	}
	if !errors.Is(m.Err, ErrMixedFrequency) {
		t.Errorf("错误类型不正确: 期望混频错误, 实际 %v", m.Err)
	}
}

// TestClassifyCausal 阶跃源且无显式初值的电路判为拉普拉斯模式。
// 显式零初值会命中初值问题规则，此处初值须缺省。
func TestClassifyCausal(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewVoltageSource("V1", "1", "0", types.WaveformStep, expr.Int(5)),
		element.NewResistor("R1", "1", "2", expr.Int(2)),
		element.NewCapacitor("C1", "2", "0", expr.Int(1), nil),
	)
	m := Classify(g)
	if !m.IsCausal() {
		t.Errorf("分类不正确: 期望 laplace, 实际 %s", m)
	}
}

// TestClassifyIVP 储能元件全部携带显式初值时判为初值问题，
// 即使初值为零、源为直流。
func TestClassifyIVP(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewVoltageSource("V1", "1", "0", types.WaveformDC, expr.Int(4)),
		element.NewResistor("R1", "1", "2", expr.Int(1)),
		element.NewCapacitor("C1", "2", "0", expr.Int(2), expr.Int(0)),
	)
	m := Classify(g)
	if !m.IsIVP() {
		t.Fatalf("分类不正确: 期望 laplace-ivp, 实际 %s", m)
	}
	if !m.KillSources {
		t.Error("完整初值问题应断开独立源")
	}
	if m.IsDC() {
		t.Error("显式零初值应排除直流判定")
	}
}

// TestClassifyPartialIC 初值不完整时判为无效并指明原因。
func TestClassifyPartialIC(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewVoltageSource("V1", "1", "0", types.WaveformDC, expr.Int(4)),
		element.NewInductor("L1", "1", "2", expr.Int(1), expr.Int(1)),
		element.NewCapacitor("C1", "2", "0", expr.Int(2), nil),
	)
	m := Classify(g)
	if m.IsValid() {
		t.Fatalf("分类不正确: 期望无效, 实际 %s", m)
	}
	if !errors.Is(m.Err, ErrPartialIC) {
		t.Errorf("错误类型不正确: 期望初值不完整错误, 实际 %v", m.Err)
	}
}

// TestClassifyInconsistentIC 同一支路重复给定不一致初值时报矛盾。
func TestClassifyInconsistentIC(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewCapacitor("C1", "1", "0", expr.Int(1), expr.Int(2)),
		element.NewCapacitor("C2", "1", "0", expr.Int(1), expr.Int(3)),
		element.NewResistor("R1", "1", "0", expr.Int(1)),
	)
	m := Classify(g)
	if m.IsValid() {
		t.Fatalf("分类不正确: 期望无效, 实际 %s", m)
	}
	if !errors.Is(m.Err, ErrInconsistentIC) {
		t.Errorf("错误类型不正确: 期望初值矛盾错误, 实际 %v", m.Err)
	}
}

// TestClassifyMixedSources 直流与交流源混合时报叠加需求。
func TestClassifyMixedSources(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewVoltageSource("V1", "1", "0", types.WaveformDC, expr.Int(4)),
		element.NewResistor("R1", "1", "2", expr.Int(5)),
		element.NewACCurrentSource("I1", "2", "0", expr.Int(1), expr.Int(100), nil),
		element.NewResistor("R2", "2", "0", expr.Int(5)),
	)
	m := Classify(g)
	if m.IsValid() {
		t.Fatalf("分类不正确: 期望无效, 实际 %s", m)
	}
	if !errors.Is(m.Err, ErrMixedSources) {
		t.Errorf("错误类型不正确: 期望混合源错误, 实际 %v", m.Err)
	}
}

// TestClassifySwitched 开关标记电路判为 t>=0 的初值问题，源保持。
func TestClassifySwitched(t *testing.T) {
	g := mustGraph(t, Config{Switched: true},
		element.NewVoltageSource("V1", "1", "0", types.WaveformDC, expr.Int(4)),
		element.NewResistor("R1", "1", "2", expr.Int(1)),
		element.NewCapacitor("C1", "2", "0", expr.Int(2), expr.Int(1)),
		element.NewInductor("L1", "2", "0", expr.Int(1), nil),
	)
	m := Classify(g)
	if !m.IsIVP() {
		t.Fatalf("分类不正确: 期望 laplace-ivp, 实际 %s", m)
	}
	if m.KillSources {
		t.Error("开关场景独立源应保持接入")
	}

	// 混频交流源不满足相量规则，开关标记仍应命中初值规则
	g = mustGraph(t, Config{Switched: true},
		element.NewACVoltageSource("V1", "1", "0", expr.Int(4), expr.Int(100), nil),
		element.NewResistor("R1", "1", "2", expr.Int(5)),
		element.NewACCurrentSource("I1", "2", "0", expr.Int(1), expr.Int(200), nil),
		element.NewResistor("R2", "2", "0", expr.Int(5)),
	)
	if m = Classify(g); !m.IsIVP() {
		t.Errorf("混频开关电路分类不正确: 期望 laplace-ivp, 实际 %s", m)
	}
}

// TestClassifyNoSources 无独立源电路无法分类。
func TestClassifyNoSources(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewResistor("R1", "1", "0", expr.Int(1)),
		element.NewResistor("R2", "1", "0", expr.Int(2)),
	)
	m := Classify(g)
	if m.IsValid() {
		t.Fatalf("分类不正确: 期望无效, 实际 %s", m)
	}
	if !errors.Is(m.Err, ErrNoSources) {
		t.Errorf("错误类型不正确: 期望无源错误, 实际 %v", m.Err)
	}
}

// TestClassifyCausalNonzeroIC 因果源与非零预初始条件矛盾。
func TestClassifyCausalNonzeroIC(t *testing.T) {
	g := mustGraph(t, Config{},
		element.NewVoltageSource("V1", "1", "0", types.WaveformStep, expr.Int(5)),
		element.NewResistor("R1", "1", "2", expr.Int(2)),
		element.NewCapacitor("C1", "2", "0", expr.Int(1), expr.Int(3)),
		element.NewInductor("L1", "2", "0", expr.Int(1), nil),
	)
	m := Classify(g)
	if m.IsValid() {
		t.Fatalf("分类不正确: 期望无效, 实际 %s", m)
	}
	if !errors.Is(m.Err, ErrCausalNonzeroIC) {
		t.Errorf("错误类型不正确: 期望因果初值矛盾错误, 实际 %v", m.Err)
	}
}
