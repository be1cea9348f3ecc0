package mna

import (
	"errors"
	"fmt"

	"lcapy/element"
	"lcapy/expr"
	"lcapy/graph"
	"lcapy/types"
)

// 求解失败原因
var (
	ErrSingular    = errors.New("MNA 矩阵奇异")
	ErrInvalidMode = errors.New("分析模式无效")
)

// Solver 单一模式下的域求解器。
// 负责模型构建: 按模式选取伴随模型加盖方程组，消元后提供电压电流查询。
type Solver struct {
	g    *graph.Graph
	mode types.AnalysisMode
	sys  *System
	vs   map[string]types.VoltageID
}

// NewSolver 构建并求解给定模式下的 MNA 方程组。
// 初值问题模式按需断开独立源;模式无效时拒绝求解。
func NewSolver(g *graph.Graph, mode types.AnalysisMode) (*Solver, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMode, mode.Err)
	}
	if mode.IsIVP() && mode.KillSources {
		killed, err := g.KillAllSources()
		if err != nil {
			return nil, err
		}
		g = killed
	}
	sv := &Solver{
		g:    g,
		mode: mode,
		vs:   map[string]types.VoltageID{},
	}
	// 电压源与受控源按添加次序分配电流未知量
	nvs := 0
	for _, el := range g.Elements() {
		if el.NeedsVoltSource(mode) > 0 {
			sv.vs[el.Designator] = types.VoltageID(nvs)
			nvs++
		}
	}
	sv.sys = NewSystem(g.NumNodes(), nvs)
	for _, el := range g.Elements() {
		if err := el.Stamp(sv, mode); err != nil {
			return nil, err
		}
	}
	if err := sv.sys.Solve(); err != nil {
		return nil, err
	}
	return sv, nil
}

// Mode 求解所在的分析模式
func (sv *Solver) Mode() types.AnalysisMode { return sv.mode }

// Graph 求解实际使用的图(初值问题下为断源图)
func (sv *Solver) Graph() *graph.Graph { return sv.g }

// ------------------------------ 加盖接口 ------------------------------

// Node 节点标签到编号。标签在图构建时已校验。
func (sv *Solver) Node(label string) types.NodeID {
	id, err := sv.g.Node(label)
	if err != nil {
		return types.Gnd
	}
	return id
}

// VoltSource 电压源电流未知量编号，不存在返回 NoVoltage。
func (sv *Solver) VoltSource(des string) types.VoltageID {
	id, ok := sv.vs[des]
	if !ok {
		return types.NoVoltage
	}
	return id
}

func (sv *Solver) StampAdmittance(n1, n2 types.NodeID, y expr.Rat) {
	sv.sys.StampAdmittance(n1, n2, y)
}

func (sv *Solver) StampCurrentSource(n1, n2 types.NodeID, i expr.Rat) {
	sv.sys.StampCurrentSource(n1, n2, i)
}

func (sv *Solver) StampVoltageSource(n1, n2 types.NodeID, vs types.VoltageID, v expr.Rat) {
	sv.sys.StampVoltageSource(n1, n2, vs, v)
}

func (sv *Solver) StampVCVS(on1, on2, cn1, cn2 types.NodeID, vs types.VoltageID, gain expr.Rat) {
	sv.sys.StampVCVS(on1, on2, cn1, cn2, vs, gain)
}

func (sv *Solver) StampVCCS(cn1, cn2, vn1, vn2 types.NodeID, gain expr.Rat) {
	sv.sys.StampVCCS(cn1, cn2, vn1, vn2, gain)
}

func (sv *Solver) StampCCCS(cn1, cn2 types.NodeID, cs types.VoltageID, gain expr.Rat) {
	sv.sys.StampCCCS(cn1, cn2, cs, gain)
}

func (sv *Solver) StampCCVS(on1, on2 types.NodeID, cs, vs types.VoltageID, gain expr.Rat) {
	sv.sys.StampCCVS(on1, on2, cs, vs, gain)
}

// ------------------------------ 结果查询 ------------------------------

// VoltageAt 节点电压
func (sv *Solver) VoltageAt(label string) (expr.Rat, error) {
	id, err := sv.g.Node(label)
	if err != nil {
		return expr.Rat{}, err
	}
	return sv.sys.GetNodeVoltage(id), nil
}

// SourceCurrent 流经电压源的电流，方向为源内部由 n+ 流向 n-。
func (sv *Solver) SourceCurrent(des string) (expr.Rat, error) {
	id, ok := sv.vs[des]
	if !ok {
		return expr.Rat{}, fmt.Errorf("元件 %s 无电流未知量", des)
	}
	return sv.sys.GetVoltageSourceCurrent(id), nil
}

// ElementCurrent 元件支路电流，方向为元件内部由节点 1 流向节点 2。
func (sv *Solver) ElementCurrent(des string) (expr.Rat, error) {
	el, err := sv.g.Element(des)
	if err != nil {
		return expr.Rat{}, err
	}
	return el.Current(sv, sv.mode)
}

// ElementVoltage 元件两端电压 V(n1)-V(n2)
func (sv *Solver) ElementVoltage(des string) (expr.Rat, error) {
	el, err := sv.g.Element(des)
	if err != nil {
		return expr.Rat{}, err
	}
	return el.Voltage(sv)
}

var _ element.Stamper = (*Solver)(nil)
var _ element.Solution = (*Solver)(nil)
