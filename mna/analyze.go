package mna

import (
	"errors"
	"fmt"

	"lcapy/element"
	"lcapy/expr"
	"lcapy/graph"
	"lcapy/types"
)

// ------------------------------ 量请求 ------------------------------

type reqKind int

const (
	reqNodeVoltage reqKind = iota
	reqBranchCurrent
	reqElementVoltage
	reqVoc
)

// request 量请求，Key 作为缓存键的一部分
type request struct {
	kind reqKind
	a, b string
}

func (r request) Key() string {
	switch r.kind {
	case reqNodeVoltage:
		return fmt.Sprintf("v(%s)", r.a)
	case reqBranchCurrent:
		return fmt.Sprintf("i(%s)", r.a)
	case reqElementVoltage:
		return fmt.Sprintf("vel(%s)", r.a)
	}
	return fmt.Sprintf("voc(%s,%s)", r.a, r.b)
}

// Analyzer 图的分析入口: 分类、求解、叠加与缓存。
// 图不可变，分类结果与消元结果均可安全复用。
type Analyzer struct {
	g      *graph.Graph
	cache  *Cache
	fp     string
	mode   *types.AnalysisMode
	solver *Solver
}

// NewAnalyzer 创建分析器。cache 可为 nil，此时使用私有缓存。
// 传入共享缓存时，结构同构的图共享求解结果。
func NewAnalyzer(g *graph.Graph, cache *Cache) *Analyzer {
	if cache == nil {
		cache = NewCache()
	}
	return &Analyzer{g: g, cache: cache, fp: g.Fingerprint()}
}

// Graph 被分析的图
func (a *Analyzer) Graph() *graph.Graph { return a.g }

// Mode 图的分析模式，惰性分类并记忆。
func (a *Analyzer) Mode() types.AnalysisMode {
	if a.mode == nil {
		m := graph.Classify(a.g)
		a.mode = &m
	}
	return *a.mode
}

// baseSolver 主模式求解器，消元一次后复用。
func (a *Analyzer) baseSolver() (*Solver, error) {
	if a.solver != nil {
		return a.solver, nil
	}
	sv, err := NewSolver(a.g, a.Mode())
	if err != nil {
		return nil, err
	}
	a.solver = sv
	return sv, nil
}

// ------------------------------ 基本量 ------------------------------

// NodeVoltage 节点电压
func (a *Analyzer) NodeVoltage(label string) (*Result, error) {
	return a.solve(request{kind: reqNodeVoltage, a: label})
}

// BranchCurrent 元件支路电流，方向为元件内部由节点 1 流向节点 2。
func (a *Analyzer) BranchCurrent(des string) (*Result, error) {
	return a.solve(request{kind: reqBranchCurrent, a: des})
}

// ElementVoltage 元件两端电压
func (a *Analyzer) ElementVoltage(des string) (*Result, error) {
	return a.solve(request{kind: reqElementVoltage, a: des})
}

// Voc 两节点间开路电压 V(a)-V(b)
func (a *Analyzer) Voc(n1, n2 string) (*Result, error) {
	return a.solve(request{kind: reqVoc, a: n1, b: n2})
}

// solve 按图模式求解请求，混合源时退回叠加，结果入缓存。
func (a *Analyzer) solve(req request) (*Result, error) {
	mode := a.Mode()
	key := fmt.Sprintf("%s|%s|%s", a.fp, mode.Key(), req.Key())
	if r, ok := a.cache.Get(key); ok {
		return r, nil
	}
	r, err := a.solveUncached(req, mode)
	if err != nil {
		return nil, err
	}
	a.cache.Put(key, r)
	return r, nil
}

func (a *Analyzer) solveUncached(req request, mode types.AnalysisMode) (*Result, error) {
	if !mode.IsValid() {
		// 混合源电路对线性系统始终可叠加求解
		if errors.Is(mode.Err, graph.ErrMixedSources) ||
			errors.Is(mode.Err, graph.ErrMixedFrequency) {
			return a.Superpose(req)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidMode, mode.Err)
	}
	sv, err := a.baseSolver()
	if err != nil {
		return nil, err
	}
	v, err := a.extract(sv, req)
	if err != nil {
		return nil, err
	}
	return newResult(v, mode), nil
}

// extract 从已求解系统中提取请求量。
// 叠加求解时被查元件可能已随断源移除: 开路电流源的电流为零。
func (a *Analyzer) extract(sv *Solver, req request) (expr.Rat, error) {
	switch req.kind {
	case reqNodeVoltage:
		return sv.VoltageAt(req.a)
	case reqBranchCurrent:
		if _, err := sv.Graph().Element(req.a); err != nil {
			if orig, oerr := a.g.Element(req.a); oerr == nil && orig.Kind == types.KindCurrent {
				return expr.RatZero(), nil
			}
			return expr.Rat{}, err
		}
		return sv.ElementCurrent(req.a)
	case reqElementVoltage:
		if _, err := sv.Graph().Element(req.a); err != nil {
			orig, oerr := a.g.Element(req.a)
			if oerr != nil {
				return expr.Rat{}, err
			}
			v1, err1 := sv.VoltageAt(orig.Nodes[0])
			if err1 != nil {
				return expr.Rat{}, err1
			}
			v2, err2 := sv.VoltageAt(orig.Nodes[1])
			if err2 != nil {
				return expr.Rat{}, err2
			}
			return v1.Sub(v2), nil
		}
		return sv.ElementVoltage(req.a)
	}
	v1, err := sv.VoltageAt(req.a)
	if err != nil {
		return expr.Rat{}, err
	}
	v2, err := sv.VoltageAt(req.b)
	if err != nil {
		return expr.Rat{}, err
	}
	return v1.Sub(v2), nil
}

// ------------------------------ 叠加求解 ------------------------------

// Superpose 逐源叠加求解: 对每个独立源构造断开其余源的导出图，
// 分别分类求解后求和。各源同域时直接相加;域不一致时统一提升到
// s 域(直流源化为阶跃象函数)，结果仅主张 t>=0。
func (a *Analyzer) Superpose(req request) (*Result, error) {
	srcs := a.g.IndependentSources()
	type part struct {
		des  string
		g    *graph.Graph
		mode types.AnalysisMode
	}
	var parts []part
	for _, des := range srcs {
		el, _ := a.g.Element(des)
		if el != nil && el.Value.IsZero() {
			continue
		}
		gk, err := a.g.KillSourcesExcept(des)
		if err != nil {
			return nil, err
		}
		mk := graph.Classify(gk)
		if !mk.IsValid() {
			return nil, fmt.Errorf("源 %s 的单源子图无法分类: %w", des, mk.Err)
		}
		parts = append(parts, part{des: des, g: gk, mode: mk})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("叠加求解: %w", graph.ErrNoSources)
	}

	// 各分项域一致时无需提升
	common := true
	for _, p := range parts[1:] {
		if p.mode.Kind != parts[0].mode.Kind {
			common = false
			break
		}
		if p.mode.Kind == types.ModeAC && !p.mode.Omega.Equal(parts[0].mode.Omega) {
			common = false
			break
		}
	}

	sum := expr.RatZero()
	out := &Result{}
	for _, p := range parts {
		mode := p.mode
		if !common {
			mode = types.Laplace()
		}
		sv, err := NewSolver(p.g, mode)
		if err != nil {
			return nil, err
		}
		v, err := a.extract(sv, req)
		if err != nil {
			return nil, err
		}
		validity := modeValidity(mode)
		if !common {
			// 非因果源提升到 s 域后仅 t>=0 成立
			validity = types.ValidNonNegative
		}
		out.Terms = append(out.Terms, Term{
			Source:   p.des,
			Mode:     mode,
			Validity: validity,
			Expr:     v.Expr(),
		})
		sum = sum.Add(v)
	}
	out.Expr = sum.Expr()
	if common {
		out.Mode = parts[0].mode
		out.Validity = modeValidity(parts[0].mode)
	} else {
		out.Mode = types.Laplace()
		out.Validity = types.ValidNonNegative
	}
	return out, nil
}

// ------------------------------ 端口量 ------------------------------

// Isc 两节点间短路电流: 注入零阻抗链路并读取其电流。
// 方向为链路内部由 a 流向 b。
func (a *Analyzer) Isc(n1, n2 string) (*Result, error) {
	mode := a.Mode()
	key := fmt.Sprintf("%s|%s|isc(%s,%s)", a.fp, mode.Key(), n1, n2)
	if r, ok := a.cache.Get(key); ok {
		return r, nil
	}
	probe := a.probeName("Psc")
	els := append([]*element.Element{}, a.g.Elements()...)
	els = append(els, element.NewVoltageSource(probe, n1, n2, types.WaveformDC, expr.Zero()))
	g2, err := graph.New(graph.Config{Ground: a.g.Ground(), Switched: a.g.Switched()}, els...)
	if err != nil {
		return nil, err
	}
	sub := NewAnalyzer(g2, a.cache)
	r, err := sub.BranchCurrent(probe)
	if err != nil {
		return nil, err
	}
	a.cache.Put(key, r)
	return r, nil
}

// probeName 不与既有元件冲突的探针标识
func (a *Analyzer) probeName(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, err := a.g.Element(name); err != nil {
			return name
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}

// deadGraph 断开全部独立源并清除初始条件的导出图，
// 用于阻抗与传递函数等仅由网络结构决定的量。
func (a *Analyzer) deadGraph(extra ...*element.Element) (*graph.Graph, error) {
	killed, err := a.g.KillAllSources()
	if err != nil {
		return nil, err
	}
	var els []*element.Element
	for _, el := range killed.Elements() {
		if el.HasIC() {
			cp := *el
			cp.IC = nil
			el = &cp
		}
		els = append(els, el)
	}
	els = append(els, extra...)
	return graph.New(graph.Config{Ground: a.g.Ground()}, els...)
}

// Impedance 两节点间的 s 域驱动点阻抗。
// 断源清初值后注入单位电流，阻抗即两节点电压差。
func (a *Analyzer) Impedance(n1, n2 string) (*Result, error) {
	key := fmt.Sprintf("%s|laplace|z(%s,%s)", a.fp, n1, n2)
	if r, ok := a.cache.Get(key); ok {
		return r, nil
	}
	v, err := a.impedanceRat(n1, n2)
	if err != nil {
		return nil, err
	}
	r := &Result{Expr: v.Expr(), Mode: types.Laplace(), Validity: types.ValidAllTime}
	a.cache.Put(key, r)
	return r, nil
}

// Admittance 两节点间的 s 域驱动点导纳，即阻抗之逆。
func (a *Analyzer) Admittance(n1, n2 string) (*Result, error) {
	key := fmt.Sprintf("%s|laplace|y(%s,%s)", a.fp, n1, n2)
	if r, ok := a.cache.Get(key); ok {
		return r, nil
	}
	v, err := a.impedanceRat(n1, n2)
	if err != nil {
		return nil, err
	}
	if v.IsZero() {
		return nil, fmt.Errorf("节点 %s-%s 间阻抗为零，导纳无定义", n1, n2)
	}
	r := &Result{Expr: v.Inv().Expr(), Mode: types.Laplace(), Validity: types.ValidAllTime}
	a.cache.Put(key, r)
	return r, nil
}

func (a *Analyzer) impedanceRat(n1, n2 string) (expr.Rat, error) {
	probe := a.probeName("Pz")
	g2, err := a.deadGraph(element.NewCurrentSource(probe, n1, n2, types.WaveformS, expr.One()))
	if err != nil {
		return expr.Rat{}, err
	}
	sv, err := NewSolver(g2, types.Laplace())
	if err != nil {
		return expr.Rat{}, err
	}
	v1, err := sv.VoltageAt(n1)
	if err != nil {
		return expr.Rat{}, err
	}
	v2, err := sv.VoltageAt(n2)
	if err != nil {
		return expr.Rat{}, err
	}
	return v1.Sub(v2), nil
}

// Transfer s 域电压传递函数 V(out)/V(in)。
// 断源清初值后在输入端施加单位 s 域电压，输出端电压差即传递比。
func (a *Analyzer) Transfer(in1, in2, out1, out2 string) (*Result, error) {
	key := fmt.Sprintf("%s|laplace|h(%s,%s,%s,%s)", a.fp, in1, in2, out1, out2)
	if r, ok := a.cache.Get(key); ok {
		return r, nil
	}
	probe := a.probeName("Ph")
	g2, err := a.deadGraph(element.NewVoltageSource(probe, in1, in2, types.WaveformS, expr.One()))
	if err != nil {
		return nil, err
	}
	sv, err := NewSolver(g2, types.Laplace())
	if err != nil {
		return nil, err
	}
	v1, err := sv.VoltageAt(out1)
	if err != nil {
		return nil, err
	}
	v2, err := sv.VoltageAt(out2)
	if err != nil {
		return nil, err
	}
	r := &Result{Expr: v1.Sub(v2).Expr(), Mode: types.Laplace(), Validity: types.ValidAllTime}
	a.cache.Put(key, r)
	return r, nil
}
