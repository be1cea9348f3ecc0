package lcapy

import (
	"fmt"

	"lcapy/element"
	"lcapy/expr"
	"lcapy/mna"
	"lcapy/types"
)

// 二端网络的组合方式
type opKind int

const (
	opLeaf opKind = iota // 单元件
	opSer                // 串联
	opPar                // 并联
)

// OnePort 二端网络。由元件与串并联组合构成，
// 展开为电路后端子为节点 "1"(正)与 "0"(地)。
type OnePort struct {
	kind opKind
	el   *element.Element // 叶: 标识与节点在展开时分配
	sub  []*OnePort
}

// ------------------------------ 叶构造 ------------------------------

func leaf(el *element.Element) *OnePort { return &OnePort{kind: opLeaf, el: el} }

// R 电阻
func R(v expr.Expr) *OnePort { return leaf(element.NewResistor("", "", "", v)) }

// C 电容
func C(v expr.Expr) *OnePort { return leaf(element.NewCapacitor("", "", "", v, nil)) }

// CIC 带初始电压的电容
func CIC(v, v0 expr.Expr) *OnePort { return leaf(element.NewCapacitor("", "", "", v, v0)) }

// L 电感
func L(v expr.Expr) *OnePort { return leaf(element.NewInductor("", "", "", v, nil)) }

// LIC 带初始电流的电感
func LIC(v, i0 expr.Expr) *OnePort { return leaf(element.NewInductor("", "", "", v, i0)) }

// Vdc 直流电压源
func Vdc(v expr.Expr) *OnePort {
	return leaf(element.NewVoltageSource("", "", "", types.WaveformDC, v))
}

// Vstep 阶跃电压源
func Vstep(v expr.Expr) *OnePort {
	return leaf(element.NewVoltageSource("", "", "", types.WaveformStep, v))
}

// Vac 正弦电压源
func Vac(amp, phase, omega expr.Expr) *OnePort {
	return leaf(element.NewACVoltageSource("", "", "", amp, omega, phase))
}

// Idc 直流电流源
func Idc(i expr.Expr) *OnePort {
	return leaf(element.NewCurrentSource("", "", "", types.WaveformDC, i))
}

// Istep 阶跃电流源
func Istep(i expr.Expr) *OnePort {
	return leaf(element.NewCurrentSource("", "", "", types.WaveformStep, i))
}

// Iac 正弦电流源
func Iac(amp, phase, omega expr.Expr) *OnePort {
	return leaf(element.NewACCurrentSource("", "", "", amp, omega, phase))
}

// ------------------------------ 组合 ------------------------------

// Ser 串联组合。嵌套串联展开为同层，组合路径不影响展开结果。
func Ser(ports ...*OnePort) *OnePort { return combine(opSer, ports) }

// Par 并联组合。嵌套并联展开为同层，组合路径不影响展开结果。
func Par(ports ...*OnePort) *OnePort { return combine(opPar, ports) }

func combine(kind opKind, ports []*OnePort) *OnePort {
	out := &OnePort{kind: kind}
	for _, p := range ports {
		if p.kind == kind {
			out.sub = append(out.sub, p.sub...)
		} else {
			out.sub = append(out.sub, p)
		}
	}
	if len(out.sub) == 1 {
		return out.sub[0]
	}
	return out
}

// ------------------------------ 展开 ------------------------------

// opBuilder 展开状态: 节点与标识计数
type opBuilder struct {
	els      []*element.Element
	nodeN    int
	counters map[byte]int
}

func (b *opBuilder) nextNode() string {
	b.nodeN++
	return fmt.Sprintf("n%d", b.nodeN)
}

func (b *opBuilder) place(p *OnePort, pos, neg string) {
	switch p.kind {
	case opLeaf:
		el := *p.el
		d := el.Kind.Designator()
		b.counters[d]++
		el.Designator = fmt.Sprintf("%c%d", d, b.counters[d])
		el.Nodes = []string{pos, neg}
		b.els = append(b.els, &el)
	case opSer:
		cur := pos
		for i, sub := range p.sub {
			next := neg
			if i < len(p.sub)-1 {
				next = b.nextNode()
			}
			b.place(sub, cur, next)
			cur = next
		}
	case opPar:
		for _, sub := range p.sub {
			b.place(sub, pos, neg)
		}
	}
}

// Circuit 展开为电路，端子为节点 "1" 与 "0"。
// 标识与内部节点按树的先序确定性分配。
func (p *OnePort) Circuit() *Circuit {
	b := &opBuilder{counters: map[byte]int{}}
	b.place(p, "1", "0")
	c := NewCircuit()
	c.Add(b.els...)
	return c
}

// ------------------------------ 梯形网络 ------------------------------

// Ladder 梯形网络: 首臂为串臂，其后并臂与串臂交替。
// 展开为电路，输入端口为 ("1","0")，输出端口为 (返回的节点,"0")，
// 串臂远端节点按臂序编号 "2"、"3"……
func Ladder(first *OnePort, rest ...*OnePort) (*Circuit, string) {
	b := &opBuilder{counters: map[byte]int{}}
	n := 2
	cur := fmt.Sprintf("%d", n)
	b.place(first, "1", cur)
	for i, arm := range rest {
		if i%2 == 0 {
			// 并臂接地
			b.place(arm, cur, "0")
			continue
		}
		n++
		next := fmt.Sprintf("%d", n)
		b.place(arm, cur, next)
		cur = next
	}
	c := NewCircuit()
	c.Add(b.els...)
	return c, cur
}

// LSection L 形网络: 串臂接输入端，并臂接输出端。
func LSection(series, shunt *OnePort) (*Circuit, string) {
	return Ladder(series, shunt)
}

// ------------------------------ 端口量 ------------------------------

// Voc 端子开路电压
func (p *OnePort) Voc() (*mna.Result, error) { return p.Circuit().Voc("1", "0") }

// Isc 端子短路电流
func (p *OnePort) Isc() (*mna.Result, error) { return p.Circuit().Isc("1", "0") }

// Z 端子驱动点阻抗
func (p *OnePort) Z() (*mna.Result, error) { return p.Circuit().Impedance("1", "0") }

// Y 端子驱动点导纳
func (p *OnePort) Y() (*mna.Result, error) { return p.Circuit().Admittance("1", "0") }

// Thevenin 戴维南等效: 开路电压与内阻抗。
func (p *OnePort) Thevenin() (voc, z *mna.Result, err error) {
	c := p.Circuit()
	if voc, err = c.Voc("1", "0"); err != nil {
		return nil, nil, err
	}
	if z, err = c.Impedance("1", "0"); err != nil {
		return nil, nil, err
	}
	return voc, z, nil
}

// Norton 诺顿等效: 短路电流与内导纳。
func (p *OnePort) Norton() (isc, y *mna.Result, err error) {
	c := p.Circuit()
	if isc, err = c.Isc("1", "0"); err != nil {
		return nil, nil, err
	}
	if y, err = c.Admittance("1", "0"); err != nil {
		return nil, nil, err
	}
	return isc, y, nil
}

// IsDC 展开电路为直流
func (p *OnePort) IsDC() bool { return p.Circuit().IsDC() }

// IsAC 展开电路为单频正弦稳态
func (p *OnePort) IsAC() bool { return p.Circuit().IsAC() }

// IsCausal 展开电路为因果激励零初态
func (p *OnePort) IsCausal() bool { return p.Circuit().IsCausal() }

// IsIVP 展开电路为初值问题
func (p *OnePort) IsIVP() bool { return p.Circuit().IsIVP() }

// ------------------------------ 化简 ------------------------------

// Simplify 同类元件的串并联合并。
// 储能元件携带初始条件时仅在初值相容的前提下合并:
// 串联电感须同电流，并联电容须同电压，否则报错。
func (p *OnePort) Simplify() (*OnePort, error) {
	if p.kind == opLeaf {
		return p, nil
	}
	var subs []*OnePort
	for _, s := range p.sub {
		sim, err := s.Simplify()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sim)
	}
	out := combine(p.kind, subs)
	if out.kind == opLeaf {
		return out, nil
	}
	folded, err := foldLeaves(out.kind, out.sub)
	if err != nil {
		return nil, err
	}
	return combine(out.kind, folded), nil
}

// foldLeaves 逐对合并同类叶
func foldLeaves(kind opKind, subs []*OnePort) ([]*OnePort, error) {
	var out []*OnePort
	for _, s := range subs {
		if s.kind != opLeaf {
			out = append(out, s)
			continue
		}
		merged := false
		for i, prev := range out {
			if prev.kind != opLeaf || prev.el.Kind != s.el.Kind {
				continue
			}
			m, ok, err := mergeLeaf(kind, prev.el, s.el)
			if err != nil {
				return nil, err
			}
			if ok {
				out[i] = leaf(m)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, s)
		}
	}
	return out, nil
}

// mergeLeaf 两个同类元件的串/并联合并规则
func mergeLeaf(kind opKind, a, b *element.Element) (*element.Element, bool, error) {
	recip := func(x, y expr.Expr) expr.Expr {
		return expr.Div(expr.Mul(x, y), expr.Add(x, y))
	}
	switch a.Kind {
	case types.KindResistor:
		if kind == opSer {
			return element.NewResistor("", "", "", expr.Add(a.Value, b.Value)), true, nil
		}
		return element.NewResistor("", "", "", recip(a.Value, b.Value)), true, nil

	case types.KindInductor:
		if kind == opSer {
			// 串联电感同电流，初值不等即矛盾
			ic, err := serIC(a, b, "串联电感初始电流不一致")
			if err != nil {
				return nil, false, err
			}
			return element.NewInductor("", "", "", expr.Add(a.Value, b.Value), ic), true, nil
		}
		ic := sumIC(a, b)
		return element.NewInductor("", "", "", recip(a.Value, b.Value), ic), true, nil

	case types.KindCapacitor:
		if kind == opPar {
			// 并联电容同电压，初值不等即矛盾
			ic, err := serIC(a, b, "并联电容初始电压不一致")
			if err != nil {
				return nil, false, err
			}
			return element.NewCapacitor("", "", "", expr.Add(a.Value, b.Value), ic), true, nil
		}
		ic := sumIC(a, b)
		return element.NewCapacitor("", "", "", recip(a.Value, b.Value), ic), true, nil

	case types.KindVoltage:
		if kind == opSer && a.Waveform == b.Waveform && a.Waveform != types.WaveformAC {
			return element.NewVoltageSource("", "", "", a.Waveform, expr.Add(a.Value, b.Value)), true, nil
		}

	case types.KindCurrent:
		if kind == opPar && a.Waveform == b.Waveform && a.Waveform != types.WaveformAC {
			return element.NewCurrentSource("", "", "", a.Waveform, expr.Add(a.Value, b.Value)), true, nil
		}
	}
	return nil, false, nil
}

// serIC 共享状态量的初值: 两者都给定时必须一致。
func serIC(a, b *element.Element, msg string) (expr.Expr, error) {
	switch {
	case a.HasIC() && b.HasIC():
		if !a.IC.Equal(b.IC) {
			return nil, fmt.Errorf("%s: %s != %s", msg, a.IC, b.IC)
		}
		return a.IC, nil
	case a.HasIC():
		return a.IC, nil
	case b.HasIC():
		return b.IC, nil
	}
	return nil, nil
}

// sumIC 独立状态量的初值: 求和，单边给定视另一边为零。
func sumIC(a, b *element.Element) expr.Expr {
	switch {
	case a.HasIC() && b.HasIC():
		return expr.Add(a.IC, b.IC)
	case a.HasIC():
		return a.IC
	case b.HasIC():
		return b.IC
	}
	return nil
}
