// Package element 定义二端与受控元件模型及其在各分析域中的 MNA 加盖行为。
//
// 元件一旦加入图即不可变；派生图(灭源)生成新的元件副本而不是原地修改。
package element

import (
	"fmt"

	"lcapy/expr"
	"lcapy/types"
)

// Element 元件模型
type Element struct {
	Designator string            // 网表标号，如 "R1"
	Kind       types.ElementKind // 元件类型
	Nodes      []string          // 端子节点标签(有序)
	Value      expr.Expr         // 元件值(符号或数值常量)
	Waveform   types.Waveform    // 独立源激励波形
	Omega      expr.Expr         // AC 源角频率
	Phase      expr.Expr         // AC 源相位(弧度)
	IC         expr.Expr         // 显式初始条件: C 为 v0，L 为 i0；nil 表示未给定
	Control    string            // F/H 的控制电压源标号
	CtrlNodes  []string          // E/G 的控制节点标签
}

// NewResistor 电阻
func NewResistor(des, n1, n2 string, r expr.Expr) *Element {
	return &Element{Designator: des, Kind: types.KindResistor, Nodes: []string{n1, n2}, Value: r}
}

// NewCapacitor 电容，ic 为初始电压 v0(可为 nil)
func NewCapacitor(des, n1, n2 string, c, ic expr.Expr) *Element {
	return &Element{Designator: des, Kind: types.KindCapacitor, Nodes: []string{n1, n2}, Value: c, IC: ic}
}

// NewInductor 电感，ic 为初始电流 i0(可为 nil)
func NewInductor(des, n1, n2 string, l, ic expr.Expr) *Element {
	return &Element{Designator: des, Kind: types.KindInductor, Nodes: []string{n1, n2}, Value: l, IC: ic}
}

// NewVoltageSource 独立电压源
func NewVoltageSource(des, n1, n2 string, w types.Waveform, v expr.Expr) *Element {
	return &Element{Designator: des, Kind: types.KindVoltage, Nodes: []string{n1, n2}, Value: v, Waveform: w}
}

// NewACVoltageSource AC 电压源，omega 为角频率，phase 为相位(可为 nil)
func NewACVoltageSource(des, n1, n2 string, v, omega, phase expr.Expr) *Element {
	return &Element{
		Designator: des, Kind: types.KindVoltage, Nodes: []string{n1, n2},
		Value: v, Waveform: types.WaveformAC, Omega: omega, Phase: phase,
	}
}

// NewCurrentSource 独立电流源
func NewCurrentSource(des, n1, n2 string, w types.Waveform, i expr.Expr) *Element {
	return &Element{Designator: des, Kind: types.KindCurrent, Nodes: []string{n1, n2}, Value: i, Waveform: w}
}

// NewACCurrentSource AC 电流源
func NewACCurrentSource(des, n1, n2 string, i, omega, phase expr.Expr) *Element {
	return &Element{
		Designator: des, Kind: types.KindCurrent, Nodes: []string{n1, n2},
		Value: i, Waveform: types.WaveformAC, Omega: omega, Phase: phase,
	}
}

// NewVCVS 电压控制电压源: V(n1)-V(n2) = gain*(V(c1)-V(c2))
func NewVCVS(des, n1, n2, c1, c2 string, gain expr.Expr) *Element {
	return &Element{
		Designator: des, Kind: types.KindVCVS,
		Nodes: []string{n1, n2}, CtrlNodes: []string{c1, c2}, Value: gain,
	}
}

// NewVCCS 电压控制电流源: 注入 n1 的电流 = gain*(V(c1)-V(c2))
func NewVCCS(des, n1, n2, c1, c2 string, gain expr.Expr) *Element {
	return &Element{
		Designator: des, Kind: types.KindVCCS,
		Nodes: []string{n1, n2}, CtrlNodes: []string{c1, c2}, Value: gain,
	}
}

// NewCCCS 电流控制电流源: 注入 n1 的电流 = gain*I(ctrl)
func NewCCCS(des, n1, n2, ctrl string, gain expr.Expr) *Element {
	return &Element{
		Designator: des, Kind: types.KindCCCS,
		Nodes: []string{n1, n2}, Control: ctrl, Value: gain,
	}
}

// NewCCVS 电流控制电压源: V(n1)-V(n2) = gain*I(ctrl)
func NewCCVS(des, n1, n2, ctrl string, gain expr.Expr) *Element {
	return &Element{
		Designator: des, Kind: types.KindCCVS,
		Nodes: []string{n1, n2}, Control: ctrl, Value: gain,
	}
}

// NewShort 理想导线，灭源派生图使用
func NewShort(des, n1, n2 string) *Element {
	return &Element{Designator: des, Kind: types.KindShort, Nodes: []string{n1, n2}}
}

// IndependentSource 独立源
func (el *Element) IndependentSource() bool {
	return el.Kind == types.KindVoltage || el.Kind == types.KindCurrent
}

// Reactive 储能元件
func (el *Element) Reactive() bool {
	return el.Kind == types.KindCapacitor || el.Kind == types.KindInductor
}

// HasIC 带显式初始条件
func (el *Element) HasIC() bool { return el.IC != nil }

// NeedsVoltSource 在给定模式下需要的电压源行数。
// 独立电压源、E/H 受控源恒占一行；电感在直流下等效短路也占一行。
func (el *Element) NeedsVoltSource(mode types.AnalysisMode) int {
	switch el.Kind {
	case types.KindVoltage, types.KindVCVS, types.KindCCVS:
		return 1
	case types.KindInductor:
		if mode.IsDC() {
			return 1
		}
	}
	return 0
}

// Zeroed 返回激励置零后的副本。零值源在任何域都不产生激励，
// 但电压源保留电流未知量，置零后仍可查询其支路电流。
func (el *Element) Zeroed() *Element {
	out := *el
	out.Value = expr.Zero()
	out.Waveform = types.WaveformDC
	out.Omega = nil
	out.Phase = nil
	return &out
}

// Renamed 返回节点标签重映射后的副本
func (el *Element) Renamed(rename func(string) string) *Element {
	out := *el
	out.Nodes = renameAll(el.Nodes, rename)
	out.CtrlNodes = renameAll(el.CtrlNodes, rename)
	return &out
}

func renameAll(labels []string, rename func(string) string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = rename(l)
	}
	return out
}

// Fingerprint 结构指纹片段，与构造路径无关的内容键。
func (el *Element) Fingerprint() string {
	ic := ""
	if el.IC != nil {
		ic = el.IC.String()
	}
	omega, phase := "", ""
	if el.Omega != nil {
		omega = el.Omega.String()
	}
	if el.Phase != nil {
		phase = el.Phase.String()
	}
	value := ""
	if el.Value != nil {
		value = el.Value.String()
	}
	return fmt.Sprintf("%c|%v|%s|%s|%s|%s|%s|%v",
		el.Kind.Designator(), el.Nodes, value, el.Waveform, omega, phase, ic, el.CtrlNodes)
}

// String 网表行形式
func (el *Element) String() string {
	s := el.Designator
	for _, n := range el.Nodes {
		s += " " + n
	}
	if el.Waveform != types.WaveformNone {
		s += " " + el.Waveform.String()
	}
	for _, n := range el.CtrlNodes {
		s += " " + n
	}
	if el.Control != "" {
		s += " " + el.Control
	}
	if el.Value != nil {
		s += " " + el.Value.String()
	}
	// 交流参数序列: 幅值 [相位 [角频率]]
	if el.Waveform == types.WaveformAC && el.Omega != nil {
		if el.Phase != nil {
			s += " " + el.Phase.String()
		} else {
			s += " 0"
		}
		s += " " + el.Omega.String()
	}
	if el.IC != nil {
		s += " " + el.IC.String()
	}
	return s
}
