package element

import (
	"fmt"

	"lcapy/expr"
	"lcapy/types"
)

// Solution 已求解电路的查询接口，由求解器实现。
type Solution interface {
	VoltageAt(label string) (expr.Rat, error)
	SourceCurrent(des string) (expr.Rat, error)
}

// Current 元件支路电流，方向为元件内部由节点 1 流向节点 2。
// 独立源与受控源遵循关联参考方向，故理想源的电流带负号。
func (el *Element) Current(sol Solution, mode types.AnalysisMode) (expr.Rat, error) {
	dv, err := el.voltageDrop(sol)
	if err != nil {
		return expr.Rat{}, err
	}
	s := expr.Symbol(types.LaplaceVar)

	switch el.Kind {
	case types.KindResistor:
		return dv.Div(expr.RatOf(el.Value)), nil

	case types.KindCapacitor:
		switch {
		case mode.IsDC():
			return expr.RatZero(), nil
		case mode.IsAC():
			return dv.Mul(expr.RatOf(expr.Mul(expr.J(), mode.Omega, el.Value))), nil
		default:
			i := dv.Mul(expr.RatOf(expr.Mul(s, el.Value)))
			if el.HasIC() {
				i = i.Sub(expr.RatOf(expr.Mul(el.Value, el.IC)))
			}
			return i, nil
		}

	case types.KindInductor:
		switch {
		case mode.IsDC():
			return sol.SourceCurrent(el.Designator)
		case mode.IsAC():
			return dv.Div(expr.RatOf(expr.Mul(expr.J(), mode.Omega, el.Value))), nil
		default:
			i := dv.Div(expr.RatOf(expr.Mul(s, el.Value)))
			if el.HasIC() {
				i = i.Add(expr.RatDiv(el.IC, s))
			}
			return i, nil
		}

	case types.KindVoltage, types.KindVCVS, types.KindCCVS:
		return sol.SourceCurrent(el.Designator)

	case types.KindCurrent:
		v, err := el.SourceValue(mode)
		if err != nil {
			return expr.Rat{}, err
		}
		return expr.RatOf(expr.Neg(v)), nil

	case types.KindVCCS:
		dc, err := el.controlDrop(sol)
		if err != nil {
			return expr.Rat{}, err
		}
		return dc.Mul(expr.RatOf(expr.Neg(el.Value))), nil

	case types.KindCCCS:
		ic, err := sol.SourceCurrent(el.Control)
		if err != nil {
			return expr.Rat{}, err
		}
		return ic.Mul(expr.RatOf(expr.Neg(el.Value))), nil
	}
	return expr.Rat{}, fmt.Errorf("元件 %s 不支持电流查询: 类型 %s", el.Designator, el.Kind)
}

// Voltage 元件两端电压 V(n1)-V(n2)。
func (el *Element) Voltage(sol Solution) (expr.Rat, error) {
	return el.voltageDrop(sol)
}

func (el *Element) voltageDrop(sol Solution) (expr.Rat, error) {
	v1, err := sol.VoltageAt(el.Nodes[0])
	if err != nil {
		return expr.Rat{}, err
	}
	v2, err := sol.VoltageAt(el.Nodes[1])
	if err != nil {
		return expr.Rat{}, err
	}
	return v1.Sub(v2), nil
}

func (el *Element) controlDrop(sol Solution) (expr.Rat, error) {
	v1, err := sol.VoltageAt(el.CtrlNodes[0])
	if err != nil {
		return expr.Rat{}, err
	}
	v2, err := sol.VoltageAt(el.CtrlNodes[1])
	if err != nil {
		return expr.Rat{}, err
	}
	return v1.Sub(v2), nil
}
