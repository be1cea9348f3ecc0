package element

import (
	"errors"
	"fmt"
	"math"

	"lcapy/expr"
	"lcapy/types"
)

// ErrZeroValue 零值电阻或电感无法加盖: 导纳为其倒数。
// 理想导线需用 W 元件表达。
var ErrZeroValue = errors.New("零值元件无法加盖")

// Stamper MNA 加盖接口，由求解器实现。
// 低层约定与数值 MNA 相同: StampCurrentSource(n1,n2,i) 表示电流经源内部
// 由 n1 流向 n2；StampVoltageSource 约束 V(n1)-V(n2)=v 并引入电流未知量。
type Stamper interface {
	Node(label string) types.NodeID
	VoltSource(des string) types.VoltageID
	StampAdmittance(n1, n2 types.NodeID, y expr.Rat)
	StampCurrentSource(n1, n2 types.NodeID, i expr.Rat)
	StampVoltageSource(n1, n2 types.NodeID, vs types.VoltageID, v expr.Rat)
	StampVCVS(on1, on2, cn1, cn2 types.NodeID, vs types.VoltageID, gain expr.Rat)
	StampVCCS(cn1, cn2, vn1, vn2 types.NodeID, gain expr.Rat)
	StampCCCS(cn1, cn2 types.NodeID, cs types.VoltageID, gain expr.Rat)
	StampCCVS(on1, on2 types.NodeID, cs, vs types.VoltageID, gain expr.Rat)
}

// Stamp 按分析模式加盖元件的线性贡献。
// 初始条件源在此处一次性注入(等效 Norton 形式)。
func (el *Element) Stamp(st Stamper, mode types.AnalysisMode) error {
	n1 := st.Node(el.Nodes[0])
	n2 := st.Node(el.Nodes[1])
	s := expr.Symbol(types.LaplaceVar)

	switch el.Kind {
	case types.KindResistor:
		if el.Value.IsZero() {
			return fmt.Errorf("%w: %s", ErrZeroValue, el.Designator)
		}
		st.StampAdmittance(n1, n2, expr.RatDiv(expr.One(), el.Value))

	case types.KindCapacitor:
		switch {
		case mode.IsDC():
			// 直流下开路，不加盖
		case mode.IsAC():
			st.StampAdmittance(n1, n2, expr.RatOf(expr.Mul(expr.J(), mode.Omega, el.Value)))
		default:
			st.StampAdmittance(n1, n2, expr.RatOf(expr.Mul(s, el.Value)))
			if el.HasIC() {
				// 串联 v0/s 源的 Norton 等效: 并联 C*v0 电流源
				st.StampCurrentSource(n2, n1, expr.RatOf(expr.Mul(el.Value, el.IC)))
			}
		}

	case types.KindInductor:
		if el.Value.IsZero() {
			return fmt.Errorf("%w: %s", ErrZeroValue, el.Designator)
		}
		switch {
		case mode.IsDC():
			// 直流下短路: 零值电压源以保留支路电流未知量
			st.StampVoltageSource(n1, n2, st.VoltSource(el.Designator), expr.RatZero())
		case mode.IsAC():
			st.StampAdmittance(n1, n2, expr.RatDiv(expr.One(), expr.Mul(expr.J(), mode.Omega, el.Value)))
		default:
			st.StampAdmittance(n1, n2, expr.RatDiv(expr.One(), expr.Mul(s, el.Value)))
			if el.HasIC() {
				// 串联 L*i0 源的 Norton 等效: 并联 i0/s 电流源
				st.StampCurrentSource(n1, n2, expr.RatDiv(el.IC, s))
			}
		}

	case types.KindVoltage:
		v, err := el.SourceValue(mode)
		if err != nil {
			return err
		}
		st.StampVoltageSource(n1, n2, st.VoltSource(el.Designator), expr.RatOf(v))

	case types.KindCurrent:
		i, err := el.SourceValue(mode)
		if err != nil {
			return err
		}
		// 约定: 源电流注入 n+
		st.StampCurrentSource(n2, n1, expr.RatOf(i))

	case types.KindVCVS:
		c1, c2 := st.Node(el.CtrlNodes[0]), st.Node(el.CtrlNodes[1])
		st.StampVCVS(n1, n2, c1, c2, st.VoltSource(el.Designator), expr.RatOf(el.Value))

	case types.KindVCCS:
		c1, c2 := st.Node(el.CtrlNodes[0]), st.Node(el.CtrlNodes[1])
		// 输出电流注入 n+，故交换输出节点次序
		st.StampVCCS(n2, n1, c1, c2, expr.RatOf(el.Value))

	case types.KindCCCS:
		cs := st.VoltSource(el.Control)
		if cs == types.NoVoltage {
			return fmt.Errorf("受控源 %s 的控制电压源不存在: %s", el.Designator, el.Control)
		}
		st.StampCCCS(n2, n1, cs, expr.RatOf(el.Value))

	case types.KindCCVS:
		cs := st.VoltSource(el.Control)
		if cs == types.NoVoltage {
			return fmt.Errorf("受控源 %s 的控制电压源不存在: %s", el.Designator, el.Control)
		}
		st.StampCCVS(n1, n2, cs, st.VoltSource(el.Designator), expr.RatOf(el.Value))

	default:
		return fmt.Errorf("元件 %s 无法加盖: 类型 %s", el.Designator, el.Kind)
	}
	return nil
}

// SourceValue 独立源在给定分析域中的变换值。
func (el *Element) SourceValue(mode types.AnalysisMode) (expr.Expr, error) {
	// 零值源在任何域都为零，电流探针依赖此捷径
	if el.Value.IsZero() {
		return expr.Zero(), nil
	}
	s := expr.Symbol(types.LaplaceVar)
	switch {
	case mode.IsDC():
		if el.Waveform != types.WaveformDC {
			return nil, fmt.Errorf("源 %s 波形 %s 不能用于直流分析", el.Designator, el.Waveform)
		}
		return el.Value, nil

	case mode.IsAC():
		if el.Waveform != types.WaveformAC {
			return nil, fmt.Errorf("源 %s 波形 %s 不能用于相量分析", el.Designator, el.Waveform)
		}
		cosP, sinP, err := el.phaseParts()
		if err != nil {
			return nil, err
		}
		// 相量 = 幅值 * (cosφ + j*sinφ)
		return expr.Mul(el.Value, expr.Add(cosP, expr.Mul(expr.J(), sinP))), nil

	default:
		switch el.Waveform {
		case types.WaveformDC, types.WaveformStep:
			// 象函数 v/s
			return expr.Div(el.Value, s), nil
		case types.WaveformCausal, types.WaveformS:
			// 值本身即 s 域象函数
			return el.Value, nil
		case types.WaveformAC:
			// L{cos(ωt+φ)} = (s*cosφ - ω*sinφ)/(s²+ω²)
			cosP, sinP, err := el.phaseParts()
			if err != nil {
				return nil, err
			}
			omega := el.Omega
			num := expr.Sub(expr.Mul(s, cosP), expr.Mul(omega, sinP))
			den := expr.Add(expr.Pow(s, 2), expr.Pow(omega, 2))
			return expr.Mul(el.Value, expr.Div(num, den)), nil
		}
		return nil, fmt.Errorf("源 %s 波形 %s 不能用于拉普拉斯分析", el.Designator, el.Waveform)
	}
}

// phaseParts 相位的余弦与正弦。相位须为数值常量或缺省为零。
func (el *Element) phaseParts() (cosP, sinP expr.Expr, err error) {
	if el.Phase == nil || el.Phase.IsZero() {
		return expr.One(), expr.Zero(), nil
	}
	c, ok := expr.Const(el.Phase)
	if !ok {
		return nil, nil, fmt.Errorf("源 %s 的符号相位不受支持: %s", el.Designator, el.Phase)
	}
	if imag(c) != 0 {
		return nil, nil, fmt.Errorf("源 %s 的相位不是实数: %s", el.Designator, el.Phase)
	}
	return expr.Float(math.Cos(real(c))), expr.Float(math.Sin(real(c))), nil
}
