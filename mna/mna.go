// Package mna 符号改进节点分析。
// 通过一系列加盖(Stamp)操作构建方程组 Ax=Z，
// 矩阵元素为分式符号表达式，消元求解得到节点电压与支路电流。
package mna

import (
	"fmt"
	"strings"

	"lcapy/expr"
	"lcapy/types"
)

// System MNA 方程组 Ax=Z
type System struct {
	A                 [][]expr.Rat // 求解矩阵A
	Z                 []expr.Rat   // 已知向量Z
	X                 []expr.Rat   // 未知向量X (解)
	NodesNum          int          // 电路节点数量(不含地节点)
	VoltageSourcesNum int          // 独立电压源和受控源的总数量
}

// NewSystem 创建 MNA 方程组。
//
//	nodesNum: 电路节点数量(不含地节点)。
//	vsNum: 独立电压源和受控源的总数量。
func NewSystem(nodesNum, vsNum int) *System {
	n := nodesNum + vsNum // 总方程数量
	sys := &System{
		A:                 make([][]expr.Rat, n),
		Z:                 make([]expr.Rat, n),
		X:                 make([]expr.Rat, n),
		NodesNum:          nodesNum,
		VoltageSourcesNum: vsNum,
	}
	for i := range sys.A {
		sys.A[i] = make([]expr.Rat, n)
		for j := range sys.A[i] {
			sys.A[i][j] = expr.RatZero()
		}
		sys.Z[i] = expr.RatZero()
		sys.X[i] = expr.RatZero()
	}
	return sys
}

// ------------------------------ 系统信息查询 ------------------------------

// GetNodeVoltage 从解向量X中获取指定节点的电压。
func (m *System) GetNodeVoltage(i types.NodeID) expr.Rat {
	if i > types.Gnd && int(i) < m.NodesNum {
		return m.X[int(i)]
	}
	return expr.RatZero() // 地节点或无效节点返回0
}

// GetVoltageSourceCurrent 从解向量X中获取流经指定电压源的电流。
func (m *System) GetVoltageSourceCurrent(i types.VoltageID) expr.Rat {
	if int(i) > -1 && int(i) < m.VoltageSourcesNum {
		return m.X[m.NodesNum+int(i)]
	}
	return expr.RatZero() // 无效ID返回0
}

// ------------------------------ MNA矩阵操作 ------------------------------

// StampMatrix 将一个值加到矩阵A的(i,j)元素上。地节点索引将被忽略。
func (m *System) StampMatrix(i, j types.NodeID, value expr.Rat) {
	if i > types.Gnd && j > types.Gnd {
		m.A[int(i)][int(j)] = m.A[int(i)][int(j)].Add(value)
	}
}

// StampRightSide 将一个值加到向量Z的第i个元素上。地节点索引将被忽略。
func (m *System) StampRightSide(i types.NodeID, value expr.Rat) {
	if i > types.Gnd {
		m.Z[int(i)] = m.Z[int(i)].Add(value)
	}
}

// StampRightSideSet 直接设置向量Z的第i个元素的值。地节点索引将被忽略。
func (m *System) StampRightSideSet(i types.NodeID, v expr.Rat) {
	if i > types.Gnd {
		m.Z[int(i)] = v
	}
}

// ------------------------------ 无源元件加盖 ------------------------------

// StampAdmittance 为导纳元件添加MNA加盖，修改矩阵A的四个相关元素。
func (m *System) StampAdmittance(n1, n2 types.NodeID, y expr.Rat) {
	m.StampMatrix(n1, n1, y)
	m.StampMatrix(n2, n2, y)
	m.StampMatrix(n1, n2, y.Neg())
	m.StampMatrix(n2, n1, y.Neg())
}

// ------------------------------ 独立源加盖 ------------------------------

// StampCurrentSource 为独立电流源添加MNA加盖，电流经源内部由 n1 流向 n2。
func (m *System) StampCurrentSource(n1, n2 types.NodeID, i expr.Rat) {
	m.StampRightSide(n1, i.Neg())
	m.StampRightSide(n2, i)
}

// StampVoltageSource 为独立电压源添加MNA加盖。引入一个新的电流未知量，
// 并修改矩阵A和向量Z以建立电压约束方程。
func (m *System) StampVoltageSource(n1, n2 types.NodeID, vs types.VoltageID, v expr.Rat) {
	if vs < 0 {
		return
	}
	vsRow := types.NodeID(vs) + types.NodeID(m.NodesNum)
	one := expr.RatOf(expr.One())
	// KCL方程: I(vs) 对 n1/n2 节点的贡献
	m.StampMatrix(n1, vsRow, one)
	m.StampMatrix(n2, vsRow, one.Neg())
	// 电压源约束方程: V(n1) - V(n2) = v
	m.StampMatrix(vsRow, n1, one)
	m.StampMatrix(vsRow, n2, one.Neg())
	m.StampRightSideSet(vsRow, v)
}

// ------------------------------ 受控源加盖 ------------------------------

// StampVCCS 为电压控制电流源(VCCS)添加MNA加盖，
// 建立输出电流和控制电压之间的跨导关系。
func (m *System) StampVCCS(cn1, cn2, vn1, vn2 types.NodeID, gain expr.Rat) {
	m.StampMatrix(cn1, vn1, gain)
	m.StampMatrix(cn1, vn2, gain.Neg())
	m.StampMatrix(cn2, vn1, gain.Neg())
	m.StampMatrix(cn2, vn2, gain)
}

// StampCCCS 为电流控制电流源(CCCS)添加MNA加盖，
// 反映控制电流对输出节点的影响。
func (m *System) StampCCCS(cn1, cn2 types.NodeID, cs types.VoltageID, gain expr.Rat) {
	if cs < 0 {
		return
	}
	csCol := types.NodeID(cs) + types.NodeID(m.NodesNum)
	m.StampMatrix(cn1, csCol, gain)
	m.StampMatrix(cn2, csCol, gain.Neg())
}

// StampVCVS 为电压控制电压源(VCVS)添加MNA加盖。引入一个新的电流未知量，
// 并通过矩阵A中的一行和两列建立电压增益关系。
func (m *System) StampVCVS(on1, on2, cn1, cn2 types.NodeID, vs types.VoltageID, gain expr.Rat) {
	if vs < 0 {
		return
	}
	vsRow := types.NodeID(vs) + types.NodeID(m.NodesNum)
	one := expr.RatOf(expr.One())
	// KCL: 电压源电流对输出节点的贡献
	m.StampMatrix(on1, vsRow, one)
	m.StampMatrix(on2, vsRow, one.Neg())
	// VCVS约束方程: V(on1) - V(on2) - gain*(V(cn1)-V(cn2)) = 0
	m.StampMatrix(vsRow, on1, one)
	m.StampMatrix(vsRow, on2, one.Neg())
	m.StampMatrix(vsRow, cn1, gain.Neg())
	m.StampMatrix(vsRow, cn2, gain)
	m.StampRightSideSet(vsRow, expr.RatZero())
}

// StampCCVS 为电流控制电压源(CCVS)添加MNA加盖。引入一个新的电流未知量，
// 并通过矩阵A中的一行和两列建立跨阻关系。
func (m *System) StampCCVS(on1, on2 types.NodeID, cs, vs types.VoltageID, gain expr.Rat) {
	if vs < 0 {
		return
	}
	vsRow := types.NodeID(vs) + types.NodeID(m.NodesNum)
	csCol := types.NodeID(cs) + types.NodeID(m.NodesNum)
	one := expr.RatOf(expr.One())
	// KCL: 电压源电流对输出节点的贡献
	m.StampMatrix(on1, vsRow, one)
	m.StampMatrix(on2, vsRow, one.Neg())
	// CCVS约束方程: V(on1) - V(on2) - gain*I_cs = 0
	m.StampMatrix(vsRow, on1, one)
	m.StampMatrix(vsRow, on2, one.Neg())
	m.StampMatrix(vsRow, csCol, gain.Neg())
	m.StampRightSideSet(vsRow, expr.RatZero())
}

// ------------------------------ 求解 ------------------------------

// Solve 高斯消元求解 Ax=Z。
// 符号矩阵无法比较模长，主元选取首个非零行。
func (m *System) Solve() error {
	n := len(m.Z)
	a := make([][]expr.Rat, n)
	z := make([]expr.Rat, n)
	for i := range a {
		a[i] = append([]expr.Rat(nil), m.A[i]...)
		z[i] = m.Z[i]
	}
	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if !a[row][col].IsZero() {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return fmt.Errorf("方程组奇异: 第 %d 列无主元: %w", col, ErrSingular)
		}
		a[col], a[pivot] = a[pivot], a[col]
		z[col], z[pivot] = z[pivot], z[col]
		for row := col + 1; row < n; row++ {
			if a[row][col].IsZero() {
				continue
			}
			f := a[row][col].Div(a[col][col])
			for k := col; k < n; k++ {
				a[row][k] = a[row][k].Sub(f.Mul(a[col][k]))
			}
			z[row] = z[row].Sub(f.Mul(z[col]))
		}
	}
	// 回代
	for row := n - 1; row >= 0; row-- {
		sum := z[row]
		for k := row + 1; k < n; k++ {
			sum = sum.Sub(a[row][k].Mul(m.X[k]))
		}
		m.X[row] = sum.Div(a[row][row])
	}
	return nil
}

// String 返回方程组内部状态的字符串表示。
func (m *System) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MNA Matrix (n=%d):\n", len(m.Z))
	for i := range m.A {
		for j := range m.A[i] {
			fmt.Fprintf(&b, "%s\t", m.A[i][j])
		}
		fmt.Fprintf(&b, "| %s\n", m.Z[i])
	}
	return b.String()
}
