package types

import (
	"fmt"

	"lcapy/expr"
)

// ModeKind 分析模式标签
type ModeKind int

// 分析模式常量定义
const (
	ModeInvalid    ModeKind = iota // 无法直接分类
	ModeDC                         // 直流分析
	ModeAC                         // 单频相量分析
	ModeLaplace                    // 拉普拉斯分析(因果激励,零初始状态,全时间域有效)
	ModeLaplaceIVP                 // 拉普拉斯初值问题(t ≥ 0 有效)
)

// AnalysisMode 分类器输出的分析模式。由图内容推导，不存储。
type AnalysisMode struct {
	Kind        ModeKind
	Omega       expr.Expr // AC 模式的角频率
	KillSources bool      // IVP 求解时断开独立源
	Err         error     // Invalid 模式的具体矛盾
}

// DC 直流模式
func DC() AnalysisMode { return AnalysisMode{Kind: ModeDC} }

// AC 单频相量模式
func AC(omega expr.Expr) AnalysisMode { return AnalysisMode{Kind: ModeAC, Omega: omega} }

// Laplace 因果激励拉普拉斯模式
func Laplace() AnalysisMode { return AnalysisMode{Kind: ModeLaplace} }

// LaplaceIVP 初值问题模式。killSources 为真时求解前断开全部独立源，
// 电路仅由初始状态弛豫；为假时(开关场景)独立源保持。
func LaplaceIVP(killSources bool) AnalysisMode {
	return AnalysisMode{Kind: ModeLaplaceIVP, KillSources: killSources}
}

// Invalid 不可分类，携带具体矛盾说明
func Invalid(err error) AnalysisMode {
	return AnalysisMode{Kind: ModeInvalid, Err: err}
}

// IsDC 直流模式
func (m AnalysisMode) IsDC() bool { return m.Kind == ModeDC }

// IsAC 单频相量模式
func (m AnalysisMode) IsAC() bool { return m.Kind == ModeAC }

// IsCausal 因果激励拉普拉斯模式(全时间域有效)
func (m AnalysisMode) IsCausal() bool { return m.Kind == ModeLaplace }

// IsIVP 初值问题模式
func (m AnalysisMode) IsIVP() bool { return m.Kind == ModeLaplaceIVP }

// IsValid 可直接求解
func (m AnalysisMode) IsValid() bool { return m.Kind != ModeInvalid }

// Laplacian 以 s 为域变量的模式
func (m AnalysisMode) Laplacian() bool {
	return m.Kind == ModeLaplace || m.Kind == ModeLaplaceIVP
}

// Key 缓存键片段
func (m AnalysisMode) Key() string {
	if m.Kind == ModeAC && m.Omega != nil {
		return fmt.Sprintf("ac(%s)", m.Omega)
	}
	return m.String()
}

// String 模式的字符串表示
func (m AnalysisMode) String() string {
	switch m.Kind {
	case ModeDC:
		return "dc"
	case ModeAC:
		return "ac"
	case ModeLaplace:
		return "laplace"
	case ModeLaplaceIVP:
		return "laplace-ivp"
	}
	return "invalid"
}

// Validity 结果的时间有效区间
type Validity int

// 有效区间常量定义
const (
	ValidAllTime     Validity = iota // 全时间域
	ValidNonNegative                 // 仅 t ≥ 0
)

// String 有效区间的字符串表示
func (v Validity) String() string {
	if v == ValidNonNegative {
		return "t>=0"
	}
	return "all-t"
}
