package mna

import (
	"fmt"

	"lcapy/expr"
	"lcapy/types"
)

// Term 叠加分解中单个独立源的贡献
type Term struct {
	Source   string             // 贡献源标识
	Mode     types.AnalysisMode // 该分项的求解域
	Validity types.Validity
	Expr     expr.Expr
}

// Result 求解结果: 域变量中的符号表达式，
// 附带计算所在域与时间有效区间。叠加求解时保留各源分项。
type Result struct {
	Expr     expr.Expr
	Mode     types.AnalysisMode
	Validity types.Validity
	Terms    []Term // 叠加分解时非空
}

// Eval 代入符号值求数值。域变量(s 或 omega)也经 env 给定。
func (r *Result) Eval(env map[string]complex128) (complex128, error) {
	if r.Expr == nil {
		return 0, fmt.Errorf("结果无合并表达式，须逐项求值")
	}
	return r.Expr.Eval(env)
}

// String 结果的字符串表示
func (r *Result) String() string {
	if r.Expr == nil {
		return fmt.Sprintf("<%d terms>", len(r.Terms))
	}
	return r.Expr.String()
}

func newResult(v expr.Rat, mode types.AnalysisMode) *Result {
	return &Result{
		Expr:     v.Expr(),
		Mode:     mode,
		Validity: modeValidity(mode),
	}
}

// modeValidity 模式到有效区间: 初值问题仅主张 t>=0，其余全时间域。
func modeValidity(mode types.AnalysisMode) types.Validity {
	if mode.IsIVP() {
		return types.ValidNonNegative
	}
	return types.ValidAllTime
}
