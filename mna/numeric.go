package mna

import (
	"lcapy/maths"
)

// SolveNumeric 将符号方程组按给定符号值代入后数值求解，
// 返回与解向量 X 对应的数值解。用于交叉校验符号消元结果。
func (sv *Solver) SolveNumeric(env map[string]complex128) ([]complex128, error) {
	n := len(sv.sys.Z)
	a := make([][]complex128, n)
	z := make([]complex128, n)
	for i := 0; i < n; i++ {
		a[i] = make([]complex128, n)
		for j := 0; j < n; j++ {
			v, err := sv.sys.A[i][j].Eval(env)
			if err != nil {
				return nil, err
			}
			a[i][j] = v
		}
		v, err := sv.sys.Z[i].Eval(env)
		if err != nil {
			return nil, err
		}
		z[i] = v
	}
	return maths.SolveComplex(a, z)
}
