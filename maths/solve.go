// Package maths 数值辅助: 复线性方程组求解与采样序列生成。
package maths

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SolveComplex 求解复线性方程组 Ax=z。
// 复方程组实化为 2n 阶实方程组 [[Re,-Im],[Im,Re]] 后交由 gonum 求解。
func SolveComplex(a [][]complex128, z []complex128) ([]complex128, error) {
	n := len(z)
	if n == 0 {
		return nil, nil
	}
	if len(a) != n {
		return nil, fmt.Errorf("矩阵与向量维度不一致: %d != %d", len(a), n)
	}
	re := mat.NewDense(2*n, 2*n, nil)
	rz := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		if len(a[i]) != n {
			return nil, fmt.Errorf("矩阵第 %d 行维度不一致: %d != %d", i, len(a[i]), n)
		}
		for j := 0; j < n; j++ {
			re.Set(i, j, real(a[i][j]))
			re.Set(i, n+j, -imag(a[i][j]))
			re.Set(n+i, j, imag(a[i][j]))
			re.Set(n+i, n+j, real(a[i][j]))
		}
		rz.SetVec(i, real(z[i]))
		rz.SetVec(n+i, imag(z[i]))
	}
	var rx mat.VecDense
	if err := rx.SolveVec(re, rz); err != nil {
		return nil, fmt.Errorf("数值求解失败: %w", err)
	}
	x := make([]complex128, n)
	for i := 0; i < n; i++ {
		x[i] = complex(rx.AtVec(i), rx.AtVec(n+i))
	}
	return x, nil
}
