package maths

import (
	"math"
	"math/cmplx"
	"testing"
)

// TestSolveComplex 测试复方程组求解。
func TestSolveComplex(t *testing.T) {
	// 解后代回原方程验证残差
	a := [][]complex128{
		{1 + 1i, 1},
		{1, -1},
	}
	z := []complex128{3 + 1i, 1i}
	x, err := SolveComplex(a, z)
	if err != nil {
		t.Fatal(err)
	}
	for i := range z {
		got := a[i][0]*x[0] + a[i][1]*x[1]
		if cmplx.Abs(got-z[i]) > 1e-12 {
			t.Errorf("第 %d 行残差不为零: %v", i, got-z[i])
		}
	}
}

// TestSolveComplexErrors 测试奇异矩阵与维度错误。
func TestSolveComplexErrors(t *testing.T) {
	if _, err := SolveComplex([][]complex128{{1, 2}, {2, 4}}, []complex128{1, 1}); err == nil {
		t.Error("期望奇异矩阵报错, 实际无错误")
	}
	if _, err := SolveComplex([][]complex128{{1}}, []complex128{1, 2}); err == nil {
		t.Error("期望维度不匹配报错, 实际无错误")
	}
	if x, err := SolveComplex(nil, nil); err != nil || x != nil {
		t.Errorf("空方程组应返回空解: 实际 %v %v", x, err)
	}
}

// TestLinspace 测试等差序列端点与步长。
func TestLinspace(t *testing.T) {
	v := Linspace(0.0, 1.0, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(v) != len(want) {
		t.Fatalf("采样点数不正确: 期望 %d, 实际 %d", len(want), len(v))
	}
	for i := range want {
		if math.Abs(v[i]-want[i]) > 1e-12 {
			t.Errorf("v[%d] 不正确: 期望 %g, 实际 %g", i, want[i], v[i])
		}
	}
	if one := Linspace(2.0, 5.0, 1); len(one) != 1 || one[0] != 2 {
		t.Errorf("单点采样不正确: 期望起点, 实际 %v", one)
	}
	if Linspace(0.0, 1.0, 0) != nil {
		t.Error("非正点数应返回 nil")
	}
}

// TestLogspace 测试等比序列端点。
func TestLogspace(t *testing.T) {
	v := Logspace(0.0, 2.0, 3)
	want := []float64{1, 10, 100}
	if len(v) != 3 {
		t.Fatalf("采样点数不正确: 期望 3, 实际 %d", len(v))
	}
	for i := range want {
		if math.Abs(v[i]-want[i]) > 1e-9 {
			t.Errorf("v[%d] 不正确: 期望 %g, 实际 %g", i, want[i], v[i])
		}
	}
}
