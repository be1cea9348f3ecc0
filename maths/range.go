package maths

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Linspace 生成 [start, stop] 上的 n 点等差序列。
func Linspace[T constraints.Float](start, stop T, n int) []T {
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / T(n-1)
	for i := range out {
		out[i] = start + T(i)*step
	}
	out[n-1] = stop
	return out
}

// Logspace 生成 [10^start, 10^stop] 上的 n 点等比序列，
// 用于频率响应的对数扫描。
func Logspace[T constraints.Float](start, stop T, n int) []T {
	lin := Linspace(start, stop, n)
	for i, v := range lin {
		lin[i] = T(math.Pow(10, float64(v)))
	}
	return lin
}
