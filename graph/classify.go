package graph

import (
	"errors"
	"fmt"

	"lcapy/types"
)

// 分类失败原因
var (
	ErrFloatingNode    = errors.New("存在悬浮节点")
	ErrInconsistentIC  = errors.New("同一支路的初始条件不一致")
	ErrPartialIC       = errors.New("初始条件不完整: 部分储能元件缺少初值")
	ErrMixedSources    = errors.New("混合源电路需要叠加求解，无法直接分类")
	ErrMixedFrequency  = errors.New("交流源频率不一致")
	ErrCausalNonzeroIC = errors.New("因果源与非零预初始条件矛盾")
	ErrNoSources       = errors.New("电路不含独立源")
)

// Classify 按图内容判定分析模式，纯函数。
// 判定规则按序匹配，首个命中生效:
//  1. 所有储能元件均含显式初值   -> 拉普拉斯初值(独立源断开)
//  2. 独立源全为直流且无显式初值 -> 直流
//  3. 独立源全为同频交流且无初值 -> 相量
//  4. 独立源全为因果且初值为零   -> 拉普拉斯(全时间轴有效)
//  5. 电路带开关标记             -> 拉普拉斯初值(t>=0，源保持)
//  6. 其余                       -> 无效，报告具体原因
func Classify(g *Graph) types.AnalysisMode {
	var (
		reactive    int // 储能元件数
		withIC      int // 含显式初值的储能元件数
		sources     int
		dcSources   int
		acSources   int
		causalSrc   int
		firstOmega  = -1 // 首个交流源下标
		sameOmega   = true
		nonzeroIC   bool
		hasCausal   bool
		icByBranch  = map[string]string{} // 合并节点对 -> 初值指纹
		inconsistIC string
	)

	els := g.Elements()
	for i, el := range els {
		if el.Reactive() {
			reactive++
			if el.HasIC() {
				withIC++
				if !el.IC.IsZero() {
					nonzeroIC = true
				}
				// 并联同类储能元件的初值须一致
				re := g.rewriteNodes(el)
				key := fmt.Sprintf("%s:%s:%s", el.Kind, re.Nodes[0], re.Nodes[1])
				ic := el.IC.String()
				if prev, ok := icByBranch[key]; ok && prev != ic {
					inconsistIC = fmt.Sprintf("%s 与同支路初值冲突: %s != %s", el.Designator, prev, ic)
				}
				icByBranch[key] = ic
			}
		}
		if !el.IndependentSource() {
			continue
		}
		if el.Value.IsZero() {
			// 零值源在任何域都为零，不参与分类(电流探针)
			continue
		}
		sources++
		switch el.Waveform {
		case types.WaveformDC:
			dcSources++
		case types.WaveformAC:
			acSources++
			if firstOmega < 0 {
				firstOmega = i
			} else if !els[firstOmega].Omega.Equal(el.Omega) {
				sameOmega = false
			}
		}
		if el.Waveform.Causal() {
			causalSrc++
			hasCausal = true
		}
	}

	// 规则 1: 完整显式初值
	if reactive > 0 && withIC == reactive {
		if inconsistIC != "" {
			return types.Invalid(fmt.Errorf("%s: %w", inconsistIC, ErrInconsistentIC))
		}
		return types.LaplaceIVP(true)
	}
	// 规则 2: 纯直流
	if sources > 0 && dcSources == sources && withIC == 0 {
		return types.DC()
	}
	// 规则 3: 单一频率交流。混频不在此裁定，继续向后匹配。
	if sources > 0 && acSources == sources && withIC == 0 && sameOmega {
		return types.AC(els[firstOmega].Omega)
	}
	// 规则 4: 全因果源且零初态
	if sources > 0 && causalSrc == sources && !nonzeroIC {
		return types.Laplace()
	}
	// 规则 5: 开关场景，仅主张 t>=0
	if g.Switched() {
		return types.LaplaceIVP(false)
	}
	// 规则 6: 无法分类，指明原因
	switch {
	case nonzeroIC && hasCausal:
		return types.Invalid(ErrCausalNonzeroIC)
	case withIC > 0 && withIC < reactive:
		return types.Invalid(ErrPartialIC)
	case sources == 0:
		return types.Invalid(ErrNoSources)
	case acSources == sources && !sameOmega:
		return types.Invalid(ErrMixedFrequency)
	case dcSources > 0 && acSources > 0,
		dcSources > 0 && causalSrc > 0,
		acSources > 0 && causalSrc > 0:
		return types.Invalid(ErrMixedSources)
	}
	return types.Invalid(fmt.Errorf("源与初值组合无法分类"))
}
