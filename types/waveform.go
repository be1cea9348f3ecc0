package types

// Waveform 独立源激励波形类别
type Waveform int

// 激励波形常量定义
const (
	WaveformNone   Waveform = iota // 无激励(无源元件)
	WaveformDC                     // 理想直流
	WaveformAC                     // 单频正弦稳态
	WaveformStep                   // 阶跃(t<0 为零)
	WaveformCausal                 // 一般因果激励(值为 s 域象函数)
	WaveformS                      // 任意 s 域激励
)

var waveformKeyword = map[Waveform]string{
	WaveformDC:     "dc",
	WaveformAC:     "ac",
	WaveformStep:   "step",
	WaveformCausal: "causal",
	WaveformS:      "s",
}

// String 波形的网表关键字表示
func (w Waveform) String() string {
	if s, ok := waveformKeyword[w]; ok {
		return s
	}
	return "none"
}

// Causal t<0 时恒为零
func (w Waveform) Causal() bool {
	switch w {
	case WaveformStep, WaveformCausal, WaveformS:
		return true
	}
	return false
}

// KeywordWaveform 通过网表关键字获取波形
func KeywordWaveform(word string) (Waveform, bool) {
	for w, s := range waveformKeyword {
		if s == word {
			return w, true
		}
	}
	return WaveformNone, false
}
