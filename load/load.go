// Package load 网表文本解析。
// 行格式: <标识> <节点+> <节点-> [波形] <值...>，
// 值可为数字或符号名，省略时取元件标识本身为符号。
package load

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"lcapy/element"
	"lcapy/expr"
	"lcapy/graph"
	"lcapy/types"
)

// LoadString 解析网表文本为元件列表。
func LoadString(s string) ([]*element.Element, error) {
	return parse(s)
}

// LoadReader 解析网表为元件列表。
func LoadReader(r io.Reader) ([]*element.Element, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(string(b))
}

// LoadGraph 解析网表并构建电路图。
func LoadGraph(cfg graph.Config, s string) (*graph.Graph, error) {
	els, err := parse(s)
	if err != nil {
		return nil, err
	}
	return graph.New(cfg, els...)
}

func parse(src string) ([]*element.Element, error) {
	var out []*element.Element
	lineNo := 0
	for _, raw := range strings.Split(src, "\n") {
		lineNo++
		for _, stmt := range strings.Split(raw, ";") {
			line := strings.TrimSpace(stmt)
			if line == "" || line[0] == '#' || line[0] == '*' {
				continue // 注释
			}
			if line[0] == '.' {
				continue // 指令行，不在解析范围
			}
			el, err := parseLine(line)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行: %w", lineNo, err)
			}
			out = append(out, el)
		}
	}
	return out, nil
}

func parseLine(line string) (*element.Element, error) {
	f := strings.Fields(line)
	des := f[0]
	// 理想导线单独处理，不参与元件类型表
	if des[0] == 'W' || des[0] == 'w' {
		if len(f) != 3 {
			return nil, fmt.Errorf("导线 %s 需要两个节点", des)
		}
		return element.NewShort(des, f[1], f[2]), nil
	}
	kind, err := types.KindFromDesignator(des[0])
	if err != nil {
		return nil, err
	}
	if len(f) < 3 {
		return nil, fmt.Errorf("元件 %s 节点不足", des)
	}
	n1, n2 := f[1], f[2]
	rest := f[3:]

	switch kind {
	case types.KindResistor:
		v, err := oneValue(des, rest)
		if err != nil {
			return nil, err
		}
		return element.NewResistor(des, n1, n2, v), nil

	case types.KindCapacitor, types.KindInductor:
		v, ic, err := valueAndIC(des, rest)
		if err != nil {
			return nil, err
		}
		if kind == types.KindCapacitor {
			return element.NewCapacitor(des, n1, n2, v, ic), nil
		}
		return element.NewInductor(des, n1, n2, v, ic), nil

	case types.KindVoltage, types.KindCurrent:
		return parseSource(des, kind, n1, n2, rest)

	case types.KindVCVS, types.KindVCCS:
		if len(rest) < 2 {
			return nil, fmt.Errorf("受控源 %s 需要控制节点对", des)
		}
		c1, c2 := rest[0], rest[1]
		gain, err := oneValue(des, rest[2:])
		if err != nil {
			return nil, err
		}
		if kind == types.KindVCVS {
			return element.NewVCVS(des, n1, n2, c1, c2, gain), nil
		}
		return element.NewVCCS(des, n1, n2, c1, c2, gain), nil

	case types.KindCCCS, types.KindCCVS:
		if len(rest) < 1 {
			return nil, fmt.Errorf("受控源 %s 需要控制电压源标识", des)
		}
		ctrl := rest[0]
		gain, err := oneValue(des, rest[1:])
		if err != nil {
			return nil, err
		}
		if kind == types.KindCCCS {
			return element.NewCCCS(des, n1, n2, ctrl, gain), nil
		}
		return element.NewCCVS(des, n1, n2, ctrl, gain), nil
	}
	return nil, fmt.Errorf("元件 %s 类型 %s 不支持", des, kind)
}

// parseSource 独立源: 可选波形关键字，缺省为直流。
// 交流源值序列为 幅值 [相位 [角频率]]。
func parseSource(des string, kind types.ElementKind, n1, n2 string, rest []string) (*element.Element, error) {
	w := types.WaveformDC
	if len(rest) > 0 {
		if kw, ok := types.KeywordWaveform(rest[0]); ok {
			w = kw
			rest = rest[1:]
		}
	}
	if w == types.WaveformAC {
		amp := expr.Symbol(des)
		phase := expr.Expr(nil)
		omega := expr.Symbol(types.DefaultOmega)
		var err error
		if len(rest) > 0 {
			if amp, err = value(rest[0]); err != nil {
				return nil, err
			}
		}
		if len(rest) > 1 {
			if phase, err = value(rest[1]); err != nil {
				return nil, err
			}
		}
		if len(rest) > 2 {
			if omega, err = value(rest[2]); err != nil {
				return nil, err
			}
		}
		if len(rest) > 3 {
			return nil, fmt.Errorf("源 %s 参数过多", des)
		}
		if kind == types.KindVoltage {
			return element.NewACVoltageSource(des, n1, n2, amp, omega, phase), nil
		}
		return element.NewACCurrentSource(des, n1, n2, amp, omega, phase), nil
	}
	v, err := oneValue(des, rest)
	if err != nil {
		return nil, err
	}
	if kind == types.KindVoltage {
		return element.NewVoltageSource(des, n1, n2, w, v), nil
	}
	return element.NewCurrentSource(des, n1, n2, w, v), nil
}

// oneValue 单值参数，省略时取元件标识为符号。
func oneValue(des string, rest []string) (expr.Expr, error) {
	switch len(rest) {
	case 0:
		return expr.Symbol(des), nil
	case 1:
		return value(rest[0])
	}
	return nil, fmt.Errorf("元件 %s 参数过多: %v", des, rest)
}

// valueAndIC 储能元件: 值后可跟初始条件，显式零初值同样记录。
func valueAndIC(des string, rest []string) (v, ic expr.Expr, err error) {
	switch len(rest) {
	case 0:
		return expr.Symbol(des), nil, nil
	case 1:
		v, err = value(rest[0])
		return v, nil, err
	case 2:
		if v, err = value(rest[0]); err != nil {
			return nil, nil, err
		}
		ic, err = value(rest[1])
		return v, ic, err
	}
	return nil, nil, fmt.Errorf("元件 %s 参数过多: %v", des, rest)
}

// value 数字或符号名。数字按任意精度有理数解析。
func value(tok string) (expr.Expr, error) {
	if r, ok := new(big.Rat).SetString(tok); ok {
		return expr.Rational(r), nil
	}
	if !validSymbol(tok) {
		return nil, fmt.Errorf("无效的值: %s", tok)
	}
	return expr.Symbol(tok), nil
}

func validSymbol(tok string) bool {
	for i, c := range tok {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return tok != ""
}
