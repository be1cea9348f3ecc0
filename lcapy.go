// Package lcapy 线性时不变电路的符号分析。
// 电路由网表文本或二端网络组合构建，分类器判定分析域(直流、
// 相量、拉普拉斯或初值问题)，MNA 求解器给出元件值符号形式的
// 节点电压、支路电流、阻抗与传递函数。
package lcapy

import (
	"fmt"
	"os"

	"lcapy/element"
	"lcapy/graph"
	"lcapy/load"
	"lcapy/mna"
	"lcapy/types"
)

// Circuit 电路分析入口
type Circuit struct {
	cfg   graph.Config
	els   []*element.Element
	cache *mna.Cache
	an    *mna.Analyzer // 惰性构建，元件变更后重建
}

// NewCircuit 创建空电路
func NewCircuit() *Circuit {
	return &Circuit{cache: mna.NewCache()}
}

// SetGround 指定接地节点标签，缺省 "0"。
func (c *Circuit) SetGround(label string) {
	c.cfg.Ground = label
	c.an = nil
}

// SetSwitched 标记开关场景: t<0 状态未知，结果仅主张 t>=0。
func (c *Circuit) SetSwitched(on bool) {
	c.cfg.Switched = on
	c.an = nil
}

// Add 添加元件
func (c *Circuit) Add(els ...*element.Element) {
	c.els = append(c.els, els...)
	c.an = nil
}

// Load 加载网表文件
func (c *Circuit) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	els, err := load.LoadReader(f)
	if err != nil {
		return err
	}
	c.Add(els...)
	return nil
}

// LoadString 加载网表文本
func (c *Circuit) LoadString(s string) error {
	els, err := load.LoadString(s)
	if err != nil {
		return err
	}
	c.Add(els...)
	return nil
}

// analyzer 构建图与分析器
func (c *Circuit) analyzer() (*mna.Analyzer, error) {
	if c.an != nil {
		return c.an, nil
	}
	g, err := graph.New(c.cfg, c.els...)
	if err != nil {
		return nil, err
	}
	c.an = mna.NewAnalyzer(g, c.cache)
	return c.an, nil
}

// Graph 电路连接图
func (c *Circuit) Graph() (*graph.Graph, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.Graph(), nil
}

// Element 按标识查找元件
func (c *Circuit) Element(des string) (*element.Element, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.Graph().Element(des)
}

// Netlist 电路的网表文本导出
func (c *Circuit) Netlist() (string, error) {
	an, err := c.analyzer()
	if err != nil {
		return "", err
	}
	return an.Graph().Netlist(), nil
}

// ------------------------------ 分类 ------------------------------

// Mode 电路的分析模式
func (c *Circuit) Mode() (types.AnalysisMode, error) {
	an, err := c.analyzer()
	if err != nil {
		return types.AnalysisMode{}, err
	}
	return an.Mode(), nil
}

func (c *Circuit) modeIs(pred func(types.AnalysisMode) bool) bool {
	m, err := c.Mode()
	if err != nil {
		return false
	}
	return pred(m)
}

// IsDC 直流电路
func (c *Circuit) IsDC() bool { return c.modeIs(types.AnalysisMode.IsDC) }

// IsAC 单频正弦稳态电路
func (c *Circuit) IsAC() bool { return c.modeIs(types.AnalysisMode.IsAC) }

// IsCausal 因果激励零初态电路
func (c *Circuit) IsCausal() bool { return c.modeIs(types.AnalysisMode.IsCausal) }

// IsIVP 初值问题电路
func (c *Circuit) IsIVP() bool { return c.modeIs(types.AnalysisMode.IsIVP) }

// ------------------------------ 量查询 ------------------------------

// NodeVoltage 节点电压
func (c *Circuit) NodeVoltage(label string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.NodeVoltage(label)
}

// ElementCurrent 元件支路电流，方向为元件内部由节点 1 流向节点 2。
func (c *Circuit) ElementCurrent(des string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.BranchCurrent(des)
}

// ElementVoltage 元件两端电压
func (c *Circuit) ElementVoltage(des string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.ElementVoltage(des)
}

// Voc 两节点间开路电压
func (c *Circuit) Voc(n1, n2 string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.Voc(n1, n2)
}

// Isc 两节点间短路电流
func (c *Circuit) Isc(n1, n2 string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.Isc(n1, n2)
}

// Impedance 两节点间的 s 域驱动点阻抗
func (c *Circuit) Impedance(n1, n2 string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.Impedance(n1, n2)
}

// Admittance 两节点间的 s 域驱动点导纳
func (c *Circuit) Admittance(n1, n2 string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.Admittance(n1, n2)
}

// Transfer s 域电压传递函数 V(out1,out2)/V(in1,in2)
func (c *Circuit) Transfer(in1, in2, out1, out2 string) (*mna.Result, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	return an.Transfer(in1, in2, out1, out2)
}

// ------------------------------ 导出电路 ------------------------------

// KillSourcesExcept 保留指定独立源的导出电路，用于手动叠加分解。
func (c *Circuit) KillSourcesExcept(keep ...string) (*Circuit, error) {
	an, err := c.analyzer()
	if err != nil {
		return nil, err
	}
	gk, err := an.Graph().KillSourcesExcept(keep...)
	if err != nil {
		return nil, err
	}
	out := &Circuit{cfg: c.cfg, cache: c.cache, els: gk.Elements()}
	return out, nil
}

// KillAllSources 断开全部独立源的导出电路
func (c *Circuit) KillAllSources() (*Circuit, error) {
	return c.KillSourcesExcept()
}

// String 网表文本
func (c *Circuit) String() string {
	s, err := c.Netlist()
	if err != nil {
		return fmt.Sprintf("<invalid circuit: %v>", err)
	}
	return s
}
