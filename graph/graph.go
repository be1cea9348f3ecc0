// Package graph 电路连接图: 元件集合与节点编号。
// 图一经构建不再修改，源置零等变换返回新图。
package graph

import (
	"fmt"
	"sort"
	"strings"

	"lcapy/element"
	"lcapy/types"
)

// Config 图构建参数
type Config struct {
	Ground   string // 接地节点标签，缺省 "0"
	Switched bool   // 含开关事件，t<0 状态未知
}

// Graph 电路图
type Graph struct {
	cfg      Config
	elements []*element.Element
	byDes    map[string]*element.Element
	nodes    map[string]types.NodeID // 合并后的节点编号，接地为 Gnd
	numNodes int
	merged   map[string]string // 标签到合并代表标签
}

// New 创建图并完成节点编号。
// 理想导线与接地标签在此处合并，不进入 MNA 方程。
func New(cfg Config, elements ...*element.Element) (*Graph, error) {
	if cfg.Ground == "" {
		cfg.Ground = types.DefaultGround
	}
	g := &Graph{
		cfg:   cfg,
		byDes: map[string]*element.Element{},
	}
	// 并查集: 初始化所有节点标签
	parent := map[string]string{}
	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			// 较小标签为代表，保证编号与构建次序无关
			if ra < rb {
				parent[rb] = ra
			} else {
				parent[ra] = rb
			}
		}
	}
	touch := func(label string) {
		if _, ok := parent[label]; !ok {
			parent[label] = label
		}
	}
	touch(cfg.Ground)
	for _, el := range elements {
		if el == nil {
			continue
		}
		if _, ok := g.byDes[el.Designator]; ok {
			return nil, fmt.Errorf("元件重复定义: %s", el.Designator)
		}
		for _, n := range el.Nodes {
			touch(n)
		}
		for _, n := range el.CtrlNodes {
			touch(n)
		}
		if el.Kind == types.KindShort {
			union(el.Nodes[0], el.Nodes[1])
			continue
		}
		g.byDes[el.Designator] = el
		g.elements = append(g.elements, el)
	}

	// 代表标签到编号，接地固定为 Gnd
	g.merged = map[string]string{}
	g.nodes = map[string]types.NodeID{}
	gndRoot := find(cfg.Ground)
	var roots []string
	seen := map[string]bool{}
	for label := range parent {
		r := find(label)
		g.merged[label] = r
		if r != gndRoot && !seen[r] {
			seen[r] = true
			roots = append(roots, r)
		}
	}
	sort.Strings(roots)
	g.nodes[gndRoot] = types.Gnd
	for i, r := range roots {
		g.nodes[r] = types.NodeID(i)
	}
	g.numNodes = len(roots)

	if err := g.checkConnected(gndRoot); err != nil {
		return nil, err
	}
	return g, nil
}

// checkConnected 所有节点须与接地连通，否则 MNA 矩阵奇异。
func (g *Graph) checkConnected(gndRoot string) error {
	if g.numNodes == 0 {
		return nil
	}
	adj := map[string][]string{}
	for _, el := range g.elements {
		a := g.merged[el.Nodes[0]]
		b := g.merged[el.Nodes[1]]
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	reach := map[string]bool{gndRoot: true}
	queue := []string{gndRoot}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !reach[next] {
				reach[next] = true
				queue = append(queue, next)
			}
		}
	}
	for r, id := range g.nodes {
		if id != types.Gnd && !reach[r] {
			return fmt.Errorf("节点 %s 未与接地连通: %w", r, ErrFloatingNode)
		}
	}
	return nil
}

// NumNodes 非接地节点数量
func (g *Graph) NumNodes() int { return g.numNodes }

// Node 标签对应的合并后节点编号
func (g *Graph) Node(label string) (types.NodeID, error) {
	r, ok := g.merged[label]
	if !ok {
		return types.Gnd, fmt.Errorf("节点不存在: %s", label)
	}
	return g.nodes[r], nil
}

// Elements 按添加次序遍历元件(理想导线已合并，不在列)。
func (g *Graph) Elements() []*element.Element { return g.elements }

// Element 按标识查找元件
func (g *Graph) Element(des string) (*element.Element, error) {
	el, ok := g.byDes[des]
	if !ok {
		return nil, fmt.Errorf("元件不存在: %s", des)
	}
	return el, nil
}

// Ground 接地节点标签
func (g *Graph) Ground() string { return g.cfg.Ground }

// Switched 是否标记为开关电路
func (g *Graph) Switched() bool { return g.cfg.Switched }

// Fingerprint 图的结构指纹。节点使用合并代表标签，
// 同一拓扑经不同路径构建得到相同指纹。
func (g *Graph) Fingerprint() string {
	lines := make([]string, 0, len(g.elements)+1)
	for _, el := range g.elements {
		lines = append(lines, g.rewriteNodes(el).Fingerprint())
	}
	sort.Strings(lines)
	if g.cfg.Switched {
		lines = append(lines, "switched")
	}
	return strings.Join(lines, "\n")
}

// rewriteNodes 元件节点替换为合并代表标签
func (g *Graph) rewriteNodes(el *element.Element) *element.Element {
	return el.Renamed(func(n string) string { return g.merged[n] })
}

// KillSourcesExcept 保留指定独立源，其余独立源置零:
// 电压源化为零值源(等效理想导线，保留电流未知量)，
// 电流源化为开路(移除)。受控源保留。
func (g *Graph) KillSourcesExcept(keep ...string) (*Graph, error) {
	keepSet := map[string]bool{}
	for _, des := range keep {
		if _, err := g.Element(des); err != nil {
			return nil, err
		}
		keepSet[des] = true
	}
	var out []*element.Element
	for _, el := range g.elements {
		if !el.IndependentSource() || keepSet[el.Designator] {
			out = append(out, el)
			continue
		}
		if el.Kind == types.KindVoltage && el.Value.IsZero() {
			// 零值电压源本身已无激励，保留其电流未知量(电流探针)
			out = append(out, el)
			continue
		}
		switch el.Kind {
		case types.KindVoltage:
			out = append(out, el.Zeroed())
		case types.KindCurrent:
			// 开路，移除
		}
	}
	return New(g.cfg, out...)
}

// KillAllSources 全部独立源置零，用于初值问题与阻抗计算。
func (g *Graph) KillAllSources() (*Graph, error) {
	return g.KillSourcesExcept()
}

// IndependentSources 独立源标识列表，按添加次序。
func (g *Graph) IndependentSources() []string {
	var out []string
	for _, el := range g.elements {
		if el.IndependentSource() {
			out = append(out, el.Designator)
		}
	}
	return out
}

// Netlist 网表形式的文本导出
func (g *Graph) Netlist() string {
	lines := make([]string, 0, len(g.elements))
	for _, el := range g.elements {
		lines = append(lines, el.String())
	}
	return strings.Join(lines, "\n")
}
