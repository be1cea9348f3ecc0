package main

import (
	"flag"
	"fmt"
	"math/cmplx"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	echartstypes "github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"lcapy"
	"lcapy/maths"
	"lcapy/types"
)

func main() {
	var (
		netlist = flag.String("netlist", "", "网表文件路径")
		node    = flag.String("node", "1", "待查询的节点标签")
		htmlOut = flag.String("html", "", "频率响应 HTML 输出路径")
		pngOut  = flag.String("png", "", "频率响应 PNG 输出路径")
		points  = flag.Int("points", 200, "频率采样点数")
		fStart  = flag.Float64("fstart", -1, "对数扫描起点 10^fstart rad/s")
		fStop   = flag.Float64("fstop", 4, "对数扫描终点 10^fstop rad/s")
	)
	flag.Parse()
	if *netlist == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*netlist, *node, *htmlOut, *pngOut, *points, *fStart, *fStop); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(netlist, node, htmlOut, pngOut string, points int, fStart, fStop float64) error {
	cir := lcapy.NewCircuit()
	if err := cir.Load(netlist); err != nil {
		return err
	}
	mode, err := cir.Mode()
	if err != nil {
		return err
	}
	fmt.Printf("分析模式: %s\n", mode)
	if !mode.IsValid() {
		fmt.Printf("直接分类失败(%v)，混合源电路转为叠加求解\n", mode.Err)
	}

	res, err := cir.NodeVoltage(node)
	if err != nil {
		return err
	}
	fmt.Printf("V(%s) = %s\t[%s, %s]\n", node, res, res.Mode, res.Validity)
	for _, t := range res.Terms {
		fmt.Printf("  来自 %s: %s\t[%s]\n", t.Source, t.Expr, t.Mode)
	}

	if htmlOut == "" && pngOut == "" {
		return nil
	}
	if !res.Mode.Laplacian() && !res.Mode.IsAC() {
		return fmt.Errorf("模式 %s 无频率响应可绘制", res.Mode)
	}

	// 对数频率扫描，代入 s=jω 求幅值
	ws := maths.Logspace(fStart, fStop, points)
	mag := make([]float64, len(ws))
	for i, w := range ws {
		env := map[string]complex128{
			types.LaplaceVar:   complex(0, w),
			types.DefaultOmega: complex(w, 0),
		}
		v, err := res.Eval(env)
		if err != nil {
			return fmt.Errorf("频率响应须为全数值电路: %w", err)
		}
		mag[i] = cmplx.Abs(v)
	}

	if htmlOut != "" {
		if err := renderHTML(htmlOut, node, ws, mag); err != nil {
			return err
		}
		fmt.Printf("频率响应已写入 %s\n", htmlOut)
	}
	if pngOut != "" {
		if err := renderPNG(pngOut, node, ws, mag); err != nil {
			return err
		}
		fmt.Printf("频率响应已写入 %s\n", pngOut)
	}
	return nil
}

// renderHTML 输出交互式频率响应曲线
func renderHTML(path, node string, ws, mag []float64) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: echartstypes.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "频率响应",
			Subtitle: fmt.Sprintf("|V(%s)| 随角频率变化曲线", node),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "ω (rad/s)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	xs := make([]string, len(ws))
	ys := make([]opts.LineData, len(ws))
	for i := range ws {
		xs[i] = fmt.Sprintf("%.4g", ws[i])
		ys[i] = opts.LineData{Value: mag[i]}
	}
	line.SetXAxis(xs).AddSeries(fmt.Sprintf("|V(%s)|", node), ys)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}

// renderPNG 输出静态频率响应曲线
func renderPNG(path, node string, ws, mag []float64) error {
	p := plot.New()
	p.Title.Text = "频率响应"
	p.X.Label.Text = "ω (rad/s)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}
	p.Y.Label.Text = fmt.Sprintf("|V(%s)|", node)
	pts := make(plotter.XYs, len(ws))
	for i := range ws {
		pts[i].X = ws[i]
		pts[i].Y = mag[i]
	}
	ln, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(ln)
	p.Legend.Add(fmt.Sprintf("V(%s)", node), ln)
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
