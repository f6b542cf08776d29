package exporter

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"hranalyse/internal/model"
)

// RenderOptions 图表页面尺寸
type RenderOptions struct {
	Width  string
	Height string
}

// DefaultRenderOptions 默认尺寸
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: "1100px", Height: "560px"}
}

type renderer interface {
	Render(w io.Writer) error
}

// RenderHTML 将图表描述渲染为独立 HTML 文档
func RenderHTML(c model.Chart, ro RenderOptions, w io.Writer) error {
	if ro.Width == "" || ro.Height == "" {
		ro = DefaultRenderOptions()
	}
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: c.Title, Width: ro.Width, Height: ro.Height}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}

	var r renderer
	switch c.Kind {
	case model.ChartBar, model.ChartHBar, model.ChartGroupedBar:
		r = renderBar(c, global)
	case model.ChartPie:
		r = renderPie(c, global)
	case model.ChartScatter:
		r = renderScatter(c, global)
	case model.ChartSankey:
		r = renderSankey(c, global)
	default:
		return fmt.Errorf("unsupported chart kind %q", c.Kind)
	}
	if err := r.Render(w); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", c.ID, err)
	}
	return nil
}

func labelOpts(position string) opts.Label {
	return opts.Label{Show: opts.Bool(true), Position: position}
}

func renderBar(c model.Chart, global []charts.GlobalOpts) *charts.Bar {
	bar := charts.NewBar()
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: c.XAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YAxisTitle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(c.Kind == model.ChartGroupedBar), Top: "bottom"}),
	)
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(c.Categories)

	position := "top"
	if c.Kind == model.ChartHBar {
		position = "right"
	}
	for _, s := range c.Series {
		data := make([]opts.BarData, 0, len(s.Points))
		for _, p := range s.Points {
			d := opts.BarData{Name: p.Label, Value: p.Value}
			if p.Color != "" {
				d.ItemStyle = &opts.ItemStyle{Color: p.Color}
			}
			data = append(data, d)
		}
		seriesOpts := []charts.SeriesOpts{charts.WithLabelOpts(labelOpts(position))}
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		bar.AddSeries(s.Name, data, seriesOpts...)
	}
	if c.Kind == model.ChartHBar {
		bar.XYReversal()
	}
	return bar
}

func renderPie(c model.Chart, global []charts.GlobalOpts) *charts.Pie {
	pie := charts.NewPie()
	global = append(global, charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}))
	pie.SetGlobalOptions(global...)
	for _, s := range c.Series {
		data := make([]opts.PieData, 0, len(s.Points))
		for _, p := range s.Points {
			d := opts.PieData{Name: p.Label, Value: p.Value}
			if p.Color != "" {
				d.ItemStyle = &opts.ItemStyle{Color: p.Color}
			}
			data = append(data, d)
		}
		pie.AddSeries(s.Name, data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		)
	}
	return pie
}

func renderScatter(c model.Chart, global []charts.GlobalOpts) *charts.Scatter {
	sc := charts.NewScatter()
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: c.XAxisTitle, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YAxisTitle, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	sc.SetGlobalOptions(global...)
	for _, s := range c.Series {
		data := make([]opts.ScatterData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.ScatterData{Name: p.Label, Value: []interface{}{p.X, p.Y}, SymbolSize: 14})
		}
		sc.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	return sc
}

// renderSankey 左侧为部门、右侧为级别；同名节点加后缀以免成环
func renderSankey(c model.Chart, global []charts.GlobalOpts) *charts.Sankey {
	sk := charts.NewSankey()
	sk.SetGlobalOptions(global...)

	sources := make(map[string]bool)
	var nodes []opts.SankeyNode
	for _, f := range c.Flows {
		if !sources[f.Source] {
			sources[f.Source] = true
			nodes = append(nodes, opts.SankeyNode{Name: f.Source})
		}
	}
	targetName := func(t string) string {
		if sources[t] {
			return t + " (Level)"
		}
		return t
	}
	targets := make(map[string]bool)
	links := make([]opts.SankeyLink, 0, len(c.Flows))
	for _, f := range c.Flows {
		name := targetName(f.Target)
		if !targets[name] {
			targets[name] = true
			nodes = append(nodes, opts.SankeyNode{Name: name})
		}
		links = append(links, opts.SankeyLink{Source: f.Source, Target: name, Value: float32(f.Count)})
	}
	sk.AddSeries("Karriere-Flow", nodes, links, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return sk
}
