package model

// ChartKind 图表类型
type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartHBar       ChartKind = "hbar"
	ChartPie        ChartKind = "pie"
	ChartScatter    ChartKind = "scatter"
	ChartSankey     ChartKind = "sankey"
	ChartGroupedBar ChartKind = "grouped_bar"
)

// Point 数据点；散点图使用 X/Y
type Point struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Color string  `json:"color,omitempty"`
	Text  string  `json:"text,omitempty"`
}

// Series 数据序列
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Chart 与渲染器无关的图表描述
//
// ID 形如 "01_Retirement_Overview"，同时作为导出文件名。
type Chart struct {
	ID         string    `json:"id"`
	Kind       ChartKind `json:"kind"`
	Title      string    `json:"title"`
	XAxisTitle string    `json:"xAxisTitle,omitempty"`
	YAxisTitle string    `json:"yAxisTitle,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Series     []Series  `json:"series"`
	Flows      []Flow    `json:"flows,omitempty"`
}
