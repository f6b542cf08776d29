package exporter

// ProgressEvent ZIP 打包进度
type ProgressEvent struct {
	// Percent 已写入条目占全部条目的百分比（0-100）
	Percent int `json:"percent"`
	// Stage 刚写完的条目：图表标题或下列阶段名
	Stage string `json:"stage"`
}

// 打包阶段
const (
	StageCharts   = "Diagramme werden erstellt"
	StageSummary  = "PDF-Zusammenfassung"
	StageWorkbook = "Excel-Auswertung"
	StageDone     = "Fertig"
)

// bundleProgress 按已写入的 ZIP 条目数推算进度
type bundleProgress struct {
	notify  func(ProgressEvent)
	entries int
	written int
}

func newBundleProgress(notify func(ProgressEvent), entries int) *bundleProgress {
	if entries < 1 {
		entries = 1
	}
	return &bundleProgress{notify: notify, entries: entries}
}

func (p *bundleProgress) start() {
	p.report(0, StageCharts)
}

// advance 一个条目写完
func (p *bundleProgress) advance(stage string) {
	p.written++
	p.report(p.written*100/p.entries, stage)
}

func (p *bundleProgress) report(percent int, stage string) {
	if p.notify == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.notify(ProgressEvent{Percent: percent, Stage: stage})
}
