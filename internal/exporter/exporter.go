package exporter

import (
	"bytes"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zip"

	"hranalyse/internal/model"
)

const (
	// BundleFileName 下载包文件名
	BundleFileName = "HR_Analyse_Ergebnisse.zip"
	// ReportFileName 结构化结果
	ReportFileName = "report.json"
)

// Options 导出选项
type Options struct {
	Width   string
	Height  string
	Palette []string
	// Workbook 为 true 时附带 25_Auswertung.xlsx
	Workbook bool
}

// Exporter 结果打包导出器
type Exporter struct {
	render  RenderOptions
	builder *ChartBuilder
	opts    Options
}

// NewExporter 创建导出器
func NewExporter(opts Options) *Exporter {
	ro := RenderOptions{Width: opts.Width, Height: opts.Height}
	if ro.Width == "" || ro.Height == "" {
		ro = DefaultRenderOptions()
	}
	return &Exporter{
		render:  ro,
		builder: NewChartBuilder(opts.Palette),
		opts:    opts,
	}
}

// AttachCharts 生成图表描述并写入 report.Charts
func (e *Exporter) AttachCharts(r *model.Report) {
	r.Charts = e.builder.Build(r)
}

// WriteBundle 将全部图表（HTML）、PDF 摘要与 report.json 打包为 ZIP
func (e *Exporter) WriteBundle(r *model.Report, w io.Writer, progress func(ProgressEvent)) error {
	if r == nil {
		return fmt.Errorf("no report to export")
	}
	if len(r.Charts) == 0 {
		e.AttachCharts(r)
	}

	zw := zip.NewWriter(w)
	modified := r.GeneratedAt
	if modified.IsZero() {
		modified = time.Now()
	}
	add := func(name string, fill func(io.Writer) error) error {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		return fill(fw)
	}

	entries := len(r.Charts) + 2
	if e.opts.Workbook {
		entries++
	}
	prog := newBundleProgress(progress, entries)
	prog.start()

	for _, c := range r.Charts {
		c := c
		if err := add(c.ID+".html", func(fw io.Writer) error { return RenderHTML(c, e.render, fw) }); err != nil {
			_ = zw.Close()
			return err
		}
		prog.advance(c.Title)
	}

	if err := add(SummaryFileName, func(fw io.Writer) error { return WriteSummaryPDF(r, fw) }); err != nil {
		_ = zw.Close()
		return err
	}
	prog.advance(StageSummary)

	if e.opts.Workbook {
		if err := add(WorkbookFileName, func(fw io.Writer) error { return WriteResultWorkbook(r, fw) }); err != nil {
			_ = zw.Close()
			return err
		}
		prog.advance(StageWorkbook)
	}

	if err := add(ReportFileName, func(fw io.Writer) error {
		enc := json.NewEncoder(fw)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}); err != nil {
		_ = zw.Close()
		return err
	}
	prog.advance(StageDone)

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %w", err)
	}
	return nil
}

// Bundle 返回 ZIP 字节
func (e *Exporter) Bundle(r *model.Report, progress func(ProgressEvent)) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.WriteBundle(r, &buf, progress); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
