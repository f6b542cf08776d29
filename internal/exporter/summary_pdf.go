package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"hranalyse/internal/model"
	"hranalyse/internal/util"
)

// SummaryFileName 摘要报告文件名
const SummaryFileName = "24_Summary_Report.pdf"

const (
	pdfFont        = "Helvetica"
	pdfLineHeight  = 6.0
	pdfMaxExamples = 15
)

type summaryWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// WriteSummaryPDF 生成一页式（可能跨页）PDF 摘要
func WriteSummaryPDF(r *model.Report, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("HR-Analyse", true)
	pdf.SetAutoPageBreak(true, 15)
	s := &summaryWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.AddPage()
	s.heading(16, "HR-Analyse: Zusammenfassung")
	s.line(fmt.Sprintf("Datei: %s", r.FileName))
	s.line(fmt.Sprintf("Erstellt: %s", r.GeneratedAt.Format("02.01.2006 15:04")))
	s.line(fmt.Sprintf("Renteneintrittsalter: %d   Region: %s", r.Parameters.RetirementAge, r.Parameters.Region))
	pdf.Ln(4)

	s.heading(13, "Kennzahlen")
	s.row("Mitarbeiter", util.FormatInt(r.KPIs.Headcount))
	if r.KPIs.MeanAge != nil {
		s.row("Durchschnittsalter", util.FormatDecimal(*r.KPIs.MeanAge)+" Jahre")
	}
	if r.KPIs.MeanTenure != nil {
		s.row("Betriebszugehörigkeit", util.FormatDecimal(*r.KPIs.MeanTenure)+" Jahre")
	}
	if r.KPIs.MeanSalary != nil {
		s.row("Durchschnittsgehalt", util.FormatEuro(*r.KPIs.MeanSalary))
	}
	pdf.Ln(4)

	s.quality(&r.Quality)
	if r.Retirement != nil {
		s.retirement(r.Retirement)
	}
	if r.Risk != nil {
		s.heading(13, "Wissensverlust")
		s.row("Kritisch", strconv.Itoa(r.Risk.Critical))
		s.row("Warnung", strconv.Itoa(r.Risk.Warning))
		s.row("OK", strconv.Itoa(r.Risk.OK))
		s.row("Erfahrung, die in 5 Jahren geht", util.FormatDecimal(r.Risk.ExperienceLost5)+" Jahre")
		pdf.Ln(4)
	}
	if r.Benchmark != nil && len(r.Benchmark.Rows) > 0 {
		s.benchmark(r.Benchmark)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write summary pdf: %w", err)
	}
	return nil
}

func (s *summaryWriter) heading(size float64, text string) {
	s.pdf.SetFont(pdfFont, "B", size)
	s.pdf.CellFormat(0, size*0.6, s.tr(text), "", 1, "L", false, 0, "")
	s.pdf.Ln(1)
}

func (s *summaryWriter) line(text string) {
	s.pdf.SetFont(pdfFont, "", 10)
	s.pdf.CellFormat(0, pdfLineHeight, s.tr(text), "", 1, "L", false, 0, "")
}

func (s *summaryWriter) row(label, value string) {
	s.pdf.SetFont(pdfFont, "", 10)
	s.pdf.CellFormat(80, pdfLineHeight, s.tr(label), "B", 0, "L", false, 0, "")
	s.pdf.CellFormat(60, pdfLineHeight, s.tr(value), "B", 1, "R", false, 0, "")
}

func (s *summaryWriter) filledRow(label, value, hex string) {
	r, g, b := hexRGB(hex)
	s.pdf.SetFillColor(r, g, b)
	s.pdf.SetFont(pdfFont, "", 10)
	s.pdf.CellFormat(6, pdfLineHeight, "", "", 0, "L", true, 0, "")
	s.pdf.CellFormat(74, pdfLineHeight, s.tr(" "+label), "B", 0, "L", false, 0, "")
	s.pdf.CellFormat(60, pdfLineHeight, s.tr(value), "B", 1, "R", false, 0, "")
}

func (s *summaryWriter) quality(q *model.QualityReport) {
	s.heading(13, "Datenqualität")
	s.row("Qualitätsscore", fmt.Sprintf("%.0f / 100", q.Score))
	s.row("Vollständigkeit", util.FormatPercent(q.Completeness))
	s.row("Plausibilität", util.FormatPercent(q.Plausibility))
	for _, o := range q.Problems() {
		s.filledRow(o.Label, strconv.Itoa(o.Count), tierColors[o.Severity])
	}

	n := len(q.Examples)
	if n > pdfMaxExamples {
		n = pdfMaxExamples
	}
	if n > 0 {
		s.pdf.Ln(2)
		s.pdf.SetFont(pdfFont, "B", 10)
		s.pdf.CellFormat(0, pdfLineHeight, s.tr("Beispiele"), "", 1, "L", false, 0, "")
		for _, ex := range q.Examples[:n] {
			s.line(fmt.Sprintf("Zeile %d (ID %s): %s", ex.RowNo, ex.ID, ex.Detail))
		}
	}
	s.pdf.Ln(4)
}

func (s *summaryWriter) retirement(r *model.RetirementReport) {
	s.heading(13, "Renteneintritte")
	for _, b := range r.Bands {
		s.filledRow(b.Label, strconv.Itoa(b.Count), RetirementBandColor(b.Label))
	}
	s.row("In 5 Jahren", fmt.Sprintf("%d (%s)", r.Within5, util.FormatPercent(r.Within5Percent)))
	s.row("In 5 bis 10 Jahren", fmt.Sprintf("%d (%s)", r.Within10, util.FormatPercent(r.Within10Percent)))
	s.pdf.Ln(4)
}

func (s *summaryWriter) benchmark(bm *model.BenchmarkReport) {
	s.heading(13, fmt.Sprintf("Vergleich mit %s", bm.Region))
	s.pdf.SetFont(pdfFont, "B", 10)
	s.pdf.CellFormat(60, pdfLineHeight, s.tr("Kennzahl"), "B", 0, "L", false, 0, "")
	s.pdf.CellFormat(40, pdfLineHeight, s.tr("Ihr Unternehmen"), "B", 0, "R", false, 0, "")
	s.pdf.CellFormat(40, pdfLineHeight, s.tr(bm.Region), "B", 1, "R", false, 0, "")
	s.pdf.SetFont(pdfFont, "", 10)
	for _, row := range bm.Rows {
		s.pdf.CellFormat(60, pdfLineHeight, s.tr(row.Label), "B", 0, "L", false, 0, "")
		s.pdf.CellFormat(40, pdfLineHeight, util.FormatDecimal(row.Company), "B", 0, "R", false, 0, "")
		s.pdf.CellFormat(40, pdfLineHeight, util.FormatDecimal(row.Reference), "B", 1, "R", false, 0, "")
	}
}

// hexRGB 解析 #rrggbb，非法值返回灰色
func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(hex) != 7 {
		return 0x95, 0xa5, 0xa6
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
