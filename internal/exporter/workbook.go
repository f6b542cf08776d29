package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"hranalyse/internal/model"
)

// WorkbookFileName 结果工作簿文件名
const WorkbookFileName = "25_Auswertung.xlsx"

const (
	sheetQuality    = "Datenqualität"
	sheetRetirement = "Rente"
	sheetRisk       = "Wissensrisiko"
)

// NewResultWorkbook 将分析结果写入工作簿（质量、退休、知识风险三张表）
func NewResultWorkbook(r *model.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetQuality); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#34495E"}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &sheetWriter{f: f, header: header}
	w.qualitySheet(&r.Quality)
	if r.Retirement != nil {
		w.retirementSheet(r.Retirement)
	}
	if r.Risk != nil {
		w.riskSheet(r.Risk)
	}
	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteResultWorkbook 生成工作簿并写出
func WriteResultWorkbook(r *model.Report, out io.Writer) error {
	f, err := NewResultWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetWriter 记录第一个错误，后续写入直接跳过
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) sheet(name string, widths map[string]float64) {
	if w.err != nil {
		return
	}
	if name != sheetQuality {
		if _, err := w.f.NewSheet(name); err != nil {
			w.err = fmt.Errorf("failed to create sheet %s: %w", name, err)
			return
		}
	}
	for col, width := range widths {
		if err := w.f.SetColWidth(name, col, col, width); err != nil {
			w.err = fmt.Errorf("failed to set column width: %w", err)
			return
		}
	}
}

func (w *sheetWriter) row(sheet string, rowNo int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", sheet, rowNo, err)
	}
}

func (w *sheetWriter) headerRow(sheet string, rowNo int, values ...interface{}) {
	w.row(sheet, rowNo, values...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, rowNo)
	last, _ := excelize.CoordinatesToCellName(len(values), rowNo)
	if err := w.f.SetCellStyle(sheet, first, last, w.header); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
}

func (w *sheetWriter) qualitySheet(q *model.QualityReport) {
	w.sheet(sheetQuality, map[string]float64{"A": 28, "B": 22, "C": 12, "D": 12, "E": 12})
	w.row(sheetQuality, 1, "Qualitätsscore", q.Score, string(q.Band))
	w.headerRow(sheetQuality, 3, "Feld", "Spalte", "Fehlend", "Fehlend %", "Status")
	n := 4
	for _, fq := range q.Fields {
		w.row(sheetQuality, n, fq.Label, fq.Header, fq.Missing, fq.Percent, fq.Status.Label())
		n++
	}

	n++
	w.headerRow(sheetQuality, n, "Prüfung", "Anzahl", "Status")
	n++
	for _, o := range q.Outliers {
		w.row(sheetQuality, n, o.Label, o.Count, o.Status.Label())
		n++
	}

	if len(q.Examples) == 0 {
		return
	}
	n++
	w.headerRow(sheetQuality, n, "Zeile", "ID", "Prüfung", "Details")
	n++
	for _, ex := range q.Examples {
		w.row(sheetQuality, n, ex.RowNo, ex.ID, ex.Category, ex.Detail)
		n++
	}
}

func (w *sheetWriter) retirementSheet(r *model.RetirementReport) {
	w.sheet(sheetRetirement, map[string]float64{"A": 24, "B": 12, "C": 12})
	w.headerRow(sheetRetirement, 1, "Zeitraum", "Anzahl")
	n := 2
	for _, b := range r.Bands {
		w.row(sheetRetirement, n, b.Label, b.Count)
		n++
	}

	n++
	w.headerRow(sheetRetirement, n, "Jahr", "Renteneintritte")
	n++
	for _, y := range r.PerYear {
		w.row(sheetRetirement, n, y.Year, y.Count)
		n++
	}

	if len(r.AgeByDepartment) == 0 {
		return
	}
	n++
	w.headerRow(sheetRetirement, n, "Abteilung", "Mitarbeiter", "Ø Alter")
	n++
	for _, g := range r.AgeByDepartment {
		w.row(sheetRetirement, n, g.Group, g.Count, g.Value)
		n++
	}
}

func (w *sheetWriter) riskSheet(r *model.RiskReport) {
	w.sheet(sheetRisk, map[string]float64{"A": 16, "B": 8, "C": 8, "D": 10, "E": 18, "F": 12, "G": 12})
	w.headerRow(sheetRisk, 1, "Mitarbeiter-ID", "Zeile", "Alter", "Jahre im Unternehmen", "Jahre bis Rente", "Rentenjahr", "Status")
	for i, rec := range r.Records {
		w.row(sheetRisk, i+2, rec.ID, rec.RowNo, rec.Age, rec.Tenure, rec.YearsToRetirement, rec.RetirementYear, rec.Tier.Label())
	}
}
