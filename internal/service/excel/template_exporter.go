package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	// TemplateFileName 模板下载文件名
	TemplateFileName = "HR_Vorlage.xlsx"
	// TemplateSheet 模板工作表名
	TemplateSheet = "Mitarbeiter"
)

// TemplateHeaders 模板表头（顺序固定，可被列识别全部命中）
var TemplateHeaders = []string{
	"Mitarbeiter_ID",
	"Geburtsjahr",
	"Eintrittsjahr",
	"Geschlecht",
	"Abteilung",
	"Einstiegsposition",
	"Aktuelle_Position",
	"Karrierelevel",
	"Gehalt_Brutto_Jahr",
	"Arbeitszeit",
	"Wochenstunden",
	"Standort",
	"Bildungsabschluss",
	"Vertragsart",
}

// TemplateExporter 空白录入模板导出器
type TemplateExporter struct {
	headerColor string
	colWidth    float64
}

// NewTemplateExporter 创建导出器
func NewTemplateExporter() *TemplateExporter {
	return &TemplateExporter{headerColor: "#27AE60", colWidth: 20}
}

// NewTemplateWorkbook 创建模板工作簿：仅表头，无数据行
func (e *TemplateExporter) NewTemplateWorkbook() (*excelize.File, error) {
	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", TemplateSheet); err != nil {
		_ = wb.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(TemplateHeaders))
	for i, h := range TemplateHeaders {
		header[i] = h
	}
	if err := wb.SetSheetRow(TemplateSheet, "A1", &header); err != nil {
		_ = wb.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	style, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{e.headerColor}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		_ = wb.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(TemplateHeaders))
	if err := wb.SetCellStyle(TemplateSheet, "A1", lastCol+"1", style); err != nil {
		_ = wb.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := wb.SetColWidth(TemplateSheet, "A", lastCol, e.colWidth); err != nil {
		_ = wb.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	return wb, nil
}

// WriteTo 将模板写入 w
func (e *TemplateExporter) WriteTo(w io.Writer) (int64, error) {
	wb, err := e.NewTemplateWorkbook()
	if err != nil {
		return 0, err
	}
	defer func() { _ = wb.Close() }()
	return wb.WriteTo(w)
}
