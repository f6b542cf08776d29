package excel_test

import (
	"bytes"
	"errors"
	"testing"

	"hranalyse/internal/service/excel"
)

func TestTemplateWorkbookHeaders(t *testing.T) {
	t.Parallel()

	wb, err := excel.NewTemplateExporter().NewTemplateWorkbook()
	if err != nil {
		t.Fatalf("NewTemplateWorkbook failed: %v", err)
	}
	defer wb.Close()

	if got := wb.GetSheetList(); len(got) != 1 || got[0] != excel.TemplateSheet {
		t.Fatalf("sheets=%v, want [%s]", got, excel.TemplateSheet)
	}
	rows, err := wb.GetRows(excel.TemplateSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want 1 (header only)", len(rows))
	}
	for i, want := range excel.TemplateHeaders {
		if rows[0][i] != want {
			t.Fatalf("header[%d]=%q, want %q", i, rows[0][i], want)
		}
	}

	width, err := wb.GetColWidth(excel.TemplateSheet, "N")
	if err != nil {
		t.Fatalf("GetColWidth failed: %v", err)
	}
	if width != 20 {
		t.Fatalf("width=%v, want 20", width)
	}
}

func TestTemplateRoundTripIsEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := excel.NewTemplateExporter().WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	p := excel.NewParser()
	if err := p.LoadFile(excel.TemplateFileName, &buf); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	sheet, err := p.Sheet()
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}

	_, _, err = excel.BuildDataset(excel.TemplateFileName, sheet, nil)
	if !errors.Is(err, excel.ErrEmptyDataset) {
		t.Fatalf("err=%v, want ErrEmptyDataset", err)
	}
}
