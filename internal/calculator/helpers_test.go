package calculator

import (
	"testing"
	"time"

	"hranalyse/internal/model"
	"hranalyse/internal/parser"
)

const testYear = 2024

func fixedNow() time.Time {
	return time.Date(testYear, time.March, 1, 10, 0, 0, 0, time.UTC)
}

// buildDataset 构造测试数据集，行号从 2 开始
func buildDataset(t *testing.T, headers []string, rows ...[]string) *model.Dataset {
	t.Helper()

	records := make([]model.Record, len(rows))
	for i, r := range rows {
		cells := make([]string, len(headers))
		copy(cells, r)
		records[i] = model.Record{RowNo: i + 2, Cells: cells}
	}
	return &model.Dataset{
		FileName: "test.xlsx",
		Headers:  headers,
		Records:  records,
		Columns:  parser.ResolveColumns(headers).Columns,
	}
}

func derived(t *testing.T, headers []string, rows ...[]string) *model.Dataset {
	t.Helper()

	ds := buildDataset(t, headers, rows...)
	Derive(ds, testYear)
	return ds
}
