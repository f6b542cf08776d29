package excel

import (
	"fmt"
	"strings"

	"hranalyse/internal/model"
	"hranalyse/internal/parser"
)

// BuildDataset 将工作表转换为数据集：识别列、剔除空行
//
// 表头之外没有非空行时返回 ErrEmptyDataset。
func BuildDataset(fileName string, sheet *Sheet, mapper *parser.FieldMapper) (*model.Dataset, parser.Resolution, error) {
	if sheet == nil || len(sheet.Rows) == 0 {
		return nil, parser.Resolution{}, fmt.Errorf("%s: %w", fileName, ErrEmptyDataset)
	}
	if mapper == nil {
		mapper = parser.NewFieldMapper(nil)
	}

	headers := make([]string, len(sheet.Header()))
	for i, h := range sheet.Header() {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]model.Record, 0, len(sheet.Rows)-1)
	for i, row := range sheet.Rows[1:] {
		if parser.IsBlankRow(row) {
			continue
		}
		cells := make([]string, len(headers))
		copy(cells, row)
		records = append(records, model.Record{RowNo: i + 2, Cells: cells})
	}
	if len(records) == 0 {
		return nil, parser.Resolution{}, fmt.Errorf("%s: %w", fileName, ErrEmptyDataset)
	}

	res := mapper.Resolve(headers)
	return &model.Dataset{
		FileName:  fileName,
		SheetName: sheet.Name,
		Headers:   headers,
		Records:   records,
		Columns:   res.Columns,
	}, res, nil
}
