package excel

import "errors"

var (
	// ErrUnsupportedFormat 文件扩展名不是 .xlsx/.xlsm/.xls
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrUnreadable 文件无法作为表格打开
	ErrUnreadable = errors.New("spreadsheet is unreadable")
	// ErrEmptyDataset 表头之外没有任何非空行
	ErrEmptyDataset = errors.New("spreadsheet contains no data rows")
)
