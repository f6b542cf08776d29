package excel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"hranalyse/internal/parser"
)

// maxXLSRows 旧版 .xls 的最大行数
const maxXLSRows = 65536

// Sheet 读入内存的工作表
type Sheet struct {
	Name string
	Rows [][]string
}

// Header 表头行（第一行）
func (s *Sheet) Header() []string {
	if s == nil || len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}

// Parser Excel解析器
//
// 工作簿有多个工作表时，读取表头识别字段最多的那一个。
type Parser struct {
	mapper   *parser.FieldMapper
	fileName string
	sheet    *Sheet
	sheets   []SheetRecognition
}

// NewParser 创建解析器，使用默认字段识别表挑选工作表
func NewParser() *Parser {
	return NewParserWithMapper(nil)
}

// NewParserWithMapper 使用指定映射器挑选工作表
func NewParserWithMapper(mapper *parser.FieldMapper) *Parser {
	if mapper == nil {
		mapper = parser.NewFieldMapper(nil)
	}
	return &Parser{mapper: mapper}
}

// SupportedFormat 文件名是否为支持的表格格式
func SupportedFormat(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	default:
		return false
	}
}

// LoadFile 加载Excel文件；按扩展名选择 excelize 或 xls
func (p *Parser) LoadFile(fileName string, reader io.Reader) error {
	if !SupportedFormat(fileName) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(fileName))
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	var (
		sheet *Sheet
		recs  []SheetRecognition
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xls":
		sheet, recs, err = readXLS(data, p.mapper)
	default:
		sheet, recs, err = readXLSX(data, p.mapper)
	}
	if err != nil {
		return err
	}

	p.fileName = fileName
	p.sheet = sheet
	p.sheets = recs
	return nil
}

// FileName 已加载的文件名
func (p *Parser) FileName() string {
	return p.fileName
}

// Sheet 已加载的工作表
func (p *Parser) Sheet() (*Sheet, error) {
	if p.sheet == nil {
		return nil, errors.New("no file loaded")
	}
	return p.sheet, nil
}

// Recognitions 工作簿中每个工作表的识别结果，按工作表顺序
func (p *Parser) Recognitions() []SheetRecognition {
	return p.sheets
}

func readXLSX(data []byte, mapper *parser.FieldMapper) (*Sheet, []SheetRecognition, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() { _ = file.Close() }()

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("%w: no worksheet found", ErrUnreadable)
	}
	cands := make([]sheetCandidate, 0, len(names))
	for i, name := range names {
		cands = append(cands, sheetCandidate{
			name:  name,
			index: i,
			score: scoreHeader(mapper, headerRow(file, name)),
		})
	}
	best := bestCandidate(cands)

	rows, err := file.GetRows(best.name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return &Sheet{Name: best.name, Rows: padRows(rows)}, recognitions(cands), nil
}

// headerRow 只读取工作表第一行
func headerRow(file *excelize.File, name string) []string {
	rows, err := file.Rows(name)
	if err != nil {
		return nil
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil
	}
	return cols
}

// readXLS 读取旧版 .xls
//
// xls 库对损坏文件没有边界检查，先用 checkXLS 校验结构，
// 其余无法预判的 panic 在这里转为 ErrUnreadable。
func readXLS(data []byte, mapper *parser.FieldMapper) (sheet *Sheet, recs []SheetRecognition, err error) {
	if err := checkXLS(data); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() {
		if r := recover(); r != nil {
			sheet, recs, err = nil, nil, fmt.Errorf("%w: corrupted xls: %v", ErrUnreadable, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, nil, fmt.Errorf("%w: no worksheet found", ErrUnreadable)
	}

	sheets := make([]*Sheet, 0, wb.NumSheets())
	cands := make([]sheetCandidate, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		s := &Sheet{Name: ws.Name, Rows: xlsRows(ws)}
		sheets = append(sheets, s)
		cands = append(cands, sheetCandidate{name: s.Name, index: len(cands), score: scoreHeader(mapper, s.Header())})
	}
	if len(cands) == 0 {
		return nil, nil, fmt.Errorf("%w: no worksheet found", ErrUnreadable)
	}
	best := sheets[bestCandidate(cands).index]
	best.Rows = padRows(best.Rows)
	return best, recognitions(cands), nil
}

func xlsRows(ws *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
		row := xlsRow(ws, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		// Row.LastCol 来自 ROW 记录，缺失时为 0，按最大列数逐列读取
		cells := make([]string, maxXLSCols)
		for j := range cells {
			cells[j] = row.Col(j)
		}
		end := len(cells)
		for end > 0 && cells[end-1] == "" {
			end--
		}
		rows = append(rows, cells[:end])
	}
	return trimTrailingEmpty(rows)
}

// xlsRow 工作表中不存在的行返回 nil（库在这种情况下会 panic）
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// padRows 补齐每行到表头宽度，excelize 会省略行尾空单元格
func padRows(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows
}

func trimTrailingEmpty(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && len(rows[end-1]) == 0 {
		end--
	}
	return rows[:end]
}
