package model

import "strings"

// Field 规范字段（与上传表格的列名无关）
type Field string

const (
	FieldID              Field = "id"
	FieldBirthYear       Field = "birth_year"
	FieldHireYear        Field = "hire_year"
	FieldGender          Field = "gender"
	FieldDepartment      Field = "department"
	FieldLevel           Field = "level"
	FieldSalary          Field = "salary"
	FieldWorkTime        Field = "work_time"
	FieldWeeklyHours     Field = "weekly_hours"
	FieldEntryPosition   Field = "entry_position"
	FieldCurrentPosition Field = "current_position"
	FieldLocation        Field = "location"
	FieldEducation       Field = "education"
	FieldContractType    Field = "contract_type"
)

// Fields 规范字段的展示顺序
var Fields = []Field{
	FieldID,
	FieldBirthYear,
	FieldHireYear,
	FieldGender,
	FieldDepartment,
	FieldLevel,
	FieldSalary,
	FieldWorkTime,
	FieldWeeklyHours,
	FieldEntryPosition,
	FieldCurrentPosition,
	FieldLocation,
	FieldEducation,
	FieldContractType,
}

var fieldLabels = map[Field]string{
	FieldID:              "Mitarbeiter-ID",
	FieldBirthYear:       "Geburtsjahr",
	FieldHireYear:        "Eintrittsjahr",
	FieldGender:          "Geschlecht",
	FieldDepartment:      "Abteilung",
	FieldLevel:           "Karrierelevel",
	FieldSalary:          "Gehalt",
	FieldWorkTime:        "Arbeitszeit",
	FieldWeeklyHours:     "Wochenstunden",
	FieldEntryPosition:   "Einstiegsposition",
	FieldCurrentPosition: "Aktuelle Position",
	FieldLocation:        "Standort",
	FieldEducation:       "Bildungsabschluss",
	FieldContractType:    "Vertragsart",
}

// Label 字段展示名
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// MissingLabel 分类统计中缺失值的展示名
const MissingLabel = "Ohne Angabe"

// Value 可缺失的数值（对应表格中的空值/非数字）
type Value struct {
	Float float64
	Valid bool
}

// Some 构造有效数值
func Some(v float64) Value {
	return Value{Float: v, Valid: true}
}

// Record 员工记录（一行），单元格与 Dataset.Headers 按列对齐
type Record struct {
	RowNo int      `json:"rowNo"` // Excel 行号（从 1 开始，含表头）
	Cells []string `json:"cells"`
}

// Dataset 解析后的数据集
//
// Age/Tenure/Salary 只有在对应源列被识别时才会计算，否则为 nil。
type Dataset struct {
	FileName  string        `json:"fileName"`
	SheetName string        `json:"sheetName"`
	Headers   []string      `json:"headers"`
	Records   []Record      `json:"-"`
	Columns   map[Field]int `json:"columns"`

	CurrentYear int     `json:"currentYear"`
	Age         []Value `json:"-"`
	Tenure      []Value `json:"-"`
	Salary      []Value `json:"-"`
}

// Len 行数
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Has 字段是否被识别
func (d *Dataset) Has(f Field) bool {
	if d == nil {
		return false
	}
	_, ok := d.Columns[f]
	return ok
}

// Header 字段对应的原始列名
func (d *Dataset) Header(f Field) string {
	idx, ok := d.Columns[f]
	if !ok || idx >= len(d.Headers) {
		return ""
	}
	return d.Headers[idx]
}

// Text 第 i 行字段的原始文本（已去除首尾空白）
func (d *Dataset) Text(i int, f Field) string {
	idx, ok := d.Columns[f]
	if !ok {
		return ""
	}
	cells := d.Records[i].Cells
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// ID 第 i 行的员工编号，缺失时返回 "?"
func (d *Dataset) ID(i int) string {
	if v := d.Text(i, FieldID); v != "" {
		return v
	}
	return "?"
}
