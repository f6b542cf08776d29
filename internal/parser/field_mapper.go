package parser

import (
	"strings"

	"hranalyse/internal/model"
)

// DefaultSynonyms 字段识别表
//
// 顺序即优先级：前面的字段先挑列，已被占用的列不会再分配给后面的字段。
var DefaultSynonyms = []FieldSynonyms{
	{Field: model.FieldID, Synonyms: []string{"mitarbeiterid", "personalnummer", "personalnr", "employeeid"}},
	{Field: model.FieldBirthYear, Synonyms: []string{"geburtsjahr", "jahrgang", "birthyear", "yearofbirth"}},
	{Field: model.FieldHireYear, Synonyms: []string{"eintrittsjahr", "eintritt", "hireyear", "entryyear"}},
	{Field: model.FieldGender, Synonyms: []string{"geschlecht", "gender"}},
	{Field: model.FieldDepartment, Synonyms: []string{"abteilung", "department"}},
	{Field: model.FieldLevel, Synonyms: []string{"karrierelevel", "level"}},
	{Field: model.FieldSalary, Synonyms: []string{"gehalt", "brutto", "salary"}},
	{Field: model.FieldWorkTime, Synonyms: []string{"arbeitszeit", "worktime"}},
	{Field: model.FieldWeeklyHours, Synonyms: []string{"wochenstunden", "weeklyhours"}},
	{Field: model.FieldEntryPosition, Synonyms: []string{"einstiegsposition", "einstieg"}},
	{Field: model.FieldCurrentPosition, Synonyms: []string{"aktuelleposition", "aktuelle", "position"}},
	{Field: model.FieldLocation, Synonyms: []string{"standort", "location"}},
	{Field: model.FieldEducation, Synonyms: []string{"bildungsabschluss", "abschluss", "education"}},
	{Field: model.FieldContractType, Synonyms: []string{"vertragsart", "vertrag", "contract"}},
}

// FieldMapper 列名 → 规范字段 映射器
type FieldMapper struct {
	table []FieldSynonyms
}

// NewFieldMapper 创建映射器；table 为空时使用 DefaultSynonyms
func NewFieldMapper(table []FieldSynonyms) *FieldMapper {
	if len(table) == 0 {
		table = DefaultSynonyms
	}
	return &FieldMapper{table: table}
}

// Resolve 为每个字段按表头顺序找第一个包含任一同义词的列
func (m *FieldMapper) Resolve(headers []string) Resolution {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeColumnName(h)
	}

	res := Resolution{
		Mappings: make([]FieldMapping, 0, len(m.table)),
		Columns:  make(map[model.Field]int, len(m.table)),
		Unmapped: []string{},
	}
	claimed := make(map[int]struct{}, len(headers))

	for _, entry := range m.table {
		for idx, col := range normalized {
			if col == "" {
				continue
			}
			if _, taken := claimed[idx]; taken {
				continue
			}
			syn, ok := matchSynonym(col, entry.Synonyms)
			if !ok {
				continue
			}
			claimed[idx] = struct{}{}
			res.Columns[entry.Field] = idx
			res.Mappings = append(res.Mappings, FieldMapping{
				Field:       entry.Field,
				ColumnIndex: idx,
				ColumnName:  headers[idx],
				Synonym:     syn,
			})
			break
		}
	}

	for idx, h := range headers {
		if _, ok := claimed[idx]; ok || strings.TrimSpace(h) == "" {
			continue
		}
		res.Unmapped = append(res.Unmapped, h)
	}
	return res
}

// ResolveColumns 使用默认识别表解析表头
func ResolveColumns(headers []string) Resolution {
	return NewFieldMapper(nil).Resolve(headers)
}

func matchSynonym(col string, synonyms []string) (string, bool) {
	for _, s := range synonyms {
		if strings.Contains(col, s) {
			return s, true
		}
	}
	return "", false
}
