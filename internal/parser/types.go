package parser

import "hranalyse/internal/model"

// FieldSynonyms 规范字段及其同义词（均为规范化后的小写形式）
type FieldSynonyms struct {
	Field    model.Field
	Synonyms []string
}

// FieldMapping 列映射结果
type FieldMapping struct {
	Field       model.Field `json:"field"`
	ColumnIndex int         `json:"columnIndex"` // 表头中的列索引
	ColumnName  string      `json:"columnName"`  // 原始列名
	Synonym     string      `json:"synonym"`     // 命中的同义词
}

// Resolution 整张表头的映射结果
type Resolution struct {
	Mappings []FieldMapping      `json:"mappings"`
	Columns  map[model.Field]int `json:"columns"`
	Unmapped []string            `json:"unmapped"`
}

// Index 字段对应的列索引
func (r Resolution) Index(f model.Field) (int, bool) {
	idx, ok := r.Columns[f]
	return idx, ok
}
