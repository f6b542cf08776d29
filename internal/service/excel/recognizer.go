package excel

import (
	"sort"

	"hranalyse/internal/parser"
)

// sheetCandidate 候选工作表
type sheetCandidate struct {
	name  string
	index int
	score int
}

// SheetRecognition 单个工作表的识别结果
type SheetRecognition struct {
	Name   string `json:"name"`
	Fields int    `json:"fields"` // 表头识别出的规范字段数
}

// scoreHeader 表头能识别出的规范字段数
func scoreHeader(mapper *parser.FieldMapper, header []string) int {
	if len(header) == 0 {
		return 0
	}
	return len(mapper.Resolve(header).Columns)
}

// bestCandidate 字段数最多者胜出，同分取靠前的工作表
func bestCandidate(cands []sheetCandidate) sheetCandidate {
	sorted := append([]sheetCandidate(nil), cands...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		return sorted[i].index < sorted[j].index
	})
	return sorted[0]
}

func recognitions(cands []sheetCandidate) []SheetRecognition {
	out := make([]SheetRecognition, len(cands))
	for _, c := range cands {
		out[c.index] = SheetRecognition{Name: c.name, Fields: c.score}
	}
	return out
}
