package calculator

import (
	"fmt"

	"hranalyse/internal/model"
)

// 司龄分段（左开右闭），范围外的值不计入
var tenureBands = []struct {
	Label string
	Upper float64
}{
	{Label: "Neu (0-2 J)", Upper: 2},
	{Label: "3-5 Jahre", Upper: 5},
	{Label: "6-10 Jahre", Upper: 10},
	{Label: "11-15 Jahre", Upper: 15},
	{Label: "16-20 Jahre", Upper: 20},
	{Label: "Über 20 Jahre", Upper: 100},
}

const (
	tenureBandLower = -1
	longServing     = 20
)

// Anniversaries 周年里程碑
var Anniversaries = []int{5, 10, 15, 20, 25, 30}

func tenureBandIndex(t float64) int {
	if t <= tenureBandLower {
		return -1
	}
	for i, b := range tenureBands {
		if t <= b.Upper {
			return i
		}
	}
	return -1
}

// AnalyzeTenure 司龄统计；司龄列缺失或无有效值时返回 nil
func AnalyzeTenure(ds *model.Dataset) *model.TenureReport {
	tenures := validFloats(ds.Tenure)
	if len(tenures) == 0 {
		return nil
	}

	report := &model.TenureReport{
		Employees:     len(tenures),
		Buckets:       make([]model.Bucket, len(tenureBands)),
		Anniversaries: make([]model.Bucket, len(Anniversaries)),
		Histogram:     histogram(tenures, histogramBins),
	}
	for i, b := range tenureBands {
		report.Buckets[i].Label = b.Label
	}
	for i, m := range Anniversaries {
		report.Anniversaries[i].Label = fmt.Sprintf("%d Jahre", m)
	}

	withDept := ds.Has(model.FieldDepartment)
	byDept := newGroupStats()

	for i, t := range ds.Tenure {
		if !t.Valid {
			continue
		}
		if idx := tenureBandIndex(t.Float); idx >= 0 {
			report.Buckets[idx].Count++
		}
		for j, m := range Anniversaries {
			if t.Float >= float64(m)-0.5 && t.Float < float64(m)+0.5 {
				report.Anniversaries[j].Count++
			}
		}
		if t.Float >= longServing {
			report.LongServing++
		}
		if withDept {
			if dept := ds.Text(i, model.FieldDepartment); dept != "" {
				byDept.add(dept, t.Float, false)
			}
		}
	}

	if withDept {
		report.TenureByDepartment = byDept.means()
	}
	report.Messages = []model.Message{{
		Level: model.LevelInfo,
		Text:  fmt.Sprintf("%d Mitarbeiter sind schon %d Jahre oder länger bei Ihnen!", report.LongServing, longServing),
	}}
	return report
}
