package calculator

import (
	"sort"

	"hranalyse/internal/model"
)

const (
	careerMinTenure   = 5
	careerMaxExamples = 10
)

// AnalyzeCareer 职业发展：入职岗位 → 当前岗位示例，部门 → 级别流向
func AnalyzeCareer(ds *model.Dataset) *model.CareerReport {
	report := &model.CareerReport{}

	if ds.Has(model.FieldEntryPosition) && ds.Has(model.FieldCurrentPosition) && ds.Tenure != nil {
		for i := 0; i < ds.Len() && len(report.Examples) < careerMaxExamples; i++ {
			entry := ds.Text(i, model.FieldEntryPosition)
			now := ds.Text(i, model.FieldCurrentPosition)
			t := ds.Tenure[i]
			if entry == "" || now == "" || !t.Valid || t.Float < careerMinTenure {
				continue
			}
			report.Examples = append(report.Examples, model.CareerPath{
				ID:     ds.ID(i),
				Entry:  entry,
				Now:    now,
				Tenure: t.Float,
			})
		}
	}

	if ds.Has(model.FieldDepartment) && ds.Has(model.FieldLevel) {
		type key struct{ src, dst string }
		counts := make(map[key]int)
		for i := 0; i < ds.Len(); i++ {
			dept := ds.Text(i, model.FieldDepartment)
			level := ds.Text(i, model.FieldLevel)
			if dept == "" || level == "" {
				continue
			}
			counts[key{dept, level}]++
		}
		for k, c := range counts {
			report.Flows = append(report.Flows, model.Flow{Source: k.src, Target: k.dst, Count: c})
		}
		sort.Slice(report.Flows, func(i, j int) bool {
			if report.Flows[i].Source != report.Flows[j].Source {
				return report.Flows[i].Source < report.Flows[j].Source
			}
			return report.Flows[i].Target < report.Flows[j].Target
		})
	}

	if len(report.Examples) == 0 && len(report.Flows) == 0 {
		return nil
	}
	return report
}
