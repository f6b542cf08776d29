package calculator

import (
	"sort"
	"strings"

	"hranalyse/internal/model"
)

const (
	genderMale   = "Männlich"
	genderFemale = "Weiblich"
)

// NormalizeGender 统一性别写法：m/männlich/male → Männlich，w/weiblich/female → Weiblich
func NormalizeGender(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "m", "männlich", "maennlich", "male":
		return genderMale
	case "w", "f", "weiblich", "female":
		return genderFemale
	default:
		return strings.TrimSpace(v)
	}
}

// distribution 分类计数：按数量降序，缺失值统一计入 MissingLabel 并排在最后
func distribution(ds *model.Dataset, f model.Field, normalize func(string) string) *model.Distribution {
	if !ds.Has(f) {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	missing := 0
	for i := 0; i < ds.Len(); i++ {
		v := ds.Text(i, f)
		if v == "" {
			missing++
			continue
		}
		if normalize != nil {
			v = normalize(v)
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}

	buckets := make([]model.Bucket, 0, len(order)+1)
	for _, k := range order {
		buckets = append(buckets, model.Bucket{Label: k, Count: counts[k]})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	if missing > 0 {
		buckets = append(buckets, model.Bucket{Label: model.MissingLabel, Count: missing})
	}
	return &model.Distribution{Field: f, Label: f.Label(), Buckets: buckets, Total: ds.Len()}
}

// AnalyzeDemographics 人员结构分布
func AnalyzeDemographics(ds *model.Dataset) model.DemographicsReport {
	report := model.DemographicsReport{
		Gender:        distribution(ds, model.FieldGender, NormalizeGender),
		Departments:   distribution(ds, model.FieldDepartment, nil),
		Levels:        distribution(ds, model.FieldLevel, nil),
		WorkTime:      distribution(ds, model.FieldWorkTime, nil),
		Locations:     distribution(ds, model.FieldLocation, nil),
		Education:     distribution(ds, model.FieldEducation, nil),
		ContractTypes: distribution(ds, model.FieldContractType, nil),
	}
	if salaries := validFloats(ds.Salary); len(salaries) > 0 {
		report.SalaryHistogram = histogram(salaries, histogramBins)
	}
	if hours := validFloats(numericColumn(ds, model.FieldWeeklyHours)); len(hours) > 0 {
		report.HoursHistogram = histogram(hours, histogramBins)
	}
	return report
}
