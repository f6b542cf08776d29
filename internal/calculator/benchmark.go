package calculator

import (
	"math"
	"strings"

	"hranalyse/internal/benchmark"
	"hranalyse/internal/model"
	"hranalyse/internal/parser"
)

// 对标指标
const (
	MetricMeanAge       = "mean_age"
	MetricFemalePercent = "female_percent"
	MetricPartTime      = "part_time_percent"
	MetricMonthlySalary = "monthly_salary"
)

// IsPartTime 工时类型是否为兼职
func IsPartTime(v string) bool {
	return parser.ContainsAny(strings.ToLower(v), partTimeKeywords)
}

var partTimeKeywords = []string{"teil", "part"}

// CompareBenchmark 与区域参考值并列对比；无可比指标时 Rows 为空
func CompareBenchmark(ds *model.Dataset, ref benchmark.Reference) *model.BenchmarkReport {
	report := &model.BenchmarkReport{Region: ref.Region, Rows: []model.BenchmarkRow{}}

	if m, ok := mean(validFloats(ds.Age)); ok {
		report.Rows = append(report.Rows, model.BenchmarkRow{
			Metric: MetricMeanAge, Label: "Durchschnittsalter", Company: round1(m), Reference: ref.MeanAge,
		})
	}
	if share, ok := textShare(ds, model.FieldGender, func(v string) bool { return NormalizeGender(v) == genderFemale }); ok {
		report.Rows = append(report.Rows, model.BenchmarkRow{
			Metric: MetricFemalePercent, Label: "Frauenanteil %", Company: share, Reference: ref.FemalePercent,
		})
	}
	if share, ok := textShare(ds, model.FieldWorkTime, IsPartTime); ok {
		report.Rows = append(report.Rows, model.BenchmarkRow{
			Metric: MetricPartTime, Label: "Teilzeitquote %", Company: share, Reference: ref.PartTime,
		})
	}
	if m, ok := mean(validFloats(ds.Salary)); ok {
		report.Rows = append(report.Rows, model.BenchmarkRow{
			Metric: MetricMonthlySalary, Label: "Monatsgehalt €", Company: math.Round(m / 12), Reference: ref.MonthlySalary,
		})
	}
	return report
}

// textShare 非空值中满足 match 的占比（%）
func textShare(ds *model.Dataset, f model.Field, match func(string) bool) (float64, bool) {
	if !ds.Has(f) {
		return 0, false
	}
	total, hits := 0, 0
	for i := 0; i < ds.Len(); i++ {
		v := ds.Text(i, f)
		if v == "" {
			continue
		}
		total++
		if match(v) {
			hits++
		}
	}
	if total == 0 {
		return 0, false
	}
	return percent(hits, total), true
}
