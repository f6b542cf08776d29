package calculator

import (
	"fmt"
	"math"

	"hranalyse/internal/model"
)

const (
	// MinRetirementAge 可选退休年龄下限
	MinRetirementAge = 60
	// MaxRetirementAge 可选退休年龄上限
	MaxRetirementAge = 70
	// DefaultRetirementAge 默认退休年龄
	DefaultRetirementAge = 67

	perYearHorizon    = 15
	cumulativeHorizon = 10
	alertNear         = 5
	alertFar          = 10
)

// retirementBand 距退休年限分段（左开右闭），Upper 为 +Inf 表示无上限
type retirementBand struct {
	Label string
	Upper float64
}

var retirementBands = []retirementBand{
	{Label: "Bereits Rente", Upper: 0},
	{Label: "0-5 Jahre", Upper: 5},
	{Label: "5-10 Jahre", Upper: 10},
	{Label: "10-15 Jahre", Upper: 15},
	{Label: "15-20 Jahre", Upper: 20},
	{Label: "Mehr als 20 Jahre", Upper: math.Inf(1)},
}

// RetirementBandLabels 退休分段标签（展示顺序）
func RetirementBandLabels() []string {
	out := make([]string, len(retirementBands))
	for i, b := range retirementBands {
		out[i] = b.Label
	}
	return out
}

// retirementBandIndex ytr ≤ 0 归入“已退休”
func retirementBandIndex(ytr float64) int {
	for i, b := range retirementBands {
		if ytr <= b.Upper {
			return i
		}
	}
	return len(retirementBands) - 1
}

// yearsToRetirement 距退休年限及预计退休年份
func yearsToRetirement(age float64, retirementAge, currentYear int) (float64, int) {
	ytr := float64(retirementAge) - age
	return ytr, currentYear + int(math.Round(ytr))
}

// ProjectRetirement 退休预测；年龄列缺失或无有效年龄时返回 nil
func ProjectRetirement(ds *model.Dataset, retirementAge int) *model.RetirementReport {
	ages := validFloats(ds.Age)
	if len(ages) == 0 {
		return nil
	}

	year := ds.CurrentYear
	n := len(ages)
	report := &model.RetirementReport{
		Employees:    n,
		Bands:        make([]model.Bucket, len(retirementBands)),
		PerYear:      make([]model.YearCount, perYearHorizon+1),
		Cumulative:   make([]model.HorizonCount, cumulativeHorizon),
		AgeHistogram: histogram(ages, histogramBins),
	}
	for i, b := range retirementBands {
		report.Bands[i].Label = b.Label
	}
	for i := range report.PerYear {
		report.PerYear[i].Year = year + i
	}

	withDept := ds.Has(model.FieldDepartment)
	ageByDept := newGroupStats()
	ytrs := make([]float64, 0, n)

	for i, a := range ds.Age {
		if !a.Valid {
			continue
		}
		ytr, retYear := yearsToRetirement(a.Float, retirementAge, year)
		ytrs = append(ytrs, ytr)

		report.Bands[retirementBandIndex(ytr)].Count++
		if off := retYear - year; off >= 0 && off <= perYearHorizon {
			report.PerYear[off].Count++
		}
		switch {
		case ytr <= alertNear:
			report.Within5++
		case ytr <= alertFar:
			report.Within10++
		}

		if withDept {
			if dept := ds.Text(i, model.FieldDepartment); dept != "" {
				ageByDept.add(dept, a.Float, ytr <= alertNear)
			}
		}
	}

	for h := 1; h <= cumulativeHorizon; h++ {
		count := 0
		for _, ytr := range ytrs {
			if ytr <= float64(h) {
				count++
			}
		}
		report.Cumulative[h-1] = model.HorizonCount{Horizon: h, Count: count, Percent: percent(count, n)}
	}

	report.Within5Percent = percent(report.Within5, n)
	report.Within10Percent = percent(report.Within10, n)
	if withDept {
		report.AgeByDepartment = ageByDept.means()
		report.LossByDepartment = ageByDept.shares()
	}

	if report.Within5 > 0 {
		report.Messages = append(report.Messages, model.Message{
			Level: model.LevelError,
			Text: fmt.Sprintf("ACHTUNG: %d Mitarbeiter (%g%%) erreichen in den nächsten %d Jahren das Rentenalter!",
				report.Within5, report.Within5Percent, alertNear),
		})
	}
	if report.Within10 > 0 {
		report.Messages = append(report.Messages, model.Message{
			Level: model.LevelWarning,
			Text: fmt.Sprintf("Weitere %d Mitarbeiter (%g%%) gehen in %d-%d Jahren in Rente.",
				report.Within10, report.Within10Percent, alertNear, alertFar),
		})
	}
	return report
}
