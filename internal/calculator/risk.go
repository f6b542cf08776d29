package calculator

import (
	"fmt"

	"hranalyse/internal/model"
)

const (
	lossHorizon       = 10
	lossHighlightRate = 0.1
)

// ClassifyRisk 知识流失风险等级
//
//	CRITICAL: 司龄 ≥ 15 且 距退休 ≤ 5
//	WARNING:  司龄 ≥ 10 且 距退休 ≤ 10
func ClassifyRisk(tenure, yearsToRetirement float64) model.Tier {
	switch {
	case tenure >= 15 && yearsToRetirement <= 5:
		return model.TierCritical
	case tenure >= 10 && yearsToRetirement <= 10:
		return model.TierWarning
	default:
		return model.TierOK
	}
}

// AssessKnowledgeRisk 知识流失评估；需要年龄和司龄同时有效
func AssessKnowledgeRisk(ds *model.Dataset, retirementAge int) *model.RiskReport {
	if ds.Age == nil || ds.Tenure == nil {
		return nil
	}

	year := ds.CurrentYear
	report := &model.RiskReport{
		Records:           []model.RiskRecord{},
		ExperiencePerYear: make([]model.YearAmount, lossHorizon+1),
	}
	for i := range report.ExperiencePerYear {
		report.ExperiencePerYear[i].Year = year + i
	}

	for i := range ds.Records {
		a, t := ds.Age[i], ds.Tenure[i]
		if !a.Valid || !t.Valid {
			continue
		}
		ytr, retYear := yearsToRetirement(a.Float, retirementAge, year)
		tier := ClassifyRisk(t.Float, ytr)
		report.Records = append(report.Records, model.RiskRecord{
			ID:                ds.ID(i),
			RowNo:             ds.Records[i].RowNo,
			Age:               a.Float,
			Tenure:            t.Float,
			YearsToRetirement: ytr,
			RetirementYear:    retYear,
			Tier:              tier,
		})

		switch tier {
		case model.TierCritical:
			report.Critical++
		case model.TierWarning:
			report.Warning++
		default:
			report.OK++
		}
		report.TotalExperience += t.Float
		if ytr <= 5 {
			report.ExperienceLost5 += t.Float
		}
		if off := retYear - year; off >= 0 && off <= lossHorizon {
			report.ExperiencePerYear[off].Amount += t.Float
		}
	}
	if len(report.Records) == 0 {
		return nil
	}

	threshold := report.TotalExperience * lossHighlightRate
	for i := range report.ExperiencePerYear {
		report.ExperiencePerYear[i].Highlight = report.ExperiencePerYear[i].Amount > threshold
	}

	if report.Critical > 0 {
		report.Messages = append(report.Messages, model.Message{Level: model.LevelError, Text: fmt.Sprintf("%d KRITISCH", report.Critical)})
	} else {
		report.Messages = append(report.Messages, model.Message{Level: model.LevelSuccess, Text: "0 KRITISCH"})
	}
	if report.Warning > 0 {
		report.Messages = append(report.Messages, model.Message{Level: model.LevelWarning, Text: fmt.Sprintf("%d WARNUNG", report.Warning)})
	} else {
		report.Messages = append(report.Messages, model.Message{Level: model.LevelSuccess, Text: "0 WARNUNG"})
	}
	report.Messages = append(report.Messages, model.Message{
		Level: model.LevelInfo,
		Text:  fmt.Sprintf("Erfahrungsjahre die verloren gehen: %.0f Jahre", report.ExperienceLost5),
	})
	return report
}
