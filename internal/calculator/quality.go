package calculator

import (
	"fmt"
	"math"

	"hranalyse/internal/model"
	"hranalyse/internal/parser"
	"hranalyse/internal/util"
)

// 异常类别
const (
	OutlierAgeTooYoung     = "age_too_young"
	OutlierAgeTooOld       = "age_too_old"
	OutlierTenureNegative  = "tenure_negative"
	OutlierTenureTooLong   = "tenure_too_long"
	OutlierSalaryTooLow    = "salary_too_low"
	OutlierSalaryTooHigh   = "salary_too_high"
	OutlierSalaryStatistic = "salary_statistical"
	OutlierHireBeforeBirth = "hire_before_birth"
	OutlierEntryTooYoung   = "entry_too_young"
)

// 每条规则保留的示例数
const (
	examplesPerAgeRule   = 5
	examplesPerOtherRule = 3
)

// Thresholds 数据质量阈值与评分权重
type Thresholds struct {
	MissingWarning     float64 `toml:"missing_warning"`  // 缺失率 > 该值为 WARNING（%）
	MissingCritical    float64 `toml:"missing_critical"` // 缺失率 > 该值为 CRITICAL（%）
	MinAge             float64 `toml:"min_age"`
	MaxAge             float64 `toml:"max_age"`
	MaxTenure          float64 `toml:"max_tenure"`
	MinSalary          float64 `toml:"min_salary"`
	MaxSalary          float64 `toml:"max_salary"`
	SigmaFactor        float64 `toml:"sigma_factor"`
	MinEntryAge        float64 `toml:"min_entry_age"`
	CompletenessWeight float64 `toml:"completeness_weight"`
	PlausibilityWeight float64 `toml:"plausibility_weight"`
	CriticalPenalty    float64 `toml:"critical_penalty"` // 每个 CRITICAL 记录占行数比例的扣分倍数
	GoodScore          float64 `toml:"good_score"`
	MediumScore        float64 `toml:"medium_score"`
}

// DefaultThresholds 默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		MissingWarning:     5,
		MissingCritical:    20,
		MinAge:             16,
		MaxAge:             70,
		MaxTenure:          50,
		MinSalary:          15000,
		MaxSalary:          300000,
		SigmaFactor:        3,
		MinEntryAge:        14,
		CompletenessWeight: 0.6,
		PlausibilityWeight: 0.4,
		CriticalPenalty:    500,
		GoodScore:          80,
		MediumScore:        60,
	}
}

// qualityCheck 一个异常规则的累积结果
type qualityCheck struct {
	outlier  model.Outlier
	examples []model.OutlierExample
	limit    int
}

func newCheck(category, label string, severity model.Tier, limit int) *qualityCheck {
	return &qualityCheck{
		outlier: model.Outlier{Category: category, Label: label, Severity: severity, Status: model.TierOK},
		limit:   limit,
	}
}

func (c *qualityCheck) hit(ds *model.Dataset, i int, detail string) {
	c.outlier.Count++
	c.outlier.Status = c.outlier.Severity
	if len(c.examples) < c.limit {
		c.examples = append(c.examples, model.OutlierExample{
			Category: c.outlier.Category,
			ID:       ds.ID(i),
			RowNo:    ds.Records[i].RowNo,
			Detail:   detail,
		})
	}
}

// AssessQuality 数据质量评估：缺失率、异常值、综合评分
//
// 需要先调用 Derive。
func AssessQuality(ds *model.Dataset, th Thresholds) model.QualityReport {
	rows := ds.Len()
	report := model.QualityReport{
		Fields:   []model.FieldQuality{},
		Outliers: []model.Outlier{},
		Examples: []model.OutlierExample{},
	}

	// 缺失率
	totalMissing := 0
	for _, f := range model.Fields {
		if f == model.FieldID || !ds.Has(f) {
			continue
		}
		missing := 0
		for i := 0; i < rows; i++ {
			if ds.Text(i, f) == "" {
				missing++
			}
		}
		totalMissing += missing
		pct := percent(missing, rows)
		report.Fields = append(report.Fields, model.FieldQuality{
			Field:   f,
			Label:   f.Label(),
			Header:  ds.Header(f),
			Missing: missing,
			Percent: pct,
			Status:  missingTier(pct, th),
		})
	}

	// 异常值
	checks := outlierChecks(ds, th)
	for _, c := range checks {
		report.Outliers = append(report.Outliers, c.outlier)
		report.Examples = append(report.Examples, c.examples...)
	}

	// 综合评分
	report.Completeness = 100
	if possible := rows * len(report.Fields); possible > 0 {
		report.Completeness = 100 - float64(totalMissing)/float64(possible)*100
	}
	criticalCount := 0
	for _, o := range report.Outliers {
		if o.Severity == model.TierCritical {
			criticalCount += o.Count
		}
	}
	report.Plausibility = 100
	if rows > 0 {
		report.Plausibility = math.Max(0, 100-float64(criticalCount)/float64(rows)*th.CriticalPenalty)
	}
	score := report.Completeness*th.CompletenessWeight + report.Plausibility*th.PlausibilityWeight
	report.Score = math.Min(100, math.Max(0, score))

	switch {
	case report.Score >= th.GoodScore:
		report.Band = model.BandGood
	case report.Score >= th.MediumScore:
		report.Band = model.BandMedium
	default:
		report.Band = model.BandPoor
	}

	report.Completeness = round1(report.Completeness)
	report.Plausibility = round1(report.Plausibility)
	report.Score = round1(report.Score)
	report.Messages = qualityMessages(&report, th)
	return report
}

func missingTier(pct float64, th Thresholds) model.Tier {
	switch {
	case pct > th.MissingCritical:
		return model.TierCritical
	case pct > th.MissingWarning:
		return model.TierWarning
	default:
		return model.TierOK
	}
}

func outlierChecks(ds *model.Dataset, th Thresholds) []*qualityCheck {
	rows := ds.Len()
	var checks []*qualityCheck

	// 年龄
	if len(validFloats(ds.Age)) > 0 {
		young := newCheck(OutlierAgeTooYoung, fmt.Sprintf("Alter < %g Jahre", th.MinAge), model.TierCritical, examplesPerAgeRule)
		old := newCheck(OutlierAgeTooOld, fmt.Sprintf("Alter > %g Jahre", th.MaxAge), model.TierCritical, examplesPerAgeRule)
		for i := 0; i < rows; i++ {
			a := ds.Age[i]
			if !a.Valid {
				continue
			}
			if a.Float < th.MinAge {
				young.hit(ds, i, fmt.Sprintf("Alter %.0f (zu jung?)", a.Float))
			}
			if a.Float > th.MaxAge {
				old.hit(ds, i, fmt.Sprintf("Alter %.0f (zu alt?)", a.Float))
			}
		}
		checks = append(checks, young, old)
	}

	// 司龄
	if len(validFloats(ds.Tenure)) > 0 {
		negative := newCheck(OutlierTenureNegative, "Negative Dienstjahre", model.TierCritical, examplesPerAgeRule)
		long := newCheck(OutlierTenureTooLong, fmt.Sprintf("Dienstjahre > %g", th.MaxTenure), model.TierWarning, examplesPerAgeRule)
		for i := 0; i < rows; i++ {
			t := ds.Tenure[i]
			if !t.Valid {
				continue
			}
			if t.Float < 0 {
				negative.hit(ds, i, fmt.Sprintf("%.0f Dienstjahre (negativ!)", t.Float))
			}
			if t.Float > th.MaxTenure {
				long.hit(ds, i, fmt.Sprintf("%.0f Dienstjahre (sehr lang)", t.Float))
			}
		}
		checks = append(checks, negative, long)
	}

	// 薪资
	if salaries := validFloats(ds.Salary); len(salaries) > 0 {
		low := newCheck(OutlierSalaryTooLow, "Gehalt < "+util.FormatEuro(th.MinSalary), model.TierWarning, examplesPerOtherRule)
		high := newCheck(OutlierSalaryTooHigh, "Gehalt > "+util.FormatEuro(th.MaxSalary), model.TierCritical, examplesPerOtherRule)
		stat := newCheck(OutlierSalaryStatistic, fmt.Sprintf("Statistische Ausreißer (±%gσ)", th.SigmaFactor), model.TierWarning, examplesPerOtherRule)

		m, _ := mean(salaries)
		sd, hasSD := sampleStdDev(salaries)
		for i := 0; i < rows; i++ {
			s := ds.Salary[i]
			if !s.Valid {
				continue
			}
			if s.Float < th.MinSalary {
				low.hit(ds, i, util.FormatEuro(s.Float)+" (sehr niedrig)")
			}
			if s.Float > th.MaxSalary {
				high.hit(ds, i, util.FormatEuro(s.Float)+" (sehr hoch)")
			}
			if hasSD && math.Abs(s.Float-m) > th.SigmaFactor*sd {
				stat.hit(ds, i, util.FormatEuro(s.Float)+" (statistisch auffällig)")
			}
		}
		checks = append(checks, low, high, stat)
	}

	// 逻辑校验：入职早于出生
	if ds.Has(model.FieldBirthYear) && ds.Has(model.FieldHireYear) {
		logic := newCheck(OutlierHireBeforeBirth, "Eintritt vor Geburt (!)", model.TierCritical, examplesPerOtherRule)
		for i := 0; i < rows; i++ {
			birth, okB := parser.ParseNumber(ds.Text(i, model.FieldBirthYear))
			hire, okH := parser.ParseNumber(ds.Text(i, model.FieldHireYear))
			if okB && okH && hire < birth {
				logic.hit(ds, i, fmt.Sprintf("Geb. %.0f, Eintritt %.0f (unmöglich!)", birth, hire))
			}
		}
		checks = append(checks, logic)
	}

	// 入职年龄
	if ds.Age != nil && ds.Tenure != nil {
		early := newCheck(OutlierEntryTooYoung, fmt.Sprintf("Eintritt unter %g Jahren", th.MinEntryAge), model.TierCritical, examplesPerOtherRule)
		for i := 0; i < rows; i++ {
			a, t := ds.Age[i], ds.Tenure[i]
			if !a.Valid || !t.Valid {
				continue
			}
			if entry := a.Float - t.Float; entry < th.MinEntryAge {
				early.hit(ds, i, fmt.Sprintf("Eintritt mit %.0f Jahren (zu jung)", entry))
			}
		}
		checks = append(checks, early)
	}

	return checks
}

func qualityMessages(q *model.QualityReport, th Thresholds) []model.Message {
	var msgs []model.Message

	if len(q.Fields) == 0 {
		msgs = append(msgs, model.Message{Level: model.LevelInfo, Text: "Keine Spalten zum Prüfen gefunden"})
	} else {
		critical, warning := 0, 0
		for _, f := range q.Fields {
			switch f.Status {
			case model.TierCritical:
				critical++
			case model.TierWarning:
				warning++
			}
		}
		switch {
		case critical > 0:
			msgs = append(msgs, model.Message{Level: model.LevelError,
				Text: fmt.Sprintf("%d Spalte(n) haben mehr als %g%% fehlende Daten!", critical, th.MissingCritical)})
		case warning > 0:
			msgs = append(msgs, model.Message{Level: model.LevelWarning,
				Text: fmt.Sprintf("%d Spalte(n) haben %g-%g%% fehlende Daten", warning, th.MissingWarning, th.MissingCritical)})
		default:
			msgs = append(msgs, model.Message{Level: model.LevelSuccess,
				Text: fmt.Sprintf("Alle Spalten haben weniger als %g%% fehlende Daten", th.MissingWarning)})
		}
	}

	if len(q.Outliers) > 0 {
		critical, warning := 0, 0
		for _, o := range q.Problems() {
			if o.Severity == model.TierCritical {
				critical++
			} else {
				warning++
			}
		}
		switch {
		case critical > 0:
			msgs = append(msgs, model.Message{Level: model.LevelError, Text: fmt.Sprintf("%d kritische(r) Fehler gefunden!", critical)})
		case warning > 0:
			msgs = append(msgs, model.Message{Level: model.LevelWarning, Text: fmt.Sprintf("%d mögliche(r) Ausreißer - bitte prüfen", warning)})
		default:
			msgs = append(msgs, model.Message{Level: model.LevelSuccess, Text: "Keine Ausreißer gefunden"})
		}
	}

	switch q.Band {
	case model.BandGood:
		msgs = append(msgs, model.Message{Level: model.LevelSuccess, Text: "Gute Datenqualität! Sie können die Analyse starten."})
	case model.BandMedium:
		msgs = append(msgs, model.Message{Level: model.LevelWarning, Text: "Mittlere Datenqualität. Einige Analysen könnten ungenau sein."})
	default:
		msgs = append(msgs, model.Message{Level: model.LevelError, Text: "Datenqualität verbesserungswürdig. Bitte prüfen Sie die markierten Probleme."})
	}
	return msgs
}
