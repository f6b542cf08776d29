package exporter

import (
	"fmt"

	"hranalyse/internal/calculator"
	"hranalyse/internal/model"
)

// 图表 ID（同时作为导出文件名）
const (
	ChartMissing            = "00_Data_Quality_Missing"
	ChartOutliers           = "00_Data_Quality_Outliers"
	ChartRetirementOverview = "01_Retirement_Overview"
	ChartRetirementsPerYear = "02_Retirements_Per_Year"
	ChartAgeDistribution    = "03_Age_Distribution"
	ChartRetirementCumul    = "04_Retirement_Cumulative"
	ChartAgeByDepartment    = "05_Age_By_Department"
	ChartDepartureByDept    = "06_Departure_By_Department"
	ChartTenureDistribution = "07_Tenure_Distribution"
	ChartTenureGroups       = "08_Tenure_Groups"
	ChartAnniversaries      = "09_Anniversaries"
	ChartTenureByDepartment = "10_Tenure_By_Department"
	ChartKnowledgeLoss      = "11_Knowledge_Loss"
	ChartExperiencePerYear  = "12_Experience_Loss_Per_Year"
	ChartCareerFlow         = "13_Career_Flow"
	ChartGender             = "14_Gender"
	ChartDepartments        = "15_Departments"
	ChartLevels             = "16_Levels"
	ChartWorkTime           = "17_Work_Time"
	ChartSalary             = "18_Salary_Distribution"
	ChartLocations          = "19_Locations"
	ChartBenchmark          = "20_Benchmark"
	ChartEducation          = "21_Education"
	ChartContractTypes      = "22_Contract_Types"
	ChartWeeklyHours        = "23_Weekly_Hours"
)

// 颜色
const (
	colorRed       = "#e74c3c"
	colorDarkRed   = "#c0392b"
	colorOrange    = "#f39c12"
	colorYellow    = "#f1c40f"
	colorGreen     = "#2ecc71"
	colorDarkGreen = "#27ae60"
	colorBlue      = "#3498db"
	colorPurple    = "#9b59b6"
	colorTeal      = "#1abc9c"
	colorGrey      = "#95a5a6"
)

// DefaultPalette 分类图表的默认配色
var DefaultPalette = []string{"#3498db", "#e74c3c", "#2ecc71", "#9b59b6", "#f39c12", "#1abc9c", "#e67e22", "#34495e"}

var retirementBandColors = []string{colorDarkRed, colorRed, colorOrange, colorYellow, colorGreen, colorDarkGreen}

var tierColors = map[model.Tier]string{
	model.TierOK:       colorGreen,
	model.TierWarning:  colorOrange,
	model.TierCritical: colorRed,
}

// ChartBuilder 从分析结果生成图表描述
type ChartBuilder struct {
	palette []string
}

// NewChartBuilder palette 为空时使用 DefaultPalette
func NewChartBuilder(palette []string) *ChartBuilder {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &ChartBuilder{palette: palette}
}

// BuildCharts 使用默认配色生成图表
func BuildCharts(r *model.Report) []model.Chart {
	return NewChartBuilder(nil).Build(r)
}

// Build 按固定顺序生成图表；缺少输入的图表不生成
func (b *ChartBuilder) Build(r *model.Report) []model.Chart {
	if r == nil {
		return nil
	}
	var out []model.Chart
	add := func(c *model.Chart) {
		if c != nil {
			out = append(out, *c)
		}
	}

	// 数据质量
	add(b.missingChart(&r.Quality))
	add(b.outlierChart(&r.Quality))

	// 退休
	if rr := r.Retirement; rr != nil {
		add(b.retirementOverview(rr))
		add(b.retirementsPerYear(rr, r.Parameters.CurrentYear))
		add(histogramChart(ChartAgeDistribution, "Altersverteilung aller Mitarbeiter", "Alter", "Anzahl", rr.AgeHistogram, colorBlue))
		add(b.retirementCumulative(rr))
		add(groupChart(ChartAgeByDepartment, "Durchschnittsalter pro Abteilung", rr.AgeByDepartment, "%.1f Jahre", func(v float64) string {
			return thresholdColor(v, 50, 45, colorRed, colorOrange, colorGreen)
		}))
		add(groupChart(ChartDepartureByDept, "Wer verliert in 5 Jahren wie viel?", rr.LossByDepartment, "%.0f%%", func(v float64) string {
			return thresholdColor(v, 30, 15, colorRed, colorOrange, colorGreen)
		}))
	}

	// 司龄
	if tr := r.Tenure; tr != nil {
		add(histogramChart(ChartTenureDistribution, "Betriebszugehörigkeit (Jahre)", "Jahre im Unternehmen", "Anzahl Mitarbeiter", tr.Histogram, colorPurple))
		add(b.pie(ChartTenureGroups, "Gruppen nach Betriebszugehörigkeit", tr.Buckets, b.palette))
		add(b.anniversaries(tr))
		add(groupChart(ChartTenureByDepartment, "Durchschnitt pro Abteilung", tr.TenureByDepartment, "%.1f J", func(v float64) string {
			return thresholdColor(v, 10, 5, colorDarkGreen, colorOrange, colorRed)
		}))
	}

	// 知识流失
	if rk := r.Risk; rk != nil {
		add(knowledgeLossChart(rk))
		add(experiencePerYearChart(rk))
	}

	// 职业发展
	if cr := r.Career; cr != nil && len(cr.Flows) > 0 {
		add(&model.Chart{ID: ChartCareerFlow, Kind: model.ChartSankey, Title: "Wer arbeitet auf welchem Level?", Flows: cr.Flows})
	}

	// 人员结构
	d := r.Demographics
	add(b.distributionPie(ChartGender, "Geschlechterverteilung", d.Gender, []string{colorBlue, colorRed, colorGreen}))
	add(b.distributionBar(ChartDepartments, "Mitarbeiter pro Abteilung", d.Departments, model.ChartHBar))
	add(b.distributionBar(ChartLevels, "Karrierelevel", d.Levels, model.ChartBar))
	add(b.distributionPie(ChartWorkTime, "Vollzeit / Teilzeit", d.WorkTime, []string{colorBlue, colorOrange}))
	add(histogramChart(ChartSalary, "Gehaltsverteilung", "Jahresgehalt in €", "Anzahl", d.SalaryHistogram, colorGreen))
	add(b.distributionPie(ChartLocations, "Standorte", d.Locations, b.palette))

	// 区域对标
	if bm := r.Benchmark; bm != nil && len(bm.Rows) > 0 {
		add(benchmarkChart(bm))
	}

	add(b.distributionPie(ChartEducation, "Bildungsabschlüsse", d.Education, b.palette))
	add(b.distributionPie(ChartContractTypes, "Vertragsarten", d.ContractTypes, b.palette))
	add(histogramChart(ChartWeeklyHours, "Wochenstunden", "Stunden pro Woche", "Anzahl", d.HoursHistogram, colorTeal))

	return out
}

func (b *ChartBuilder) color(i int) string {
	return b.palette[i%len(b.palette)]
}

func thresholdColor(v, high, mid float64, highColor, midColor, lowColor string) string {
	switch {
	case v >= high:
		return highColor
	case v >= mid:
		return midColor
	default:
		return lowColor
	}
}

func (b *ChartBuilder) missingChart(q *model.QualityReport) *model.Chart {
	if len(q.Fields) == 0 {
		return nil
	}
	points := make([]model.Point, 0, len(q.Fields))
	for _, f := range q.Fields {
		points = append(points, model.Point{
			Label: f.Label,
			Value: f.Percent,
			Color: tierColors[f.Status],
			Text:  fmt.Sprintf("%g%% (%d)", f.Percent, f.Missing),
		})
	}
	return singleSeries(ChartMissing, model.ChartHBar, "Anteil fehlender Werte (%)", "Fehlend in %", "", "Fehlend", points)
}

func (b *ChartBuilder) outlierChart(q *model.QualityReport) *model.Chart {
	problems := q.Problems()
	if len(problems) == 0 {
		return nil
	}
	points := make([]model.Point, 0, len(problems))
	for _, o := range problems {
		points = append(points, model.Point{
			Label: o.Label,
			Value: float64(o.Count),
			Color: tierColors[o.Severity],
			Text:  fmt.Sprintf("%d", o.Count),
		})
	}
	return singleSeries(ChartOutliers, model.ChartHBar, "Gefundene Probleme", "Anzahl Datensätze", "", "Probleme", points)
}

func (b *ChartBuilder) retirementOverview(r *model.RetirementReport) *model.Chart {
	return b.pie(ChartRetirementOverview, "Wie lange noch bis zur Rente?", r.Bands, retirementBandColors)
}

func (b *ChartBuilder) retirementsPerYear(r *model.RetirementReport, year int) *model.Chart {
	points := make([]model.Point, 0, len(r.PerYear))
	for _, y := range r.PerYear {
		color := colorGreen
		switch {
		case y.Year <= year+5:
			color = colorRed
		case y.Year <= year+10:
			color = colorOrange
		}
		points = append(points, model.Point{
			Label: fmt.Sprintf("%d", y.Year),
			Value: float64(y.Count),
			Color: color,
			Text:  fmt.Sprintf("%d", y.Count),
		})
	}
	return singleSeries(ChartRetirementsPerYear, model.ChartBar, "Renteneintritte pro Jahr", "Jahr", "Anzahl Mitarbeiter", "Renteneintritte", points)
}

func (b *ChartBuilder) retirementCumulative(r *model.RetirementReport) *model.Chart {
	points := make([]model.Point, 0, len(r.Cumulative))
	for i, c := range r.Cumulative {
		color := colorGreen
		switch {
		case i < 3:
			color = colorRed
		case i < 6:
			color = colorOrange
		}
		points = append(points, model.Point{
			Label: fmt.Sprintf("In %d Jahr(en)", c.Horizon),
			Value: float64(c.Count),
			Color: color,
			Text:  fmt.Sprintf("%d (%.0f%%)", c.Count, c.Percent),
		})
	}
	return singleSeries(ChartRetirementCumul, model.ChartBar, "Wie viele gehen wann?", "", "Anzahl Mitarbeiter (kumuliert)", "Kumuliert", points)
}

func (b *ChartBuilder) anniversaries(t *model.TenureReport) *model.Chart {
	points := make([]model.Point, 0, len(t.Anniversaries))
	for i, a := range t.Anniversaries {
		points = append(points, model.Point{Label: a.Label, Value: float64(a.Count), Color: b.color(i), Text: fmt.Sprintf("%d", a.Count)})
	}
	return singleSeries(ChartAnniversaries, model.ChartBar, "Mitarbeiter mit rundem Jubiläum", "", "Anzahl", "Jubiläen", points)
}

// pie 饼图；数量为 0 的分段不展示
func (b *ChartBuilder) pie(id, title string, buckets []model.Bucket, colors []string) *model.Chart {
	points := make([]model.Point, 0, len(buckets))
	for i, bk := range buckets {
		if bk.Count == 0 {
			continue
		}
		color := b.color(i)
		if i < len(colors) {
			color = colors[i]
		}
		points = append(points, model.Point{Label: bk.Label, Value: float64(bk.Count), Color: color})
	}
	if len(points) == 0 {
		return nil
	}
	return singleSeries(id, model.ChartPie, title, "", "", title, points)
}

func (b *ChartBuilder) distributionPie(id, title string, d *model.Distribution, colors []string) *model.Chart {
	if d == nil {
		return nil
	}
	return b.pie(id, title, d.Buckets, colors)
}

func (b *ChartBuilder) distributionBar(id, title string, d *model.Distribution, kind model.ChartKind) *model.Chart {
	if d == nil || len(d.Buckets) == 0 {
		return nil
	}
	points := make([]model.Point, 0, len(d.Buckets))
	for i, bk := range d.Buckets {
		points = append(points, model.Point{Label: bk.Label, Value: float64(bk.Count), Color: b.color(i), Text: fmt.Sprintf("%d", bk.Count)})
	}
	return singleSeries(id, kind, title, "", "", d.Label, points)
}

func groupChart(id, title string, stats []model.GroupStat, textFormat string, color func(float64) string) *model.Chart {
	if len(stats) == 0 {
		return nil
	}
	points := make([]model.Point, 0, len(stats))
	for _, s := range stats {
		points = append(points, model.Point{
			Label: s.Group,
			Value: s.Value,
			Color: color(s.Value),
			Text:  fmt.Sprintf(textFormat, s.Value),
		})
	}
	return singleSeries(id, model.ChartHBar, title, "", "", title, points)
}

func histogramChart(id, title, xTitle, yTitle string, bins []model.HistogramBin, color string) *model.Chart {
	if len(bins) == 0 {
		return nil
	}
	points := make([]model.Point, 0, len(bins))
	for _, bin := range bins {
		points = append(points, model.Point{
			Label: fmt.Sprintf("%.0f–%.0f", bin.From, bin.To),
			Value: float64(bin.Count),
		})
	}
	c := singleSeries(id, model.ChartBar, title, xTitle, yTitle, title, points)
	c.Series[0].Color = color
	return c
}

func knowledgeLossChart(r *model.RiskReport) *model.Chart {
	order := []model.Tier{model.TierOK, model.TierWarning, model.TierCritical}
	chart := &model.Chart{
		ID:         ChartKnowledgeLoss,
		Kind:       model.ChartScatter,
		Title:      "Jeder Punkt = 1 Mitarbeiter",
		XAxisTitle: "Jahre bis zur Rente →",
		YAxisTitle: "Jahre Erfahrung ↑",
	}
	for _, tier := range order {
		s := model.Series{Name: tier.Label(), Color: tierColors[tier]}
		for _, rec := range r.Records {
			if rec.Tier != tier {
				continue
			}
			s.Points = append(s.Points, model.Point{Label: rec.ID, X: rec.YearsToRetirement, Y: rec.Tenure})
		}
		if len(s.Points) > 0 {
			chart.Series = append(chart.Series, s)
		}
	}
	if len(chart.Series) == 0 {
		return nil
	}
	return chart
}

func experiencePerYearChart(r *model.RiskReport) *model.Chart {
	points := make([]model.Point, 0, len(r.ExperiencePerYear))
	for _, y := range r.ExperiencePerYear {
		color := colorOrange
		if y.Highlight {
			color = colorRed
		}
		points = append(points, model.Point{
			Label: fmt.Sprintf("%d", y.Year),
			Value: y.Amount,
			Color: color,
			Text:  fmt.Sprintf("%.0f", y.Amount),
		})
	}
	return singleSeries(ChartExperiencePerYear, model.ChartBar, "Wie viel Erfahrung geht wann verloren?", "Jahr", "Verlorene Erfahrungsjahre", "Erfahrung", points)
}

func benchmarkChart(bm *model.BenchmarkReport) *model.Chart {
	chart := &model.Chart{
		ID:    ChartBenchmark,
		Kind:  model.ChartGroupedBar,
		Title: fmt.Sprintf("Ihre Zahlen im Vergleich zu %s", bm.Region),
	}
	company := model.Series{Name: "Ihr Unternehmen", Color: colorBlue}
	region := model.Series{Name: bm.Region, Color: colorGrey}
	for _, row := range bm.Rows {
		chart.Categories = append(chart.Categories, row.Label)
		company.Points = append(company.Points, model.Point{Label: row.Label, Value: row.Company, Text: fmt.Sprintf("%g", row.Company)})
		region.Points = append(region.Points, model.Point{Label: row.Label, Value: row.Reference, Text: fmt.Sprintf("%g", row.Reference)})
	}
	chart.Series = []model.Series{company, region}
	return chart
}

func singleSeries(id string, kind model.ChartKind, title, xTitle, yTitle, name string, points []model.Point) *model.Chart {
	cats := make([]string, len(points))
	for i, p := range points {
		cats[i] = p.Label
	}
	return &model.Chart{
		ID:         id,
		Kind:       kind,
		Title:      title,
		XAxisTitle: xTitle,
		YAxisTitle: yTitle,
		Categories: cats,
		Series:     []model.Series{{Name: name, Points: points}},
	}
}

// RetirementBandColor 退休分段对应的颜色（供摘要报告使用）
func RetirementBandColor(label string) string {
	for i, l := range calculator.RetirementBandLabels() {
		if l == label {
			return retirementBandColors[i]
		}
	}
	return colorGrey
}
