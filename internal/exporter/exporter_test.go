package exporter

import (
	"bytes"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hranalyse/internal/calculator"
	"hranalyse/internal/model"
	"hranalyse/internal/service/excel"
)

func analyzedReport(t *testing.T) *model.Report {
	t.Helper()

	sheet := &excel.Sheet{Name: "Mitarbeiter", Rows: [][]string{
		{"Mitarbeiter_ID", "Geburtsjahr", "Eintrittsjahr", "Geschlecht", "Abteilung"},
		{"1", "1960", "1990", "w", "IT"},
		{"2", "1975", "2005", "m", "HR"},
		{"3", "1990", "2018", "w", "IT"},
		{"4", "2015", "2020", "m", "HR"},
	}}
	ds, _, err := excel.BuildDataset("mitarbeiter.xlsx", sheet, nil)
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC) }
	r, err := calculator.Analyze(ds, calculator.Options{Now: now})
	require.NoError(t, err)
	return r
}

func chartIDs(charts []model.Chart) []string {
	ids := make([]string, len(charts))
	for i, c := range charts {
		ids[i] = c.ID
	}
	return ids
}

func TestBuildCharts_FixedOrderAndSkipsMissingInputs(t *testing.T) {
	t.Parallel()

	ids := chartIDs(BuildCharts(analyzedReport(t)))
	if !sort.StringsAreSorted(ids) {
		t.Fatalf("chart ids not in fixed order: %v", ids)
	}
	for _, want := range []string{
		ChartMissing, ChartOutliers, ChartRetirementOverview, ChartRetirementsPerYear,
		ChartKnowledgeLoss, ChartGender, ChartDepartments, ChartBenchmark,
	} {
		assert.Contains(t, ids, want)
	}
	for _, absent := range []string{ChartCareerFlow, ChartSalary, ChartLevels, ChartWeeklyHours} {
		assert.NotContains(t, ids, absent)
	}
}

func TestBuildCharts_NoOutlierChartWithoutProblems(t *testing.T) {
	t.Parallel()

	r := &model.Report{Quality: model.QualityReport{
		Fields:   []model.FieldQuality{{Field: model.FieldBirthYear, Label: "Geburtsjahr", Percent: 0, Status: model.TierOK}},
		Outliers: []model.Outlier{{Category: "age_too_young", Label: "Alter < 16", Count: 0}},
	}}
	assert.Equal(t, []string{ChartMissing}, chartIDs(BuildCharts(r)))
	assert.Nil(t, BuildCharts(nil))
}

func TestRenderHTML_AllKinds(t *testing.T) {
	t.Parallel()

	points := []model.Point{{Label: "A", Value: 2, X: 1, Y: 3}, {Label: "B", Value: 5, X: 4, Y: 1, Color: "#e74c3c"}}
	for _, kind := range []model.ChartKind{model.ChartBar, model.ChartHBar, model.ChartPie, model.ChartScatter, model.ChartGroupedBar} {
		c := model.Chart{
			ID:         "test_" + string(kind),
			Kind:       kind,
			Title:      "Chart " + string(kind),
			Categories: []string{"A", "B"},
			Series:     []model.Series{{Name: "Serie", Points: points}},
		}
		var buf bytes.Buffer
		if err := RenderHTML(c, RenderOptions{}, &buf); err != nil {
			t.Fatalf("render %s: %v", kind, err)
		}
		if !strings.Contains(buf.String(), "Chart "+string(kind)) {
			t.Fatalf("render %s: title missing from output", kind)
		}
	}

	var buf bytes.Buffer
	err := RenderHTML(model.Chart{ID: "x", Kind: "radar"}, DefaultRenderOptions(), &buf)
	require.Error(t, err)
}

func TestRenderHTML_SankeyRenamesCollidingNodes(t *testing.T) {
	t.Parallel()

	c := model.Chart{ID: ChartCareerFlow, Kind: model.ChartSankey, Title: "Flow", Flows: []model.Flow{
		{Source: "IT", Target: "Senior", Count: 2},
		{Source: "Senior", Target: "IT", Count: 1},
	}}
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(c, DefaultRenderOptions(), &buf))
	assert.Contains(t, buf.String(), "IT (Level)")
	assert.Contains(t, buf.String(), "Senior (Level)")
}

func TestWriteBundle(t *testing.T) {
	t.Parallel()

	r := analyzedReport(t)
	var events []ProgressEvent
	data, err := NewExporter(Options{Workbook: true}).Bundle(r, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	files := map[string]*zip.File{}
	for _, f := range zr.File {
		names = append(names, f.Name)
		files[f.Name] = f
	}
	want := make([]string, 0, len(r.Charts)+3)
	for _, c := range r.Charts {
		want = append(want, c.ID+".html")
	}
	want = append(want, SummaryFileName, WorkbookFileName, ReportFileName)
	assert.Equal(t, want, names)

	rc, err := files[ReportFileName].Open()
	require.NoError(t, err)
	raw, err := io.ReadAll(rc)
	_ = rc.Close()
	require.NoError(t, err)

	var decoded model.Report
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, r.ID, decoded.ID)
	assert.Len(t, decoded.Charts, len(r.Charts))

	require.NotEmpty(t, events)
	assert.Equal(t, ProgressEvent{Percent: 0, Stage: StageCharts}, events[0])
	assert.Equal(t, ProgressEvent{Percent: 100, Stage: StageDone}, events[len(events)-1])
	assert.Len(t, events, len(r.Charts)+4)
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("progress went backwards: %v", events)
		}
	}
}

func TestBundleProgress(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent
	p := newBundleProgress(func(ev ProgressEvent) { events = append(events, ev) }, 3)
	p.start()
	p.advance("Altersstruktur")
	p.advance(StageSummary)
	p.advance(StageDone)
	p.advance("zu viel")
	assert.Equal(t, []ProgressEvent{
		{Percent: 0, Stage: StageCharts},
		{Percent: 33, Stage: "Altersstruktur"},
		{Percent: 66, Stage: StageSummary},
		{Percent: 100, Stage: StageDone},
		{Percent: 100, Stage: "zu viel"},
	}, events)

	// ohne Empfänger und ohne Einträge
	q := newBundleProgress(nil, 0)
	q.start()
	q.advance(StageDone)
}

func TestResultWorkbookSheets(t *testing.T) {
	t.Parallel()

	f, err := NewResultWorkbook(analyzedReport(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{sheetQuality, sheetRetirement, sheetRisk}, f.GetSheetList())

	v, err := f.GetCellValue(sheetRisk, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Mitarbeiter-ID", v)

	rows, err := f.GetRows(sheetRisk)
	require.NoError(t, err)
	assert.Len(t, rows, 5) // 表头 + 4 名员工
}

func TestHexRGB(t *testing.T) {
	t.Parallel()

	r, g, b := hexRGB("#e74c3c")
	if r != 0xe7 || g != 0x4c || b != 0x3c {
		t.Fatalf("hexRGB=%d,%d,%d", r, g, b)
	}
	r, g, b = hexRGB("red")
	if r != 0x95 || g != 0xa5 || b != 0xa6 {
		t.Fatalf("fallback=%d,%d,%d", r, g, b)
	}
}

func TestWriteSummaryPDF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryPDF(analyzedReport(t), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
