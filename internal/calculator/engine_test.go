package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hranalyse/internal/benchmark"
	"hranalyse/internal/model"
)

func TestNewEngine_ValidatesParameters(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Options{RetirementAge: 59})
	require.ErrorIs(t, err, ErrInvalidRetirementAge)

	_, err = NewEngine(Options{RetirementAge: 71})
	require.ErrorIs(t, err, ErrInvalidRetirementAge)

	_, err = NewEngine(Options{Region: "Atlantis"})
	require.ErrorIs(t, err, benchmark.ErrUnknownRegion)

	for age := MinRetirementAge; age <= MaxRetirementAge; age++ {
		if _, err := NewEngine(Options{RetirementAge: age}); err != nil {
			t.Fatalf("retirement age %d rejected: %v", age, err)
		}
	}
}

func TestEngineAnalyze(t *testing.T) {
	t.Parallel()

	ds := buildDataset(t,
		[]string{"Mitarbeiter_ID", "Geburtsjahr", "Eintrittsjahr", "Geschlecht", "Abteilung", "Arbeitszeit", "Gehalt_Brutto_Jahr"},
		[]string{"1", "1980", "2010", "w", "IT", "Vollzeit", "48000"},
		[]string{"2", "1990", "2015", "m", "HR", "Teilzeit", "60000"},
		[]string{"3", "1960", "1990", "w", "IT", "teilzeit", ""},
	)

	report, err := Analyze(ds, Options{Now: fixedNow, Region: "Bayern"})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, model.Parameters{RetirementAge: 67, Region: "Bayern", CurrentYear: 2024}, report.Parameters)
	assert.Equal(t, "Gehalt_Brutto_Jahr", report.Columns[model.FieldSalary])

	require.NotNil(t, report.KPIs.MeanAge)
	assert.Equal(t, 47.3, *report.KPIs.MeanAge) // 44, 34, 64
	require.NotNil(t, report.KPIs.MeanSalary)
	assert.Equal(t, 54000.0, *report.KPIs.MeanSalary)

	require.NotNil(t, report.Retirement)
	require.NotNil(t, report.Tenure)
	require.NotNil(t, report.Risk)
	assert.Nil(t, report.Career)

	require.NotNil(t, report.Benchmark)
	assert.Equal(t, "Bayern", report.Benchmark.Region)
	assert.Equal(t, []model.BenchmarkRow{
		{Metric: MetricMeanAge, Label: "Durchschnittsalter", Company: 47.3, Reference: 43.8},
		{Metric: MetricFemalePercent, Label: "Frauenanteil %", Company: 66.7, Reference: 50.1},
		{Metric: MetricPartTime, Label: "Teilzeitquote %", Company: 66.7, Reference: 26.5},
		{Metric: MetricMonthlySalary, Label: "Monatsgehalt €", Company: 4500, Reference: 4200},
	}, report.Benchmark.Rows)
}

func TestCompareBenchmark_OnlyAvailableMetrics(t *testing.T) {
	t.Parallel()

	ref, err := benchmark.Default().Lookup("")
	require.NoError(t, err)

	r := CompareBenchmark(derived(t, []string{"Abteilung"}, []string{"IT"}), ref)
	assert.Equal(t, "Deutschland", r.Region)
	assert.Empty(t, r.Rows)
}
