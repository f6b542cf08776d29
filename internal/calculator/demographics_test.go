package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hranalyse/internal/model"
)

func TestDepartmentDistributionSumsToRowCount(t *testing.T) {
	t.Parallel()

	ds := derived(t,
		[]string{"Abteilung"},
		[]string{"IT"}, []string{"HR"}, []string{"IT"}, []string{""}, []string{"Vertrieb"},
	)
	d := AnalyzeDemographics(ds).Departments
	require.NotNil(t, d)

	sum := 0
	for _, b := range d.Buckets {
		sum += b.Count
	}
	assert.Equal(t, ds.Len(), sum)
	assert.Equal(t, ds.Len(), d.Total)
	assert.Equal(t, []model.Bucket{
		{Label: "IT", Count: 2},
		{Label: "HR", Count: 1},
		{Label: "Vertrieb", Count: 1},
		{Label: model.MissingLabel, Count: 1},
	}, d.Buckets)
}

func TestGenderDistributionNormalizesLabels(t *testing.T) {
	t.Parallel()

	ds := derived(t,
		[]string{"Geschlecht"},
		[]string{"m"}, []string{"W"}, []string{"female"}, []string{"divers"}, []string{""},
	)
	g := AnalyzeDemographics(ds).Gender
	require.NotNil(t, g)
	assert.Equal(t, []model.Bucket{
		{Label: "Weiblich", Count: 2},
		{Label: "Männlich", Count: 1},
		{Label: "divers", Count: 1},
		{Label: model.MissingLabel, Count: 1},
	}, g.Buckets)
}

func TestAnalyzeDemographics_Histograms(t *testing.T) {
	t.Parallel()

	ds := derived(t,
		[]string{"Gehalt", "Wochenstunden"},
		[]string{"40000", "40"},
		[]string{"60000", "20,5"},
		[]string{"", "x"},
	)
	r := AnalyzeDemographics(ds)
	require.Len(t, r.SalaryHistogram, histogramBins)
	require.Len(t, r.HoursHistogram, histogramBins)
	assert.Equal(t, 20.5, r.HoursHistogram[0].From)

	total := 0
	for _, b := range r.SalaryHistogram {
		total += b.Count
	}
	assert.Equal(t, 2, total)
	assert.Nil(t, r.Departments)
}

func TestAnalyzeCareer(t *testing.T) {
	t.Parallel()

	ds := derived(t,
		[]string{"Mitarbeiter_ID", "Eintrittsjahr", "Einstiegsposition", "Aktuelle_Position", "Abteilung", "Karrierelevel"},
		[]string{"1", "2010", "Azubi", "Teamleiter", "IT", "Senior"},
		[]string{"2", "2022", "Junior", "Junior", "IT", "Junior"},
		[]string{"3", "2000", "Sachbearbeiter", "", "HR", "Senior"},
		[]string{"4", "2015", "Trainee", "Manager", "IT", "Senior"},
	)
	r := AnalyzeCareer(ds)
	require.NotNil(t, r)

	assert.Equal(t, []model.CareerPath{
		{ID: "1", Entry: "Azubi", Now: "Teamleiter", Tenure: 14},
		{ID: "4", Entry: "Trainee", Now: "Manager", Tenure: 9},
	}, r.Examples)
	assert.Equal(t, []model.Flow{
		{Source: "HR", Target: "Senior", Count: 1},
		{Source: "IT", Target: "Junior", Count: 1},
		{Source: "IT", Target: "Senior", Count: 2},
	}, r.Flows)
}

func TestHistogramSingleValue(t *testing.T) {
	t.Parallel()

	bins := histogram([]float64{5, 5, 5}, histogramBins)
	assert.Equal(t, []model.HistogramBin{{From: 5, To: 5, Count: 3}}, bins)
}

func TestHistogramSkipsNonFinite(t *testing.T) {
	t.Parallel()

	bins := histogram([]float64{math.NaN(), 1, math.Inf(1), 3, math.Inf(-1)}, 2)
	require.Len(t, bins, 2)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[1].Count)
	assert.Nil(t, histogram([]float64{math.NaN()}, 2))
}

func TestIsPartTime(t *testing.T) {
	t.Parallel()

	for v, want := range map[string]bool{
		"Teilzeit":  true,
		"Part-time": true,
		"Vollzeit":  false,
		"":          false,
	} {
		assert.Equal(t, want, IsPartTime(v), v)
	}
}
