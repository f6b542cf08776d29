package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hranalyse/internal/model"
)

func TestClassifyRisk(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tenure, ytr float64
		want        model.Tier
	}{
		{16, 4, model.TierCritical},
		{11, 8, model.TierWarning},
		{2, 20, model.TierOK},
		{15, 5, model.TierCritical},
		{14.9, 5, model.TierWarning},
		{20, -3, model.TierCritical},
		{10, 10.5, model.TierOK},
		{9, 1, model.TierOK},
	}
	for _, c := range cases {
		if got := ClassifyRisk(c.tenure, c.ytr); got != c.want {
			t.Fatalf("ClassifyRisk(%v,%v)=%s, want %s", c.tenure, c.ytr, got, c.want)
		}
	}
}

func TestAssessKnowledgeRisk(t *testing.T) {
	t.Parallel()

	ds := derived(t,
		[]string{"Mitarbeiter_ID", "Geburtsjahr", "Eintrittsjahr"},
		[]string{"A", "1960", "2000"}, // age 64, ytr 3, tenure 24
		[]string{"B", "1965", "2010"}, // age 59, ytr 8, tenure 14
		[]string{"C", "1995", "2020"}, // age 29, ytr 38, tenure 4
		[]string{"D", "", "2000"},
	)
	r := AssessKnowledgeRisk(ds, 67)
	require.NotNil(t, r)
	require.Len(t, r.Records, 3)

	assert.Equal(t, model.RiskRecord{
		ID: "A", RowNo: 2, Age: 64, Tenure: 24, YearsToRetirement: 3, RetirementYear: 2027, Tier: model.TierCritical,
	}, r.Records[0])
	assert.Equal(t, model.TierWarning, r.Records[1].Tier)
	assert.Equal(t, model.TierOK, r.Records[2].Tier)
	assert.Equal(t, 1, r.Critical)
	assert.Equal(t, 1, r.Warning)
	assert.Equal(t, 1, r.OK)

	assert.Equal(t, 42.0, r.TotalExperience)
	assert.Equal(t, 24.0, r.ExperienceLost5)

	require.Len(t, r.ExperiencePerYear, 11)
	assert.Equal(t, model.YearAmount{Year: 2027, Amount: 24, Highlight: true}, r.ExperiencePerYear[3])
	assert.Equal(t, model.YearAmount{Year: 2032, Amount: 14, Highlight: true}, r.ExperiencePerYear[8])
	assert.Equal(t, model.YearAmount{Year: 2024, Amount: 0, Highlight: false}, r.ExperiencePerYear[0])
}

func TestAssessKnowledgeRisk_RequiresBothColumns(t *testing.T) {
	t.Parallel()

	if r := AssessKnowledgeRisk(derived(t, []string{"Geburtsjahr"}, []string{"1970"}), 67); r != nil {
		t.Fatalf("expected nil without tenure column")
	}
}
