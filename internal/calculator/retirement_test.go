package calculator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hranalyse/internal/model"
)

func retirementFixture(t *testing.T) *model.Dataset {
	t.Helper()
	return derived(t,
		[]string{"Geburtsjahr", "Abteilung"},
		[]string{"1957", "IT"}, // 67 → 0
		[]string{"1960", "IT"}, // 64 → 3
		[]string{"1965", "IT"}, // 59 → 8
		[]string{"1970", "HR"}, // 54 → 13
		[]string{"1980", "HR"}, // 44 → 23
		[]string{"1950", "HR"}, // 74 → -7
		[]string{"", "HR"},
	)
}

func TestProjectRetirement_Bands(t *testing.T) {
	t.Parallel()

	r := ProjectRetirement(retirementFixture(t), 67)
	require.NotNil(t, r)
	assert.Equal(t, 6, r.Employees)

	want := []model.Bucket{
		{Label: "Bereits Rente", Count: 2},
		{Label: "0-5 Jahre", Count: 1},
		{Label: "5-10 Jahre", Count: 1},
		{Label: "10-15 Jahre", Count: 1},
		{Label: "15-20 Jahre", Count: 0},
		{Label: "Mehr als 20 Jahre", Count: 1},
	}
	if diff := cmp.Diff(want, r.Bands); diff != "" {
		t.Fatalf("bands mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3, r.Within5)
	assert.Equal(t, 50.0, r.Within5Percent)
	assert.Equal(t, 1, r.Within10)
	require.Len(t, r.Messages, 2)
	assert.Equal(t, model.LevelError, r.Messages[0].Level)
}

func TestProjectRetirement_PerYearZeroFilled(t *testing.T) {
	t.Parallel()

	r := ProjectRetirement(retirementFixture(t), 67)
	require.Len(t, r.PerYear, 16)
	assert.Equal(t, model.YearCount{Year: 2024, Count: 1}, r.PerYear[0])
	assert.Equal(t, model.YearCount{Year: 2027, Count: 1}, r.PerYear[3])
	assert.Equal(t, model.YearCount{Year: 2032, Count: 1}, r.PerYear[8])
	assert.Equal(t, model.YearCount{Year: 2037, Count: 1}, r.PerYear[13])
	assert.Equal(t, model.YearCount{Year: 2039, Count: 0}, r.PerYear[15])
}

func TestProjectRetirement_CumulativeNonDecreasing(t *testing.T) {
	t.Parallel()

	r := ProjectRetirement(retirementFixture(t), 67)
	require.Len(t, r.Cumulative, 10)
	for i := 1; i < len(r.Cumulative); i++ {
		if r.Cumulative[i].Count < r.Cumulative[i-1].Count {
			t.Fatalf("cumulative decreased at horizon %d: %v", r.Cumulative[i].Horizon, r.Cumulative)
		}
	}
	assert.Equal(t, 2, r.Cumulative[0].Count)
	assert.Equal(t, 3, r.Cumulative[2].Count)
	assert.Equal(t, 4, r.Cumulative[9].Count)
}

func TestProjectRetirement_ByDepartment(t *testing.T) {
	t.Parallel()

	r := ProjectRetirement(retirementFixture(t), 67)
	assert.Equal(t, []model.GroupStat{
		{Group: "HR", Count: 3, Value: 57.3},
		{Group: "IT", Count: 3, Value: 63.3},
	}, r.AgeByDepartment)
	assert.Equal(t, []model.GroupStat{
		{Group: "HR", Count: 3, Value: 33.3},
		{Group: "IT", Count: 3, Value: 66.7},
	}, r.LossByDepartment)
}

func TestProjectRetirement_RetirementAgeShiftsProjection(t *testing.T) {
	t.Parallel()

	r := ProjectRetirement(retirementFixture(t), 60)
	assert.Equal(t, 3, r.Bands[0].Count) // 67, 64, 74
	assert.Equal(t, 4, r.Within5)
	assert.Equal(t, 1, r.Within10)
}

func TestProjectRetirement_NoAge(t *testing.T) {
	t.Parallel()

	if r := ProjectRetirement(derived(t, []string{"Abteilung"}, []string{"IT"}), 67); r != nil {
		t.Fatalf("expected nil report without age column")
	}
}
