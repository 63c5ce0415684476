package cleaner

import (
	"testing"

	"mlbstats/lib/stats"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	rows := []stats.RawRow{
		{Year: "2020", Event: "HR", Player: "A", Team: "TeamX", Value: "40"},
		{Year: "2020", Event: "HR", Player: "A", Team: "TeamX", Value: "40"},
		{Year: "2020", Event: "AVG", Player: "B", Team: "TeamY", Value: "abc"},
	}
	records, report := Clean(rows)

	require.Equal(t, []stats.CleanedRecord{
		{Year: 2020, Category: "HR", Player: "A", Team: "TeamX", Value: 40},
	}, records)
	require.Equal(t, Report{Input: 3, Duplicates: 1, Missing: 1, NonNumeric: 1, Output: 1}, report)
}

func TestCleanCoercion(t *testing.T) {
	testCases := []struct {
		value    string
		expected float64
		ok       bool
	}{
		{value: "  42  ", expected: 42, ok: true},
		{value: ".398", expected: 0.398, ok: true},
		{value: "-3", expected: -3, ok: true},
		{value: "N/A", ok: false},
		{value: "NaN", ok: false},
		{value: "Inf", ok: false},
		{value: "1,000", ok: false},
		{value: "0x1p4", ok: false},
		{value: "-0X10", ok: false},
		{value: "1e2", expected: 100, ok: true},
		{value: "   ", ok: false},
	}
	for _, test := range testCases {
		records, report := Clean([]stats.RawRow{
			{Year: "2020", Event: "HR", Player: "A", Team: "TeamX", Value: test.value},
		})
		if !test.ok {
			require.Empty(t, records, "value %q", test.value)
			require.Equal(t, 1, report.Missing, "value %q", test.value)
			continue
		}
		require.Len(t, records, 1, "value %q", test.value)
		require.Equal(t, test.expected, records[0].Value, "value %q", test.value)
	}
}

func TestCleanMissingFields(t *testing.T) {
	rows := []stats.RawRow{
		{Year: "2020", Event: "", Player: "A", Team: "TeamX", Value: "1"},
		{Year: "2020", Event: "HR", Player: " ", Team: "TeamX", Value: "1"},
		{Year: "", Event: "HR", Player: "A", Team: "TeamX", Value: "1"},
		// team is not required
		{Year: "2020", Event: "HR", Player: "A", Team: "", Value: "1"},
	}
	records, report := Clean(rows)
	require.Len(t, records, 1)
	require.Equal(t, 3, report.Missing)
	require.Equal(t, 1, report.NonNumeric)
}

func TestCleanDuplicateCount(t *testing.T) {
	row := stats.RawRow{Year: "1927", Event: "Wins", Player: "Waite Hoyt", Team: "New York", Value: "22"}
	other := stats.RawRow{Year: "1927", Event: "Wins", Player: "Ted Lyons", Team: "Chicago", Value: "22"}

	records, report := Clean([]stats.RawRow{row, row, other, row, other})
	require.Len(t, records, 2)
	require.Equal(t, 3, report.Duplicates)

	// identical once parsed
	reformatted := row
	reformatted.Value = "22.0"
	_, report = Clean([]stats.RawRow{row, reformatted})
	require.Equal(t, 1, report.Duplicates)
}

func TestCleanIdempotent(t *testing.T) {
	rows := []stats.RawRow{
		{Year: "2020", Event: "HR", Player: "A", Team: "TeamX", Value: " 40 "},
		{Year: "2020", Event: "HR", Player: "A", Team: "TeamX", Value: "40.00"},
		{Year: "2020", Event: "AVG", Player: "B", Team: "TeamY", Value: ".301"},
		{Year: "2020", Event: "AVG", Player: "C", Team: "", Value: "N/A"},
		{Year: "2019", Event: "ERA", Player: "D", Team: "TeamZ", Value: "2.5"},
	}
	once, _ := Clean(rows)
	twice, report := Clean(Raw(once))

	require.Zero(t, report.Duplicates)
	require.Zero(t, report.Missing)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second pass changed records (-first +second):\n%s", diff)
	}
}
