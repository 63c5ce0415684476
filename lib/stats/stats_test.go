package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatType(t *testing.T) {
	testCases := []struct {
		in       string
		expected StatType
		table    string
	}{
		{in: "", expected: StatTypeAll, table: ""},
		{in: "all", expected: StatTypeAll, table: ""},
		{in: " Hitting ", expected: StatTypeHitting, table: HittingTable},
		{in: "PITCHING", expected: StatTypePitching, table: PitchingTable},
	}
	for _, test := range testCases {
		st, err := ParseStatType(test.in)
		require.NoError(t, err)
		require.Equal(t, test.expected, st)
		require.Equal(t, test.table, st.Table())
	}

	_, err := ParseStatType("fielding")
	require.Error(t, err)
}

func TestLeagueURL(t *testing.T) {
	require.Equal(t,
		"https://www.baseball-almanac.com/yearly/yr1927a.shtml",
		AmericanLeague.URL(1927),
	)

	nl, err := LeagueByName("NL")
	require.NoError(t, err)
	require.Equal(t, "https://www.baseball-almanac.com/yearly/yr2004n.shtml", nl.URL(2004))

	_, err = LeagueByName("federal")
	require.Error(t, err)
}

func TestCleanedRecordFields(t *testing.T) {
	r := CleanedRecord{Year: 2020, Category: "ERA", Player: "A", Team: "TeamX", Value: 2.5}
	require.Equal(t, []string{"2020", "ERA", "A", "TeamX", "2.5"}, r.Fields())

	r.Value = 40
	require.Equal(t, "40", r.Fields()[4])
}
