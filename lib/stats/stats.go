package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// StatRecord is a single league leader row as it was read off a review page,
// the value is kept as the raw cell text.
type StatRecord struct {
	Year     int
	Category string
	Player   string
	Team     string
	RawValue string
}

// Fields renders the record in the column order of the intermediate csv files.
func (r StatRecord) Fields() []string {
	return []string{
		strconv.Itoa(r.Year),
		r.Category,
		r.Player,
		r.Team,
		r.RawValue,
	}
}

// RawRow is one data row of an intermediate csv file, nothing about it has
// been validated yet.
type RawRow struct {
	Year   string
	Event  string
	Player string
	Team   string
	Value  string
}

type CleanedRecord struct {
	Year     int
	Category string
	Player   string
	Team     string
	Value    float64
}

func (r CleanedRecord) Fields() []string {
	return []string{
		strconv.Itoa(r.Year),
		r.Category,
		r.Player,
		r.Team,
		strconv.FormatFloat(r.Value, 'f', -1, 64),
	}
}

type StatType string

const (
	StatTypeAll      StatType = "all"
	StatTypeHitting  StatType = "hitting"
	StatTypePitching StatType = "pitching"
)

func ParseStatType(s string) (StatType, error) {
	switch StatType(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatTypeAll:
		return StatTypeAll, nil
	case StatTypeHitting:
		return StatTypeHitting, nil
	case StatTypePitching:
		return StatTypePitching, nil
	}
	return "", fmt.Errorf("unknown stat type %q (expected all, hitting or pitching)", s)
}

// Table returns the fact table holding stats of the given type, it is empty
// for StatTypeAll.
func (t StatType) Table() string {
	switch t {
	case StatTypeHitting:
		return HittingTable
	case StatTypePitching:
		return PitchingTable
	}
	return ""
}

const (
	HittingTable  = "hitting_stats"
	PitchingTable = "pitching_stats"
	EventsTable   = "events"
)

// CSV headers of the intermediate files.
var (
	StatHeader  = []string{"Year", "Event", "Player", "Team", "Value"}
	EventHeader = []string{"Event", "Description"}
)

// League describes where the yearly review pages of a league live and how
// their review sections are titled.
type League struct {
	Name string
	// URLTemplate contains a single {year} placeholder.
	URLTemplate   string
	PlayerReview  string
	PitcherReview string
}

func (l League) URL(year int) string {
	return strings.ReplaceAll(l.URLTemplate, "{year}", strconv.Itoa(year))
}

var (
	AmericanLeague = League{
		Name:          "american",
		URLTemplate:   "https://www.baseball-almanac.com/yearly/yr{year}a.shtml",
		PlayerReview:  "American League Player Review",
		PitcherReview: "American League Pitcher Review",
	}
	NationalLeague = League{
		Name:          "national",
		URLTemplate:   "https://www.baseball-almanac.com/yearly/yr{year}n.shtml",
		PlayerReview:  "National League Player Review",
		PitcherReview: "National League Pitcher Review",
	}
)

func LeagueByName(name string) (League, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AmericanLeague.Name, "al":
		return AmericanLeague, nil
	case NationalLeague.Name, "nl":
		return NationalLeague, nil
	}
	return League{}, fmt.Errorf("unknown league %q", name)
}

// Event is a row of the event dimension, a stat category and what it
// measures.
type Event struct {
	Name        string
	Description string
}

func (e Event) Fields() []string {
	return []string{e.Name, e.Description}
}
