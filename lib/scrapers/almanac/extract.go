package almanac

import (
	"mlbstats/lib/stats"
)

const (
	flatCellCount         = 4
	continuationCellCount = 2
)

// Extractor turns the classified rows of a review block into records,
// rows it had to give up on are returned as MalformedRowErrors.
type Extractor func(year int, rows []Row) ([]stats.StatRecord, []error)

// ExtractFlat reads blocks where every row repeats its category:
// category, player, team, value.
func ExtractFlat(year int, rows []Row) ([]stats.StatRecord, []error) {
	var records []stats.StatRecord
	var malformedRows []error
	for _, row := range rows {
		if row.Kind == RowSkipped || row.Kind == RowEmpty {
			continue
		}
		if len(row.Cells) < flatCellCount {
			malformedRows = append(malformedRows, malformed(row, "expected at least 4 cells"))
			continue
		}

		record := stats.StatRecord{
			Year:     year,
			Category: row.Cells[0],
			Player:   row.Cells[1],
			Team:     row.Cells[2],
			RawValue: row.Cells[3],
		}
		if record.Category == "" || record.Player == "" || record.Team == "" || record.RawValue == "" {
			continue
		}
		records = append(records, record)
	}
	return records, malformedRows
}

// carryState is the category and value most recently stated by a marker
// row. The zero value means no marker row has been seen (or the last one was
// unusable).
type carryState struct {
	category string
	value    string
	valid    bool
}

// carryStep folds a single row into the state. It returns the next state and
// the record the row stands for, if any.
func carryStep(year int, state carryState, row Row) (carryState, *stats.StatRecord, error) {
	var player, team string

	switch row.Kind {
	case RowSkipped, RowEmpty:
		return state, nil, nil
	case RowMarker:
		if len(row.Cells) < flatCellCount {
			return carryState{}, nil, malformed(row, "category row needs at least 4 cells")
		}
		if row.Cells[0] == "" || row.Cells[3] == "" {
			return carryState{}, nil, malformed(row, "category row without category or value")
		}
		state = carryState{category: row.Cells[0], value: row.Cells[3], valid: true}
		player, team = row.Cells[1], row.Cells[2]
	default:
		if !state.valid {
			return state, nil, malformed(row, "tied row before any category row")
		}
		if len(row.Cells) < continuationCellCount {
			return state, nil, malformed(row, "tied row needs at least 2 cells")
		}
		player, team = row.Cells[0], row.Cells[1]
	}

	if player == "" || team == "" {
		return state, nil, malformed(row, "missing player or team")
	}
	return state, &stats.StatRecord{
		Year:     year,
		Category: state.category,
		Player:   player,
		Team:     team,
		RawValue: state.value,
	}, nil
}

// ExtractCarryForward reads blocks that list ties without repeating the
// category and value: a marker row states category, player, team, value and
// the rows after it only name player and team until the next marker row.
func ExtractCarryForward(year int, rows []Row) ([]stats.StatRecord, []error) {
	var records []stats.StatRecord
	var malformedRows []error

	state := carryState{}
	for _, row := range rows {
		next, record, err := carryStep(year, state, row)
		state = next
		if err != nil {
			malformedRows = append(malformedRows, err)
			continue
		}
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, malformedRows
}
