package statstore

import (
	"fmt"
	"regexp"
	"strings"

	"mlbstats/lib/stats"
)

type Column struct {
	Name string
	// Type is the column definition after the name, e.g. "TEXT PRIMARY KEY".
	Type string
}

// TableSchema is everything needed to recreate a table from scratch.
type TableSchema struct {
	Name    string
	Columns []Column
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var columnType = regexp.MustCompile(`^[A-Za-z][A-Za-z ]*$`)

// Validate checks that every name in the schema is a plain identifier, they
// end up in DDL and cannot be passed as parameters.
func (s TableSchema) Validate() error {
	if !identifier.MatchString(s.Name) {
		return fmt.Errorf("invalid table name %q", s.Name)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", s.Name)
	}
	for _, c := range s.Columns {
		if !identifier.MatchString(c.Name) {
			return fmt.Errorf("table %s: invalid column name %q", s.Name, c.Name)
		}
		if !columnType.MatchString(c.Type) {
			return fmt.Errorf("table %s: invalid type %q for column %s", s.Name, c.Type, c.Name)
		}
	}
	return nil
}

func (s TableSchema) createSql() string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = fmt.Sprintf("%s %s", c.Name, c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", s.Name, strings.Join(defs, ", "))
}

func (s TableSchema) insertSql() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", s.Name, placeholders)
}

func factColumns() []Column {
	return []Column{
		{Name: "Year", Type: "INTEGER"},
		{Name: "Event", Type: "TEXT"},
		{Name: "Player", Type: "TEXT"},
		{Name: "Team", Type: "TEXT"},
		{Name: "Value", Type: "REAL"},
	}
}

var (
	HittingStats  = TableSchema{Name: stats.HittingTable, Columns: factColumns()}
	PitchingStats = TableSchema{Name: stats.PitchingTable, Columns: factColumns()}
	Events        = TableSchema{
		Name: stats.EventsTable,
		Columns: []Column{
			{Name: "Event", Type: "TEXT PRIMARY KEY"},
			{Name: "Description", Type: "TEXT"},
		},
	}
)

// FactSchema returns the fact table schema for hitting or pitching stats.
func FactSchema(kind stats.StatType) (TableSchema, error) {
	switch kind {
	case stats.StatTypeHitting:
		return HittingStats, nil
	case stats.StatTypePitching:
		return PitchingStats, nil
	}
	return TableSchema{}, fmt.Errorf("no fact table for stat type %q", kind)
}
