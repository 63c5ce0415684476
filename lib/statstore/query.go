package statstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mlbstats/lib/stats"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Filter narrows a query down, zero values mean "any".
type Filter struct {
	Player string
	Year   int
	Event  string
	// StatType picks the fact tables to read, empty is the same as
	// stats.StatTypeAll.
	StatType stats.StatType
	// Contains matches Player and Event as case insensitive substrings
	// instead of exact values.
	Contains bool
}

// Row is a fact row joined with the description of its event.
type Row struct {
	StatType    stats.StatType
	Year        int
	Event       string
	Player      string
	Team        string
	Value       float64
	Description string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f Filter) tables() ([]stats.StatType, error) {
	kind := f.StatType
	if kind == "" {
		kind = stats.StatTypeAll
	}
	switch kind {
	case stats.StatTypeAll:
		return []stats.StatType{stats.StatTypeHitting, stats.StatTypePitching}, nil
	case stats.StatTypeHitting, stats.StatTypePitching:
		return []stats.StatType{kind}, nil
	}
	return nil, fmt.Errorf("unknown stat type %q", kind)
}

// where returns the conditions of a single select over the fact table
// aliased as "f", along with their arguments.
func (f Filter) where() (string, []any) {
	var conds []string
	var args []any

	text := func(column, value string) {
		if value == "" {
			return
		}
		if f.Contains {
			conds = append(conds, fmt.Sprintf(`f.%s LIKE ? ESCAPE '\'`, column))
			args = append(args, "%"+likeEscaper.Replace(value)+"%")
			return
		}
		conds = append(conds, fmt.Sprintf("f.%s = ?", column))
		args = append(args, value)
	}

	text("Player", f.Player)
	if f.Year != 0 {
		conds = append(conds, "f.Year = ?")
		args = append(args, f.Year)
	}
	text("Event", f.Event)

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// BuildQuery returns the statement and its positional arguments for a
// filter. Filter values are only ever passed as arguments.
func BuildQuery(f Filter) (string, []any, error) {
	tables, err := f.tables()
	if err != nil {
		return "", nil, err
	}
	where, whereArgs := f.where()

	selects := make([]string, len(tables))
	var args []any
	for i, kind := range tables {
		selects[i] = fmt.Sprintf(
			"SELECT '%s' AS StatType, f.Year, f.Event, f.Player, f.Team, f.Value, e.Description"+
				" FROM %s f LEFT JOIN %s e ON f.Event = e.Event%s",
			kind, kind.Table(), stats.EventsTable, where,
		)
		args = append(args, whereArgs...)
	}

	query := strings.Join(selects, " UNION ALL ") + " ORDER BY Year, Player"
	return query, args, nil
}

// Query runs a filtered query, nothing matching is an empty slice and not
// an error.
func (s Store) Query(ctx context.Context, f Filter) ([]Row, error) {
	ctx, span := tracer.Start(ctx, "Query")
	defer span.End()
	span.SetAttributes(
		attribute.String("stat_type", string(f.StatType)),
		attribute.Int("year", f.Year),
		attribute.Bool("contains", f.Contains),
	)

	query, args, err := BuildQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		var r Row
		var kind string
		var team, description sql.NullString
		err := rows.Scan(&kind, &r.Year, &r.Event, &r.Player, &team, &r.Value, &description)
		if err != nil {
			return nil, err
		}
		r.StatType = stats.StatType(kind)
		r.Team = team.String
		r.Description = description.String
		result = append(result, r)
	}
	return result, rows.Err()
}

// EventDescriptions returns the event dimension as a map from event name to
// description.
func (s Store) EventDescriptions(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT Event, Description FROM %s", stats.EventsTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name string
		var description sql.NullString
		err := rows.Scan(&name, &description)
		if err != nil {
			return nil, err
		}
		out[name] = description.String
	}
	return out, rows.Err()
}
