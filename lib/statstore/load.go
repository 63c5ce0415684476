package statstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"mlbstats/lib/stats"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type LoadResult struct {
	Table    string
	Inserted int
	// Skipped rows did not have one value per column.
	Skipped int
	// Failed rows were rejected by the database.
	Failed int
}

func replaceTable(ctx context.Context, tx *sql.Tx, schema TableSchema) error {
	err := schema.Validate()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", schema.Name))
	if err != nil {
		return fmt.Errorf("drop %s: %w", schema.Name, err)
	}
	_, err = tx.ExecContext(ctx, schema.createSql())
	if err != nil {
		return fmt.Errorf("create %s: %w", schema.Name, err)
	}
	return nil
}

func load(ctx context.Context, tx *sql.Tx, schema TableSchema, rows [][]any) (LoadResult, error) {
	result := LoadResult{Table: schema.Name}
	err := schema.Validate()
	if err != nil {
		return result, err
	}

	stmt, err := tx.PrepareContext(ctx, schema.insertSql())
	if err != nil {
		return result, fmt.Errorf("prepare insert into %s: %w", schema.Name, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != len(schema.Columns) {
			result.Skipped++
			slog.WarnContext(
				ctx, "skipping row with wrong number of values",
				"table", schema.Name,
				"row", i,
				"expected", len(schema.Columns),
				"got", len(row),
			)
			continue
		}
		_, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			result.Failed++
			slog.WarnContext(ctx, "failed to insert row", "table", schema.Name, "row", i, "err", err)
			continue
		}
		result.Inserted++
	}
	return result, nil
}

func (s Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	err = fn(tx)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceTable drops the table if it exists and creates it empty. Whatever
// it held before is gone.
func (s Store) ReplaceTable(ctx context.Context, schema TableSchema) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return replaceTable(ctx, tx, schema)
	})
}

// Load inserts rows in order, one value per column. Rows that cannot be
// inserted are counted and logged, they do not stop the load.
func (s Store) Load(ctx context.Context, schema TableSchema, rows [][]any) (LoadResult, error) {
	var result LoadResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		result, err = load(ctx, tx, schema, rows)
		return err
	})
	return result, err
}

// Replace is ReplaceTable followed by Load as a single unit of work, either
// the table ends up with the new rows or it is left as it was.
func (s Store) Replace(ctx context.Context, schema TableSchema, rows [][]any) (LoadResult, error) {
	ctx, span := tracer.Start(ctx, "Replace")
	defer span.End()
	span.SetAttributes(attribute.String("table", schema.Name), attribute.Int("rows", len(rows)))

	var result LoadResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := replaceTable(ctx, tx, schema)
		if err != nil {
			return err
		}
		result, err = load(ctx, tx, schema, rows)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to replace table")
		return LoadResult{Table: schema.Name}, err
	}

	table := metric.WithAttributes(attribute.String("table", schema.Name))
	rowsInserted.Add(ctx, int64(result.Inserted), table)
	rowsRejected.Add(ctx, int64(result.Skipped+result.Failed), table)
	slog.InfoContext(
		ctx, "replaced table",
		"table", schema.Name,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// ReplaceStats replaces the hitting or pitching fact table with records.
func (s Store) ReplaceStats(ctx context.Context, kind stats.StatType, records []stats.CleanedRecord) (LoadResult, error) {
	schema, err := FactSchema(kind)
	if err != nil {
		return LoadResult{}, err
	}
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{r.Year, r.Category, r.Player, r.Team, r.Value}
	}
	return s.Replace(ctx, schema, rows)
}

// ReplaceEvents replaces the event dimension. A repeated event name fails
// on the primary key, the first description wins.
func (s Store) ReplaceEvents(ctx context.Context, events []stats.Event) (LoadResult, error) {
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = []any{e.Name, e.Description}
	}
	return s.Replace(ctx, Events, rows)
}

// EnsureTables creates the fact and event tables that do not exist yet,
// existing ones are left untouched. Queries join all of them, an import
// that only replaces some tables must still leave the rest queryable.
func (s Store) EnsureTables(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, schema := range []TableSchema{HittingStats, PitchingStats, Events} {
			err := schema.Validate()
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, strings.Replace(schema.createSql(), "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1))
			if err != nil {
				return fmt.Errorf("create %s: %w", schema.Name, err)
			}
		}
		return nil
	})
}
