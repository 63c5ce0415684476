package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mlbstats/lib/cleaner"
	"mlbstats/lib/statcsv"
	"mlbstats/lib/stats"
	"mlbstats/lib/statstore"
	"mlbstats/lib/telemetry"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("mlbstats/services/ingest")

// Sources are the intermediate files of one import run. An empty path
// leaves the matching table alone.
type Sources struct {
	Hitting  string `json:"hitting"`
	Pitching string `json:"pitching"`
	Events   string `json:"events"`
	// CleanedDir receives a "<name>_cleaned.csv" copy of every cleaned
	// stat file when set.
	CleanedDir string `json:"cleaned_dir"`
}

type TableSummary struct {
	Table  string
	Source string
	// Malformed counts csv rows with the wrong number of fields.
	Malformed int
	// Cleaning is only filled in for fact tables, events are loaded as is.
	Cleaning *cleaner.Report
	Load     statstore.LoadResult
	Err      error
}

type Summary struct {
	RunID  string
	Tables []TableSummary
}

// Err joins the errors of every table that could not be imported.
func (s Summary) Err() error {
	var errs []error
	for _, t := range s.Tables {
		if t.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Table, t.Err))
		}
	}
	return errors.Join(errs...)
}

func newRunID() string {
	id, err := random.String(8)
	if err != nil {
		slog.Warn("failed to generate run id", "err", err)
		return "unknown"
	}
	return id
}

func cleanedPath(dir, source string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"_cleaned"+ext)
}

func importStats(ctx context.Context, store statstore.Store, kind stats.StatType, path, cleanedDir string) TableSummary {
	summary := TableSummary{Table: kind.Table(), Source: path}

	f, err := statcsv.OpenFile(path)
	if err != nil {
		summary.Err = err
		return summary
	}
	defer f.Close()

	raw, err := statcsv.ReadStats(ctx, f)
	if err != nil {
		summary.Err = fmt.Errorf("read %s: %w", path, err)
		return summary
	}
	summary.Malformed = raw.Malformed

	records, report := cleaner.Clean(raw.Rows)
	report.Log(ctx, summary.Table)
	summary.Cleaning = &report

	if cleanedDir != "" {
		out := cleanedPath(cleanedDir, path)
		err = statcsv.WriteFile(out, stats.StatHeader, records)
		if err != nil {
			slog.WarnContext(ctx, "failed to write cleaned copy", "path", out, "err", err)
		}
	}

	summary.Load, summary.Err = store.ReplaceStats(ctx, kind, records)
	return summary
}

func importEvents(ctx context.Context, store statstore.Store, path string) TableSummary {
	summary := TableSummary{Table: stats.EventsTable, Source: path}

	f, err := statcsv.OpenFile(path)
	if err != nil {
		summary.Err = err
		return summary
	}
	defer f.Close()

	events, err := statcsv.ReadEvents(ctx, f)
	if err != nil {
		summary.Err = fmt.Errorf("read %s: %w", path, err)
		return summary
	}
	summary.Malformed = events.Malformed
	summary.Load, summary.Err = store.ReplaceEvents(ctx, events.Rows)
	return summary
}

// Import loads every configured source into its table. Each table is
// replaced on its own, a failure on one of them is recorded in the summary
// and the others are still imported.
func Import(ctx context.Context, store statstore.Store, sources Sources) Summary {
	summary := Summary{RunID: newRunID()}

	ctx, span := tracer.Start(ctx, "Import")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", summary.RunID))

	slog.InfoContext(ctx, "starting import", "run_id", summary.RunID)

	err := store.EnsureTables(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to create missing tables", "err", err)
	}

	if sources.Hitting != "" {
		summary.Tables = append(summary.Tables, importStats(ctx, store, stats.StatTypeHitting, sources.Hitting, sources.CleanedDir))
	}
	if sources.Pitching != "" {
		summary.Tables = append(summary.Tables, importStats(ctx, store, stats.StatTypePitching, sources.Pitching, sources.CleanedDir))
	}
	if sources.Events != "" {
		summary.Tables = append(summary.Tables, importEvents(ctx, store, sources.Events))
	}

	for _, t := range summary.Tables {
		if t.Err == nil {
			continue
		}
		if errors.Is(t.Err, os.ErrNotExist) {
			slog.WarnContext(ctx, "source file not found, table left as is", "table", t.Table, "source", t.Source)
		} else {
			slog.ErrorContext(ctx, "failed to import table", "table", t.Table, "source", t.Source, "err", t.Err)
		}
		span.RecordError(t.Err)
		span.SetStatus(codes.Error, "some tables failed to import")
	}
	return summary
}
