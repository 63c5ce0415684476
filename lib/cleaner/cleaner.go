package cleaner

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"mlbstats/lib/stats"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("mlbstats/lib/cleaner")
var rowsRemoved, _ = meter.Int64Counter("cleaner.rows_removed")
var rowsKept, _ = meter.Int64Counter("cleaner.rows_kept")

// Report counts what cleaning did to a batch of rows.
type Report struct {
	Input int
	// Duplicates counts exact copies of an earlier row, both as read and
	// after values were parsed ("40" and "40.0" are the same record).
	Duplicates int
	// Missing counts rows without a player, category or usable value. Rows
	// whose year or value could not be parsed are included.
	Missing int
	// NonNumeric is the part of Missing that had a year or value which is
	// not a finite number.
	NonNumeric int
	Output     int
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parseValue accepts decimal numbers only, hex floats such as "0x1p4" are
// rejected like any other text.
func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// Clean deduplicates a batch of raw rows, drops the ones missing a required
// field and parses the rest. It never fails, everything it drops is
// counted in the report. Order of the remaining rows is kept.
func Clean(rows []stats.RawRow) ([]stats.CleanedRecord, Report) {
	report := Report{Input: len(rows)}

	seenRaw := make(map[stats.RawRow]struct{}, len(rows))
	seenClean := make(map[stats.CleanedRecord]struct{}, len(rows))
	out := make([]stats.CleanedRecord, 0, len(rows))

	for _, row := range rows {
		if _, ok := seenRaw[row]; ok {
			report.Duplicates++
			continue
		}
		seenRaw[row] = struct{}{}

		if blank(row.Player) || blank(row.Event) || blank(row.Value) {
			report.Missing++
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(row.Year))
		if err != nil {
			report.Missing++
			report.NonNumeric++
			continue
		}
		value, ok := parseValue(row.Value)
		if !ok {
			report.Missing++
			report.NonNumeric++
			continue
		}

		record := stats.CleanedRecord{
			Year:     year,
			Category: row.Event,
			Player:   row.Player,
			Team:     row.Team,
			Value:    value,
		}
		if _, ok := seenClean[record]; ok {
			report.Duplicates++
			continue
		}
		seenClean[record] = struct{}{}
		out = append(out, record)
	}

	report.Output = len(out)
	return out, report
}

// Log writes the report as a cleaning summary and records it as metrics.
func (r Report) Log(ctx context.Context, dataset string) {
	slog.InfoContext(
		ctx, "cleaned dataset",
		"dataset", dataset,
		"input", r.Input,
		"duplicates_removed", r.Duplicates,
		"missing_removed", r.Missing,
		"non_numeric", r.NonNumeric,
		"output", r.Output,
	)

	ds := attribute.String("dataset", dataset)
	rowsRemoved.Add(ctx, int64(r.Duplicates), metric.WithAttributes(ds, attribute.String("reason", "duplicate")))
	rowsRemoved.Add(ctx, int64(r.Missing), metric.WithAttributes(ds, attribute.String("reason", "missing")))
	rowsKept.Add(ctx, int64(r.Output), metric.WithAttributes(ds))
}

// Raw turns cleaned records back into raw rows, as if they had been written
// out and read back.
func Raw(records []stats.CleanedRecord) []stats.RawRow {
	rows := make([]stats.RawRow, len(records))
	for i, r := range records {
		fields := r.Fields()
		rows[i] = stats.RawRow{
			Year:   fields[0],
			Event:  fields[1],
			Player: fields[2],
			Team:   fields[3],
			Value:  fields[4],
		}
	}
	return rows
}
