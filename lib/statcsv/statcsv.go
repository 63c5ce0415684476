package statcsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mlbstats/lib/stats"
)

// ArityError is a data row whose field count differs from the header's.
type ArityError struct {
	Line   int
	Fields []string
	Want   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, e.Want, len(e.Fields))
}

// Result holds what could be read from a file, rows that had to be skipped
// are only counted.
type Result[T any] struct {
	Rows      []T
	Malformed int
}

type header struct {
	columns map[string]int
	width   int
}

func readHeader(r *csv.Reader, want []string) (header, error) {
	fields, err := r.Read()
	if err == io.EOF {
		return header{}, fmt.Errorf("missing header row")
	}
	if err != nil {
		return header{}, err
	}
	h := header{columns: map[string]int{}, width: len(fields)}
	for i, f := range fields {
		// excel likes to prefix utf-8 files with a byte order mark
		if i == 0 {
			f = strings.TrimPrefix(f, "\ufeff")
		}
		h.columns[strings.TrimSpace(f)] = i
	}
	for _, col := range want {
		if _, ok := h.columns[col]; !ok {
			return header{}, fmt.Errorf("header is missing column %q", col)
		}
	}
	return h, nil
}

func (h header) get(fields []string, col string) string {
	return fields[h.columns[col]]
}

// readRows reads every data row after the header, handing each row with the
// right field count to `convert`.
func readRows[T any](ctx context.Context, in io.Reader, want []string, convert func(header, []string) T) (Result[T], error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	var result Result[T]
	h, err := readHeader(r, want)
	if err != nil {
		return result, err
	}

	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			result.Malformed++
			slog.WarnContext(ctx, "skipping unreadable csv row", "line", parseErr.Line, "err", err)
			continue
		}
		if err != nil {
			return result, err
		}
		if len(fields) != h.width {
			line, _ := r.FieldPos(0)
			result.Malformed++
			slog.WarnContext(ctx, "skipping malformed csv row", "err", &ArityError{
				Line:   line,
				Fields: fields,
				Want:   h.width,
			})
			continue
		}
		result.Rows = append(result.Rows, convert(h, fields))
	}
	return result, nil
}

// ReadStats reads an intermediate stat file. Columns are addressed by header
// name, rows with a different number of fields than the header are skipped.
func ReadStats(ctx context.Context, in io.Reader) (Result[stats.RawRow], error) {
	return readRows(ctx, in, stats.StatHeader, func(h header, fields []string) stats.RawRow {
		return stats.RawRow{
			Year:   h.get(fields, "Year"),
			Event:  h.get(fields, "Event"),
			Player: h.get(fields, "Player"),
			Team:   h.get(fields, "Team"),
			Value:  h.get(fields, "Value"),
		}
	})
}

// ReadEvents reads an event description file, its rows are taken as is.
func ReadEvents(ctx context.Context, in io.Reader) (Result[stats.Event], error) {
	return readRows(ctx, in, stats.EventHeader, func(h header, fields []string) stats.Event {
		return stats.Event{
			Name:        h.get(fields, "Event"),
			Description: h.get(fields, "Description"),
		}
	})
}

// Fielder is anything that renders to a row of a csv file.
type Fielder interface {
	Fields() []string
}

// Write writes a header followed by one row per record.
func Write[T Fielder](out io.Writer, header []string, records []T) error {
	w := csv.NewWriter(out)
	err := w.Write(header)
	if err != nil {
		return err
	}
	for _, r := range records {
		err = w.Write(r.Fields())
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteFile is Write to a file that is created (along with its parent
// directories) or truncated.
func WriteFile[T Fielder](path string, header []string, records []T) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Write(f, header, records)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OpenFile opens a file for one of the Read functions, it is a thin wrapper
// that puts the path into the error.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
