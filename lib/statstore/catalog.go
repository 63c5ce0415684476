package statstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"mlbstats/lib/stats"

	"github.com/antzucaro/matchr"
)

// Catalog holds the distinct values that can be filtered on. It is loaded
// once when a process starts and never refreshed, an import run in another
// process is only picked up on restart.
type Catalog struct {
	Players []string
	Years   []int
	Events  []string
}

func distinct[T any](ctx context.Context, s Store, column string) ([]T, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT %[1]s FROM %[2]s UNION SELECT DISTINCT %[1]s FROM %[3]s ORDER BY %[1]s",
		column, stats.HittingTable, stats.PitchingTable,
	)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var value T
		err := rows.Scan(&value)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}

func LoadCatalog(ctx context.Context, s Store) (Catalog, error) {
	ctx, span := tracer.Start(ctx, "LoadCatalog")
	defer span.End()

	players, err := distinct[string](ctx, s, "Player")
	if err != nil {
		span.RecordError(err)
		return Catalog{}, err
	}
	years, err := distinct[int](ctx, s, "Year")
	if err != nil {
		span.RecordError(err)
		return Catalog{}, err
	}
	events, err := distinct[string](ctx, s, "Event")
	if err != nil {
		span.RecordError(err)
		return Catalog{}, err
	}
	return Catalog{Players: players, Years: years, Events: events}, nil
}

const minSuggestionSimilarity = 0.8

type suggestion struct {
	name       string
	similarity float64
}

// SuggestPlayers returns up to n known players whose names are close to
// name, most similar first.
func (c Catalog) SuggestPlayers(name string, n int) []string {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" || n <= 0 {
		return nil
	}

	var candidates []suggestion
	for _, p := range c.Players {
		similarity := matchr.JaroWinkler(target, strings.ToLower(p), false)
		if similarity < minSuggestionSimilarity {
			continue
		}
		candidates = append(candidates, suggestion{name: p, similarity: similarity})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

func (c Catalog) HasPlayer(name string) bool {
	for _, p := range c.Players {
		if p == name {
			return true
		}
	}
	return false
}
