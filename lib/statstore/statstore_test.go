package statstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mlbstats/lib/stats"
	"mlbstats/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func openMemory(t testing.TB) (Store, func()) {
	cleanup := telemetry.SetupForTesting(t, "test:statstore")
	store, err := Open(context.Background(), Config{File: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	return store, func() {
		store.Close()
		cleanup()
	}
}

var hitting = []stats.CleanedRecord{
	{Year: 2019, Category: "Home Runs", Player: "Jorge Soler", Team: "Kansas City", Value: 48},
	{Year: 2020, Category: "Home Runs", Player: "Luke Voit", Team: "New York", Value: 22},
	{Year: 2020, Category: "Batting Average", Player: "DJ LeMahieu", Team: "New York", Value: 0.364},
}

var pitching = []stats.CleanedRecord{
	{Year: 2020, Category: "ERA", Player: "Shane Bieber", Team: "Cleveland", Value: 1.63},
	{Year: 2020, Category: "Wins", Player: "Shane Bieber", Team: "Cleveland", Value: 8},
	{Year: 2021, Category: "Wins", Player: "Gerrit Cole", Team: "New York", Value: 16},
}

var events = []stats.Event{
	{Name: "Home Runs", Description: "Balls hit out of the park"},
	{Name: "ERA", Description: "Earned run average"},
}

func seed(t testing.TB, store Store) {
	ctx := context.Background()
	res, err := store.ReplaceStats(ctx, stats.StatTypeHitting, hitting)
	require.NoError(t, err)
	require.Equal(t, len(hitting), res.Inserted)

	res, err = store.ReplaceStats(ctx, stats.StatTypePitching, pitching)
	require.NoError(t, err)
	require.Equal(t, len(pitching), res.Inserted)

	res, err = store.ReplaceEvents(ctx, events)
	require.NoError(t, err)
	require.Equal(t, len(events), res.Inserted)
}

func TestLoadRoundTrip(t *testing.T) {
	store, cleanup := openMemory(t)
	defer cleanup()
	seed(t, store)

	rows, err := store.Query(context.Background(), Filter{StatType: stats.StatTypeHitting})
	require.NoError(t, err)

	var got []stats.CleanedRecord
	for _, r := range rows {
		require.Equal(t, stats.StatTypeHitting, r.StatType)
		got = append(got, stats.CleanedRecord{
			Year:     r.Year,
			Category: r.Event,
			Player:   r.Player,
			Team:     r.Team,
			Value:    r.Value,
		})
	}
	// ordered by year, then player
	expected := []stats.CleanedRecord{hitting[0], hitting[2], hitting[1]}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestQueryUnion(t *testing.T) {
	store, cleanup := openMemory(t)
	defer cleanup()
	seed(t, store)

	rows, err := store.Query(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, rows, len(hitting)+len(pitching))

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		require.True(t, prev.Year < cur.Year || (prev.Year == cur.Year && prev.Player <= cur.Player))
	}

	descriptions := map[string]string{}
	for _, r := range rows {
		descriptions[r.Event] = r.Description
	}
	require.Equal(t, "Balls hit out of the park", descriptions["Home Runs"])
	require.Equal(t, "Earned run average", descriptions["ERA"])
	// left join, events without a description row are kept
	require.Equal(t, "", descriptions["Wins"])
}

func TestQueryYearFilter(t *testing.T) {
	store, cleanup := openMemory(t)
	defer cleanup()
	seed(t, store)

	expected := map[stats.StatType]int{
		stats.StatTypeAll:      4,
		stats.StatTypeHitting:  2,
		stats.StatTypePitching: 2,
	}
	for kind, count := range expected {
		rows, err := store.Query(context.Background(), Filter{Year: 2020, StatType: kind})
		require.NoError(t, err)
		require.Len(t, rows, count, "stat type %s", kind)
		for _, r := range rows {
			require.Equal(t, 2020, r.Year)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	store, cleanup := openMemory(t)
	defer cleanup()
	seed(t, store)
	ctx := context.Background()

	rows, err := store.Query(ctx, Filter{Player: "Shane Bieber", Event: "Wins"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 8.0, rows[0].Value)
	require.Equal(t, stats.StatTypePitching, rows[0].StatType)

	rows, err = store.Query(ctx, Filter{Player: "bieber"})
	require.NoError(t, err)
	require.Empty(t, rows)
	require.NotNil(t, rows)

	rows, err = store.Query(ctx, Filter{Player: "bieber", Contains: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = store.Query(ctx, Filter{Year: 1901})
	require.NoError(t, err)
	require.Empty(t, rows)

	_, err = store.Query(ctx, Filter{StatType: "fielding"})
	require.Error(t, err)
}

func TestBuildQueryParameters(t *testing.T) {
	query, args, err := BuildQuery(Filter{
		Player:   "O'Neil 100%",
		Year:     2020,
		StatType: stats.StatTypeAll,
		Contains: true,
	})
	require.NoError(t, err)
	require.NotContains(t, query, "O'Neil")
	require.Equal(t, 1, strings.Count(query, "UNION ALL"))
	require.True(t, strings.HasSuffix(query, "ORDER BY Year, Player"))
	require.Equal(t, []any{`%O'Neil 100\%%`, 2020, `%O'Neil 100\%%`, 2020}, args)

	query, args, err = BuildQuery(Filter{StatType: stats.StatTypePitching})
	require.NoError(t, err)
	require.NotContains(t, query, "WHERE")
	require.NotContains(t, query, stats.HittingTable)
	require.Empty(t, args)
}

func TestLoadSkipsBadRows(t *testing.T) {
	store, cleanup := openMemory(t)
	defer cleanup()
	ctx := context.Background()

	res, err := store.Replace(ctx, Events, [][]any{
		{"ERA", "Earned run average"},
		{"Wins"},
		{"ERA", "duplicate key"},
		{"Saves", "Games finished with a lead"},
	})
	require.NoError(t, err)
	require.Equal(t, LoadResult{Table: stats.EventsTable, Inserted: 2, Skipped: 1, Failed: 1}, res)

	descriptions, err := store.EventDescriptions(ctx)
	require.NoError(t, err)
	require.Equal(t, "Earned run average", descriptions["ERA"])
}

func TestReplaceTable(t *testing.T) {
	store, cleanup := openMemory(t)
	defer cleanup()
	ctx := context.Background()
	seed(t, store)

	err := store.ReplaceTable(ctx, HittingStats)
	require.NoError(t, err)
	rows, err := store.Query(ctx, Filter{StatType: stats.StatTypeHitting})
	require.NoError(t, err)
	require.Empty(t, rows)

	// other tables are untouched
	rows, err = store.Query(ctx, Filter{StatType: stats.StatTypePitching})
	require.NoError(t, err)
	require.Len(t, rows, len(pitching))

	res, err := store.Load(ctx, HittingStats, [][]any{{2024, "Home Runs", "Aaron Judge", "New York", 58.0}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)
}

func TestSchemaValidate(t *testing.T) {
	require.NoError(t, HittingStats.Validate())
	require.NoError(t, Events.Validate())

	bad := TableSchema{Name: "stats; DROP TABLE events", Columns: factColumns()}
	require.Error(t, bad.Validate())

	bad = TableSchema{Name: "stats", Columns: []Column{{Name: "Year", Type: "INTEGER); --"}}}
	require.Error(t, bad.Validate())

	store, cleanup := openMemory(t)
	defer cleanup()
	err := store.ReplaceTable(context.Background(), TableSchema{Name: "x y"})
	require.Error(t, err)
}

func TestCatalog(t *testing.T) {
	store, cleanup := openMemory(t)
	defer cleanup()
	seed(t, store)

	catalog, err := LoadCatalog(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, []int{2019, 2020, 2021}, catalog.Years)
	require.Equal(t, []string{"Batting Average", "ERA", "Home Runs", "Wins"}, catalog.Events)
	require.Len(t, catalog.Players, 5)
	require.True(t, catalog.HasPlayer("Gerrit Cole"))

	require.Equal(t, []string{"Shane Bieber"}, catalog.SuggestPlayers("Shane Beiber", 3))
	require.Empty(t, catalog.SuggestPlayers("Nolan Ryan", 3))
	require.Empty(t, catalog.SuggestPlayers("", 3))
}

func TestOpenLocalFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:statstore")
	defer cleanup()

	path := filepath.Join(t.TempDir(), "data", "mlb_stats.db")
	store, err := Open(context.Background(), Config{File: path})
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestOpenFailure(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:statstore")
	defer cleanup()

	_, err := Open(context.Background(), Config{})
	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))

	blocker := filepath.Join(t.TempDir(), "blocker")
	err = os.WriteFile(blocker, nil, 0600)
	require.NoError(t, err)
	_, err = Open(context.Background(), Config{File: filepath.Join(blocker, "mlb_stats.db")})
	require.True(t, errors.As(err, &connErr))
	require.Equal(t, filepath.Join(blocker, "mlb_stats.db"), connErr.Target)
}

func TestConfigTarget(t *testing.T) {
	cfg := Config{File: "<dev_state>/mlb_stats.db", Url: "libsql://stats.example.com", AuthToken: "secret"}
	require.Equal(t, "libsql://stats.example.com", cfg.Target())

	cfg.Url = ""
	require.Equal(t, "<dev_state>/mlb_stats.db", cfg.Target())
}
