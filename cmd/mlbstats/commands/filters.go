package commands

import (
	"fmt"
	"strconv"
	"strings"

	"mlbstats/lib/statstore"
	"mlbstats/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var filtersPlayers *bool

func init() {
	filtersPlayers = filtersCmd.Flags().Bool("players", false, "List every player instead of a count.")
	rootCmd.AddCommand(filtersCmd)
}

func yearRange(years []int) string {
	if len(years) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d (%d years)", years[0], years[len(years)-1], len(years))
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Prints the values that can be passed to query.",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd.Context())
		defer store.Close()

		catalog, err := statstore.LoadCatalog(cmd.Context(), store)
		if err != nil {
			serviceutil.Fatal("failed to load filter options", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Filter", "Values"})
		t.AppendRow(table.Row{"year", yearRange(catalog.Years)})
		t.AppendRow(table.Row{"event", strings.Join(catalog.Events, "\n")})
		if *filtersPlayers {
			t.AppendRow(table.Row{"player", strings.Join(catalog.Players, "\n")})
		} else {
			t.AppendRow(table.Row{"player", strconv.Itoa(len(catalog.Players)) + " players, pass --players to list them"})
		}
		t.AppendRow(table.Row{"type", "all, hitting, pitching"})
		t.Render()
	},
}
