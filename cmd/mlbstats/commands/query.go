package commands

import (
	"fmt"
	"strings"

	"mlbstats/lib/stats"
	"mlbstats/lib/statstore"
	"mlbstats/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	queryPlayer   *string
	queryYear     *int
	queryEvent    *string
	queryType     *string
	queryContains *bool
)

func init() {
	queryPlayer = queryCmd.Flags().String("player", "", "Only rows of this player.")
	queryYear = queryCmd.Flags().Int("year", 0, "Only rows of this year.")
	queryEvent = queryCmd.Flags().String("event", "", "Only rows of this event, e.g. \"Home Runs\".")
	queryType = queryCmd.Flags().String("type", "all", "The stats to query: all, hitting or pitching.")
	queryContains = queryCmd.Flags().Bool("contains", false, "Match player and event as substrings instead of exact names.")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [--player <name>] [--year <year>] [--event <event>] [--type all|hitting|pitching]",
	Short: "Prints the league leaders matching the filters.",
	Run: func(cmd *cobra.Command, args []string) {
		statType, err := stats.ParseStatType(*queryType)
		if err != nil {
			serviceutil.Fatal("invalid stat type", err)
		}

		store := openStore(cmd.Context())
		defer store.Close()

		catalog, err := statstore.LoadCatalog(cmd.Context(), store)
		if err != nil {
			serviceutil.Fatal("failed to load filter options", err)
		}

		filter := statstore.Filter{
			Player:   *queryPlayer,
			Year:     *queryYear,
			Event:    *queryEvent,
			StatType: statType,
			Contains: *queryContains,
		}
		rows, err := store.Query(cmd.Context(), filter)
		if err != nil {
			serviceutil.Fatal("query failed", err)
		}

		if len(rows) == 0 {
			fmt.Println("No results found.")
			if filter.Player != "" && !filter.Contains && !catalog.HasPlayer(filter.Player) {
				suggestions := catalog.SuggestPlayers(filter.Player, 3)
				if len(suggestions) > 0 {
					fmt.Printf("Did you mean: %s?\n", strings.Join(suggestions, ", "))
				}
			}
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"Type", "Year", "Event", "Player", "Team", "Value", "Description"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.StatType, r.Year, r.Event, r.Player, r.Team, formatValue(r.Value), r.Description})
		}
		t.AppendFooter(table.Row{"", "", "", "", "", "Rows", len(rows)})
		t.Render()
	},
}
