package commands

import (
	"mlbstats/lib/statstore"
	"mlbstats/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Lists the events found in the stat tables along with their descriptions.",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd.Context())
		defer store.Close()

		catalog, err := statstore.LoadCatalog(cmd.Context(), store)
		if err != nil {
			serviceutil.Fatal("failed to list events", err)
		}
		descriptions, err := store.EventDescriptions(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to read event descriptions", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Event", "Description"})
		for _, e := range catalog.Events {
			t.AppendRow(table.Row{e, descriptions[e]})
		}
		t.Render()
	},
}
