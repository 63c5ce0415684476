package commands

import (
	"fmt"

	devenv "mlbstats/dev/env"
	"mlbstats/lib/util/serviceutil"
	"mlbstats/services/ingest"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	importHitting  *string
	importPitching *string
	importEvents   *string
	importCleaned  *string
)

func init() {
	importHitting = importCmd.Flags().String("hitting", "", "The player review csv (defaults to the config).")
	importPitching = importCmd.Flags().String("pitching", "", "The pitcher review csv (defaults to the config).")
	importEvents = importCmd.Flags().String("events", "", "The event description csv (defaults to the config).")
	importCleaned = importCmd.Flags().String("cleaned-dir", "", "Also write the cleaned csv files to this directory.")
	rootCmd.AddCommand(importCmd)
}

func resolveSources(sources ingest.Sources) (ingest.Sources, error) {
	var err error
	for _, path := range []*string{&sources.Hitting, &sources.Pitching, &sources.Events, &sources.CleanedDir} {
		if *path == "" {
			continue
		}
		*path, err = devenv.ResolvePath(*path)
		if err != nil {
			return sources, err
		}
	}
	return sources, nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Cleans the intermediate csv files and replaces the stat and event tables with them.",
	Run: func(cmd *cobra.Command, args []string) {
		sources := cfg.Data
		if *importHitting != "" {
			sources.Hitting = *importHitting
		}
		if *importPitching != "" {
			sources.Pitching = *importPitching
		}
		if *importEvents != "" {
			sources.Events = *importEvents
		}
		if *importCleaned != "" {
			sources.CleanedDir = *importCleaned
		}
		sources, err := resolveSources(sources)
		if err != nil {
			serviceutil.Fatal("failed to resolve source paths", err)
		}

		store := openStore(cmd.Context())
		defer store.Close()

		summary := ingest.Import(cmd.Context(), store, sources)

		t := newTable()
		t.SetTitle(fmt.Sprintf("Import %s", summary.RunID))
		t.AppendHeader(table.Row{"Table", "Malformed", "Duplicates", "Missing", "Non numeric", "Inserted", "Skipped", "Failed", "Error"})
		for _, s := range summary.Tables {
			row := table.Row{s.Table, s.Malformed, "-", "-", "-", s.Load.Inserted, s.Load.Skipped, s.Load.Failed, ""}
			if s.Cleaning != nil {
				row[2] = s.Cleaning.Duplicates
				row[3] = s.Cleaning.Missing
				row[4] = s.Cleaning.NonNumeric
			}
			if s.Err != nil {
				row[8] = s.Err.Error()
			}
			t.AppendRow(row)
		}
		t.Render()

		err = summary.Err()
		if err != nil {
			serviceutil.Fatal("some tables were not imported", err)
		}
	},
}
