package commands

import (
	"fmt"
	"log/slog"
	"time"

	devenv "mlbstats/dev/env"
	"mlbstats/lib/navigator"
	"mlbstats/lib/stats"
	"mlbstats/lib/util/serviceutil"
	"mlbstats/services/scrape"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeStart   *int
	scrapeEnd     *int
	scrapeWorkers *int
	scrapeDelay   *time.Duration
	scrapeLeague  *string
	scrapePages   *string
	scrapeArchive *string
)

func init() {
	scrapeStart = scrapeCmd.Flags().Int("start", 0, "First year to scrape (defaults to the config).")
	scrapeEnd = scrapeCmd.Flags().Int("end", 0, "Last year to scrape (defaults to the config).")
	scrapeWorkers = scrapeCmd.Flags().Int("workers", 0, "Years scraped at the same time, the delay is shared between them.")
	scrapeDelay = scrapeCmd.Flags().Duration("delay", 0, "Minimum time between two page loads.")
	scrapeLeague = scrapeCmd.Flags().String("league", "", "The league to scrape: american or national.")
	scrapePages = scrapeCmd.Flags().String("pages", "", "Read saved pages from this directory instead of the network.")
	scrapeArchive = scrapeCmd.Flags().String("archive", "", "Save every fetched page to this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

func createNavigator(c ScrapeConfig) (navigator.Navigator, error) {
	if c.Pages != "" {
		pages, err := devenv.ResolvePath(c.Pages)
		if err != nil {
			return nil, err
		}
		return navigator.NewDirectory(pages)
	}

	nav, err := navigator.NewHTTP(navigator.HTTPOptions{
		UserAgent:   c.UserAgent,
		WaitTimeout: time.Duration(c.WaitTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	if c.Archive == "" {
		return nav, nil
	}
	archive, err := devenv.ResolvePath(c.Archive)
	if err != nil {
		return nil, err
	}
	return navigator.NewArchive(nav, archive)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--start <year>] [--end <year>]",
	Short: "Scrapes the yearly player and pitcher reviews into the intermediate csv files.",
	Run: func(cmd *cobra.Command, args []string) {
		c := cfg.Scrape
		if *scrapeStart != 0 {
			c.StartYear = *scrapeStart
		}
		if *scrapeEnd != 0 {
			c.EndYear = *scrapeEnd
		}
		if *scrapeWorkers != 0 {
			c.Workers = *scrapeWorkers
		}
		if *scrapeDelay != 0 {
			c.DelayMs = int(scrapeDelay.Milliseconds())
		}
		if *scrapeLeague != "" {
			c.League = *scrapeLeague
		}
		if *scrapePages != "" {
			c.Pages = *scrapePages
		}
		if *scrapeArchive != "" {
			c.Archive = *scrapeArchive
		}

		league, err := stats.LeagueByName(c.League)
		if err != nil {
			serviceutil.Fatal("invalid league", err)
		}
		hittingOut, err := devenv.ResolvePath(cfg.Data.Hitting)
		if err != nil {
			serviceutil.Fatal("failed to resolve output path", err)
		}
		pitchingOut, err := devenv.ResolvePath(cfg.Data.Pitching)
		if err != nil {
			serviceutil.Fatal("failed to resolve output path", err)
		}

		nav, err := createNavigator(c)
		if err != nil {
			serviceutil.Fatal("failed to create navigator", err)
		}

		t1 := time.Now()
		summary, err := scrape.Run(cmd.Context(), nav, scrape.Options{
			StartYear:         c.StartYear,
			EndYear:           c.EndYear,
			League:            league,
			Delay:             c.Delay(),
			Workers:           c.Workers,
			HittingOut:        hittingOut,
			PitchingOut:       pitchingOut,
			PerfStatsInterval: time.Duration(c.PerfStatsMs) * time.Millisecond,
		})
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds())

		t := newTable()
		t.SetTitle(fmt.Sprintf("Scrape %s", summary.RunID))
		t.AppendRows([]table.Row{
			{"Years scraped", summary.Years},
			{"Years failed", len(summary.Failed)},
			{"Hitting records", summary.Hitting},
			{"Pitching records", summary.Pitching},
			{"Reviews not found", summary.MissingBlocks},
			{"Malformed rows", summary.Malformed},
			{"Cancelled", summary.Cancelled},
		})
		t.Render()

		for _, failure := range summary.Failed {
			fmt.Printf("%d: %s\n", failure.Year, failure.Err)
		}
	},
}
