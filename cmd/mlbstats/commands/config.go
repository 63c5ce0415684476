package commands

import (
	"time"

	"mlbstats/lib/statstore"
	"mlbstats/services/ingest"
)

type ScrapeConfig struct {
	League    string `json:"league"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	DelayMs   int    `json:"delay_ms"`
	Workers   int    `json:"workers"`
	// Pages is a directory of saved yearly pages, when set nothing is
	// fetched over the network.
	Pages string `json:"pages"`
	// Archive keeps a copy of every fetched page for later offline runs.
	Archive       string `json:"archive"`
	UserAgent     string `json:"user_agent"`
	WaitTimeoutMs int    `json:"wait_timeout_ms"`
	PerfStatsMs   int    `json:"perf_stats_ms"`
}

func (c ScrapeConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

type Config struct {
	Store  statstore.Config `json:"store"`
	Scrape ScrapeConfig     `json:"scrape"`
	Data   ingest.Sources   `json:"data"`
}

func defaultConfig() Config {
	return Config{
		Store: statstore.Config{
			File: "<dev_state>/mlb_stats.db",
		},
		Scrape: ScrapeConfig{
			League:        "american",
			StartYear:     1901,
			EndYear:       2024,
			DelayMs:       2000,
			Workers:       1,
			WaitTimeoutMs: 10_000,
			PerfStatsMs:   5_000,
		},
		Data: ingest.Sources{
			Hitting:  "<dev_state>/american_league_stats.csv",
			Pitching: "<dev_state>/american_league_pitcher_stats.csv",
			Events:   "<dev_state>/mlb_events.csv",
		},
	}
}
