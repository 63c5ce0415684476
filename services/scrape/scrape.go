package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"mlbstats/lib/navigator"
	"mlbstats/lib/scrapers/almanac"
	"mlbstats/lib/statcsv"
	"mlbstats/lib/stats"
	"mlbstats/lib/telemetry"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = telemetry.Tracer("mlbstats/services/scrape")

var meter = otel.Meter("mlbstats/services/scrape")
var yearsScraped, _ = meter.Int64Counter("scrape.years_scraped")
var yearsFailed, _ = meter.Int64Counter("scrape.years_failed")

type Options struct {
	StartYear int
	EndYear   int
	League    stats.League
	// Delay is the pause between two page loads. A single worker waits it
	// out after each load, several workers start loads at most once per
	// Delay.
	Delay   time.Duration
	Workers int
	// HittingOut and PitchingOut are the csv files written at the end of
	// the run, an empty path skips that file.
	HittingOut  string
	PitchingOut string
	// PerfStatsInterval enables process stats while the run lasts.
	PerfStatsInterval time.Duration
}

func (o Options) validate() error {
	if o.StartYear <= 0 || o.EndYear < o.StartYear {
		return fmt.Errorf("invalid year range %d-%d", o.StartYear, o.EndYear)
	}
	if o.League.URLTemplate == "" {
		return fmt.Errorf("league has no url template")
	}
	return nil
}

type YearFailure struct {
	Year int
	Err  error
}

type Summary struct {
	RunID         string
	Years         int
	Failed        []YearFailure
	Hitting       int
	Pitching      int
	MissingBlocks int
	Malformed     int
	// Cancelled is set when the run stopped before every year was
	// scheduled, whatever was collected is still written.
	Cancelled bool
}

// pacer spaces out page loads with one limiter shared by every worker.
// With several workers it bounds the time between two load starts, a single
// worker also waits the full delay after each load has finished.
type pacer struct {
	limiter    *rate.Limiter
	sequential bool
}

func newPacer(delay time.Duration, workers int) pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return pacer{
		limiter:    rate.NewLimiter(limit, 1),
		sequential: workers <= 1,
	}
}

func (p pacer) wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// done takes the token again once a load returned, so the next wait ends
// no sooner than delay from now.
func (p pacer) done() {
	if p.sequential {
		p.limiter.Reserve()
	}
}

type collector struct {
	mu      sync.Mutex
	results []almanac.YearResult
	failed  []YearFailure
}

func (c *collector) add(result almanac.YearResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

func (c *collector) fail(year int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, YearFailure{Year: year, Err: err})
}

func scrapeYear(ctx context.Context, scraper almanac.Scraper, year int, out *collector) {
	ctx, span := tracer.Start(ctx, "scrapeYear")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year))

	result, err := scraper.Year(ctx, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to scrape year")
		yearsFailed.Add(ctx, 1)
		slog.ErrorContext(ctx, "failed to scrape year", "year", year, "err", err)
		out.fail(year, err)
		return
	}
	yearsScraped.Add(ctx, 1)
	out.add(result)
}

// Run scrapes every year of the range through nav and writes the records
// sorted by year. The navigator is closed when Run returns. A year that
// fails is logged and recorded in the summary, only a failure to write the
// output is returned as an error.
func Run(ctx context.Context, nav navigator.Navigator, opts Options) (Summary, error) {
	defer func() {
		err := nav.Close()
		if err != nil {
			slog.WarnContext(ctx, "failed to close navigator", "err", err)
		}
	}()

	summary := Summary{}
	err := opts.validate()
	if err != nil {
		return summary, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	summary.RunID, err = random.String(8)
	if err != nil {
		return summary, err
	}

	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", summary.RunID),
		attribute.Int("start_year", opts.StartYear),
		attribute.Int("end_year", opts.EndYear),
		attribute.Int("workers", opts.Workers),
	)

	if opts.PerfStatsInterval > 0 {
		perfCtx, stopPerf := context.WithCancel(ctx)
		defer stopPerf()
		telemetry.InstrumentPerfStats(perfCtx, opts.PerfStatsInterval)
	}

	slog.InfoContext(
		ctx, "starting scrape",
		"run_id", summary.RunID,
		"league", opts.League.Name,
		"start", opts.StartYear,
		"end", opts.EndYear,
		"workers", opts.Workers,
	)

	scraper := almanac.Scraper{Navigator: nav, League: opts.League}
	pace := newPacer(opts.Delay, opts.Workers)
	out := &collector{}

	years := make(chan int)
	wg := sync.WaitGroup{}
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for year := range years {
				if pace.wait(ctx) != nil {
					return
				}
				scrapeYear(ctx, scraper, year, out)
				pace.done()
			}
		}()
	}

schedule:
	for year := opts.StartYear; year <= opts.EndYear; year++ {
		select {
		case years <- year:
		case <-ctx.Done():
			summary.Cancelled = true
			break schedule
		}
	}
	close(years)
	wg.Wait()

	if ctx.Err() != nil {
		summary.Cancelled = true
		slog.WarnContext(ctx, "scrape cancelled, writing what was collected", "years", len(out.results))
	}

	sort.Slice(out.results, func(i, j int) bool {
		return out.results[i].Year < out.results[j].Year
	})
	sort.Slice(out.failed, func(i, j int) bool {
		return out.failed[i].Year < out.failed[j].Year
	})

	var hitting, pitching []stats.StatRecord
	for _, result := range out.results {
		for _, review := range result.Reviews {
			if !review.Found {
				summary.MissingBlocks++
			}
			summary.Malformed += len(review.Malformed)
		}
		hitting = append(hitting, result.Records(stats.StatTypeHitting)...)
		pitching = append(pitching, result.Records(stats.StatTypePitching)...)
	}
	summary.Years = len(out.results)
	summary.Failed = out.failed
	summary.Hitting = len(hitting)
	summary.Pitching = len(pitching)

	err = writeOutput(opts.HittingOut, hitting)
	if err != nil {
		span.RecordError(err)
		return summary, err
	}
	err = writeOutput(opts.PitchingOut, pitching)
	if err != nil {
		span.RecordError(err)
		return summary, err
	}

	slog.InfoContext(
		ctx, "scrape finished",
		"run_id", summary.RunID,
		"years", summary.Years,
		"failed", len(summary.Failed),
		"hitting", summary.Hitting,
		"pitching", summary.Pitching,
	)
	return summary, nil
}

func writeOutput(path string, records []stats.StatRecord) error {
	if path == "" {
		return nil
	}
	err := statcsv.WriteFile(path, stats.StatHeader, records)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
