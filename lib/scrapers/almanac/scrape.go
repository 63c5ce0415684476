package almanac

import (
	"context"
	"errors"
	"log/slog"

	"mlbstats/lib/navigator"
	"mlbstats/lib/stats"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// the review tables are rendered client side on some mirrors, a page is
// only usable once it has table bodies
const pageReadySelector = "tbody"

// Review is one kind of yearly review section and how its rows are laid out.
type Review struct {
	Kind    stats.StatType
	Phrase  string
	Extract Extractor
}

// Reviews returns the player (hitting) and pitcher reviews of a league.
func Reviews(league stats.League) []Review {
	return []Review{
		{Kind: stats.StatTypeHitting, Phrase: league.PlayerReview, Extract: ExtractFlat},
		{Kind: stats.StatTypePitching, Phrase: league.PitcherReview, Extract: ExtractCarryForward},
	}
}

type ReviewResult struct {
	Review  stats.StatType
	Found   bool
	Records []stats.StatRecord
	// Malformed holds a *MalformedRowError for every skipped row.
	Malformed []error
}

type YearResult struct {
	Year    int
	Reviews []ReviewResult
}

// Records returns the records extracted for a kind of review.
func (r YearResult) Records(kind stats.StatType) []stats.StatRecord {
	for _, review := range r.Reviews {
		if review.Review == kind {
			return review.Records
		}
	}
	return nil
}

// ExtractReview locates a review block in a document and extracts its rows.
// A missing block yields an empty result with Found unset, it is not an
// error.
func ExtractReview(doc *goquery.Selection, year int, review Review) ReviewResult {
	result := ReviewResult{Review: review.Kind}
	block, err := LocateBlock(doc, HeadingMatcher{Year: year, Phrase: review.Phrase})
	if errors.Is(err, ErrBlockNotFound) {
		return result
	}
	result.Found = true
	result.Records, result.Malformed = review.Extract(year, ClassifyRows(block))
	return result
}

// ExtractYear runs every review of the league against one yearly page.
func ExtractYear(ctx context.Context, doc *goquery.Selection, year int, league stats.League) YearResult {
	result := YearResult{Year: year}
	for _, review := range Reviews(league) {
		res := ExtractReview(doc, year, review)
		attrs := metric.WithAttributes(attribute.String("review", string(review.Kind)))

		if !res.Found {
			blocksMissing.Add(ctx, 1, attrs)
			slog.WarnContext(ctx, "review not found", "year", year, "review", review.Phrase)
		} else {
			recordsExtracted.Add(ctx, int64(len(res.Records)), attrs)
			rowsMalformed.Add(ctx, int64(len(res.Malformed)), attrs)
			for _, err := range res.Malformed {
				slog.DebugContext(ctx, "skipped row", "year", year, "review", review.Phrase, "err", err)
			}
			slog.InfoContext(
				ctx, "review extracted",
				"year", year,
				"review", review.Phrase,
				"records", len(res.Records),
				"malformed", len(res.Malformed),
			)
		}
		result.Reviews = append(result.Reviews, res)
	}
	return result
}

// Scraper reads the yearly review pages of a league through a navigator.
type Scraper struct {
	Navigator navigator.Navigator
	League    stats.League
}

// Year loads the page of a single year once and extracts both reviews from
// it. Only navigation failures are returned as errors.
func (s Scraper) Year(ctx context.Context, year int) (YearResult, error) {
	ctx, span := tracer.Start(ctx, "Scraper:Year")
	defer span.End()

	url := s.League.URL(year)
	span.SetAttributes(attribute.Int("year", year), attribute.String("url", url))

	doc, err := s.Navigator.Navigate(ctx, url, pageReadySelector)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load yearly page")
		return YearResult{Year: year}, err
	}
	return ExtractYear(ctx, doc.Selection, year, s.League), nil
}
