package almanac

import (
	"mlbstats/lib/telemetry"

	"go.opentelemetry.io/otel"
)

var tracer = telemetry.Tracer("mlbstats/lib/scrapers/almanac")

var meter = otel.Meter("mlbstats/lib/scrapers/almanac")
var recordsExtracted, _ = meter.Int64Counter("almanac.records_extracted")
var rowsMalformed, _ = meter.Int64Counter("almanac.rows_malformed")
var blocksMissing, _ = meter.Int64Counter("almanac.blocks_missing")
