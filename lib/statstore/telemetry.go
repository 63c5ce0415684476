package statstore

import (
	"mlbstats/lib/telemetry"

	"go.opentelemetry.io/otel"
)

var tracer = telemetry.Tracer("mlbstats/lib/statstore")

var meter = otel.Meter("mlbstats/lib/statstore")
var rowsInserted, _ = meter.Int64Counter("statstore.rows_inserted")
var rowsRejected, _ = meter.Int64Counter("statstore.rows_rejected")
