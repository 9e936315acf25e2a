package kamar

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("kamar-notices/lib/platforms/kamar")
var meter = otel.Meter("kamar-notices/lib/platforms/kamar")

var retrievedCounter, _ = meter.Int64Counter(
	"kamar.notices.retrieved",
	metric.WithDescription("Number of notices returned by the portal."),
)
