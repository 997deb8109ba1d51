package logspy

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for database operations.
type metrics struct {
	opDuration metric.Float64Histogram
}

// newMetrics creates and registers the metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.opDuration, err = meter.Float64Histogram(
		"db.client.operation.duration",
		metric.WithDescription("Duration of database client operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// record adds one operation to the duration histogram.
func (m *metrics) record(ctx context.Context, took time.Duration, operation, dialectName string, err error) {
	if m == nil || m.opDuration == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.opDuration.Record(ctx, took.Seconds(), metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.dialect", dialectName),
		attribute.String("status", status),
	))
}
