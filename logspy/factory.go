package logspy

import (
	"database/sql/driver"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kaldera-labs/sqlspy-go/dialect"
)

// scope is the instrumentation scope name for OpenTelemetry. It
// identifies this library in traces and metrics.
const scope = "github.com/kaldera-labs/sqlspy-go/logspy"

// Factory builds observability proxies around real driver connections.
// One factory carries the logger, the immutable dump configuration and
// the telemetry instruments shared by everything it wraps.
type Factory struct {
	logger  zerolog.Logger
	cfg     Config
	tracer  trace.Tracer
	metrics *metrics
}

// Option configures a Factory.
type Option func(*factoryOptions)

type factoryOptions struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider sets a custom tracer provider. The global provider
// is used otherwise; with no global configured, tracing is a safe no-op.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *factoryOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets a custom meter provider. The global provider
// is used otherwise; with no global configured, metrics are a safe
// no-op.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *factoryOptions) { o.meterProvider = mp }
}

// NewFactory builds a wrapper factory logging through logger with the
// given dump configuration.
func NewFactory(logger zerolog.Logger, cfg Config, opts ...Option) *Factory {
	o := &factoryOptions{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(o)
	}
	f := &Factory{
		logger: logger,
		cfg:    cfg,
		tracer: o.tracerProvider.Tracer(scope),
	}
	// A nil metrics value degrades to a no-op recorder.
	f.metrics, _ = newMetrics(o.meterProvider.Meter(scope))
	return f
}

// Wrap returns conn wrapped with logging, tracing and metrics,
// annotated with the dialect resolved for its originating driver.
func (f *Factory) Wrap(conn driver.Conn, d dialect.Dialect) driver.Conn {
	return newSpyConn(conn, f, d)
}

// logOperation emits the dump event for one operation, subject to the
// per-kind filter, at the level the timing thresholds select.
func (f *Factory) logOperation(connID, query string, args []driver.NamedValue, d dialect.Dialect, took time.Duration, err error) {
	kind := classify(query)
	if !f.cfg.shouldDump(kind) {
		return
	}
	ev := f.logger.WithLevel(f.cfg.timingLevel(took)).
		Str("conn", connID).
		Str("kind", string(kind)).
		Dur("took", took).
		Str("sql", formatSQL(query, args, d, f.cfg))
	if err != nil {
		ev = ev.Err(err)
	}
	switch {
	case f.cfg.FullStack:
		ev = ev.Str("stack", callStack())
	case f.cfg.DebugStackPrefix != "":
		if caller := applicationCaller(f.cfg.DebugStackPrefix); caller != "" {
			ev = ev.Str("caller", caller)
		}
	}
	ev.Msg("sql")
}

// applicationCaller returns the innermost stack frame whose function
// lives under prefix, as "func file:line", or "" when no frame matches.
func applicationCaller(prefix string) string {
	frames := runtime.CallersFrames(callerPCs())
	for {
		fr, more := frames.Next()
		if strings.HasPrefix(fr.Function, prefix) {
			return fmt.Sprintf("%s %s:%d", fr.Function, fr.File, fr.Line)
		}
		if !more {
			return ""
		}
	}
}

// callStack renders the full calling stack, one frame per line.
func callStack() string {
	var b strings.Builder
	frames := runtime.CallersFrames(callerPCs())
	for {
		fr, more := frames.Next()
		fmt.Fprintf(&b, "%s %s:%d\n", fr.Function, fr.File, fr.Line)
		if !more {
			return strings.TrimRight(b.String(), "\n")
		}
	}
}

func callerPCs() []uintptr {
	pcs := make([]uintptr, 64)
	// Skip runtime.Callers, this helper and the logging internals above
	// it; the frames of interest start at the wrapper's caller.
	n := runtime.Callers(4, pcs)
	return pcs[:n]
}
