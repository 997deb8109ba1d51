// Package logspy wraps driver connections so that every statement,
// transaction and ping is logged with its SQL, bound arguments and
// timing, and emitted as an OpenTelemetry span and duration metric.
//
// The wrappers are built by a Factory and annotated with the dialect of
// the originating driver, so dumped SQL uses the vendor's own literal
// syntax. Dump output honors per-statement-kind toggles, trimming and
// line-length settings, and escalates the log level when an operation
// crosses the configured warn or error timing threshold.
//
// The package also owns the observability decision gate: LevelGate
// answers "should connections be wrapped at all" from a zerolog
// logger's current level, re-evaluated on every connect.
package logspy
