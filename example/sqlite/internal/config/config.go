package config

const (
	// Database configuration. The marker in front of the DSN routes the
	// connection through the facade; everything after it is the plain
	// sqlite DSN.
	DefaultURL     = "sqlspy://sqlite://file:demo.db?_pragma=journal_mode(WAL)"
	DefaultMaxOpen = 5
	DefaultMaxIdle = 2

	// OpenTelemetry configuration
	ServiceName    = "sqlspy-sqlite-example"
	ServiceVersion = "0.1.0"

	// Operation intervals
	OperationInterval = 5 // seconds
)
