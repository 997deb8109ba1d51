package logspy

import (
	"time"

	"github.com/rs/zerolog"
)

// Config carries the dump and timing settings the wrappers consult. It
// is a plain value: computed once by the caller and never mutated.
type Config struct {
	// Timing thresholds. Operations at or above the error threshold log
	// at error level, at or above the warn threshold at warn level, and
	// at debug level otherwise. Each threshold only applies when its
	// enabled flag is set.
	WarnThresholdEnabled  bool
	WarnThreshold         time.Duration
	ErrorThresholdEnabled bool
	ErrorThreshold        time.Duration

	// BooleanAsText dumps booleans as true/false instead of 1/0.
	BooleanAsText bool

	// MaxLineLength breaks dumped SQL into lines no longer than this
	// when greater than zero.
	MaxLineLength int

	// StatementWarn logs a warning when SQL runs through a bare
	// statement rather than a prepared one.
	StatementWarn bool

	// DebugStackPrefix names the package prefix of the application
	// frames; when set, each dump carries the innermost matching caller.
	// FullStack dumps the whole call stack instead.
	DebugStackPrefix string
	FullStack        bool

	// Per-statement-kind dump toggles.
	DumpSelect bool
	DumpInsert bool
	DumpUpdate bool
	DumpDelete bool
	DumpCreate bool
	DumpOther  bool

	// FilteringOn is true when at least one dump toggle is off; the
	// per-kind check is skipped entirely when it is false.
	FilteringOn bool

	// AddSemicolon appends a semicolon to each SQL dump.
	AddSemicolon bool

	// SQL trimming cosmetics. TrimSQLLines trims each line and takes
	// precedence over TrimSQL.
	TrimSQL             bool
	TrimSQLLines        bool
	TrimExtraBlankLines bool

	// SuppressGeneratedKeysError swallows errors from LastInsertId;
	// some frameworks ask for generated keys after every update whether
	// or not the statement produced any.
	SuppressGeneratedKeysError bool
}

// DefaultConfig returns the dump settings used when nothing is
// configured: everything dumped, trimming on, thresholds off.
func DefaultConfig() Config {
	return Config{
		MaxLineLength:       90,
		DumpSelect:          true,
		DumpInsert:          true,
		DumpUpdate:          true,
		DumpDelete:          true,
		DumpCreate:          true,
		DumpOther:           true,
		TrimSQL:             true,
		TrimExtraBlankLines: true,
	}
}

// shouldDump reports whether statements of kind k should be logged.
func (c Config) shouldDump(k Kind) bool {
	if !c.FilteringOn {
		return true
	}
	switch k {
	case KindSelect:
		return c.DumpSelect
	case KindInsert:
		return c.DumpInsert
	case KindUpdate:
		return c.DumpUpdate
	case KindDelete:
		return c.DumpDelete
	case KindCreate:
		return c.DumpCreate
	default:
		return c.DumpOther
	}
}

// timingLevel picks the log level for an operation that took d.
func (c Config) timingLevel(d time.Duration) zerolog.Level {
	if c.ErrorThresholdEnabled && d >= c.ErrorThreshold {
		return zerolog.ErrorLevel
	}
	if c.WarnThresholdEnabled && d >= c.WarnThreshold {
		return zerolog.WarnLevel
	}
	return zerolog.DebugLevel
}
