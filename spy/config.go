package spy

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaldera-labs/sqlspy-go/logspy"
)

// Option keys understood by the configuration resolver. Every key has a
// documented default used when it is absent or unparsable; resolution
// never fails.
const (
	keyDebugStackPrefix  = "sqlspy.debug.stack.prefix"
	keySQLTimingWarn     = "sqlspy.sqltiming.warn.threshold"
	keySQLTimingError    = "sqlspy.sqltiming.error.threshold"
	keyDumpBoolAsText    = "sqlspy.dump.booleanastruefalse"
	keyDumpMaxLineLength = "sqlspy.dump.sql.maxlinelength"
	keyDumpFullStack     = "sqlspy.dump.fulldebugstacktrace"
	keyStatementWarn     = "sqlspy.statement.warn"
	keyDumpSelect        = "sqlspy.dump.sql.select"
	keyDumpInsert        = "sqlspy.dump.sql.insert"
	keyDumpUpdate        = "sqlspy.dump.sql.update"
	keyDumpDelete        = "sqlspy.dump.sql.delete"
	keyDumpCreate        = "sqlspy.dump.sql.create"
	keyDumpOther         = "sqlspy.dump.sql.other"
	keyDumpAddSemicolon  = "sqlspy.dump.sql.addsemicolon"
	keyAutoLoadPopular   = "sqlspy.auto.load.popular.drivers"
	keyDrivers           = "sqlspy.drivers"
	keyTrimSQL           = "sqlspy.trim.sql"
	keyTrimSQLLines      = "sqlspy.trim.sql.lines"
	keyTrimExtraBlank    = "sqlspy.trim.sql.extrablanklines"
	keySuppressGenKeys   = "sqlspy.suppress.generated.keys.exception"
)

// Settings is the immutable configuration snapshot the facade runs
// with. It is computed exactly once, at construction, and never mutated
// afterwards.
type Settings struct {
	// DebugStackPrefix is an optional package prefix used to locate the
	// application frame generating a piece of SQL. TraceFromApplication
	// is derived from it.
	DebugStackPrefix     string
	TraceFromApplication bool

	// SQL timing thresholds. Each is only meaningful when its enabled
	// flag is set; an absent or unparsable option disables the feature.
	SQLTimingWarnEnabled  bool
	SQLTimingWarn         time.Duration
	SQLTimingErrorEnabled bool
	SQLTimingError        time.Duration

	DumpBooleanAsText  bool
	DumpMaxLineLength  int
	DumpFullStack      bool
	StatementUsageWarn bool

	// Per-statement-kind dump toggles, all true by default.
	DumpSelect bool
	DumpInsert bool
	DumpUpdate bool
	DumpDelete bool
	DumpCreate bool
	DumpOther  bool

	// DumpFilteringOn is derived: true unless every dump toggle is true.
	// The formatter skips the per-kind check entirely when it is false.
	DumpFilteringOn bool

	DumpAddSemicolon bool

	AutoLoadPopularDrivers bool
	ExtraDrivers           []string

	TrimSQL             bool
	TrimSQLLines        bool
	TrimExtraBlankLines bool

	SuppressGeneratedKeysError bool
}

// ResolveSettings builds the Settings snapshot from src. Every
// resolution emits one debug line recording the key, the resolved value
// and whether the default was used. Parse failures degrade to defaults;
// they are logged, never returned.
func ResolveSettings(src PropertySource, logger zerolog.Logger) Settings {
	var s Settings

	s.DebugStackPrefix = stringOption(src, logger, keyDebugStackPrefix)
	s.TraceFromApplication = s.DebugStackPrefix != ""

	s.SQLTimingWarn, s.SQLTimingWarnEnabled = durationOption(src, logger, keySQLTimingWarn)
	s.SQLTimingError, s.SQLTimingErrorEnabled = durationOption(src, logger, keySQLTimingError)

	s.DumpBooleanAsText = boolOption(src, logger, keyDumpBoolAsText, false)
	s.DumpMaxLineLength = intOption(src, logger, keyDumpMaxLineLength, 90)
	s.DumpFullStack = boolOption(src, logger, keyDumpFullStack, false)
	s.StatementUsageWarn = boolOption(src, logger, keyStatementWarn, false)

	s.DumpSelect = boolOption(src, logger, keyDumpSelect, true)
	s.DumpInsert = boolOption(src, logger, keyDumpInsert, true)
	s.DumpUpdate = boolOption(src, logger, keyDumpUpdate, true)
	s.DumpDelete = boolOption(src, logger, keyDumpDelete, true)
	s.DumpCreate = boolOption(src, logger, keyDumpCreate, true)
	s.DumpOther = boolOption(src, logger, keyDumpOther, true)

	s.DumpFilteringOn = !(s.DumpSelect && s.DumpInsert && s.DumpUpdate &&
		s.DumpDelete && s.DumpCreate && s.DumpOther)

	s.DumpAddSemicolon = boolOption(src, logger, keyDumpAddSemicolon, false)

	s.AutoLoadPopularDrivers = boolOption(src, logger, keyAutoLoadPopular, true)
	if raw := stringOption(src, logger, keyDrivers); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				s.ExtraDrivers = append(s.ExtraDrivers, part)
				logger.Debug().Str("driver", part).Msg("will look for configured driver")
			}
		}
	}

	s.TrimSQL = boolOption(src, logger, keyTrimSQL, true)
	s.TrimSQLLines = boolOption(src, logger, keyTrimSQLLines, false)
	if s.TrimSQLLines && s.TrimSQL {
		logger.Debug().Msg("sqlspy.trim.sql ignored because sqlspy.trim.sql.lines is enabled")
	}
	s.TrimExtraBlankLines = boolOption(src, logger, keyTrimExtraBlank, true)

	s.SuppressGeneratedKeysError = boolOption(src, logger, keySuppressGenKeys, false)

	return s
}

// LogConfig converts the snapshot into the dump configuration the
// observability proxy consumes.
func (s Settings) LogConfig() logspy.Config {
	return logspy.Config{
		WarnThresholdEnabled:       s.SQLTimingWarnEnabled,
		WarnThreshold:              s.SQLTimingWarn,
		ErrorThresholdEnabled:      s.SQLTimingErrorEnabled,
		ErrorThreshold:             s.SQLTimingError,
		BooleanAsText:              s.DumpBooleanAsText,
		MaxLineLength:              s.DumpMaxLineLength,
		StatementWarn:              s.StatementUsageWarn,
		DebugStackPrefix:           s.DebugStackPrefix,
		FullStack:                  s.DumpFullStack,
		DumpSelect:                 s.DumpSelect,
		DumpInsert:                 s.DumpInsert,
		DumpUpdate:                 s.DumpUpdate,
		DumpDelete:                 s.DumpDelete,
		DumpCreate:                 s.DumpCreate,
		DumpOther:                  s.DumpOther,
		FilteringOn:                s.DumpFilteringOn,
		AddSemicolon:               s.DumpAddSemicolon,
		TrimSQL:                    s.TrimSQL,
		TrimSQLLines:               s.TrimSQLLines,
		TrimExtraBlankLines:        s.TrimExtraBlankLines,
		SuppressGeneratedKeysError: s.SuppressGeneratedKeysError,
	}
}

// stringOption returns the trimmed value for key, or "" when the key is
// absent or empty.
func stringOption(src PropertySource, logger zerolog.Logger, key string) string {
	raw, ok := src.Lookup(key)
	val := strings.TrimSpace(raw)
	if !ok || val == "" {
		logger.Debug().Str("key", key).Msg("option not defined")
		return ""
	}
	logger.Debug().Str("key", key).Str("value", val).Msg("option resolved")
	return val
}

// boolOption parses key case-insensitively: "true", "yes" and "on" are
// true, anything else is false. An absent key or empty value yields the
// default.
func boolOption(src PropertySource, logger zerolog.Logger, key string, def bool) bool {
	raw, ok := src.Lookup(key)
	if !ok {
		logger.Debug().Str("key", key).Bool("value", def).Msg("option not defined, using default")
		return def
	}
	val := def
	if t := strings.ToLower(strings.TrimSpace(raw)); t != "" {
		val = t == "true" || t == "yes" || t == "on"
	}
	logger.Debug().Str("key", key).Bool("value", val).Msg("option resolved")
	return val
}

// durationOption parses a base-10 millisecond count. The second return
// reports whether the feature is enabled; absent or unparsable values
// disable it.
func durationOption(src PropertySource, logger zerolog.Logger, key string) (time.Duration, bool) {
	raw, ok := src.Lookup(key)
	if !ok {
		logger.Debug().Str("key", key).Msg("option not defined, feature disabled")
		return 0, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		logger.Debug().Str("key", key).Str("value", raw).Msg("option is not a valid number, feature disabled")
		return 0, false
	}
	d := time.Duration(ms) * time.Millisecond
	logger.Debug().Str("key", key).Dur("value", d).Msg("option resolved")
	return d, true
}

// intOption parses a base-10 numeral, falling back to the default.
func intOption(src PropertySource, logger zerolog.Logger, key string, def int) int {
	raw, ok := src.Lookup(key)
	if !ok {
		logger.Debug().Str("key", key).Int("value", def).Msg("option not defined, using default")
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logger.Debug().Str("key", key).Str("value", raw).Int("default", def).Msg("option is not a valid number, using default")
		return def
	}
	logger.Debug().Str("key", key).Int("value", n).Msg("option resolved")
	return n
}
