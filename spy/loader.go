package spy

import (
	"sort"

	"github.com/rs/zerolog"
)

// popularDrivers is the version-independent list of well-known
// database/sql driver names probed when auto-loading is enabled. The
// facade can spy on any driver; these are just the ones it finds without
// configuration. Probing a name that is not registered in this process
// is harmless.
var popularDrivers = []string{
	"mysql",      // go-sql-driver/mysql
	"mymysql",    // ziutek/mymysql
	"postgres",   // lib/pq
	"pgx",        // jackc/pgx stdlib
	"sqlite",     // modernc.org/sqlite
	"sqlite3",    // mattn/go-sqlite3
	"sqlserver",  // microsoft/go-mssqldb
	"mssql",      // legacy go-mssqldb
	"oracle",     // sijms/go-ora
	"godror",     // godror/godror
	"clickhouse", // ClickHouse/clickhouse-go
	"snowflake",  // snowflakedb/gosnowflake
}

// knownSchemeOptions returns per-driver adapter options for the popular
// drivers whose DSN conventions differ from the plain scheme-stripping
// default.
func knownSchemeOptions(name string) []AdapterOption {
	switch name {
	case "postgres", "pgx":
		// Both accept full URL DSNs; keep the scheme.
		return []AdapterOption{WithSchemes("postgresql"), WithKeepScheme()}
	case "sqlserver", "mssql":
		return []AdapterOption{WithSchemes("sqlserver", "mssql"), WithKeepScheme()}
	case "mysql":
		return []AdapterOption{WithSchemes("mariadb")}
	default:
		return nil
	}
}

// loadCandidates builds the underlying-driver set: the popular list when
// auto-loading is on, merged with the configured extras, deduplicated
// and sorted so startup logging is deterministic. Candidates that fail
// to probe are dropped with a debug note; that is the expected common
// case, never an error. An empty result gets a single warning and is
// still not fatal, since drivers may be registered by other means later.
func loadCandidates(settings Settings, logger zerolog.Logger) []Driver {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if settings.AutoLoadPopularDrivers {
		for _, name := range popularDrivers {
			add(name)
		}
	}
	for _, name := range settings.ExtraDrivers {
		add(name)
	}
	sort.Strings(names)

	var out []Driver
	for _, name := range names {
		a, err := adapterFor(name)
		if err != nil {
			logger.Debug().Str("driver", name).Err(err).Msg("skipping unavailable driver")
			continue
		}
		logger.Debug().Str("driver", name).Msg("found driver")
		out = append(out, a)
	}
	if len(out) == 0 {
		logger.Warn().Msg("no underlying database drivers were found")
	}
	return out
}
