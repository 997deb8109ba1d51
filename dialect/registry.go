package dialect

import "strings"

// Shared strategy instances. Every identity of a database family maps to
// the same value, so callers can compare resolved dialects directly.
var (
	defaultDialect  Dialect = generic{}
	mysqlShared     Dialect = mysqlDialect{}
	oracleShared    Dialect = oracleDialect{}
	sqlserverShared Dialect = sqlserverDialect{}
)

// Default returns the process-wide fallback dialect.
func Default() Dialect { return defaultDialect }

// Registry maps driver identities to dialect strategies. It is built
// once from a fixed table and is read-only afterwards, so lookups need
// no synchronization.
//
// Two resolution paths exist: by the driver name a connection was opened
// with (ResolveDriver), and by the product name a live connection
// reports about itself (ResolveReported). They share instances, so both
// paths agree for the same logical dialect.
type Registry struct {
	byDriver   map[string]Dialect
	byReported map[string]Dialect
}

// NewRegistry builds the fixed dispatch table.
func NewRegistry() *Registry {
	r := &Registry{
		byDriver: map[string]Dialect{
			// MySQL family
			"mysql":   mysqlShared,
			"mymysql": mysqlShared,
			"mariadb": mysqlShared,
			// SQL Server family
			"sqlserver": sqlserverShared,
			"mssql":     sqlserverShared,
			"azuresql":  sqlserverShared,
			// Oracle family
			"oracle": oracleShared,
			"godror": oracleShared,
			"oci8":   oracleShared,
			"ora":    oracleShared,
		},
		byReported: map[string]Dialect{
			"mysql":                mysqlShared,
			"mariadb":              mysqlShared,
			"percona server":       mysqlShared,
			"sql server":           sqlserverShared,
			"microsoft sql server": sqlserverShared,
			"azure sql":            sqlserverShared,
			"oracle":               oracleShared,
			"oracle database":      oracleShared,
		},
	}
	return r
}

// ResolveDriver returns the dialect for a driver identity. Unknown or
// empty identities resolve to the default dialect, never to nil.
func (r *Registry) ResolveDriver(name string) Dialect {
	if d, ok := r.byDriver[name]; ok {
		return d
	}
	return defaultDialect
}

// ResolveReported returns the dialect for the driver name a connection
// reports about itself. Matching is case-insensitive because products
// are inconsistent about casing in their metadata. Unknown names resolve
// to the default dialect.
func (r *Registry) ResolveReported(name string) Dialect {
	if d, ok := r.byReported[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d
	}
	return defaultDialect
}

// Default returns the registry's fallback dialect.
func (r *Registry) Default() Dialect { return defaultDialect }
