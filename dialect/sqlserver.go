package dialect

import "time"

// sqlserverDialect covers the SQL Server family, which parses
// mm/dd/yyyy datetime literals regardless of session language.
type sqlserverDialect struct{ generic }

func (sqlserverDialect) Name() string { return "sqlserver" }

func (sqlserverDialect) FormatTime(t time.Time) string {
	return t.Format("'01/02/2006 15:04:05.000'")
}
