package dialect

import "time"

// mysqlDialect covers MySQL and its forks. Datetime literals carry no
// fractional seconds; older servers reject them.
type mysqlDialect struct{ generic }

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) FormatTime(t time.Time) string {
	return t.Format("'2006-01-02 15:04:05'")
}
