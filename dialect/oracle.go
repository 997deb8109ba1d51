package dialect

import (
	"fmt"
	"time"
)

// oracleDialect renders timestamps through to_timestamp so the dumped
// SQL runs under Oracle's default NLS settings.
type oracleDialect struct{ generic }

func (oracleDialect) Name() string { return "oracle" }

func (oracleDialect) FormatTime(t time.Time) string {
	return fmt.Sprintf("to_timestamp('%s', 'mm/dd/yyyy hh24:mi:ss.ff3')",
		t.Format("01/02/2006 15:04:05.000"))
}
