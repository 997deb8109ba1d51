// Package dialect selects vendor-specific SQL formatting rules from a
// driver identity.
//
// A Dialect knows how a particular database family writes literals, so
// that SQL rendered for logging can be pasted back into that vendor's
// tools unchanged. Resolution is total: any identity, mapped or not,
// yields a usable Dialect, falling back to one process-wide generic
// instance.
package dialect

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect is a vendor-specific set of formatting rules used when SQL and
// its bound arguments are rendered for logging.
type Dialect interface {
	// Name identifies the dialect ("generic", "mysql", "oracle", ...).
	Name() string

	// QuoteString renders s as a SQL string literal.
	QuoteString(s string) string

	// FormatTime renders t as a timestamp literal in the vendor's syntax.
	FormatTime(t time.Time) string
}

// generic holds the portable formatting rules used for any database
// without vendor-specific needs.
type generic struct{}

func (generic) Name() string { return "generic" }

func (generic) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (generic) FormatTime(t time.Time) string {
	return t.Format("'2006-01-02 15:04:05.000'")
}

// FormatValue renders a bound argument as a SQL literal using the
// dialect's rules. Booleans dump as 1/0 unless boolAsText is set, since
// many databases have no boolean type and 1/0 stays portable.
func FormatValue(d Dialect, v driver.Value, boolAsText bool) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if boolAsText {
			return strconv.FormatBool(x)
		}
		if x {
			return "1"
		}
		return "0"
	case string:
		return d.QuoteString(x)
	case time.Time:
		return d.FormatTime(x)
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
