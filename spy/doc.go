// Package spy provides a transparent facade driver that delegates to
// one or more real database drivers, wrapping their connections for SQL
// logging when enabled.
//
// Any connection URL is routed through the facade by prepending the
// sqlspy:// marker to the URL the real driver would normally receive.
// The facade finds the underlying driver that accepts the bare URL,
// delegates the connect, and, when logging is enabled, returns the
// connection wrapped with the dialect resolved for that driver.
//
// # Quick Start
//
//	import (
//	    "database/sql"
//
//	    "github.com/kaldera-labs/sqlspy-go/spy"
//	    _ "modernc.org/sqlite"
//	)
//
//	s, err := spy.Register(
//	    spy.WithLogger(logger),
//	    spy.WithProperties(spy.MapSource{
//	        "sqlspy.sqltiming.warn.threshold": "200",
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db := sql.OpenDB(spy.NewConnector(s, "sqlspy://sqlite://file:app.db", nil))
//
// # Driver discovery
//
// At registration the facade probes a fixed list of well-known
// database/sql driver names plus any named in the sqlspy.drivers
// option. Names that are not registered in the process are dropped
// silently; discovery later scans every driver in the registry, so
// drivers registered by other means are picked up too.
//
// # Version queries
//
// MajorVersion, MinorVersion and Compliant answer from the last
// underlying driver requested through any URL-carrying call. When more
// than one database type is spied on concurrently the answer may be
// stale; the queries carry no URL to disambiguate with, so this is a
// documented limitation, not a bug.
package spy
