package spy

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"
)

// PropertyInfo describes one connection property an underlying driver
// understands, for callers probing a URL speculatively.
type PropertyInfo struct {
	Name        string
	Value       string
	Description string
	Required    bool
	Choices     []string
}

// Compile-time interface check.
var _ Driver = (*Adapter)(nil)

// Adapter bridges a driver registered with database/sql into the
// facade's underlying-driver contract. URLs are matched by scheme
// ("mysql://..."), and the DSN handed to the real driver has the scheme
// stripped unless the driver natively understands URL DSNs.
type Adapter struct {
	name       string
	drv        driver.Driver
	schemes    []string
	keepScheme bool
	major      int
	minor      int
	compliant  bool
	properties []PropertyInfo
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithSchemes adds URL schemes the adapter answers for. The driver name
// itself is always accepted as a scheme.
func WithSchemes(schemes ...string) AdapterOption {
	return func(a *Adapter) { a.schemes = append(a.schemes, schemes...) }
}

// WithKeepScheme passes the URL to the real driver with its scheme
// intact, for drivers whose DSN syntax is itself a URL (lib/pq, pgx).
func WithKeepScheme() AdapterOption {
	return func(a *Adapter) { a.keepScheme = true }
}

// WithVersion sets the version the adapter reports.
func WithVersion(major, minor int) AdapterOption {
	return func(a *Adapter) { a.major, a.minor = major, minor }
}

// WithCompliant marks the adapter's driver as contract-compliant.
func WithCompliant() AdapterOption {
	return func(a *Adapter) { a.compliant = true }
}

// WithPropertyInfo sets the static property descriptors the adapter
// returns for URLs it accepts.
func WithPropertyInfo(props ...PropertyInfo) AdapterOption {
	return func(a *Adapter) { a.properties = append(a.properties, props...) }
}

// NewAdapter wraps drv, which should be the driver registered with
// database/sql under name.
func NewAdapter(name string, drv driver.Driver, opts ...AdapterOption) *Adapter {
	a := &Adapter{name: name, drv: drv, major: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Driver.
func (a *Adapter) Name() string { return a.name }

// AcceptsURL reports whether url carries one of the adapter's schemes.
func (a *Adapter) AcceptsURL(url string) (bool, error) {
	_, ok := a.splitURL(url)
	return ok, nil
}

// splitURL derives the DSN for the real driver and reports whether url
// belongs to this adapter.
func (a *Adapter) splitURL(url string) (string, bool) {
	for _, scheme := range append([]string{a.name}, a.schemes...) {
		prefix := scheme + "://"
		if strings.HasPrefix(url, prefix) {
			if a.keepScheme {
				return url, true
			}
			return url[len(prefix):], true
		}
	}
	return "", false
}

// Connect opens a connection through the real driver. The connector
// path is preferred so the driver sees the caller's context; drivers
// without DriverContext fall back to a plain Open, the same ladder
// database/sql itself uses. A URL the adapter does not accept yields
// (nil, nil).
func (a *Adapter) Connect(ctx context.Context, url string, props map[string]string) (driver.Conn, error) {
	dsn, ok := a.splitURL(url)
	if !ok {
		return nil, nil
	}
	// Connection properties ride inside the DSN for database/sql
	// drivers; there is no side channel to pass props through.
	_ = props
	if dc, ok := a.drv.(driver.DriverContext); ok {
		connector, err := dc.OpenConnector(dsn)
		if err != nil {
			return nil, err
		}
		return connector.Connect(ctx)
	}
	return a.drv.Open(dsn)
}

// PropertyInfo returns the adapter's static property descriptors for
// URLs it accepts, and an empty sequence otherwise. It never errors, so
// it is safe to call speculatively.
func (a *Adapter) PropertyInfo(url string, props map[string]string) ([]PropertyInfo, error) {
	if _, ok := a.splitURL(url); !ok {
		return []PropertyInfo{}, nil
	}
	out := make([]PropertyInfo, len(a.properties))
	copy(out, a.properties)
	return out, nil
}

// MajorVersion implements Driver.
func (a *Adapter) MajorVersion() int { return a.major }

// MinorVersion implements Driver.
func (a *Adapter) MinorVersion() int { return a.minor }

// Compliant implements Driver.
func (a *Adapter) Compliant() bool { return a.compliant }

// probeDSN returns a DSN the named driver's connector parser accepts
// without connecting. Most drivers take an empty string; MySQL's parser
// insists on the slash separating the database name.
func probeDSN(name string) string {
	switch name {
	case "mysql":
		return "/"
	default:
		return ""
	}
}

// adapterFor probes the database/sql registry for name and wraps the
// registered driver. Probing failures are the common case, not an
// exception: the result is returned for the loader to fold over.
func adapterFor(name string) (*Adapter, error) {
	if !slices.Contains(sql.Drivers(), name) {
		return nil, fmt.Errorf("driver %q is not registered with database/sql", name)
	}
	// sql.Open connects nothing until first use, so this is a cheap way
	// to get at the registered driver instance.
	db, err := sql.Open(name, probeDSN(name))
	if err != nil {
		return nil, fmt.Errorf("probe driver %q: %w", name, err)
	}
	drv := db.Driver()
	_ = db.Close()
	return NewAdapter(name, drv, knownSchemeOptions(name)...), nil
}
