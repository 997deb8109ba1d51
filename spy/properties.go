package spy

import (
	"os"
	"strings"
)

// PropertySource is a flat, string-keyed option source. The facade only
// reads it once, at construction, to build the Settings snapshot.
type PropertySource interface {
	// Lookup returns the raw value for key and whether the key is set.
	Lookup(key string) (string, bool)
}

// MapSource is an in-memory PropertySource, mostly useful in tests and
// for programmatic configuration.
type MapSource map[string]string

// Lookup implements PropertySource.
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvSource reads options from the process environment. A key such as
// "sqlspy.dump.sql.select" is looked up as "SQLSPY_DUMP_SQL_SELECT".
type EnvSource struct{}

// Lookup implements PropertySource.
func (EnvSource) Lookup(key string) (string, bool) {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	return os.LookupEnv(name)
}

// ChainSource consults its sources in order and returns the first hit.
type ChainSource []PropertySource

// Lookup implements PropertySource.
func (c ChainSource) Lookup(key string) (string, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
