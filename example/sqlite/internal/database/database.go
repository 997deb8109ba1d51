package database

import (
	"database/sql"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Register sqlite driver

	"github.com/kaldera-labs/sqlspy-go/example/sqlite/internal/config"
	"github.com/kaldera-labs/sqlspy-go/spy"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New opens the demo database through the sqlspy facade. Every
// connection the pool hands out is wrapped for SQL logging because the
// logger runs at debug level.
func New(logger zerolog.Logger) (*DB, error) {
	s, err := spy.Register(spy.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(spy.NewConnector(s, config.DefaultURL, nil))
	db.SetMaxOpenConns(config.DefaultMaxOpen)
	db.SetMaxIdleConns(config.DefaultMaxIdle)

	return &DB{DB: db}, nil
}
