package database

import (
	"context"
	"fmt"
)

// CreateTable creates the demo table if it does not exist.
func (db *DB) CreateTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id    INTEGER PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT NOT NULL
		)`)
	return err
}

// InsertUsers inserts a batch of demo users through a prepared
// statement, so the dump shows bound arguments.
func (db *DB) InsertUsers(ctx context.Context) error {
	stmt, err := db.PrepareContext(ctx, "INSERT INTO users (name, email) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	users := []struct{ name, email string }{
		{"Alice", "alice@example.com"},
		{"Bob", "bob@example.com"},
		{"O'Brien", "obrien@example.com"},
	}
	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.name, u.email); err != nil {
			return fmt.Errorf("insert %s: %w", u.name, err)
		}
	}
	return nil
}

// QueryUsers reads the demo users back.
func (db *DB) QueryUsers(ctx context.Context) error {
	rows, err := db.QueryContext(ctx, "SELECT id, name, email FROM users ORDER BY id LIMIT 10")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name, email string
		if err := rows.Scan(&id, &name, &email); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountUsers returns the current row count.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, "SELECT count(*) FROM users").Scan(&n)
	return n, err
}

// TrimWithTransaction deletes the oldest rows inside a transaction, so
// the dump shows BEGIN and COMMIT alongside the statement.
func (db *DB) TrimWithTransaction(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM users WHERE id NOT IN (SELECT id FROM users ORDER BY id DESC LIMIT 50)"); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
