package logspy

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaldera-labs/sqlspy-go/dialect"
)

func prepareSpyStmt(t *testing.T, cfg Config, query string) (*spyStmt, *recordStmt, *Factory, func() string) {
	t.Helper()
	f, buf := newTestFactory(cfg)
	conn := f.Wrap(&recordConn{}, dialect.Default()).(*spyConn)
	stmt, err := conn.PrepareContext(context.Background(), query)
	require.NoError(t, err)
	spy := stmt.(*spyStmt)
	return spy, spy.stmt.(*recordStmt), f, buf.String
}

func TestSpyStmt_ExecContext(t *testing.T) {
	t.Run("given prepared exec, then dump carries prepared query with bound args", func(t *testing.T) {
		spy, _, _, logged := prepareSpyStmt(t, DefaultConfig(), "INSERT INTO users (id, name) VALUES (?, ?)")

		_, err := spy.ExecContext(context.Background(),
			[]driver.NamedValue{{Ordinal: 1, Value: int64(1)}, {Ordinal: 2, Value: "ann"}})

		require.NoError(t, err)
		assert.Contains(t, logged(), "INSERT INTO users (id, name) VALUES (1, 'ann')")
		assert.Contains(t, logged(), `"kind":"INSERT"`)
	})

	t.Run("given statement without StmtExecContext, then falls back to Exec", func(t *testing.T) {
		spy, inner, _, _ := prepareSpyStmt(t, DefaultConfig(), "INSERT INTO t VALUES (?)")

		_, err := spy.ExecContext(context.Background(),
			[]driver.NamedValue{{Ordinal: 1, Value: int64(42)}})

		require.NoError(t, err)
		assert.Equal(t, []driver.Value{int64(42)}, inner.execArgs)
	})
}

func TestSpyStmt_QueryContext(t *testing.T) {
	t.Run("given prepared query, then rows returned and dump emitted", func(t *testing.T) {
		spy, _, _, logged := prepareSpyStmt(t, DefaultConfig(), "SELECT name FROM users WHERE id = ?")

		rows, err := spy.QueryContext(context.Background(),
			[]driver.NamedValue{{Ordinal: 1, Value: int64(9)}})

		require.NoError(t, err)
		require.NotNil(t, rows)
		assert.Contains(t, logged(), "SELECT name FROM users WHERE id = 9")
	})
}

func TestSpyStmt_LegacyPaths(t *testing.T) {
	t.Run("given legacy exec, then values converted for the dump", func(t *testing.T) {
		spy, _, _, logged := prepareSpyStmt(t, DefaultConfig(), "DELETE FROM t WHERE id = ?")

		_, err := spy.Exec([]driver.Value{int64(5)})

		require.NoError(t, err)
		assert.Contains(t, logged(), "DELETE FROM t WHERE id = 5")
	})

	t.Run("given legacy query, then dump emitted", func(t *testing.T) {
		spy, _, _, logged := prepareSpyStmt(t, DefaultConfig(), "SELECT 1")

		_, err := spy.Query(nil)

		require.NoError(t, err)
		assert.Contains(t, logged(), `"kind":"SELECT"`)
	})
}

func TestSpyStmt_Close(t *testing.T) {
	spy, inner, _, _ := prepareSpyStmt(t, DefaultConfig(), "SELECT 1")

	require.NoError(t, spy.Close())

	assert.True(t, inner.closed)
	assert.Equal(t, -1, spy.NumInput())
}

func TestValueConversions(t *testing.T) {
	t.Run("given named values, then values extracted in order", func(t *testing.T) {
		named := []driver.NamedValue{
			{Ordinal: 1, Value: int64(1)},
			{Ordinal: 2, Value: "two"},
		}
		assert.Equal(t, []driver.Value{int64(1), "two"}, namedValueToValue(named))
	})

	t.Run("given values, then ordinals assigned from one", func(t *testing.T) {
		named := valueToNamedValue([]driver.Value{"a", "b"})
		require.Len(t, named, 2)
		assert.Equal(t, 1, named[0].Ordinal)
		assert.Equal(t, 2, named[1].Ordinal)
		assert.Equal(t, driver.Value("b"), named[1].Value)
	})
}
