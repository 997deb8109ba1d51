package logspy

import (
	"context"
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kaldera-labs/sqlspy-go/dialect"
)

// Compile-time interface checks.
var (
	_ driver.Conn               = (*spyConn)(nil)
	_ driver.ConnPrepareContext = (*spyConn)(nil)
	_ driver.ConnBeginTx        = (*spyConn)(nil)
	_ driver.ExecerContext      = (*spyConn)(nil)
	_ driver.QueryerContext     = (*spyConn)(nil)
	_ driver.Pinger             = (*spyConn)(nil)
	_ driver.SessionResetter    = (*spyConn)(nil)
	_ driver.Validator          = (*spyConn)(nil)
)

// spyConn wraps a driver.Conn, logging every operation with its SQL and
// timing and emitting a span per operation.
type spyConn struct {
	conn    driver.Conn
	f       *Factory
	dialect dialect.Dialect
	id      string
}

// newSpyConn creates a new logged connection.
func newSpyConn(conn driver.Conn, f *Factory, d dialect.Dialect) *spyConn {
	c := &spyConn{
		conn:    conn,
		f:       f,
		dialect: d,
		id:      uuid.NewString(),
	}
	f.logger.Debug().Str("conn", c.id).Str("dialect", d.Name()).Msg("connection opened")
	return c
}

// attributes returns the span attributes for this connection, plus the
// operation extracted from query when there is one.
func (c *spyConn) attributes(query string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("db.dialect", c.dialect.Name()),
		attribute.String("db.connection.id", c.id),
	}
	if op := extractOperation(query); op != "" {
		attrs = append(attrs, attribute.String("db.operation", op))
	}
	return attrs
}

// Prepare implements driver.Conn.
func (c *spyConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return newSpyStmt(stmt, c, query), nil
}

// Close implements driver.Conn.
func (c *spyConn) Close() error {
	err := c.conn.Close()
	c.f.logger.Debug().Str("conn", c.id).Err(err).Msg("connection closed")
	return err
}

// Begin implements driver.Conn.
// Deprecated: Use BeginTx instead. This exists for driver.Conn interface compatibility.
func (c *spyConn) Begin() (driver.Tx, error) {
	tx, err := c.conn.Begin() //nolint:staticcheck // Required for driver.Conn interface
	if err != nil {
		return nil, err
	}
	c.f.logger.Debug().Str("conn", c.id).Msg("transaction started")
	return newSpyTx(tx, c), nil
}

// PrepareContext implements driver.ConnPrepareContext.
func (c *spyConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var stmt driver.Stmt
	var err error

	if preparer, ok := c.conn.(driver.ConnPrepareContext); ok {
		stmt, err = preparer.PrepareContext(ctx, query)
	} else {
		stmt, err = c.conn.Prepare(query)
	}

	if err != nil {
		return nil, err
	}
	return newSpyStmt(stmt, c, query), nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *spyConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	start := time.Now()
	ctx, span := c.f.tracer.Start(ctx, "BEGIN",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(c.attributes("")...),
	)
	defer span.End()

	var tx driver.Tx
	var err error

	if beginner, ok := c.conn.(driver.ConnBeginTx); ok {
		tx, err = beginner.BeginTx(ctx, opts)
	} else {
		tx, err = c.conn.Begin() //nolint:staticcheck // Fallback for older drivers
	}

	took := time.Since(start)
	c.f.metrics.record(ctx, took, "BEGIN", c.dialect.Name(), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.f.logger.Debug().Str("conn", c.id).Dur("took", took).Msg("transaction started")
	return newSpyTx(tx, c), nil
}

// ExecContext implements driver.ExecerContext.
func (c *spyConn) ExecContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Result, error) {
	execer, ok := c.conn.(driver.ExecerContext)
	if !ok {
		// Let database/sql fall back to prepare-and-execute.
		return nil, driver.ErrSkip
	}

	c.warnBareStatement()

	start := time.Now()
	ctx, span := c.f.tracer.Start(ctx, spanName(query),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(c.attributes(query)...),
	)
	defer span.End()

	result, err := execer.ExecContext(ctx, query, args)
	took := time.Since(start)

	c.f.metrics.record(ctx, took, string(classify(query)), c.dialect.Name(), err)
	c.f.logOperation(c.id, query, args, c.dialect, took, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return c.wrapResult(result), nil
}

// QueryContext implements driver.QueryerContext.
func (c *spyConn) QueryContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Rows, error) {
	queryer, ok := c.conn.(driver.QueryerContext)
	if !ok {
		// Let database/sql fall back to prepare-and-query.
		return nil, driver.ErrSkip
	}

	c.warnBareStatement()

	start := time.Now()
	ctx, span := c.f.tracer.Start(ctx, spanName(query),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(c.attributes(query)...),
	)
	defer span.End()

	rows, err := queryer.QueryContext(ctx, query, args)
	took := time.Since(start)

	c.f.metrics.record(ctx, took, string(classify(query)), c.dialect.Name(), err)
	c.f.logOperation(c.id, query, args, c.dialect, took, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rows, nil
}

// Ping implements driver.Pinger.
func (c *spyConn) Ping(ctx context.Context) error {
	start := time.Now()
	ctx, span := c.f.tracer.Start(ctx, "PING",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(c.attributes("")...),
	)
	defer span.End()

	var err error
	if pinger, ok := c.conn.(driver.Pinger); ok {
		err = pinger.Ping(ctx)
	}

	c.f.metrics.record(ctx, time.Since(start), "PING", c.dialect.Name(), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// ResetSession implements driver.SessionResetter.
func (c *spyConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

// IsValid implements driver.Validator.
func (c *spyConn) IsValid() bool {
	if validator, ok := c.conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}

// warnBareStatement flags SQL running outside a prepared statement when
// configured; frequently run bare SQL tends to be a performance or
// injection hazard.
func (c *spyConn) warnBareStatement() {
	if c.f.cfg.StatementWarn {
		c.f.logger.Warn().Str("conn", c.id).Msg("bare statement used; consider a prepared statement for frequently run SQL")
	}
}

// wrapResult shields callers from generated-key errors when configured.
func (c *spyConn) wrapResult(result driver.Result) driver.Result {
	if !c.f.cfg.SuppressGeneratedKeysError {
		return result
	}
	return spyResult{result: result}
}

// spyResult swallows LastInsertId errors; some frameworks ask for
// generated keys after every update whether or not the statement
// produced any.
type spyResult struct {
	result driver.Result
}

// LastInsertId implements driver.Result.
func (r spyResult) LastInsertId() (int64, error) {
	id, err := r.result.LastInsertId()
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// RowsAffected implements driver.Result.
func (r spyResult) RowsAffected() (int64, error) {
	return r.result.RowsAffected()
}
