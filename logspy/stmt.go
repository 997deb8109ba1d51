package logspy

import (
	"context"
	"database/sql/driver"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Compile-time interface checks.
var (
	_ driver.Stmt             = (*spyStmt)(nil)
	_ driver.StmtExecContext  = (*spyStmt)(nil)
	_ driver.StmtQueryContext = (*spyStmt)(nil)
)

// spyStmt wraps a driver.Stmt, logging each execution of the prepared
// query with its bound arguments and timing.
type spyStmt struct {
	stmt  driver.Stmt
	conn  *spyConn
	query string
}

// newSpyStmt creates a new logged statement.
func newSpyStmt(stmt driver.Stmt, conn *spyConn, query string) *spyStmt {
	return &spyStmt{
		stmt:  stmt,
		conn:  conn,
		query: query,
	}
}

// Close implements driver.Stmt.
func (s *spyStmt) Close() error {
	return s.stmt.Close()
}

// NumInput implements driver.Stmt.
func (s *spyStmt) NumInput() int {
	return s.stmt.NumInput()
}

// Exec implements driver.Stmt.
// Deprecated: Use ExecContext instead. This exists for driver.Stmt interface compatibility.
func (s *spyStmt) Exec(args []driver.Value) (driver.Result, error) {
	start := time.Now()
	result, err := s.stmt.Exec(args) //nolint:staticcheck // Required for driver.Stmt interface
	s.log(valueToNamedValue(args), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return s.conn.wrapResult(result), nil
}

// Query implements driver.Stmt.
// Deprecated: Use QueryContext instead. This exists for driver.Stmt interface compatibility.
func (s *spyStmt) Query(args []driver.Value) (driver.Rows, error) {
	start := time.Now()
	rows, err := s.stmt.Query(args) //nolint:staticcheck // Required for driver.Stmt interface
	s.log(valueToNamedValue(args), time.Since(start), err)
	return rows, err
}

// ExecContext implements driver.StmtExecContext.
func (s *spyStmt) ExecContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Result, error) {
	start := time.Now()
	ctx, span := s.conn.f.tracer.Start(ctx, spanName(s.query),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(s.conn.attributes(s.query)...),
	)
	defer span.End()

	var result driver.Result
	var err error

	if execer, ok := s.stmt.(driver.StmtExecContext); ok {
		result, err = execer.ExecContext(ctx, args)
	} else {
		result, err = s.stmt.Exec(namedValueToValue(args)) //nolint:staticcheck // Fallback for older drivers
	}

	took := time.Since(start)
	s.conn.f.metrics.record(ctx, took, string(classify(s.query)), s.conn.dialect.Name(), err)
	s.log(args, took, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return s.conn.wrapResult(result), nil
}

// QueryContext implements driver.StmtQueryContext.
func (s *spyStmt) QueryContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Rows, error) {
	start := time.Now()
	ctx, span := s.conn.f.tracer.Start(ctx, spanName(s.query),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(s.conn.attributes(s.query)...),
	)
	defer span.End()

	var rows driver.Rows
	var err error

	if queryer, ok := s.stmt.(driver.StmtQueryContext); ok {
		rows, err = queryer.QueryContext(ctx, args)
	} else {
		rows, err = s.stmt.Query(namedValueToValue(args)) //nolint:staticcheck // Fallback for older drivers
	}

	took := time.Since(start)
	s.conn.f.metrics.record(ctx, took, string(classify(s.query)), s.conn.dialect.Name(), err)
	s.log(args, took, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rows, nil
}

func (s *spyStmt) log(args []driver.NamedValue, took time.Duration, err error) {
	s.conn.f.logOperation(s.conn.id, s.query, args, s.conn.dialect, took, err)
}

// namedValueToValue converts a NamedValue slice to a Value slice.
func namedValueToValue(named []driver.NamedValue) []driver.Value {
	values := make([]driver.Value, len(named))
	for i, nv := range named {
		values[i] = nv.Value
	}
	return values
}

// valueToNamedValue converts a Value slice to an ordinal NamedValue
// slice, for the dump formatter.
func valueToNamedValue(values []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(values))
	for i, v := range values {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return named
}
