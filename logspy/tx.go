package logspy

import (
	"context"
	"database/sql/driver"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Compile-time interface check.
var _ driver.Tx = (*spyTx)(nil)

// spyTx wraps a driver.Tx, logging commits and rollbacks.
type spyTx struct {
	tx   driver.Tx
	conn *spyConn
}

// newSpyTx creates a new logged transaction.
func newSpyTx(tx driver.Tx, conn *spyConn) *spyTx {
	return &spyTx{tx: tx, conn: conn}
}

// Commit implements driver.Tx.
func (t *spyTx) Commit() error {
	_, span := t.conn.f.tracer.Start(context.Background(), "COMMIT",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(t.conn.attributes("")...),
	)
	defer span.End()

	start := time.Now()
	err := t.tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	t.conn.f.logger.Debug().Str("conn", t.conn.id).Dur("took", time.Since(start)).Msg("transaction committed")
	return nil
}

// Rollback implements driver.Tx.
func (t *spyTx) Rollback() error {
	_, span := t.conn.f.tracer.Start(context.Background(), "ROLLBACK",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(t.conn.attributes("")...),
	)
	defer span.End()

	start := time.Now()
	err := t.tx.Rollback()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	t.conn.f.logger.Debug().Str("conn", t.conn.id).Dur("took", time.Since(start)).Msg("transaction rolled back")
	return nil
}
