package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"autoparts/internal/core/tx"
	"autoparts/pkg/logger"
)

var tracer = otel.Tracer("autoparts/tx")

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// ErrWriteInReadOnly is returned when a writing transaction is requested
// inside a read-only one.
var ErrWriteInReadOnly = errors.New("write transaction requested inside read-only transaction")

// DefaultStatementTimeout bounds every statement of a transaction.
const DefaultStatementTimeout = 30 * time.Second

// TxManager runs read-committed transactions. Nested calls join the outer
// transaction, so row locks taken by one service call stay held until the
// outermost call commits. Repositories take their querier from it.
type TxManager struct {
	pool             *pgxpool.Pool
	statementTimeout time.Duration
}

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool, statementTimeout: DefaultStatementTimeout}
}

type txKey struct{}

// Tx is the transaction carried in a context.
type Tx struct {
	pgx.Tx
	readOnly bool
}

// RunInTransaction executes fn in a read-write transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, pgx.ReadWrite, fn)
}

// ReadOnly executes fn in a read-only transaction. Inside a read-write
// transaction it simply joins it.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, pgx.ReadOnly, fn)
}

func (m *TxManager) run(ctx context.Context, mode pgx.TxAccessMode, fn func(ctx context.Context) error) error {
	existing := m.GetTx(ctx)

	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.access_mode", string(mode)),
			attribute.Bool("tx.nested", existing != nil),
		))
	defer span.End()

	var err error
	switch {
	case existing == nil:
		err = m.begin(ctx, mode, fn)
	case existing.readOnly && mode == pgx.ReadWrite:
		err = ErrWriteInReadOnly
	default:
		err = fn(ctx)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
	}
	return err
}

func (m *TxManager) begin(ctx context.Context, mode pgx.TxAccessMode, fn func(ctx context.Context) error) error {
	pgTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: mode,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if m.statementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", m.statementTimeout.Milliseconds())
		if _, err := pgTx.Exec(ctx, stmt); err != nil {
			rollback(ctx, pgTx, err)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	txCtx := context.WithValue(ctx, txKey{}, &Tx{Tx: pgTx, readOnly: mode == pgx.ReadOnly})
	if err := fn(txCtx); err != nil {
		rollback(ctx, pgTx, err)
		return mapAbort(err)
	}

	if err := pgTx.Commit(ctx); err != nil {
		return mapAbort(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// rollback uses a fresh context so a cancelled request still releases its locks.
func rollback(ctx context.Context, pgTx pgx.Tx, cause error) {
	if err := pgTx.Rollback(context.WithoutCancel(ctx)); err != nil {
		logger.Error(ctx, "rollback failed", "error", err, "original_error", cause)
	}
}

// GetTx returns the current transaction from context, or nil if none.
func (m *TxManager) GetTx(ctx context.Context) *Tx {
	if t, ok := ctx.Value(txKey{}).(*Tx); ok {
		return t
	}
	return nil
}

// Querier is satisfied by both a pool and a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction in ctx, or the pool outside one.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.GetTx(ctx); t != nil {
		return t.Tx
	}
	return m.pool
}
