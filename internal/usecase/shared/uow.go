package shared

import (
	"context"

	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/errs"
)

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// UnitOfWork owns transaction boundaries so usecases can describe an atomic
// unit without touching pgx directly.
type UnitOfWork interface {
	// Within runs fn inside a read-committed transaction, retrying on
	// serialization failures and deadlocks.
	Within(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB runs fn against the pool without a transaction.
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}
