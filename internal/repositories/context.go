package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// SetTxToContext stores a request-scoped transaction in the context.
// Repositories execute on it instead of the pool when present.
func SetTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}
