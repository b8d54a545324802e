package middlewares

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-auth/internal/logger"
	"github.com/sbilibin2017/gw-auth/internal/repositories"
)

// TxMiddleware wraps an HTTP handler with a database transaction scoped to
// the request. The transaction is committed when the handler responds with
// a success status and rolled back on error responses, panics, and commit
// failures, so it is released on every exit path.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.Beginx()
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			ctx := repositories.SetTxToContext(r.Context(), tx)
			r = r.WithContext(ctx)

			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)

			if sw.statusCode >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to rollback transaction", "error", err)
				}
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}
