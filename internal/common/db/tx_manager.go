package db

import (
	"context"
	"fmt"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/constants"
	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
)

type TxManager interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type PgTxManager struct {
	db Querier
}

func NewTxManager(db Querier) *PgTxManager {
	return &PgTxManager{db: db}
}

// WithTx commits when fn returns nil and rolls back on error, panic or a
// cancelled context.
func (m *PgTxManager) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		metrics.DBTransactionsTotal.WithLabelValues("begin_failed").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			metrics.DBTransactionsTotal.WithLabelValues("rollback").Inc()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.Background())
			metrics.DBTransactionsTotal.WithLabelValues("rollback").Inc()
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			metrics.DBTransactionsTotal.WithLabelValues("commit_failed").Inc()
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
			return
		}
		metrics.DBTransactionsTotal.WithLabelValues("commit").Inc()
	}()

	return fn(ctx, tx)
}
