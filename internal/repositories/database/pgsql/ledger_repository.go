package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/middleware"
)

// PgxLedgerRepository runs ledger transactions against Postgres. Reads made
// outside WithinTx go straight to the pool.
type PgxLedgerRepository struct {
	BaseRepository
	*ledgerQueries
	txTimeout time.Duration
}

func newPgxLedgerRepository(pool DBPool, txTimeout time.Duration) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerQueries:  &ledgerQueries{db: pool},
		txTimeout:      txTimeout,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// WithinTx runs fn in a READ COMMITTED transaction bounded by txTimeout.
// Row locks taken by fn are held until commit or rollback.
func (r *PgxLedgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if r.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.txTimeout)
		defer cancel()
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return mapTxError(err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := r.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to roll back ledger transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if r.txTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", r.txTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapTxError(err)
		}
	}

	if err := fn(ctx, &ledgerQueries{db: tx}); err != nil {
		return mapTxError(err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return mapTxError(err)
	}
	committed = true
	return nil
}

// ledgerQueries implements portsrepo.LedgerTx over either the pool or a
// transaction.
type ledgerQueries struct {
	db querier
}

var _ portsrepo.LedgerTx = (*ledgerQueries)(nil)
