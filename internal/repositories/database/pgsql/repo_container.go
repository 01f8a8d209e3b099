package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the Postgres repositories. txTimeout bounds
// every ledger transaction.
func NewRepositoryProvider(dbPool DBPool, txTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:    newPgxLedgerRepository(dbPool, txTimeout),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
