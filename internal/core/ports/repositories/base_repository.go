package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside one database transaction.
// fn's error rolls the transaction back; a nil return commits it. The ctx
// passed to fn carries the transaction deadline.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerReader is the read side of every ledger table.
type LedgerReader interface {
	MovementReader
	CashRegisterReader
	CustomerAccountReader
	StockReader
}

// LedgerTx is everything a ledger transaction may read, lock and write.
// Implementations are only valid inside the WithinTx callback that produced them.
type LedgerTx interface {
	LedgerReader
	MovementWriter
	CashRegisterWriter
	CustomerAccountWriter
	StockWriter
}

// LedgerRepositoryFacade is the repository the ledger services depend on:
// lock-free reads on the pool plus transactional writes.
type LedgerRepositoryFacade interface {
	TransactionManager
	LedgerReader
}
