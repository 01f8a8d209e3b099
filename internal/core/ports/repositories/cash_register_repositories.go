package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CashRegisterReader reads cash register sessions.
type CashRegisterReader interface {
	// FindOpenSession returns apperrors.ErrNotFound when every session is closed.
	FindOpenSession(ctx context.Context) (*domain.CashRegisterSession, error)
	FindSessionByID(ctx context.Context, sessionID string) (*domain.CashRegisterSession, error)
	ListSessions(ctx context.Context, limit int, nextToken *string) ([]domain.CashRegisterSession, *string, error)
}

// CashRegisterWriter mutates cash register sessions inside a transaction.
type CashRegisterWriter interface {
	// LockOpenSession selects the open session FOR UPDATE and returns
	// apperrors.ErrNotFound when there is none.
	LockOpenSession(ctx context.Context) (*domain.CashRegisterSession, error)
	// InsertSession returns apperrors.ErrSessionAlreadyOpen if another session is open.
	InsertSession(ctx context.Context, session domain.CashRegisterSession) error
	UpdateSessionTotals(ctx context.Context, sessionID string, cashTotal, nonCashTotal decimal.Decimal) error
	CloseSession(ctx context.Context, session domain.CashRegisterSession) error
}
