package services

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// CashRegisterSvcFacade manages the lifecycle of the cash register session.
type CashRegisterSvcFacade interface {
	CashSessionValidator
	OpenSession(ctx context.Context, openingBalance decimal.Decimal, userID string) (*domain.CashRegisterSession, error)
	// CloseSession reconciles the open session against the counted drawer balance.
	CloseSession(ctx context.Context, userID string, countedBalance decimal.Decimal) (*domain.CashRegisterSession, error)
	CurrentSession(ctx context.Context) (*domain.CashRegisterSession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.CashRegisterSession, error)
	ListSessions(ctx context.Context, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error)
	IsStale(session domain.CashRegisterSession, now time.Time) bool
}
