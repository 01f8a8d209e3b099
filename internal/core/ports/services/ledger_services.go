package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// LedgerSvcFacade is the single entry point business modules use to record
// money- or stock-affecting events.
type LedgerSvcFacade interface {
	// Post records a business event exactly once. Re-posting the same
	// reference returns the original movements with Replayed set.
	Post(ctx context.Context, req domain.PostRequest) (*domain.LedgerResult, error)
	// Reverse posts one compensating movement per original movement of a reference.
	Reverse(ctx context.Context, req domain.ReverseRequest) (*domain.LedgerResult, error)
	ListMovements(ctx context.Context, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)
	// VerifyBalance recomputes a balance from its movements and compares it with the stored value.
	VerifyBalance(ctx context.Context, category domain.MovementCategory, accountID string) (*domain.BalanceCheck, error)
}

// CashSessionValidator checks that cash movements have an open session to land in.
type CashSessionValidator interface {
	ValidateForPosting(ctx context.Context, tx portsrepo.LedgerTx, expectedSessionID string) (*domain.CashRegisterSession, error)
}
