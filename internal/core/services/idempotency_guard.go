package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
)

// Reservation is the outcome of an idempotency check. Exactly one of Fresh
// and Existing is set.
type Reservation struct {
	Fresh    bool
	Existing *domain.Movement
}

// idempotencyGuard decides whether a movement key has already been recorded.
// The reservation itself is the unique index hit by movementLog.Append in the
// same transaction, so a concurrent duplicate that passes the check still
// resolves to the stored movement.
type idempotencyGuard struct{}

func (g *idempotencyGuard) CheckAndReserve(ctx context.Context, tx portsrepo.LedgerTx, category domain.MovementCategory, accountID, referenceID string, referenceType domain.ReferenceType) (Reservation, error) {
	key := domain.MovementKey{
		Category:      category,
		AccountID:     accountID,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	}
	existing, err := tx.FindMovementByKey(ctx, key)
	if err == nil {
		return Reservation{Existing: existing}, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return Reservation{Fresh: true}, nil
	}
	return Reservation{}, fmt.Errorf("idempotency lookup failed: %w", err)
}
