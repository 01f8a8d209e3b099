package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// movementLog is the append-only store of cash, account and stock movements.
// Movements are never updated or deleted; corrections are reversals.
type movementLog struct {
	BaseService
}

// Append writes m to its log. When a movement with the same key already
// exists the stored one is returned with fresh=false and nothing is written.
func (l *movementLog) Append(ctx context.Context, tx portsrepo.LedgerTx, m domain.Movement) (domain.Movement, bool, error) {
	if err := validateMovement(m); err != nil {
		return domain.Movement{}, false, err
	}

	inserted, err := tx.InsertMovement(ctx, m)
	if err != nil {
		return domain.Movement{}, false, fmt.Errorf("failed to append %s movement: %w", m.Category, err)
	}
	if inserted {
		return m, true, nil
	}

	existing, err := tx.FindMovementByKey(ctx, m.Key())
	if err != nil {
		return domain.Movement{}, false, fmt.Errorf("failed to re-read conflicting %s movement: %w", m.Category, err)
	}
	l.LogDebug(ctx, "Movement already recorded, returning existing",
		slog.String("movement_id", existing.ID),
		slog.String("reference_id", m.ReferenceID),
		slog.String("reference_type", string(m.ReferenceType)))
	return *existing, false, nil
}

func validateMovement(m domain.Movement) error {
	if !m.Category.IsValid() {
		return apperrors.NewValidationError("unknown movement category %q", m.Category)
	}
	if m.AccountID == "" {
		return apperrors.NewValidationError("%s movement needs an account id", m.Category)
	}
	if m.ReferenceID == "" {
		return apperrors.NewValidationError("movement needs a reference id")
	}
	if !m.ReferenceType.IsValid() {
		return apperrors.NewValidationError("unknown reference type %q", m.ReferenceType)
	}
	if m.Amount.IsZero() {
		return apperrors.NewValidationError("movement amount must not be zero")
	}

	switch m.Kind {
	case domain.KindOriginal:
		if m.ReferenceType.IsReversal() || m.ReversesMovementID != nil {
			return apperrors.NewValidationError("original movement cannot carry reversal reference %q", m.ReferenceType)
		}
	case domain.KindReversal:
		if !m.ReferenceType.IsReversal() || m.ReversesMovementID == nil {
			return apperrors.NewValidationError("reversal movement must reference the movement it reverses")
		}
	default:
		return apperrors.NewValidationError("unknown movement kind %q", m.Kind)
	}

	if m.Category != domain.CategoryStock {
		if err := accounting.CheckMoney(strings.ToLower(string(m.Category))+" amount", m.Amount); err != nil {
			return err
		}
	}

	switch m.Category {
	case domain.CategoryCash:
		if !m.Tender.IsValid() {
			return apperrors.NewValidationError("cash movement needs a tender, got %q", m.Tender)
		}
		if m.Source != "" {
			return apperrors.NewValidationError("cash movement cannot carry a stock source")
		}
	case domain.CategoryStock:
		if !accounting.IsIntegral(m.Amount) {
			return apperrors.NewValidationError("stock quantity must be a whole number, got %s", m.Amount)
		}
		if m.Amount.Abs().GreaterThan(decimal.NewFromInt(accounting.MaxStockQuantity)) {
			return apperrors.NewValidationError("stock quantity %s exceeds %d", m.Amount, accounting.MaxStockQuantity)
		}
		if m.Source == "" {
			return apperrors.NewValidationError("stock movement needs a source")
		}
		if m.Tender != "" {
			return apperrors.NewValidationError("stock movement cannot carry a tender")
		}
	case domain.CategoryAccount:
		if m.Tender != "" || m.Source != "" {
			return apperrors.NewValidationError("account movement cannot carry a tender or a stock source")
		}
	}
	return nil
}
