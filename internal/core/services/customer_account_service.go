package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type customerAccountService struct {
	BaseService
	repo portsrepo.LedgerRepositoryFacade
}

// CustomerAccountServiceOption is a functional option for configuring the customer account service
type CustomerAccountServiceOption func(*customerAccountService)

// WithCustomerAccountClock overrides time.Now.
func WithCustomerAccountClock(clock func() time.Time) CustomerAccountServiceOption {
	return func(s *customerAccountService) {
		s.Clock = clock
	}
}

func NewCustomerAccountService(repo portsrepo.LedgerRepositoryFacade, options ...CustomerAccountServiceOption) portssvc.CustomerAccountSvcFacade {
	svc := &customerAccountService{repo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CustomerAccountSvcFacade = (*customerAccountService)(nil)

// CreateCustomerAccount opens an ACTIVE account with a zero balance.
func (s *customerAccountService) CreateCustomerAccount(ctx context.Context, req dto.CreateCustomerAccountRequest, userID string) (*domain.CustomerAccount, error) {
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		return nil, apperrors.NewValidationError("credit limit must not be negative")
	}
	if req.CreditLimit != nil {
		if err := accounting.CheckMoney("credit limit", *req.CreditLimit); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermDays < 0 {
		return nil, apperrors.NewValidationError("payment term must not be negative")
	}

	now := s.Now()
	acc := domain.CustomerAccount{
		ID:              uuid.NewString(),
		CustomerID:      req.CustomerID,
		Balance:         decimal.Zero,
		CreditLimit:     req.CreditLimit,
		PaymentTermDays: req.PaymentTermDays,
		Status:          domain.AccountActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SaveCustomerAccount(ctx, acc)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("customer %s already has an account: %w", req.CustomerID, err)
		}
		s.LogError(ctx, err, "Failed to create customer account", slog.String("customer_id", req.CustomerID))
		return nil, fmt.Errorf("failed to create customer account: %w", err)
	}

	s.LogInfo(ctx, "Customer account created",
		slog.String("account_id", acc.ID),
		slog.String("customer_id", acc.CustomerID))
	return &acc, nil
}

func (s *customerAccountService) GetCustomerAccount(ctx context.Context, accountID string) (*domain.CustomerAccount, error) {
	return s.repo.FindCustomerAccountByID(ctx, accountID)
}

func (s *customerAccountService) GetCustomerAccountByCustomer(ctx context.Context, customerID string) (*domain.CustomerAccount, error) {
	return s.repo.FindCustomerAccountByCustomerID(ctx, customerID)
}

func (s *customerAccountService) UpdateCustomerAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string) (*domain.CustomerAccount, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("unknown account status %q", status)
	}

	var updated domain.CustomerAccount
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		acc, err := tx.LockCustomerAccount(ctx, accountID)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := tx.UpdateCustomerAccountStatus(ctx, accountID, status, userID, now); err != nil {
			return err
		}
		acc.Status = status
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
		updated = *acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Customer account status changed",
		slog.String("account_id", accountID),
		slog.String("status", string(status)),
		slog.String("user_id", userID))
	return &updated, nil
}
