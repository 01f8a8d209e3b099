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
)

type stockService struct {
	BaseService
	repo portsrepo.LedgerRepositoryFacade
}

// StockServiceOption is a functional option for configuring the stock service
type StockServiceOption func(*stockService)

// WithStockClock overrides time.Now.
func WithStockClock(clock func() time.Time) StockServiceOption {
	return func(s *stockService) {
		s.Clock = clock
	}
}

func NewStockService(repo portsrepo.LedgerRepositoryFacade, options ...StockServiceOption) portssvc.StockSvcFacade {
	svc := &stockService{repo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

func (s *stockService) RegisterStockLine(ctx context.Context, req dto.CreateStockLineRequest, userID string) (*domain.StockLine, error) {
	if req.ProductID == "" {
		return nil, apperrors.NewValidationError("product id is required")
	}

	now := s.Now()
	line := domain.StockLine{
		ProductID:      req.ProductID,
		AllowBackorder: req.AllowBackorder,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SaveStockLine(ctx, line)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("product %s is already registered: %w", req.ProductID, err)
		}
		s.LogError(ctx, err, "Failed to register stock line", slog.String("product_id", req.ProductID))
		return nil, fmt.Errorf("failed to register stock line: %w", err)
	}

	s.LogInfo(ctx, "Stock line registered",
		slog.String("product_id", line.ProductID),
		slog.Bool("allow_backorder", line.AllowBackorder))
	return &line, nil
}

func (s *stockService) GetStockLine(ctx context.Context, productID string) (*domain.StockLine, error) {
	return s.repo.FindStockLine(ctx, productID)
}

// SetBackorder only changes the policy; stock already below zero stays there.
func (s *stockService) SetBackorder(ctx context.Context, productID string, allowBackorder bool, userID string) (*domain.StockLine, error) {
	var updated domain.StockLine
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		line, err := tx.LockStockLine(ctx, productID)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := tx.UpdateStockBackorder(ctx, productID, allowBackorder, userID, now); err != nil {
			return err
		}
		line.AllowBackorder = allowBackorder
		line.LastUpdatedAt = now
		line.LastUpdatedBy = userID
		updated = *line
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Stock backorder policy changed",
		slog.String("product_id", productID),
		slog.Bool("allow_backorder", allowBackorder))
	return &updated, nil
}
