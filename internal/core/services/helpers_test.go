package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

var _ portssvc.EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) ofType(t domain.EventType) []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	store     *memory.Store
	publisher *recordingPublisher
	clock     *fakeClock
	ledger    portssvc.LedgerSvcFacade
	cash      portssvc.CashRegisterSvcFacade
	accounts  portssvc.CustomerAccountSvcFacade
	stock     portssvc.StockSvcFacade
	reporting portssvc.ReportingSvcFacade
}

func newHarness(maxRetries int) *harness {
	repos, store := memory.NewRepositoryProvider(0)
	h := &harness{
		store:     store,
		publisher: &recordingPublisher{},
		clock:     &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	h.cash = services.NewCashRegisterService(repos.LedgerRepo,
		services.WithCashRegisterPublisher(h.publisher),
		services.WithCashRegisterClock(h.clock.Now),
		services.WithCashRegisterRetry(maxRetries, time.Millisecond),
	)
	h.ledger = services.NewLedgerService(repos.LedgerRepo, h.cash,
		services.WithLedgerPublisher(h.publisher),
		services.WithLedgerClock(h.clock.Now),
		services.WithLedgerRetry(maxRetries, time.Millisecond),
	)
	h.accounts = services.NewCustomerAccountService(repos.LedgerRepo, services.WithCustomerAccountClock(h.clock.Now))
	h.stock = services.NewStockService(repos.LedgerRepo, services.WithStockClock(h.clock.Now))
	h.reporting = services.NewReportingService(repos.LedgerRepo, repos.ReportingRepo)
	return h
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (h *harness) openSession(t *testing.T, opening string) *domain.CashRegisterSession {
	t.Helper()
	s, err := h.cash.OpenSession(context.Background(), dec(opening), "cashier-1")
	require.NoError(t, err)
	return s
}

func (h *harness) newAccount(t *testing.T, customerID string, limit *decimal.Decimal) *domain.CustomerAccount {
	t.Helper()
	acc, err := h.accounts.CreateCustomerAccount(context.Background(), dto.CreateCustomerAccountRequest{
		CustomerID:  customerID,
		CreditLimit: limit,
	}, "admin")
	require.NoError(t, err)
	return acc
}

func (h *harness) newStockLine(t *testing.T, productID string, onHand int64, backorder bool) {
	t.Helper()
	ctx := context.Background()
	_, err := h.stock.RegisterStockLine(ctx, dto.CreateStockLineRequest{ProductID: productID, AllowBackorder: backorder}, "admin")
	require.NoError(t, err)
	if onHand != 0 {
		_, err = h.ledger.Post(ctx, domain.PostRequest{
			Kind:        domain.PostAdjustment,
			ReferenceID: "initial-" + productID,
			ActorID:     "admin",
			Stock:       []domain.StockLeg{{ProductID: productID, Quantity: onHand}},
		})
		require.NoError(t, err)
	}
}

func (h *harness) drawer(t *testing.T) decimal.Decimal {
	t.Helper()
	s, err := h.cash.CurrentSession(context.Background())
	require.NoError(t, err)
	return s.DrawerBalance()
}

func (h *harness) accountBalance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc, err := h.accounts.GetCustomerAccount(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func (h *harness) onHand(t *testing.T, productID string) int64 {
	t.Helper()
	line, err := h.stock.GetStockLine(context.Background(), productID)
	require.NoError(t, err)
	return line.Stock
}
