package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// tables is the unlocked state of the store. Every write records an undo
// closure so a failed transaction can be rolled back. Callers hold Store.mu.
type tables struct {
	movements []domain.Movement
	byKey     map[domain.MovementKey]int

	sessions map[string]domain.CashRegisterSession

	accounts           map[string]domain.CustomerAccount
	accountsByCustomer map[string]string

	stock map[string]domain.StockLine

	undo []func()
}

func newTables() *tables {
	return &tables{
		byKey:              make(map[domain.MovementKey]int),
		sessions:           make(map[string]domain.CashRegisterSession),
		accounts:           make(map[string]domain.CustomerAccount),
		accountsByCustomer: make(map[string]string),
		stock:              make(map[string]domain.StockLine),
	}
}

var _ portsrepo.LedgerTx = (*tables)(nil)

func (t *tables) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// --- movements ---

func (t *tables) InsertMovement(_ context.Context, m domain.Movement) (bool, error) {
	key := m.Key().Normalized()
	if _, exists := t.byKey[key]; exists {
		return false, nil
	}
	t.movements = append(t.movements, m)
	t.byKey[key] = len(t.movements) - 1
	t.undo = append(t.undo, func() {
		t.movements = t.movements[:len(t.movements)-1]
		delete(t.byKey, key)
	})
	return true, nil
}

func (t *tables) FindMovementByKey(_ context.Context, key domain.MovementKey) (*domain.Movement, error) {
	idx, ok := t.byKey[key.Normalized()]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	m := t.movements[idx]
	return &m, nil
}

func (t *tables) FindOriginalMovementsByReference(_ context.Context, referenceID string, referenceType domain.ReferenceType) ([]domain.Movement, error) {
	var out []domain.Movement
	for _, m := range t.movements {
		if m.Kind == domain.KindOriginal && m.ReferenceID == referenceID && m.ReferenceType == referenceType {
			out = append(out, m)
		}
	}
	return out, nil
}

func (t *tables) SumCashMovementsBySession(_ context.Context, sessionID string) (decimal.Decimal, decimal.Decimal, error) {
	cash, nonCash := decimal.Zero, decimal.Zero
	for _, m := range t.movements {
		if m.Category != domain.CategoryCash || m.AccountID != sessionID {
			continue
		}
		if m.Tender == domain.TenderNonCash {
			nonCash = nonCash.Add(m.Amount)
		} else {
			cash = cash.Add(m.Amount)
		}
	}
	return cash, nonCash, nil
}

func (t *tables) SumMovements(_ context.Context, category domain.MovementCategory, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range t.movements {
		if m.Category == category && m.AccountID == accountID {
			sum = sum.Add(m.Amount)
		}
	}
	return sum, nil
}

func (t *tables) ListMovements(_ context.Context, filter portsrepo.MovementFilter, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	var cursorAt time.Time
	var cursorID string
	if nextToken != nil && *nextToken != "" {
		var err error
		cursorAt, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%s", err.Error())
		}
	}

	var matched []domain.Movement
	for _, m := range t.movements {
		if m.Category != filter.Category {
			continue
		}
		if filter.AccountID != "" && m.AccountID != filter.AccountID {
			continue
		}
		if filter.ReferenceID != "" && m.ReferenceID != filter.ReferenceID {
			continue
		}
		if filter.CreatedBefore != nil && !m.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		if cursorID != "" && !before(m.CreatedAt, m.ID, cursorAt, cursorID) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		return before(matched[j].CreatedAt, matched[j].ID, matched[i].CreatedAt, matched[i].ID)
	})

	limit = pagination.ClampLimit(limit)
	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.ID)
	return page, &token, nil
}

// before reports whether (at, id) sorts after (refAt, refID) in newest-first order.
func before(at time.Time, id string, refAt time.Time, refID string) bool {
	if at.Equal(refAt) {
		return id < refID
	}
	return at.Before(refAt)
}

// --- cash register sessions ---

func (t *tables) FindOpenSession(_ context.Context) (*domain.CashRegisterSession, error) {
	for _, s := range t.sessions {
		if s.IsOpen() {
			s := s
			return &s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (t *tables) LockOpenSession(ctx context.Context) (*domain.CashRegisterSession, error) {
	return t.FindOpenSession(ctx)
}

func (t *tables) FindSessionByID(_ context.Context, sessionID string) (*domain.CashRegisterSession, error) {
	s, ok := t.sessions[sessionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("cash register session " + sessionID)
	}
	return &s, nil
}

func (t *tables) ListSessions(_ context.Context, limit int, nextToken *string) ([]domain.CashRegisterSession, *string, error) {
	var cursorAt time.Time
	var cursorID string
	if nextToken != nil && *nextToken != "" {
		var err error
		cursorAt, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%s", err.Error())
		}
	}

	var all []domain.CashRegisterSession
	for _, s := range t.sessions {
		if cursorID != "" && !before(s.OpenedAt, s.ID, cursorAt, cursorID) {
			continue
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return before(all[j].OpenedAt, all[j].ID, all[i].OpenedAt, all[i].ID)
	})

	limit = pagination.ClampLimit(limit)
	if len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.OpenedAt, last.ID)
	return page, &token, nil
}

func (t *tables) InsertSession(ctx context.Context, session domain.CashRegisterSession) error {
	if session.IsOpen() {
		if _, err := t.FindOpenSession(ctx); err == nil {
			return apperrors.ErrSessionAlreadyOpen
		}
	}
	if _, exists := t.sessions[session.ID]; exists {
		return apperrors.ErrDuplicate
	}
	t.sessions[session.ID] = session
	t.undo = append(t.undo, func() { delete(t.sessions, session.ID) })
	return nil
}

func (t *tables) UpdateSessionTotals(_ context.Context, sessionID string, cashTotal, nonCashTotal decimal.Decimal) error {
	prev, ok := t.sessions[sessionID]
	if !ok {
		return apperrors.NewNotFoundError("cash register session " + sessionID)
	}
	next := prev
	next.CashTotal = cashTotal
	next.NonCashTotal = nonCashTotal
	t.sessions[sessionID] = next
	t.undo = append(t.undo, func() { t.sessions[sessionID] = prev })
	return nil
}

func (t *tables) CloseSession(_ context.Context, session domain.CashRegisterSession) error {
	prev, ok := t.sessions[session.ID]
	if !ok {
		return apperrors.NewNotFoundError("cash register session " + session.ID)
	}
	t.sessions[session.ID] = session
	t.undo = append(t.undo, func() { t.sessions[session.ID] = prev })
	return nil
}

// --- customer accounts ---

func (t *tables) FindCustomerAccountByID(_ context.Context, accountID string) (*domain.CustomerAccount, error) {
	acc, ok := t.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("customer account " + accountID)
	}
	return &acc, nil
}

func (t *tables) FindCustomerAccountByCustomerID(ctx context.Context, customerID string) (*domain.CustomerAccount, error) {
	id, ok := t.accountsByCustomer[customerID]
	if !ok {
		return nil, apperrors.NewNotFoundError("customer account for customer " + customerID)
	}
	return t.FindCustomerAccountByID(ctx, id)
}

func (t *tables) LockCustomerAccount(ctx context.Context, accountID string) (*domain.CustomerAccount, error) {
	return t.FindCustomerAccountByID(ctx, accountID)
}

func (t *tables) SaveCustomerAccount(_ context.Context, account domain.CustomerAccount) error {
	if _, exists := t.accountsByCustomer[account.CustomerID]; exists {
		return apperrors.ErrDuplicate
	}
	if _, exists := t.accounts[account.ID]; exists {
		return apperrors.ErrDuplicate
	}
	t.accounts[account.ID] = account
	t.accountsByCustomer[account.CustomerID] = account.ID
	t.undo = append(t.undo, func() {
		delete(t.accounts, account.ID)
		delete(t.accountsByCustomer, account.CustomerID)
	})
	return nil
}

func (t *tables) UpdateCustomerAccountBalance(_ context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	return t.mutateAccount(accountID, func(acc *domain.CustomerAccount) {
		acc.Balance = balance
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
	})
}

func (t *tables) UpdateCustomerAccountStatus(_ context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	return t.mutateAccount(accountID, func(acc *domain.CustomerAccount) {
		acc.Status = status
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
	})
}

func (t *tables) mutateAccount(accountID string, fn func(acc *domain.CustomerAccount)) error {
	prev, ok := t.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("customer account " + accountID)
	}
	next := prev
	fn(&next)
	t.accounts[accountID] = next
	t.undo = append(t.undo, func() { t.accounts[accountID] = prev })
	return nil
}

// --- stock lines ---

func (t *tables) FindStockLine(_ context.Context, productID string) (*domain.StockLine, error) {
	line, ok := t.stock[productID]
	if !ok {
		return nil, apperrors.NewNotFoundError("stock line for product " + productID)
	}
	return &line, nil
}

func (t *tables) LockStockLine(ctx context.Context, productID string) (*domain.StockLine, error) {
	return t.FindStockLine(ctx, productID)
}

func (t *tables) SaveStockLine(_ context.Context, line domain.StockLine) error {
	if _, exists := t.stock[line.ProductID]; exists {
		return apperrors.ErrDuplicate
	}
	t.stock[line.ProductID] = line
	t.undo = append(t.undo, func() { delete(t.stock, line.ProductID) })
	return nil
}

func (t *tables) UpdateStockLevel(_ context.Context, productID string, stock int64, userID string, now time.Time) error {
	return t.mutateStock(productID, func(line *domain.StockLine) {
		line.Stock = stock
		line.LastUpdatedAt = now
		line.LastUpdatedBy = userID
	})
}

func (t *tables) UpdateStockBackorder(_ context.Context, productID string, allowBackorder bool, userID string, now time.Time) error {
	return t.mutateStock(productID, func(line *domain.StockLine) {
		line.AllowBackorder = allowBackorder
		line.LastUpdatedAt = now
		line.LastUpdatedBy = userID
	})
}

func (t *tables) mutateStock(productID string, fn func(line *domain.StockLine)) error {
	prev, ok := t.stock[productID]
	if !ok {
		return apperrors.NewNotFoundError("stock line for product " + productID)
	}
	next := prev
	fn(&next)
	t.stock[productID] = next
	t.undo = append(t.undo, func() { t.stock[productID] = prev })
	return nil
}

// --- reporting ---

func (t *tables) sessionPaymentBreakdown(sessionID string) []domain.PaymentMethodTotal {
	type groupKey struct {
		method string
		hasID  bool
		tender domain.Tender
	}
	totals := make(map[groupKey]*domain.PaymentMethodTotal)
	var order []groupKey
	for _, m := range t.movements {
		if m.Category != domain.CategoryCash || m.AccountID != sessionID {
			continue
		}
		k := groupKey{tender: m.Tender}
		if m.PaymentMethodID != nil {
			k.method, k.hasID = *m.PaymentMethodID, true
		}
		row, ok := totals[k]
		if !ok {
			row = &domain.PaymentMethodTotal{Tender: m.Tender, Total: decimal.Zero}
			if k.hasID {
				id := k.method
				row.PaymentMethodID = &id
			}
			totals[k] = row
			order = append(order, k)
		}
		row.Total = row.Total.Add(m.Amount)
		row.Count++
	}

	out := make([]domain.PaymentMethodTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *totals[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tender != out[j].Tender {
			return out[i].Tender < out[j].Tender
		}
		return methodName(out[i].PaymentMethodID) < methodName(out[j].PaymentMethodID)
	})
	return out
}

func methodName(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
