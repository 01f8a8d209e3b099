package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CashLegRequest is the drawer part of a posting.
type CashLegRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"decimalnonzero,moneyscale"`
	Tender    domain.Tender   `json:"tender" binding:"omitempty,oneof=CASH NON_CASH"` // defaults to CASH
	SessionID string          `json:"sessionId"`                                      // Optional: must name the open session
}

// AccountLegRequest is the customer current account part of a posting.
type AccountLegRequest struct {
	AccountID string          `json:"accountId" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"decimalnonzero,moneyscale"`
}

// StockLegRequest is one product line of a posting.
type StockLegRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,ne=0,min=-1000000000000,max=1000000000000"`
}

// PostMovementRequest defines a business event posted to the ledger.
// Amounts are magnitudes except for ADJUSTMENT, which is signed.
type PostMovementRequest struct {
	Kind            domain.PostKind    `json:"kind" binding:"required,oneof=SALE INCOME EXPENSE PURCHASE ADJUSTMENT RETURN"`
	ReferenceID     string             `json:"referenceId" binding:"required,max=128"`
	PaymentMethodID *string            `json:"paymentMethodId"`
	Cash            *CashLegRequest    `json:"cash"`
	Account         *AccountLegRequest `json:"account"`
	Stock           []StockLegRequest  `json:"stock" binding:"omitempty,dive"`
}

// ToPostRequest converts the request into the domain posting for actorID.
func (r PostMovementRequest) ToPostRequest(actorID string) domain.PostRequest {
	req := domain.PostRequest{
		Kind:            r.Kind,
		ReferenceID:     r.ReferenceID,
		ActorID:         actorID,
		PaymentMethodID: r.PaymentMethodID,
	}
	if r.Cash != nil {
		tender := r.Cash.Tender
		if tender == "" {
			tender = domain.TenderCash
		}
		req.Cash = &domain.CashLeg{Amount: r.Cash.Amount, Tender: tender, SessionID: r.Cash.SessionID}
	}
	if r.Account != nil {
		req.Account = &domain.AccountLeg{AccountID: r.Account.AccountID, Amount: r.Account.Amount}
	}
	for _, s := range r.Stock {
		req.Stock = append(req.Stock, domain.StockLeg{ProductID: s.ProductID, Quantity: s.Quantity})
	}
	return req
}

// ReverseMovementRequest undoes every original movement of a business event.
type ReverseMovementRequest struct {
	ReferenceID   string               `json:"referenceId" binding:"required,max=128"`
	ReferenceType domain.ReferenceType `json:"referenceType" binding:"required,reftype"`
}

// MovementResponse mirrors domain.Movement.
type MovementResponse struct {
	ID                 string                  `json:"id"`
	Category           domain.MovementCategory `json:"category"`
	AccountID          string                  `json:"accountId"`
	Amount             decimal.Decimal         `json:"amount"`
	Tender             domain.Tender           `json:"tender,omitempty"`
	Source             domain.StockSource      `json:"source,omitempty"`
	PaymentMethodID    *string                 `json:"paymentMethodId,omitempty"`
	ReferenceID        string                  `json:"referenceId"`
	ReferenceType      domain.ReferenceType    `json:"referenceType"`
	Kind               domain.MovementKind     `json:"kind"`
	ReversesMovementID *string                 `json:"reversesMovementId,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	CreatedBy          string                  `json:"createdBy"`
}

// BalanceResponse is one balance touched by a posting.
type BalanceResponse struct {
	Category  domain.MovementCategory `json:"category"`
	AccountID string                  `json:"accountId"`
	Previous  decimal.Decimal         `json:"previous"`
	Current   decimal.Decimal         `json:"current"`
}

// LedgerResultResponse is returned by post and reverse.
type LedgerResultResponse struct {
	ReferenceID   string               `json:"referenceId"`
	ReferenceType domain.ReferenceType `json:"referenceType"`
	Movements     []MovementResponse   `json:"movements"`
	Balances      []BalanceResponse    `json:"balances"`
	Replayed      bool                 `json:"replayed"`
}

// ListMovementsParams defines query parameters for listing movements.
type ListMovementsParams struct {
	Category    domain.MovementCategory `form:"category" binding:"required,oneof=CASH ACCOUNT STOCK"`
	AccountID   string                  `form:"accountId"`
	ReferenceID string                  `form:"referenceId"`
	Limit       int                     `form:"limit,default=50"`
	NextToken   *string                 `form:"nextToken"`
}

// ListMovementsResponse is a page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// BalanceCheckResponse mirrors domain.BalanceCheck.
type BalanceCheckResponse struct {
	Category      domain.MovementCategory `json:"category"`
	AccountID     string                  `json:"accountId"`
	Stored        decimal.Decimal         `json:"stored"`
	Reconstructed decimal.Decimal         `json:"reconstructed"`
	Consistent    bool                    `json:"consistent"`
}

func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		ID:                 m.ID,
		Category:           m.Category,
		AccountID:          m.AccountID,
		Amount:             m.Amount,
		Tender:             m.Tender,
		Source:             m.Source,
		PaymentMethodID:    m.PaymentMethodID,
		ReferenceID:        m.ReferenceID,
		ReferenceType:      m.ReferenceType,
		Kind:               m.Kind,
		ReversesMovementID: m.ReversesMovementID,
		CreatedAt:          m.CreatedAt,
		CreatedBy:          m.CreatedBy,
	}
}

func ToMovementResponses(movements []domain.Movement) []MovementResponse {
	res := make([]MovementResponse, len(movements))
	for i, m := range movements {
		res[i] = ToMovementResponse(&m)
	}
	return res
}

// ToLedgerResultResponse converts a domain.LedgerResult.
func ToLedgerResultResponse(r *domain.LedgerResult) LedgerResultResponse {
	balances := make([]BalanceResponse, len(r.Balances))
	for i, b := range r.Balances {
		balances[i] = BalanceResponse{
			Category:  b.Category,
			AccountID: b.AccountID,
			Previous:  b.Previous,
			Current:   b.Current,
		}
	}
	return LedgerResultResponse{
		ReferenceID:   r.ReferenceID,
		ReferenceType: r.ReferenceType,
		Movements:     ToMovementResponses(r.Movements),
		Balances:      balances,
		Replayed:      r.Replayed,
	}
}

func ToBalanceCheckResponse(c *domain.BalanceCheck) BalanceCheckResponse {
	return BalanceCheckResponse{
		Category:      c.Category,
		AccountID:     c.AccountID,
		Stored:        c.Stored,
		Reconstructed: c.Reconstructed,
		Consistent:    c.Consistent,
	}
}
