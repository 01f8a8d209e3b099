package domain

import "github.com/shopspring/decimal"

// PostKind is the business event being posted through the ledger.
type PostKind string

const (
	PostSale       PostKind = "SALE"
	PostIncome     PostKind = "INCOME"
	PostExpense    PostKind = "EXPENSE"
	PostPurchase   PostKind = "PURCHASE"
	PostAdjustment PostKind = "ADJUSTMENT"
	PostReturn     PostKind = "RETURN"
)

// ReferenceType maps the kind to the reference type its movements carry.
func (k PostKind) ReferenceType() ReferenceType {
	switch k {
	case PostSale:
		return RefSale
	case PostIncome:
		return RefIncome
	case PostExpense:
		return RefExpense
	case PostPurchase:
		return RefPurchase
	case PostAdjustment:
		return RefAdjustment
	case PostReturn:
		return RefReturn
	}
	return ""
}

// StockSource maps the kind to the source stamped on its stock movements.
func (k PostKind) StockSource() StockSource {
	switch k {
	case PostSale:
		return SourceSale
	case PostPurchase:
		return SourcePurchase
	case PostReturn:
		return SourceReturn
	case PostAdjustment:
		return SourceAdjustment
	}
	return ""
}

// CashLeg is the money-in-drawer part of a posting. SessionID is optional; when
// set, posting fails unless it names the open session.
type CashLeg struct {
	Amount    decimal.Decimal
	Tender    Tender
	SessionID string
}

// AccountLeg is the customer current account part of a posting.
type AccountLeg struct {
	AccountID string
	Amount    decimal.Decimal
}

// StockLeg is one product line of a posting.
type StockLeg struct {
	ProductID string
	Quantity  int64
}

// PostRequest is a single business event with up to one cash leg, one account
// leg and any number of stock legs. Amounts and quantities are magnitudes
// except for PostAdjustment, where they carry their own sign.
type PostRequest struct {
	Kind            PostKind
	ReferenceID     string
	ActorID         string
	PaymentMethodID *string
	Cash            *CashLeg
	Account         *AccountLeg
	Stock           []StockLeg
}

// ReverseRequest undoes every original movement of one business event.
type ReverseRequest struct {
	ReferenceID   string
	ReferenceType ReferenceType
	ActorID       string
}

// Balance is the state of one derived balance around a posting. For cash it
// is the drawer balance of the session.
type Balance struct {
	Category  MovementCategory `json:"category"`
	AccountID string           `json:"accountId"`
	Previous  decimal.Decimal  `json:"previous"`
	Current   decimal.Decimal  `json:"current"`
}

// LedgerResult is what a post or a reversal returns. Replayed is true when
// every movement already existed.
type LedgerResult struct {
	ReferenceID   string        `json:"referenceId"`
	ReferenceType ReferenceType `json:"referenceType"`
	Movements     []Movement    `json:"movements"`
	Balances      []Balance     `json:"balances"`
	Replayed      bool          `json:"replayed"`
}

// BalanceCheck compares a stored balance with the sum of its movements.
type BalanceCheck struct {
	Category      MovementCategory `json:"category"`
	AccountID     string           `json:"accountId"`
	Stored        decimal.Decimal  `json:"stored"`
	Reconstructed decimal.Decimal  `json:"reconstructed"`
	Consistent    bool             `json:"consistent"`
}
