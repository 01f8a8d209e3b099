package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementCategory names the ledger a movement belongs to.
type MovementCategory string

const (
	CategoryCash    MovementCategory = "CASH"
	CategoryAccount MovementCategory = "ACCOUNT"
	CategoryStock   MovementCategory = "STOCK"
)

// IsValid reports whether c is one of the three ledgers.
func (c MovementCategory) IsValid() bool {
	switch c {
	case CategoryCash, CategoryAccount, CategoryStock:
		return true
	}
	return false
}

// LockRank orders categories inside a transaction so concurrent posts take row
// locks in the same order.
func (c MovementCategory) LockRank() int {
	switch c {
	case CategoryStock:
		return 0
	case CategoryAccount:
		return 1
	case CategoryCash:
		return 2
	}
	return 3
}

// MovementKind distinguishes original postings from compensating ones.
type MovementKind string

const (
	KindOriginal MovementKind = "ORIGINAL"
	KindReversal MovementKind = "REVERSAL"
)

// Tender says whether a cash-ledger movement touched the physical drawer.
type Tender string

const (
	TenderCash    Tender = "CASH"
	TenderNonCash Tender = "NON_CASH"
)

func (t Tender) IsValid() bool {
	return t == TenderCash || t == TenderNonCash
}

// StockSource is the business origin of a stock movement.
type StockSource string

const (
	SourceSale       StockSource = "SALE"
	SourcePurchase   StockSource = "PURCHASE"
	SourceAdjustment StockSource = "ADJUSTMENT"
	SourceReturn     StockSource = "RETURN"
)

// ReferenceType is the closed set of business event types a movement can
// point at.
type ReferenceType string

const (
	RefSale       ReferenceType = "sale"
	RefIncome     ReferenceType = "income"
	RefExpense    ReferenceType = "expense"
	RefPurchase   ReferenceType = "purchase"
	RefAdjustment ReferenceType = "adjustment"
	RefReturn     ReferenceType = "return"
)

const reversalSuffix = "_reversal"

var originalReferenceTypes = map[ReferenceType]struct{}{
	RefSale:       {},
	RefIncome:     {},
	RefExpense:    {},
	RefPurchase:   {},
	RefAdjustment: {},
	RefReturn:     {},
}

// IsReversal reports whether t is the "<type>_reversal" form.
func (t ReferenceType) IsReversal() bool {
	return strings.HasSuffix(string(t), reversalSuffix)
}

// Reversal returns the "<type>_reversal" form of an original reference type.
func (t ReferenceType) Reversal() ReferenceType {
	if t.IsReversal() {
		return t
	}
	return t + reversalSuffix
}

// Original strips the reversal suffix.
func (t ReferenceType) Original() ReferenceType {
	return ReferenceType(strings.TrimSuffix(string(t), reversalSuffix))
}

// IsValid reports whether t belongs to the closed set, in either form.
func (t ReferenceType) IsValid() bool {
	_, ok := originalReferenceTypes[t.Original()]
	return ok
}

// Movement is one immutable, signed entry in the cash, account or stock log.
// AccountID is the cash session id, the customer account id or the product id
// depending on Category. For stock movements Amount is an integral quantity.
type Movement struct {
	ID                 string           `json:"id"`
	Category           MovementCategory `json:"category"`
	AccountID          string           `json:"accountId"`
	Amount             decimal.Decimal  `json:"amount"`
	Tender             Tender           `json:"tender,omitempty"`
	Source             StockSource      `json:"source,omitempty"`
	PaymentMethodID    *string          `json:"paymentMethodId,omitempty"`
	ReferenceID        string           `json:"referenceId"`
	ReferenceType      ReferenceType    `json:"referenceType"`
	Kind               MovementKind     `json:"kind"`
	ReversesMovementID *string          `json:"reversesMovementId,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	CreatedBy          string           `json:"createdBy"`
}

// Key returns the idempotency key of the movement.
func (m Movement) Key() MovementKey {
	return MovementKey{
		Category:      m.Category,
		AccountID:     m.AccountID,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
	}
}

// MovementKey identifies a movement for idempotency purposes. Cash movements
// are unique per (ReferenceID, ReferenceType) across every session, so
// AccountID is ignored for CategoryCash.
type MovementKey struct {
	Category      MovementCategory
	AccountID     string
	ReferenceID   string
	ReferenceType ReferenceType
}

// Normalized clears the fields that do not take part in uniqueness.
func (k MovementKey) Normalized() MovementKey {
	if k.Category == CategoryCash {
		k.AccountID = ""
	}
	return k
}
