package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an event on the bus.
type EventType string

const (
	EventMovementPosted      EventType = "movement_posted"
	EventCreditLimitExceeded EventType = "credit_limit_exceeded"
	EventCashSessionOpened   EventType = "cash_session_opened"
	EventCashSessionClosed   EventType = "cash_session_closed"
	EventCashSessionStale    EventType = "cash_session_stale"
)

// Event is anything published after a ledger transaction commits.
type Event interface {
	EventType() EventType
}

// MovementPosted feeds the audit log with every fresh movement and the
// balance it produced.
type MovementPosted struct {
	Movement Movement        `json:"movement"`
	Before   decimal.Decimal `json:"before"`
	After    decimal.Decimal `json:"after"`
}

func (MovementPosted) EventType() EventType { return EventMovementPosted }

// CreditLimitExceeded is raised once when an account balance crosses its limit.
type CreditLimitExceeded struct {
	AccountID   string          `json:"accountId"`
	CustomerID  string          `json:"customerId"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Previous    decimal.Decimal `json:"previous"`
	Current     decimal.Decimal `json:"current"`
	ReferenceID string          `json:"referenceId"`
}

func (CreditLimitExceeded) EventType() EventType { return EventCreditLimitExceeded }

type CashSessionOpened struct {
	Session CashRegisterSession `json:"session"`
}

func (CashSessionOpened) EventType() EventType { return EventCashSessionOpened }

type CashSessionClosed struct {
	Session CashRegisterSession `json:"session"`
}

func (CashSessionClosed) EventType() EventType { return EventCashSessionClosed }

// CashSessionStale is raised by the monitor for a session open longer than a
// business day.
type CashSessionStale struct {
	SessionID string        `json:"sessionId"`
	OpenedAt  time.Time     `json:"openedAt"`
	OpenFor   time.Duration `json:"openFor"`
}

func (CashSessionStale) EventType() EventType { return EventCashSessionStale }
