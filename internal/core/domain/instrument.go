package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus is the lifecycle state of a deposit.
type DepositStatus string

const (
	DepositActive      DepositStatus = "ACTIVE"
	DepositMatured     DepositStatus = "MATURED"
	DepositEarlyClosed DepositStatus = "EARLY_CLOSED"
)

// CreditStatus is the lifecycle state of a credit.
type CreditStatus string

const (
	CreditActive  CreditStatus = "ACTIVE"
	CreditExpired CreditStatus = "EXPIRED" // Due date passed; not collected
	CreditRepaid  CreditStatus = "REPAID"
)

// Deposit is cash a client committed to the treasury for a fixed term.
// InterestEarned is fixed at creation and never re-derived.
type Deposit struct {
	DepositID      string          `json:"depositID"`
	ClientName     string          `json:"clientName"`
	Amount         decimal.Decimal `json:"amount"`
	InterestRate   decimal.Decimal `json:"interestRate"` // Annual, percent
	Days           int             `json:"days"`
	CreatedAt      time.Time       `json:"createdAt"`
	PayoutAt       time.Time       `json:"payoutAt"`
	InterestEarned decimal.Decimal `json:"interestEarned"`
	Status         DepositStatus   `json:"status"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty"`
	PaidOut        decimal.Decimal `json:"paidOut"`
}

// IsActive reports whether the deposit has not yet been paid out.
func (d Deposit) IsActive() bool {
	return d.Status == DepositActive
}

// Credit is cash the treasury advanced to a client for a fixed term.
// InterestOwed is fixed at creation and never re-derived.
type Credit struct {
	CreditID     string          `json:"creditID"`
	ClientName   string          `json:"clientName"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"` // Annual, percent
	Days         int             `json:"days"`
	CreatedAt    time.Time       `json:"createdAt"`
	DueAt        time.Time       `json:"dueAt"`
	InterestOwed decimal.Decimal `json:"interestOwed"`
	Status       CreditStatus    `json:"status"`
	ClosedAt     *time.Time      `json:"closedAt,omitempty"`
	Repaid       decimal.Decimal `json:"repaid"`
}

// IsActive reports whether the credit is still outstanding.
func (c Credit) IsActive() bool {
	return c.Status == CreditActive
}

// InstrumentFailure records why one instrument in a scheduled batch could not be settled.
type InstrumentFailure struct {
	InstrumentID string `json:"instrumentID"`
	ClientName   string `json:"clientName"`
	Reason       string `json:"reason"`
}

// DepositRunReport summarises one pass over matured deposits.
type DepositRunReport struct {
	RunAt     time.Time           `json:"runAt"`
	Processed []Deposit           `json:"processed"`
	Failed    []InstrumentFailure `json:"failed"`
	TotalPaid decimal.Decimal     `json:"totalPaid"`
}

// CreditRunReport summarises one pass over overdue credits.
type CreditRunReport struct {
	RunAt   time.Time           `json:"runAt"`
	Expired []Credit            `json:"expired"`
	Failed  []InstrumentFailure `json:"failed"`

	// Uncollected is the principal plus interest written off by this run.
	Uncollected decimal.Decimal `json:"uncollected"`
}
