package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is a row of the deposits table.
type Deposit struct {
	DepositID      string          `db:"deposit_id"`
	ClientName     string          `db:"client_name"`
	Amount         decimal.Decimal `db:"amount"`
	InterestRate   decimal.Decimal `db:"interest_rate"`
	Days           int             `db:"days"`
	CreatedAt      time.Time       `db:"created_at"`
	PayoutAt       time.Time       `db:"payout_at"`
	InterestEarned decimal.Decimal `db:"interest_earned"`
	Status         string          `db:"status"`
	ClosedAt       *time.Time      `db:"closed_at"` // Nullable
	PaidOut        decimal.Decimal `db:"paid_out"`
}

// Credit is a row of the credits table.
type Credit struct {
	CreditID     string          `db:"credit_id"`
	ClientName   string          `db:"client_name"`
	Amount       decimal.Decimal `db:"amount"`
	InterestRate decimal.Decimal `db:"interest_rate"`
	Days         int             `db:"days"`
	CreatedAt    time.Time       `db:"created_at"`
	DueAt        time.Time       `db:"due_at"`
	InterestOwed decimal.Decimal `db:"interest_owed"`
	Status       string          `db:"status"`
	ClosedAt     *time.Time      `db:"closed_at"` // Nullable
	Repaid       decimal.Decimal `db:"repaid"`
}
