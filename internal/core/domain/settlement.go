package domain

import "github.com/shopspring/decimal"

// SettlementOperation names the direction of a resource settlement.
type SettlementOperation string

const (
	OperationDeposit  SettlementOperation = "DEPOSIT"
	OperationWithdraw SettlementOperation = "WITHDRAW"
)

// Quote is a priced, not yet executed, resource movement.
// For inverse quotes CapacityExceeded reports that the search stopped at its iteration ceiling.
type Quote struct {
	Resource         string              `json:"resource"`
	Operation        SettlementOperation `json:"operation"`
	Units            int64               `json:"units"`
	Amount           decimal.Decimal     `json:"amount"`
	SpotPrice        decimal.Decimal     `json:"spotPrice"`
	Float            int64               `json:"float"`
	Wealth           decimal.Decimal     `json:"wealth"`
	CapacityExceeded bool                `json:"capacityExceeded"`
}

// Settlement is the committed outcome of a resource deposit or withdrawal.
type Settlement struct {
	Operation       SettlementOperation
	ClientName      string
	Resource        string
	Units           int64
	Amount          decimal.Decimal
	ClientBalance   decimal.Decimal
	TreasuryBalance decimal.Decimal
	Float           int64
}
