package dto

import (
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// QuoteUnitsRequest prices moving a number of units of a resource.
type QuoteUnitsRequest struct {
	Resource string `json:"resource" binding:"required"`
	Units    int64  `json:"units" binding:"required,gt=0"`
}

// QuoteTargetRequest asks how many units must be deposited to earn Target.
type QuoteTargetRequest struct {
	Resource string          `json:"resource" binding:"required"`
	Target   decimal.Decimal `json:"target" binding:"dpos" swaggertype:"string"`
}

// QuoteBudgetRequest asks how many units Budget can withdraw.
type QuoteBudgetRequest struct {
	Resource string          `json:"resource" binding:"required"`
	Budget   decimal.Decimal `json:"budget" binding:"dnonneg" swaggertype:"string"`
}

// SettlementRequest moves units of a resource between a client and the treasury.
type SettlementRequest struct {
	ClientName string `json:"clientName" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Units      int64  `json:"units" binding:"required,gt=0"`
}

// SetFloatRequest overrides a resource's treasury float.
type SetFloatRequest struct {
	Float *int64 `json:"float" binding:"required,gte=0"`
}

// AddResourceRequest introduces a new resource.
type AddResourceRequest struct {
	Name     string          `json:"name" binding:"required,max=64"`
	Float    *int64          `json:"float" binding:"required,gte=0"`
	BaseRate decimal.Decimal `json:"baseRate" binding:"dpos" swaggertype:"string"`
}

// UpdateRateRequest replaces a resource's base rate.
type UpdateRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"dpos" swaggertype:"string"`
}

// SettlementResponse is the committed outcome of a resource settlement.
type SettlementResponse struct {
	Operation       domain.SettlementOperation `json:"operation"`
	ClientName      string                     `json:"clientName"`
	Resource        string                     `json:"resource"`
	Units           int64                      `json:"units"`
	Amount          decimal.Decimal            `json:"amount" swaggertype:"string"`
	ClientBalance   decimal.Decimal            `json:"clientBalance" swaggertype:"string"`
	TreasuryBalance decimal.Decimal            `json:"treasuryBalance" swaggertype:"string"`
	Float           int64                      `json:"float"`
	SettledBy       string                     `json:"settledBy,omitempty"`
}

// ToSettlementResponse converts a domain.Settlement to its response DTO
func ToSettlementResponse(s *domain.Settlement, settledBy string) SettlementResponse {
	return SettlementResponse{
		Operation:       s.Operation,
		ClientName:      s.ClientName,
		Resource:        s.Resource,
		Units:           s.Units,
		Amount:          s.Amount,
		ClientBalance:   s.ClientBalance,
		TreasuryBalance: s.TreasuryBalance,
		Float:           s.Float,
		SettledBy:       settledBy,
	}
}

// PricePointResponse is one entry of a resource's price history.
type PricePointResponse struct {
	Price     decimal.Decimal `json:"price" swaggertype:"string"`
	Timestamp time.Time       `json:"timestamp"`
}

// PriceHistoryResponse lists the latest prices of a resource, most recent first.
type PriceHistoryResponse struct {
	Resource  string               `json:"resource"`
	Points    []PricePointResponse `json:"points"`
	NextToken string               `json:"nextToken,omitempty"`
}

// ToPriceHistoryResponse converts price points to the history response
func ToPriceHistoryResponse(resource string, points []domain.PricePoint, nextToken string) PriceHistoryResponse {
	res := PriceHistoryResponse{Resource: resource, Points: make([]PricePointResponse, len(points)), NextToken: nextToken}
	for i, p := range points {
		res.Points[i] = PricePointResponse{Price: p.Price, Timestamp: p.Timestamp}
	}
	return res
}

// ClearHistoryResponse reports how many price points were removed.
type ClearHistoryResponse struct {
	Removed int64 `json:"removed"`
}
