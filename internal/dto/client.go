package dto

import (
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterClientRequest opens an account with the default balance.
type RegisterClientRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

// AddClientRequest opens an account with an explicit balance.
type AddClientRequest struct {
	Name    string           `json:"name" binding:"required,max=64"`
	Balance *decimal.Decimal `json:"balance" binding:"required,dnonneg" swaggertype:"string"`
}

// SetBalanceRequest overrides a client or treasury balance.
type SetBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" binding:"required,dnonneg" swaggertype:"string"`
}

// RegisterClientResponse reports whether the account was newly opened.
type RegisterClientResponse struct {
	Client  domain.ClientAccount `json:"client"`
	Created bool                 `json:"created"`
}

// CreateInstrumentRequest opens a deposit or a credit.
type CreateInstrumentRequest struct {
	ClientName   string          `json:"clientName" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"dpos" swaggertype:"string"`
	Days         int             `json:"days" binding:"required,gt=0,lte=36500"`
	InterestRate decimal.Decimal `json:"interestRate" binding:"dnonneg" swaggertype:"string"` // Annual, percent
}
