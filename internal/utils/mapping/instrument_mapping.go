package mapping

import (
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/SscSPs/resource_bank/internal/models"
)

// ToModelDeposit converts a domain Deposit to a model Deposit
func ToModelDeposit(d domain.Deposit) models.Deposit {
	return models.Deposit{
		DepositID:      d.DepositID,
		ClientName:     d.ClientName,
		Amount:         d.Amount,
		InterestRate:   d.InterestRate,
		Days:           d.Days,
		CreatedAt:      d.CreatedAt,
		PayoutAt:       d.PayoutAt,
		InterestEarned: d.InterestEarned,
		Status:         string(d.Status),
		ClosedAt:       d.ClosedAt,
		PaidOut:        d.PaidOut,
	}
}

// ToDomainDeposit converts a model Deposit to a domain Deposit
func ToDomainDeposit(m models.Deposit) domain.Deposit {
	return domain.Deposit{
		DepositID:      m.DepositID,
		ClientName:     m.ClientName,
		Amount:         m.Amount,
		InterestRate:   m.InterestRate,
		Days:           m.Days,
		CreatedAt:      m.CreatedAt,
		PayoutAt:       m.PayoutAt,
		InterestEarned: m.InterestEarned,
		Status:         domain.DepositStatus(m.Status),
		ClosedAt:       m.ClosedAt,
		PaidOut:        m.PaidOut,
	}
}

// ToModelCredit converts a domain Credit to a model Credit
func ToModelCredit(d domain.Credit) models.Credit {
	return models.Credit{
		CreditID:     d.CreditID,
		ClientName:   d.ClientName,
		Amount:       d.Amount,
		InterestRate: d.InterestRate,
		Days:         d.Days,
		CreatedAt:    d.CreatedAt,
		DueAt:        d.DueAt,
		InterestOwed: d.InterestOwed,
		Status:       string(d.Status),
		ClosedAt:     d.ClosedAt,
		Repaid:       d.Repaid,
	}
}

// ToDomainCredit converts a model Credit to a domain Credit
func ToDomainCredit(m models.Credit) domain.Credit {
	return domain.Credit{
		CreditID:     m.CreditID,
		ClientName:   m.ClientName,
		Amount:       m.Amount,
		InterestRate: m.InterestRate,
		Days:         m.Days,
		CreatedAt:    m.CreatedAt,
		DueAt:        m.DueAt,
		InterestOwed: m.InterestOwed,
		Status:       domain.CreditStatus(m.Status),
		ClosedAt:     m.ClosedAt,
		Repaid:       m.Repaid,
	}
}
