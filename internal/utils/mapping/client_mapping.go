package mapping

import (
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/SscSPs/resource_bank/internal/models"
)

// ToModelAuditFields converts domain timestamps to model audit fields
func ToModelAuditFields(d domain.Timestamps) models.AuditFields {
	return models.AuditFields{CreatedAt: d.CreatedAt, LastUpdatedAt: d.LastUpdatedAt}
}

// ToDomainTimestamps converts model audit fields to domain timestamps
func ToDomainTimestamps(m models.AuditFields) domain.Timestamps {
	return domain.Timestamps{CreatedAt: m.CreatedAt, LastUpdatedAt: m.LastUpdatedAt}
}

// ToModelClient converts a domain ClientAccount to a model Client
func ToModelClient(d domain.ClientAccount) models.Client {
	return models.Client{Name: d.Name, Balance: d.Balance, AuditFields: ToModelAuditFields(d.Timestamps)}
}

// ToDomainClient converts a model Client to a domain ClientAccount
func ToDomainClient(m models.Client) domain.ClientAccount {
	return domain.ClientAccount{Name: m.Name, Balance: m.Balance, Timestamps: ToDomainTimestamps(m.AuditFields)}
}

// ToDomainTreasury converts the treasury row
func ToDomainTreasury(m models.Treasury) domain.Treasury {
	return domain.Treasury{Balance: m.Balance, LastUpdatedAt: m.LastUpdatedAt}
}
