package mapping

import (
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/SscSPs/resource_bank/internal/models"
)

// ToModelResource converts a domain Resource to a model Resource
func ToModelResource(d domain.Resource) models.Resource {
	return models.Resource{
		Name:        d.Name,
		FloatUnits:  d.Float,
		BaseRate:    d.BaseRate,
		AuditFields: ToModelAuditFields(d.Timestamps),
	}
}

// ToDomainResource converts a model Resource to a domain Resource
func ToDomainResource(m models.Resource) domain.Resource {
	return domain.Resource{
		Name:       m.Name,
		Float:      m.FloatUnits,
		BaseRate:   m.BaseRate,
		Timestamps: ToDomainTimestamps(m.AuditFields),
	}
}

// ToDomainPricePoint converts a price_history row
func ToDomainPricePoint(m models.PricePoint) domain.PricePoint {
	return domain.PricePoint{ID: m.ID, ResourceName: m.ResourceName, Price: m.Price, Timestamp: m.RecordedAt}
}
