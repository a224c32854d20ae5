package domain

import "time"

// Timestamps holds standard record-keeping times for domain entities.
type Timestamps struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
