package models

import "time"

// AuditFields holds the record-keeping columns shared by mutable tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
