// internal/domain/models/meta.go
package models

import "time"

// DateLayout is the wire format for calendar dates (hire dates, invoice dates, ...).
const DateLayout = "2006-01-02"

// Meta is the shared identity and audit shape embedded in every record.
//
// ID is a sequential integer allocated from the counters collection and never
// reused. CreatedAt is set once on insert; UpdatedAt is refreshed by every
// mutating write and never moves backwards.
type Meta struct {
	ID        int64     `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// GetMeta gives generic store code access to the embedded Meta.
func (m *Meta) GetMeta() *Meta { return m }

// Record is satisfied by a pointer to any struct that embeds Meta.
type Record interface {
	GetMeta() *Meta
}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
