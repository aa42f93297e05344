package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevenueEntry accumulates projected lesson income per workspace and
// calendar month. It is advisory (dashboard/forecast) data; invoices are
// the authoritative record of billed revenue.
type RevenueEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_month,priority:1"`
	Year        int       `gorm:"not null;uniqueIndex:idx_workspace_month,priority:2"`
	Month       int       `gorm:"not null;uniqueIndex:idx_workspace_month,priority:3"`

	// Major units, never negative.
	Amount float64 `gorm:"type:decimal(12,2);not null;default:0"`

	gorm.Model
}

func (r *RevenueEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
