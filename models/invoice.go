package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice statuses. Only draft invoices may be edited or deleted.
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
	InvoiceArchived  = "archived"
)

type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	WorkspaceID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_number,priority:1"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	InvoiceNumber string    `gorm:"uniqueIndex:idx_workspace_number,priority:2;not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`

	Date    time.Time `gorm:"not null"`
	DueDate time.Time

	Status string     `gorm:"type:varchar(20);not null;default:'draft'"`
	SentAt *time.Time // set on the first transition into sent
	PaidAt *time.Time // set on the first transition into paid

	// Derived totals in minor units (cents), never hand-entered.
	Subtotal int64 `gorm:"not null"`
	TaxTotal int64 `gorm:"not null"`
	Total    int64 `gorm:"not null"`

	Notes string

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceDraft
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string  `gorm:"not null"`
	Quantity    float64 `gorm:"type:decimal(10,2);not null;default:1"`
	Unit        string  `gorm:"type:varchar(20)"` // "Lesson" or "Hour"
	UnitPrice   int64   `gorm:"not null"`         // minor units
	TaxRate     float64 `gorm:"type:decimal(5,2);not null;default:0"`
	Total       int64   `gorm:"not null"` // minor units, before tax

	// Back-reference to the lesson this line bills, if any.
	LessonID *uuid.UUID `gorm:"type:uuid;index"`
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return
}
