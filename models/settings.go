package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Defaults applied when a workspace issues its first invoice before ever
// touching its settings.
const (
	DefaultNextInvoiceNumber = 1000
	DefaultTaxRate           = 19.0
	DefaultPaymentTermsDays  = 14
)

// CompanySettings holds per-workspace invoicing configuration, created
// lazily the first time an invoice number is needed.
type CompanySettings struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	InvoicePrefix     string
	NextInvoiceNumber int `gorm:"not null;default:1000"` // only ever increases

	DefaultPaymentTermsDays int     `gorm:"not null;default:14"`
	DefaultTaxRate          float64 `gorm:"type:decimal(5,2);not null;default:19"`
	DefaultHourlyRate       float64 `gorm:"type:decimal(10,2);not null;default:0"` // major units

	gorm.Model
}

func (s *CompanySettings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
