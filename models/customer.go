package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	WorkspaceID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_phone,priority:1"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	Name  string `gorm:"not null"`
	Phone string `gorm:"uniqueIndex:idx_workspace_phone,priority:2"`
	Email string
	Notes string

	// Billing defaults; nil falls back to the workspace settings.
	HourlyRate       *float64 `gorm:"type:decimal(10,2)"` // major units per hour
	PaymentTermsDays *int
	VATExempt        bool `gorm:"default:false"`

	// Invoice line description templates; the first entry is used for
	// generated lesson lines.
	ServiceDescriptions StringList `gorm:"type:jsonb;default:'[]'"`

	IsActive bool `gorm:"default:true"`

	Lessons  []Lesson  `gorm:"foreignKey:CustomerID"`
	Invoices []Invoice `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// StringList is a JSONB-backed string array column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}
