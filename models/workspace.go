package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workspace struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	Address string

	Users          []User           `gorm:"foreignKey:WorkspaceID"`
	Customers      []Customer       `gorm:"foreignKey:WorkspaceID"`
	Lessons        []Lesson         `gorm:"foreignKey:WorkspaceID"`
	Invoices       []Invoice        `gorm:"foreignKey:WorkspaceID"`
	RevenueEntries []RevenueEntry   `gorm:"foreignKey:WorkspaceID"`
	Settings       *CompanySettings `gorm:"foreignKey:WorkspaceID"`
}

func (w *Workspace) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
