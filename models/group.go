package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a set of students taught together in one lesson slot.
type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`

	Students []Student `gorm:"foreignKey:GroupID"`

	gorm.Model
}

func (g *Group) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}

type Student struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	GroupID     *uuid.UUID `gorm:"type:uuid;index"`
	Name        string     `gorm:"not null"`

	gorm.Model
}

func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
