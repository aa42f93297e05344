// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	WorkspaceID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	LessonID     *uuid.UUID `gorm:"type:uuid;index"`
	Recipient    string     `gorm:"not null"`
	Subject      string
	Body         string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string `gorm:"type:text"`
	SentAt       time.Time
	gorm.Model
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
