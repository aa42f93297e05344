package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson statuses. A lesson starts out scheduled; every other status is
// terminal and is only reached through the lifecycle transition.
const (
	LessonScheduled       = "scheduled"
	LessonAttended        = "attended"
	LessonCancelledOnTime = "cancelled_on_time"
	LessonCancelledLate   = "cancelled_late"
	LessonMissed          = "missed"
)

// Lesson types. Online lessons have a shorter cancellation window.
const (
	LessonOnline    = "online"
	LessonAtOffice  = "office"
	LessonAtCompany = "company"
)

type Lesson struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	TeacherID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	GroupID     *uuid.UUID `gorm:"type:uuid;index"`
	StudentID   *uuid.UUID `gorm:"type:uuid;index"`

	Start time.Time `gorm:"not null;index"`
	End   time.Time `gorm:"not null"`
	Type  string    `gorm:"type:varchar(20);not null;default:'online'"`

	// Fixed price in major units; nil means the customer's (or workspace
	// default) hourly rate applies.
	Rate *float64 `gorm:"type:decimal(10,2)"`

	Status     string `gorm:"type:varchar(20);not null;default:'scheduled'"`
	IsBillable bool   `gorm:"default:true"`

	// Set once by invoice generation; cleared only when the invoice is
	// deleted while still a draft.
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	CancelledAt        *time.Time
	CancelledByID      *uuid.UUID `gorm:"type:uuid"`
	CancellationReason string

	gorm.Model
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// DurationHours returns the lesson length in fractional hours.
func (l *Lesson) DurationHours() float64 {
	return l.End.Sub(l.Start).Hours()
}

// CancellationWindow is the minimum lead time before a non-admin
// cancellation still counts as on time.
func (l *Lesson) CancellationWindow() time.Duration {
	if l.Type == LessonOnline {
		return 24 * time.Hour
	}
	return 48 * time.Hour
}
