package models

import (
	"time"
	"tutorpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string
	Name     string `gorm:"not null"`
	Phone    string

	Role        string    `gorm:"type:varchar(20);not null;default:'teacher'"` // 'admin' or 'teacher'
	WorkspaceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Password != "" {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return
}
