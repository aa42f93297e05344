package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tutorpro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Workspace{},
		&models.User{},
		&models.Customer{},
		&models.Group{},
		&models.Student{},
		&models.Lesson{},
		&models.RevenueEntry{},
		&models.CompanySettings{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.NotificationLog{},
	))
	return db
}

func seedWorkspace(t *testing.T, db *gorm.DB) *models.Workspace {
	t.Helper()
	workspace := models.Workspace{Name: "Test Tutoring"}
	require.NoError(t, db.Create(&workspace).Error)
	return &workspace
}

func seedUser(t *testing.T, db *gorm.DB, workspaceID uuid.UUID, role string) *models.User {
	t.Helper()
	user := models.User{
		Email:       fmt.Sprintf("%s@example.com", uuid.NewString()),
		Name:        "Test " + role,
		Role:        role,
		WorkspaceID: workspaceID,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// phoneSeq keeps seeded customer phones unique within a test binary.
var phoneSeq int64

func seedCustomer(t *testing.T, db *gorm.DB, workspaceID uuid.UUID) *models.Customer {
	t.Helper()
	customer := models.Customer{
		WorkspaceID: workspaceID,
		Name:        "Acme Corp",
		Phone:       fmt.Sprintf("+4915%09d", atomic.AddInt64(&phoneSeq, 1)),
		Email:       "billing@acme.example",
		IsActive:    true,
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func seedLesson(t *testing.T, db *gorm.DB, workspaceID, teacherID, customerID uuid.UUID, start time.Time, duration time.Duration) *models.Lesson {
	t.Helper()
	lesson := models.Lesson{
		WorkspaceID: workspaceID,
		TeacherID:   teacherID,
		CustomerID:  customerID,
		Start:       start,
		End:         start.Add(duration),
		Type:        models.LessonOnline,
		Status:      models.LessonScheduled,
		IsBillable:  true,
	}
	require.NoError(t, db.Create(&lesson).Error)
	return &lesson
}

func f64(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// fakeNotifier records notifications instead of sending them.
type fakeNotifier struct {
	sent []Notification
	err  error
}

func (f *fakeNotifier) Send(n Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}
