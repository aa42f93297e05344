// services/revenue_service.go
package services

import (
	"errors"
	"time"

	"tutorpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevenueService maintains the per-month projected income ledger. One
// entry exists per (workspace, year, month), keyed on the month a lesson
// starts in. The figure is advisory: credited when a lesson is scheduled
// and corrected when it is cancelled on time.
type RevenueService struct {
	db *gorm.DB
}

func NewRevenueService(db *gorm.DB) *RevenueService {
	return &RevenueService{db: db}
}

// Credit adds amount to the ledger entry for the month start falls in,
// creating the entry on first use. Non-positive amounts are ignored.
func (s *RevenueService) Credit(workspaceID uuid.UUID, start time.Time, amount float64) error {
	if amount <= 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := s.entryForMonth(tx, workspaceID, start)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(&models.RevenueEntry{
					WorkspaceID: workspaceID,
					Year:        start.Year(),
					Month:       int(start.Month()),
					Amount:      amount,
				}).Error
			}
			return err
		}
		return tx.Model(entry).Update("amount", entry.Amount+amount).Error
	})
}

// Debit subtracts amount from the matching ledger entry, flooring the
// result at 0. A missing entry or a non-positive amount is a no-op.
func (s *RevenueService) Debit(workspaceID uuid.UUID, start time.Time, amount float64) error {
	if amount <= 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := s.entryForMonth(tx, workspaceID, start)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		remaining := entry.Amount - amount
		if remaining < 0 {
			remaining = 0
		}
		return tx.Model(entry).Update("amount", remaining).Error
	})
}

// MonthlyAmount reads the ledger figure for a given month; 0 when no
// entry exists yet.
func (s *RevenueService) MonthlyAmount(workspaceID uuid.UUID, year int, month time.Month) (float64, error) {
	var entry models.RevenueEntry
	err := s.db.Where("workspace_id = ? AND year = ? AND month = ?", workspaceID, year, int(month)).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Amount, nil
}

func (s *RevenueService) entryForMonth(tx *gorm.DB, workspaceID uuid.UUID, start time.Time) (*models.RevenueEntry, error) {
	var entry models.RevenueEntry
	err := tx.Where("workspace_id = ? AND year = ? AND month = ?",
		workspaceID, start.Year(), int(start.Month())).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// LessonRevenue computes the projected revenue for a lesson as effective
// rate times duration. The effective rate is the lesson's own rate if
// set, otherwise the customer's hourly rate, otherwise the workspace
// default, otherwise 0.
func LessonRevenue(lesson *models.Lesson, customer *models.Customer, settings *models.CompanySettings) float64 {
	rate := 0.0
	switch {
	case lesson.Rate != nil:
		rate = *lesson.Rate
	case customer != nil && customer.HourlyRate != nil:
		rate = *customer.HourlyRate
	case settings != nil:
		rate = settings.DefaultHourlyRate
	}
	return rate * lesson.DurationHours()
}
