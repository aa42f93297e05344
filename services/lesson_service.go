// services/lesson_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"tutorpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonService owns the lesson lifecycle: scheduling, the cancellation
// state machine, and the ledger corrections that follow from it.
type LessonService struct {
	db       *gorm.DB
	revenue  *RevenueService
	notifier Notifier

	// injectable clock for window checks
	now func() time.Time
}

func NewLessonService(db *gorm.DB, revenue *RevenueService, notifier Notifier) *LessonService {
	return &LessonService{
		db:       db,
		revenue:  revenue,
		notifier: notifier,
		now:      time.Now,
	}
}

// ScheduleLessonInput defines the fields needed to put a lesson on the
// calendar.
type ScheduleLessonInput struct {
	WorkspaceID uuid.UUID
	TeacherID   uuid.UUID
	CustomerID  uuid.UUID
	GroupID     *uuid.UUID
	StudentID   *uuid.UUID
	Start       time.Time
	End         time.Time
	Type        string
	Rate        *float64
}

// Schedule creates a lesson in the scheduled state, billable by default,
// and credits the month's revenue ledger with its projected income.
func (s *LessonService) Schedule(input ScheduleLessonInput) (*models.Lesson, error) {
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("lesson end must be after start")
	}

	var customer models.Customer
	if err := s.db.Where("workspace_id = ? AND id = ?", input.WorkspaceID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	lessonType := input.Type
	if lessonType == "" {
		lessonType = models.LessonOnline
	}

	lesson := models.Lesson{
		WorkspaceID: input.WorkspaceID,
		TeacherID:   input.TeacherID,
		CustomerID:  input.CustomerID,
		GroupID:     input.GroupID,
		StudentID:   input.StudentID,
		Start:       input.Start,
		End:         input.End,
		Type:        lessonType,
		Rate:        input.Rate,
		Status:      models.LessonScheduled,
		IsBillable:  true,
	}

	if err := s.db.Create(&lesson).Error; err != nil {
		return nil, err
	}

	settings, err := s.workspaceSettings(input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.revenue.Credit(lesson.WorkspaceID, lesson.Start, LessonRevenue(&lesson, &customer, settings)); err != nil {
		return nil, err
	}

	return &lesson, nil
}

// Transition moves a lesson out of the scheduled state, enforcing the
// cancellation policy. On a policy violation the lesson is left
// unchanged. Both the lesson and the acting user must belong to
// workspaceID; a lesson from another workspace is treated as not found.
//
// The window is 24h for online lessons and 48h otherwise. Admins bypass
// the window entirely and force whichever cancellation outcome they
// request; teachers are held to it in both directions: once inside the
// window only a late (billable) cancellation is possible, and outside it
// they cannot self-select the late outcome.
func (s *LessonService) Transition(workspaceID, lessonID uuid.UUID, target string, actorID uuid.UUID, reason string) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.Where("workspace_id = ? AND id = ?", workspaceID, lessonID).
		First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	var actor models.User
	if err := s.db.Where("workspace_id = ? AND id = ?", workspaceID, actorID).
		First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if lesson.Status != models.LessonScheduled {
		return nil, &PolicyError{Reason: fmt.Sprintf("lesson is already %s", lesson.Status)}
	}

	now := s.now()
	var billable bool

	switch target {
	case models.LessonAttended, models.LessonMissed:
		billable = true

	case models.LessonCancelledOnTime, models.LessonCancelledLate:
		if actor.IsAdmin() {
			// Admin overrides the window and forces either outcome.
			billable = target == models.LessonCancelledLate
			break
		}
		window := lesson.CancellationWindow()
		untilStart := lesson.Start.Sub(now)
		if untilStart < window {
			if target == models.LessonCancelledOnTime {
				return nil, &PolicyError{Reason: fmt.Sprintf(
					"cancellation window of %dh has closed; only a late cancellation is possible",
					int(window.Hours()))}
			}
			billable = true
		} else {
			if target == models.LessonCancelledLate {
				return nil, &PolicyError{Reason: fmt.Sprintf(
					"lesson is still more than %dh away and must be cancelled on time",
					int(window.Hours()))}
			}
			billable = false
		}

	default:
		return nil, fmt.Errorf("invalid lesson status %q", target)
	}

	updates := map[string]interface{}{
		"status":      target,
		"is_billable": billable,
	}
	if target != models.LessonAttended {
		updates["cancelled_at"] = now
		updates["cancelled_by_id"] = actor.ID
		updates["cancellation_reason"] = reason
	}

	if err := s.db.Model(&lesson).Updates(updates).Error; err != nil {
		return nil, err
	}

	// A free cancellation takes the lesson's projected income back out
	// of the ledger.
	if target == models.LessonCancelledOnTime && !billable {
		if err := s.debitLesson(&lesson); err != nil {
			return nil, err
		}
	}

	if target == models.LessonCancelledOnTime || target == models.LessonCancelledLate {
		s.notifyCancellation(&lesson, &actor, reason)
	}

	return &lesson, nil
}

// ReportAttendance marks a lesson attended or missed after the fact.
// Both outcomes are billable.
func (s *LessonService) ReportAttendance(workspaceID, lessonID uuid.UUID, attended bool, actorID uuid.UUID) (*models.Lesson, error) {
	target := models.LessonAttended
	if !attended {
		target = models.LessonMissed
	}
	return s.Transition(workspaceID, lessonID, target, actorID, "")
}

// Delete removes a lesson, first detaching any invoice lines that
// reference it. The ledger is left alone; it is corrected only through
// the cancellation path.
func (s *LessonService) Delete(workspaceID, lessonID uuid.UUID) error {
	var lesson models.Lesson
	if err := s.db.Where("workspace_id = ? AND id = ?", workspaceID, lessonID).
		First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.InvoiceItem{}).
			Where("lesson_id = ?", lesson.ID).
			Update("lesson_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&lesson).Error
	})
}

func (s *LessonService) debitLesson(lesson *models.Lesson) error {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", lesson.CustomerID).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	settings, err := s.workspaceSettings(lesson.WorkspaceID)
	if err != nil {
		return err
	}
	return s.revenue.Debit(lesson.WorkspaceID, lesson.Start, LessonRevenue(lesson, &customer, settings))
}

func (s *LessonService) workspaceSettings(workspaceID uuid.UUID) (*models.CompanySettings, error) {
	var settings models.CompanySettings
	err := s.db.Where("workspace_id = ?", workspaceID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// notifyCancellation sends a best-effort heads-up to the customer. A
// failed send is logged and never fails the transition.
func (s *LessonService) notifyCancellation(lesson *models.Lesson, actor *models.User, reason string) {
	if s.notifier == nil {
		return
	}

	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", lesson.CustomerID).Error; err != nil {
		log.Printf("Lesson %s: cancellation notice skipped, customer lookup failed: %v", lesson.ID, err)
		return
	}

	body := fmt.Sprintf(
		"<p>Your lesson on %s has been cancelled by %s.</p>",
		lesson.Start.Format("02.01.2006 15:04"), actor.Name)
	if reason != "" {
		body += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}

	n := Notification{
		WorkspaceID: lesson.WorkspaceID,
		LessonID:    &lesson.ID,
		To:          customer.Email,
		Subject:     "Lesson cancelled",
		HTMLBody:    body,
	}
	if err := s.notifier.Send(n); err != nil {
		log.Printf("Lesson %s: cancellation notice failed: %v", lesson.ID, err)
	}
}
