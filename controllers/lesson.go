package controllers

import (
	"errors"
	"net/http"
	"time"

	"tutorpro-backend/config"
	"tutorpro-backend/models"
	"tutorpro-backend/services"
	"tutorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LessonController struct {
	Lessons *services.LessonService
}

// ScheduleLessonInput defines the expected JSON structure for scheduling a lesson
type ScheduleLessonInput struct {
	CustomerID uuid.UUID  `json:"customerId" binding:"required"`
	TeacherID  *uuid.UUID `json:"teacherId"`
	GroupID    *uuid.UUID `json:"groupId"`
	StudentID  *uuid.UUID `json:"studentId"`
	Start      time.Time  `json:"start" binding:"required"`
	End        time.Time  `json:"end" binding:"required"`
	Type       string     `json:"type" binding:"omitempty,oneof=online office company"`
	Rate       *float64   `json:"rate"`
}

// CancelLessonInput carries the requested cancellation outcome
type CancelLessonInput struct {
	Status string `json:"status" binding:"required,oneof=cancelled_on_time cancelled_late"`
	Reason string `json:"reason"`
}

// AttendanceInput reports whether the lesson took place
type AttendanceInput struct {
	Attended bool `json:"attended"`
}

// Schedule puts a new lesson on the calendar
func (lc *LessonController) Schedule(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input ScheduleLessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	teacherID := userID
	if input.TeacherID != nil {
		teacherID = *input.TeacherID
	}

	lesson, err := lc.Lessons.Schedule(services.ScheduleLessonInput{
		WorkspaceID: wsID,
		TeacherID:   teacherID,
		CustomerID:  input.CustomerID,
		GroupID:     input.GroupID,
		StudentID:   input.StudentID,
		Start:       input.Start,
		End:         input.End,
		Type:        input.Type,
		Rate:        input.Rate,
	})
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to schedule lesson")
		}
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// List retrieves the workspace's lessons, optionally filtered by month
func (lc *LessonController) List(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	query := config.DB.Where("workspace_id = ?", wsID)
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("start >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("start < ?", t)
		}
	}
	if customer := c.Query("customerId"); customer != "" {
		query = query.Where("customer_id = ?", customer)
	}

	var lessons []models.Lesson
	if err := query.Order("start").Find(&lessons).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve lessons")
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// Get retrieves a specific lesson by ID
func (lc *LessonController) Get(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	lessonUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	var lesson models.Lesson
	if err := config.DB.Where("workspace_id = ? AND id = ?", wsID, lessonUUID).
		First(&lesson).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Lesson not found")
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// Cancel runs the cancellation state machine on a lesson
func (lc *LessonController) Cancel(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	lessonUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	var input CancelLessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	lesson, err := lc.Lessons.Transition(wsID, lessonUUID, input.Status, userID, input.Reason)
	if err != nil {
		respondLessonError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// ReportAttendance marks a lesson attended or missed
func (lc *LessonController) ReportAttendance(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	lessonUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	var input AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	lesson, err := lc.Lessons.ReportAttendance(wsID, lessonUUID, input.Attended, userID)
	if err != nil {
		respondLessonError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// Delete removes a lesson
func (lc *LessonController) Delete(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	lessonUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	if err := lc.Lessons.Delete(wsID, lessonUUID); err != nil {
		respondLessonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson deleted successfully"})
}

func respondLessonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLessonNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Lesson not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
	case services.IsPolicyError(err):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
