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
	"gorm.io/gorm"
)

type InvoiceController struct {
	Invoices  *services.InvoiceService
	Generator *services.GeneratorService
	Exporter  *services.ExportService
}

// CreateInvoiceInput defines the expected JSON structure for a manual invoice.
// Number is only supplied for migrated invoices.
type CreateInvoiceInput struct {
	CustomerID uuid.UUID                   `json:"customerId" binding:"required"`
	Number     string                      `json:"number"`
	Date       *time.Time                  `json:"date"`
	DueDate    *time.Time                  `json:"dueDate"`
	Notes      string                      `json:"notes"`
	Items      []services.InvoiceItemInput `json:"items" binding:"required,min=1"`
}

// UpdateInvoiceItemsInput replaces a draft invoice's items wholesale
type UpdateInvoiceItemsInput struct {
	Items []services.InvoiceItemInput `json:"items" binding:"required"`
}

// SetInvoiceStatusInput moves an invoice into a new status
type SetInvoiceStatusInput struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid cancelled archived"`
}

// GenerateInvoicesInput selects the month to generate invoices for
type GenerateInvoicesInput struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ExportInvoicesInput selects the invoices to export
type ExportInvoicesInput struct {
	InvoiceIDs []uuid.UUID `json:"invoiceIds" binding:"required,min=1"`
}

// Create creates a manual (or migrated) draft invoice
func (ic *InvoiceController) Create(c *gin.Context) {
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

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate customer exists in the same workspace
	var customer models.Customer
	if err := config.DB.Where("workspace_id = ? AND id = ?", wsID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	dueDate := date.AddDate(0, 0, models.DefaultPaymentTermsDays)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	invoice, err := ic.Invoices.Create(services.CreateInvoiceInput{
		WorkspaceID:     wsID,
		CreatedByUserID: userID,
		CustomerID:      input.CustomerID,
		Number:          input.Number,
		Date:            date,
		DueDate:         dueDate,
		Notes:           input.Notes,
		Items:           input.Items,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateInvoiceNumber) {
			utils.RespondWithError(c, http.StatusConflict, "Invoice number already exists")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		}
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// List retrieves all invoices for the workspace
func (ic *InvoiceController) List(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Preload("Items").
		Where("workspace_id = ?", wsID).
		Order("date DESC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// Get retrieves a specific invoice by ID
func (ic *InvoiceController) Get(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").
		Where("workspace_id = ? AND id = ?", wsID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateItems replaces a draft invoice's line items and recomputes totals
func (ic *InvoiceController) UpdateItems(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input UpdateInvoiceItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := ic.Invoices.ReplaceItems(wsID, invoiceUUID, input.Items)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// SetStatus transitions an invoice into a new status
func (ic *InvoiceController) SetStatus(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input SetInvoiceStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := ic.Invoices.SetStatus(wsID, invoiceUUID, input.Status)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// Delete removes a draft invoice and unlinks its lessons
func (ic *InvoiceController) Delete(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	if err := ic.Invoices.Delete(wsID, invoiceUUID); err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// Generate runs the monthly generator for the workspace
func (ic *InvoiceController) Generate(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input GenerateInvoicesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ids, err := ic.Generator.GenerateMonthly(wsID, input.Year, time.Month(input.Month))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invoice generation failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoiceIds": ids})
}

// GenerateForLesson builds an on-demand invoice for a single lesson
func (ic *InvoiceController) GenerateForLesson(c *gin.Context) {
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

	invoice, err := ic.Generator.GenerateForLesson(wsID, lessonUUID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLessonNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Lesson not found")
		case errors.Is(err, services.ErrLessonAlreadyInvoiced):
			utils.RespondWithError(c, http.StatusConflict, "Lesson has already been invoiced")
		case services.IsPolicyError(err):
			utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Invoice generation failed")
		}
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// Export produces the accounting text extract for the given invoices
func (ic *InvoiceController) Export(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input ExportInvoicesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	extract, err := ic.Exporter.Export(wsID, input.InvoiceIDs)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=invoices.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(extract))
}

func respondInvoiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
	case errors.Is(err, services.ErrInvoiceNotDraft):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Invoice can only be modified while in draft status")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
