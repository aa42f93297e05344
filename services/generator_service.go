// services/generator_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"tutorpro-backend/models"
	"tutorpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneratorService turns accumulated billable lessons into draft
// invoices: once per customer per month in the batch path, or for a
// single lesson on demand. A lesson is consumed by stamping its
// invoice id, which is also what keeps re-runs from billing it twice.
type GeneratorService struct {
	db        *gorm.DB
	numbering *InvoiceNumberService

	now func() time.Time
}

func NewGeneratorService(db *gorm.DB, numbering *InvoiceNumberService) *GeneratorService {
	return &GeneratorService{db: db, numbering: numbering, now: time.Now}
}

// GenerateMonthly creates one draft invoice per customer covering that
// customer's billable, un-invoiced lessons starting in the given month.
// Customers without such lessons are skipped. Each customer is handled
// in its own transaction, so a failed run can simply be repeated.
func (g *GeneratorService) GenerateMonthly(workspaceID uuid.UUID, year int, month time.Month) ([]uuid.UUID, error) {
	monthStart, monthEnd := utils.MonthBounds(year, month)

	var customers []models.Customer
	if err := g.db.Where("workspace_id = ?", workspaceID).Find(&customers).Error; err != nil {
		return nil, err
	}

	var generated []uuid.UUID
	for i := range customers {
		customer := &customers[i]

		var lessons []models.Lesson
		if err := g.db.
			Where("workspace_id = ? AND customer_id = ?", workspaceID, customer.ID).
			Where("start >= ? AND start < ?", monthStart, monthEnd).
			Where("is_billable = ? AND invoice_id IS NULL", true).
			Order("start").
			Find(&lessons).Error; err != nil {
			return generated, err
		}
		if len(lessons) == 0 {
			continue
		}

		invoice, err := g.invoiceLessons(workspaceID, customer, lessons)
		if err != nil {
			return generated, fmt.Errorf("customer %s: %w", customer.ID, err)
		}
		generated = append(generated, invoice.ID)
	}

	return generated, nil
}

// GenerateForLesson builds an on-demand invoice for a single billable,
// un-invoiced lesson. The lesson must belong to workspaceID; one from
// another workspace is treated as not found.
func (g *GeneratorService) GenerateForLesson(workspaceID, lessonID uuid.UUID) (*models.Invoice, error) {
	var lesson models.Lesson
	if err := g.db.Where("workspace_id = ? AND id = ?", workspaceID, lessonID).
		First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.InvoiceID != nil {
		return nil, ErrLessonAlreadyInvoiced
	}
	if !lesson.IsBillable {
		return nil, &PolicyError{Reason: "lesson is not billable"}
	}

	var customer models.Customer
	if err := g.db.Where("workspace_id = ? AND id = ?", lesson.WorkspaceID, lesson.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return g.invoiceLessons(lesson.WorkspaceID, &customer, []models.Lesson{lesson})
}

// invoiceLessons builds and persists one draft invoice for the given
// lessons and stamps them with its id, all in one transaction.
func (g *GeneratorService) invoiceLessons(workspaceID uuid.UUID, customer *models.Customer, lessons []models.Lesson) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := g.db.Transaction(func(tx *gorm.DB) error {
		settings, err := g.numbering.Settings(tx, workspaceID)
		if err != nil {
			return err
		}

		taxRate := settings.DefaultTaxRate
		if customer.VATExempt {
			taxRate = 0
		}
		termsDays := settings.DefaultPaymentTermsDays
		if customer.PaymentTermsDays != nil {
			termsDays = *customer.PaymentTermsDays
		}

		description := "Lesson"
		if len(customer.ServiceDescriptions) > 0 {
			description = customer.ServiceDescriptions[0]
		}

		var items []models.InvoiceItem
		var subtotal, taxTotal int64
		lessonIDs := make([]uuid.UUID, 0, len(lessons))
		for i := range lessons {
			lesson := &lessons[i]
			item := buildLessonItem(lesson, customer, settings, description)
			subtotal += item.Total
			taxTotal += lineTax(item.Total, taxRate)
			item.TaxRate = taxRate
			items = append(items, item)
			lessonIDs = append(lessonIDs, lesson.ID)
		}

		now := g.now()
		number, err := g.numbering.Issue(tx, workspaceID, now)
		if err != nil {
			return err
		}

		invoice = &models.Invoice{
			WorkspaceID:   workspaceID,
			CustomerID:    customer.ID,
			InvoiceNumber: number,
			Date:          now,
			DueDate:       now.AddDate(0, 0, termsDays),
			Status:        models.InvoiceDraft,
			Subtotal:      subtotal,
			TaxTotal:      taxTotal,
			Total:         subtotal + taxTotal,
			Items:         items,
		}
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}

		// The invoice_id IS NULL guard keeps a concurrent run from
		// consuming the same lesson twice.
		return tx.Model(&models.Lesson{}).
			Where("id IN ? AND invoice_id IS NULL", lessonIDs).
			Update("invoice_id", invoice.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// buildLessonItem prices one lesson: a fixed-rate lesson becomes one
// "Lesson" unit at its price, an hourly lesson is billed per "Hour" at
// the customer's (or workspace default) rate for its duration rounded to
// two decimals.
func buildLessonItem(lesson *models.Lesson, customer *models.Customer, settings *models.CompanySettings, description string) models.InvoiceItem {
	item := models.InvoiceItem{
		Description: description,
		LessonID:    &lesson.ID,
	}

	if lesson.Rate != nil {
		item.Quantity = 1
		item.Unit = "Lesson"
		item.UnitPrice = CentsFromMajor(*lesson.Rate)
	} else {
		hourly := settings.DefaultHourlyRate
		if customer.HourlyRate != nil {
			hourly = *customer.HourlyRate
		}
		item.Quantity = math.Round(lesson.DurationHours()*100) / 100
		item.Unit = "Hour"
		item.UnitPrice = CentsFromMajor(hourly)
	}

	item.Total = int64(math.Round(item.Quantity * float64(item.UnitPrice)))
	return item
}
