// services/invoice_service.go
package services

import (
	"errors"
	"math"
	"time"

	"tutorpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CentsFromMajor converts a major-unit amount (e.g. euros) into minor
// units, rounding to the nearest cent.
func CentsFromMajor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// lineTax computes the tax on a line total in minor units.
func lineTax(total int64, taxRate float64) int64 {
	return int64(math.Round(float64(total) * taxRate / 100))
}

// InvoiceItemInput describes one line of a manually entered invoice.
// UnitPrice is in minor units.
type InvoiceItemInput struct {
	Description string     `json:"description" binding:"required"`
	Quantity    float64    `json:"quantity" binding:"min=0"`
	Unit        string     `json:"unit"`
	UnitPrice   int64      `json:"unitPrice" binding:"min=0"`
	TaxRate     float64    `json:"taxRate" binding:"min=0"`
	LessonID    *uuid.UUID `json:"lessonId"`
}

// CreateInvoiceInput describes a manually entered or migrated invoice.
// Number is only set for migrated invoices; empty means auto-issue.
type CreateInvoiceInput struct {
	WorkspaceID     uuid.UUID
	CreatedByUserID uuid.UUID
	CustomerID      uuid.UUID
	Number          string
	Date            time.Time
	DueDate         time.Time
	Notes           string
	Items           []InvoiceItemInput
}

// InvoiceService covers manual invoice entry and the draft-only edit,
// delete and status rules shared with generated invoices.
type InvoiceService struct {
	db        *gorm.DB
	numbering *InvoiceNumberService
}

func NewInvoiceService(db *gorm.DB, numbering *InvoiceNumberService) *InvoiceService {
	return &InvoiceService{db: db, numbering: numbering}
}

// Create persists a draft invoice. With an explicit number the number is
// validated and the counter advanced past it (migration path); otherwise
// the next auto number is issued from the invoice date.
func (s *InvoiceService) Create(input CreateInvoiceInput) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		number := input.Number
		if number != "" {
			if err := s.numbering.IngestManual(tx, input.WorkspaceID, number); err != nil {
				return err
			}
		} else {
			issued, err := s.numbering.Issue(tx, input.WorkspaceID, input.Date)
			if err != nil {
				return err
			}
			number = issued
		}

		items := buildItems(input.Items)
		subtotal, taxTotal := sumItems(items)

		invoice = &models.Invoice{
			WorkspaceID:     input.WorkspaceID,
			CreatedByUserID: input.CreatedByUserID,
			CustomerID:      input.CustomerID,
			InvoiceNumber:   number,
			Date:            input.Date,
			DueDate:         input.DueDate,
			Status:          models.InvoiceDraft,
			Subtotal:        subtotal,
			TaxTotal:        taxTotal,
			Total:           subtotal + taxTotal,
			Notes:           input.Notes,
			Items:           items,
		}
		return tx.Create(invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ReplaceItems swaps an invoice's line items wholesale and recomputes
// its totals. Only draft invoices may be edited.
func (s *InvoiceService) ReplaceItems(workspaceID, invoiceID uuid.UUID, inputs []InvoiceItemInput) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ? AND id = ?", workspaceID, invoiceID).
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if !invoice.IsDraft() {
			return ErrInvoiceNotDraft
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}

		items := buildItems(inputs)
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		subtotal, taxTotal := sumItems(items)
		invoice.Items = items
		invoice.Subtotal = subtotal
		invoice.TaxTotal = taxTotal
		invoice.Total = subtotal + taxTotal
		return tx.Model(&invoice).Updates(map[string]interface{}{
			"subtotal":  subtotal,
			"tax_total": taxTotal,
			"total":     subtotal + taxTotal,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Delete removes a draft invoice and unlinks (not deletes) the lessons
// it billed, making them eligible for the next generation run.
func (s *InvoiceService) Delete(workspaceID, invoiceID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Where("workspace_id = ? AND id = ?", workspaceID, invoiceID).
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if !invoice.IsDraft() {
			return ErrInvoiceNotDraft
		}

		if err := tx.Model(&models.Lesson{}).
			Where("invoice_id = ?", invoice.ID).
			Update("invoice_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}

// SetStatus moves an invoice into a new status, stamping SentAt/PaidAt
// on the first transition into sent/paid.
func (s *InvoiceService) SetStatus(workspaceID, invoiceID uuid.UUID, status string) (*models.Invoice, error) {
	switch status {
	case models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid,
		models.InvoiceCancelled, models.InvoiceArchived:
	default:
		return nil, errors.New("invalid invoice status: " + status)
	}

	var invoice models.Invoice
	if err := s.db.Where("workspace_id = ? AND id = ?", workspaceID, invoiceID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	now := time.Now()
	if status == models.InvoiceSent && invoice.SentAt == nil {
		updates["sent_at"] = now
	}
	if status == models.InvoicePaid && invoice.PaidAt == nil {
		updates["paid_at"] = now
	}

	if err := s.db.Model(&invoice).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func buildItems(inputs []InvoiceItemInput) []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, models.InvoiceItem{
			Description: in.Description,
			Quantity:    qty,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
			Total:       int64(math.Round(qty * float64(in.UnitPrice))),
			LessonID:    in.LessonID,
		})
	}
	return items
}

func sumItems(items []models.InvoiceItem) (subtotal, taxTotal int64) {
	for _, item := range items {
		subtotal += item.Total
		taxTotal += lineTax(item.Total, item.TaxRate)
	}
	return subtotal, taxTotal
}
