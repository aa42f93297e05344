// services/numbering_service.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"tutorpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// trailingCounter matches the final ".../<digits>" segment of a manually
// supplied invoice number.
var trailingCounter = regexp.MustCompile(`/(\d+)$`)

// InvoiceNumberService issues workspace-unique invoice numbers. Auto
// numbers take the form {prefix}{YY}/{MM}/{counter}, with YY/MM derived
// from the invoice date; the counter lives in the workspace's company
// settings and only ever advances.
type InvoiceNumberService struct {
	db *gorm.DB
}

func NewInvoiceNumberService(db *gorm.DB) *InvoiceNumberService {
	return &InvoiceNumberService{db: db}
}

// Issue reserves the next auto number inside tx. The counter advance is
// a compare-and-increment so two concurrent issuances can never hand out
// the same number.
func (s *InvoiceNumberService) Issue(tx *gorm.DB, workspaceID uuid.UUID, date time.Time) (string, error) {
	settings, err := s.Settings(tx, workspaceID)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < 5; attempt++ {
		n := settings.NextInvoiceNumber
		res := tx.Model(&models.CompanySettings{}).
			Where("id = ? AND next_invoice_number = ?", settings.ID, n).
			Update("next_invoice_number", n+1)
		if res.Error != nil {
			return "", res.Error
		}
		if res.RowsAffected == 1 {
			return fmt.Sprintf("%s%02d/%02d/%d",
				settings.InvoicePrefix, date.Year()%100, int(date.Month()), n), nil
		}
		// Lost the race; reload the counter and try again.
		if err := tx.First(settings, "id = ?", settings.ID).Error; err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not reserve an invoice number for workspace %s", workspaceID)
}

// IngestManual validates an externally supplied (e.g. migrated) number
// inside tx. It fails on a duplicate, and when the number ends in a
// ".../<digits>" segment at or above the current counter, the counter is
// advanced past it so future auto numbers cannot collide.
func (s *InvoiceNumberService) IngestManual(tx *gorm.DB, workspaceID uuid.UUID, number string) error {
	var count int64
	if err := tx.Model(&models.Invoice{}).
		Where("workspace_id = ? AND invoice_number = ?", workspaceID, number).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateInvoiceNumber
	}

	m := trailingCounter.FindStringSubmatch(number)
	if m == nil {
		return nil
	}
	parsed, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	settings, err := s.Settings(tx, workspaceID)
	if err != nil {
		return err
	}
	if parsed >= settings.NextInvoiceNumber {
		return tx.Model(&models.CompanySettings{}).
			Where("id = ? AND next_invoice_number <= ?", settings.ID, parsed).
			Update("next_invoice_number", parsed+1).Error
	}
	return nil
}

// Settings loads the workspace's invoicing settings, bootstrapping them
// with defaults the first time a workspace needs a number.
func (s *InvoiceNumberService) Settings(tx *gorm.DB, workspaceID uuid.UUID) (*models.CompanySettings, error) {
	var settings models.CompanySettings
	err := tx.Where("workspace_id = ?", workspaceID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.CompanySettings{
		WorkspaceID:             workspaceID,
		NextInvoiceNumber:       models.DefaultNextInvoiceNumber,
		DefaultTaxRate:          models.DefaultTaxRate,
		DefaultPaymentTermsDays: models.DefaultPaymentTermsDays,
	}
	if err := tx.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
