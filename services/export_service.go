// services/export_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"tutorpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportService produces a ledger-style text extract for external
// accounting software: one semicolon-delimited line per invoice with the
// amount in major units (comma decimal separator), the date as DDMMYYYY,
// the invoice number and the customer name.
type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

func (s *ExportService) Export(workspaceID uuid.UUID, invoiceIDs []uuid.UUID) (string, error) {
	var lines []string
	for _, id := range invoiceIDs {
		var invoice models.Invoice
		if err := s.db.Where("workspace_id = ? AND id = ?", workspaceID, id).
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrInvoiceNotFound
			}
			return "", err
		}

		var customer models.Customer
		if err := s.db.First(&customer, "id = ?", invoice.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrCustomerNotFound
			}
			return "", err
		}

		lines = append(lines, exportLine(&invoice, customer.Name))
	}
	return strings.Join(lines, "\n"), nil
}

func exportLine(invoice *models.Invoice, customerName string) string {
	return fmt.Sprintf("%s;%s;%s;%s",
		commaAmount(invoice.Total),
		invoice.Date.Format("02012006"),
		invoice.InvoiceNumber,
		customerName)
}

// commaAmount renders a minor-unit amount as major units with a comma
// decimal separator, e.g. 20230 -> "202,30".
func commaAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d", sign, cents/100, cents%100)
}
