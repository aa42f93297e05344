package controllers

import (
	"net/http"
	"strconv"
	"time"

	"tutorpro-backend/config"
	"tutorpro-backend/models"
	"tutorpro-backend/services"
	"tutorpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Revenue *services.RevenueService
}

type DashboardOverview struct {
	TotalCustomers   int64   `json:"totalCustomers"`
	TotalInvoices    int64   `json:"totalInvoices"`
	ProjectedRevenue float64 `json:"projectedRevenue"` // ledger figure, major units
	OpenInvoices     int64   `json:"openInvoices"`
	LessonsThisMonth int64   `json:"lessonsThisMonth"`
	Year             int     `json:"year"`
	Month            int     `json:"month"`
}

// Overview returns the workspace dashboard figures. Year/month default
// to the current calendar month; the revenue figure is the advisory
// ledger amount, not billed revenue.
func (dc *DashboardController) Overview(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if y := c.Query("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			year = parsed
		}
	}
	if m := c.Query("month"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed >= 1 && parsed <= 12 {
			month = time.Month(parsed)
		}
	}

	overview := DashboardOverview{Year: year, Month: int(month)}

	config.DB.Model(&models.Customer{}).
		Where("workspace_id = ?", wsID).
		Count(&overview.TotalCustomers)

	config.DB.Model(&models.Invoice{}).
		Where("workspace_id = ?", wsID).
		Count(&overview.TotalInvoices)

	config.DB.Model(&models.Invoice{}).
		Where("workspace_id = ? AND status IN ?", wsID,
			[]string{models.InvoiceDraft, models.InvoiceSent}).
		Count(&overview.OpenInvoices)

	monthStart, monthEnd := utils.MonthBounds(year, month)
	config.DB.Model(&models.Lesson{}).
		Where("workspace_id = ? AND start >= ? AND start < ?", wsID, monthStart, monthEnd).
		Count(&overview.LessonsThisMonth)

	amount, err := dc.Revenue.MonthlyAmount(wsID, year, month)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read revenue ledger")
		return
	}
	overview.ProjectedRevenue = amount

	c.JSON(http.StatusOK, overview)
}
