package controllers

import (
	"net/http"

	"tutorpro-backend/config"
	"tutorpro-backend/services"
	"tutorpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Numbering *services.InvoiceNumberService
}

type UpdateSettingsInput struct {
	InvoicePrefix           *string  `json:"invoicePrefix"`
	DefaultPaymentTermsDays *int     `json:"defaultPaymentTermsDays" binding:"omitempty,min=0"`
	DefaultTaxRate          *float64 `json:"defaultTaxRate" binding:"omitempty,min=0"`
	DefaultHourlyRate       *float64 `json:"defaultHourlyRate" binding:"omitempty,min=0"`
}

// Get returns the workspace's invoicing settings, bootstrapping defaults
// on first access
func (sc *SettingsController) Get(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	settings, err := sc.Numbering.Settings(config.DB, wsID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update changes the workspace's invoicing defaults. The invoice counter
// itself is not settable; it only advances through issuance.
func (sc *SettingsController) Update(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	settings, err := sc.Numbering.Settings(config.DB, wsID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	if input.InvoicePrefix != nil {
		settings.InvoicePrefix = *input.InvoicePrefix
	}
	if input.DefaultPaymentTermsDays != nil {
		settings.DefaultPaymentTermsDays = *input.DefaultPaymentTermsDays
	}
	if input.DefaultTaxRate != nil {
		settings.DefaultTaxRate = *input.DefaultTaxRate
	}
	if input.DefaultHourlyRate != nil {
		settings.DefaultHourlyRate = *input.DefaultHourlyRate
	}

	if err := config.DB.Save(settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
