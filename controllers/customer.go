package controllers

import (
	"errors"
	"net/http"

	"tutorpro-backend/config"
	"tutorpro-backend/models"
	"tutorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name                string   `json:"name" binding:"required"`
	Phone               string   `json:"phone"`
	Email               *string  `json:"email"`
	Notes               string   `json:"notes"`
	HourlyRate          *float64 `json:"hourlyRate"`
	PaymentTermsDays    *int     `json:"paymentTermsDays"`
	VATExempt           bool     `json:"vatExempt"`
	ServiceDescriptions []string `json:"serviceDescriptions"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name                *string   `json:"name"`
	Phone               *string   `json:"phone"`
	Email               *string   `json:"email"`
	Notes               *string   `json:"notes"`
	HourlyRate          *float64  `json:"hourlyRate"`
	PaymentTermsDays    *int      `json:"paymentTermsDays"`
	VATExempt           *bool     `json:"vatExempt"`
	ServiceDescriptions *[]string `json:"serviceDescriptions"`
	IsActive            *bool     `json:"isActive"`
}

// CreateCustomer creates a new customer for the workspace
func CreateCustomer(c *gin.Context) {
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

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if phone already exists for this workspace
	if input.Phone != "" {
		var existingCustomer models.Customer
		if err := config.DB.Where("workspace_id = ? AND phone = ?", wsID, input.Phone).
			First(&existingCustomer).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
			return
		}
	}

	customer := models.Customer{
		WorkspaceID:         wsID,
		CreatedByUserID:     userID,
		Name:                input.Name,
		Phone:               input.Phone,
		Notes:               input.Notes,
		HourlyRate:          input.HourlyRate,
		PaymentTermsDays:    input.PaymentTermsDays,
		VATExempt:           input.VATExempt,
		ServiceDescriptions: input.ServiceDescriptions,
		IsActive:            true,
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all customers for the workspace
func GetCustomers(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var customers []models.Customer
	if err := config.DB.Where("workspace_id = ?", wsID).Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.Where("workspace_id = ? AND id = ?", wsID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("workspace_id = ? AND id = ?", wsID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.HourlyRate != nil {
		customer.HourlyRate = input.HourlyRate
	}
	if input.PaymentTermsDays != nil {
		customer.PaymentTermsDays = input.PaymentTermsDays
	}
	if input.VATExempt != nil {
		customer.VATExempt = *input.VATExempt
	}
	if input.ServiceDescriptions != nil {
		customer.ServiceDescriptions = *input.ServiceDescriptions
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer
func DeleteCustomer(c *gin.Context) {
	wsID, err := workspaceID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	result := config.DB.Where("workspace_id = ? AND id = ?", wsID, customerUUID).
		Delete(&models.Customer{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
