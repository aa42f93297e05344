package main

import (
	"fmt"
	"log"
	"os"
	"tutorpro-backend/config"
	"tutorpro-backend/models"
	"tutorpro-backend/routes"
	"tutorpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Workspace{},
		&models.User{},
		&models.Customer{},
		&models.Group{},
		&models.Student{},
		&models.Lesson{},
		&models.RevenueEntry{},
		&models.CompanySettings{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.NotificationLog{},
	)
}

func main() {
	// Monthly invoice generation for the previous calendar month
	numbering := services.NewInvoiceNumberService(config.DB)
	generator := services.NewGeneratorService(config.DB, numbering)
	services.NewSchedulerService(config.DB, generator).Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
