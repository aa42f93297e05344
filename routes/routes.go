package routes

import (
	"tutorpro-backend/config"
	"tutorpro-backend/controllers"
	"tutorpro-backend/services"
	"tutorpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Wire the billing services once; controllers share them.
	revenue := services.NewRevenueService(config.DB)
	notifier := services.NewTwilioNotifier(config.DB)
	numbering := services.NewInvoiceNumberService(config.DB)
	lessonController := &controllers.LessonController{
		Lessons: services.NewLessonService(config.DB, revenue, notifier),
	}
	invoiceController := &controllers.InvoiceController{
		Invoices:  services.NewInvoiceService(config.DB, numbering),
		Generator: services.NewGeneratorService(config.DB, numbering),
		Exporter:  services.NewExportService(config.DB),
	}
	dashboardController := &controllers.DashboardController{Revenue: revenue}
	settingsController := &controllers.SettingsController{Numbering: numbering}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Lesson routes
		lessons := api.Group("/lessons")
		{
			lessons.POST("", lessonController.Schedule)
			lessons.GET("", lessonController.List)
			lessons.GET("/:id", lessonController.Get)
			lessons.POST("/:id/cancel", lessonController.Cancel)
			lessons.POST("/:id/attendance", lessonController.ReportAttendance)
			lessons.POST("/:id/invoice", invoiceController.GenerateForLesson)
			lessons.DELETE("/:id", lessonController.Delete)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoiceController.Create)
			invoices.GET("", invoiceController.List)
			invoices.GET("/:id", invoiceController.Get)
			invoices.PUT("/:id/items", invoiceController.UpdateItems)
			invoices.PUT("/:id/status", invoiceController.SetStatus)
			invoices.DELETE("/:id", invoiceController.Delete)
			invoices.POST("/generate", invoiceController.Generate)
			invoices.POST("/export", invoiceController.Export)
		}

		// Dashboard routes
		api.GET("/dashboard", dashboardController.Overview)

		// Settings routes
		settings := api.Group("/settings")
		{
			settings.GET("", settingsController.Get)
			settings.PUT("", settingsController.Update)
		}
	}

	return r
}
