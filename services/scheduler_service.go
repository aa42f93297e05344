// services/scheduler_service.go
package services

import (
	"log"
	"time"

	"tutorpro-backend/models"
	"tutorpro-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type monthlyGenerator interface {
	GenerateMonthly(workspaceID uuid.UUID, year int, month time.Month) ([]uuid.UUID, error)
}

// SchedulerService fires the invoice generator once a month for every
// workspace, covering the previous calendar month. One workspace failing
// never stops the run for the rest; the failed workspace is picked up by
// the next firing thanks to generator idempotency.
type SchedulerService struct {
	db        *gorm.DB
	generator monthlyGenerator

	now func() time.Time
}

func NewSchedulerService(db *gorm.DB, generator *GeneratorService) *SchedulerService {
	return &SchedulerService{db: db, generator: generator, now: time.Now}
}

func (s *SchedulerService) Start() {
	c := cron.New()

	// First of every month at 4 AM
	c.AddFunc("0 4 1 * *", s.RunMonthly)

	c.Start()
	log.Println("Invoice scheduler started")
}

// RunMonthly generates invoices for the previous calendar month across
// all workspaces.
func (s *SchedulerService) RunMonthly() {
	year, month := utils.PreviousMonth(s.now())
	log.Printf("Starting invoice generation for %d-%02d...", year, int(month))

	var workspaces []models.Workspace
	if err := s.db.Find(&workspaces).Error; err != nil {
		log.Printf("Failed to list workspaces: %v", err)
		return
	}

	for _, workspace := range workspaces {
		ids, err := s.generator.GenerateMonthly(workspace.ID, year, month)
		if err != nil {
			log.Printf("Workspace %s: invoice generation failed: %v", workspace.ID, err)
			continue
		}
		if len(ids) > 0 {
			log.Printf("Workspace %s: generated %d invoice(s)", workspace.ID, len(ids))
		}
	}

	log.Println("Invoice generation completed")
}
