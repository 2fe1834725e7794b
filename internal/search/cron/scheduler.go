package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thip-platform/disclosure-backend/internal/search"
)

type Scheduler struct {
	svc *search.Service
}

func NewScheduler(svc *search.Service) *Scheduler {
	return &Scheduler{svc: svc}
}

// Start schedules the nightly dashboard cache warm (12:00 AM).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.warm()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (dashboard warm nightly at 12:00AM)")
	c.Start()
}

func (s *Scheduler) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.svc.WarmDashboard(ctx); err != nil {
		log.Printf("Dashboard warm failed: %v", err)
		return
	}
	log.Println("Dashboard warm completed at:", time.Now().Format(time.RFC1123))
}
