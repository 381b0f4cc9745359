package monitoring

import (
	"github.com/brandmonitor/brandmonitor/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler triggers monitoring runs on the configured cadence.
type Scheduler struct {
	config  *config.Config
	service *Service
	cron    *cron.Cron
}

// NewScheduler creates a new scheduler for the given monitoring service.
func NewScheduler(cfg *config.Config, service *Service) *Scheduler {
	return &Scheduler{
		config:  cfg,
		service: service,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled monitoring
func (s *Scheduler) Start() error {
	var cronExpression string

	switch s.config.MonitorSchedule {
	case "daily":
		// Run daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	default:
		// Run weekly on Monday at 9 AM UTC
		cronExpression = "0 0 9 * * MON"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled monitoring run")
		if err := s.service.RunMonitoring(); err != nil {
			logrus.Errorf("Scheduled monitoring run failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule", s.config.MonitorSchedule)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
