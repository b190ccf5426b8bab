package services

import (
	"context"
	"time"

	"finloans/internal/core/domain"
	"finloans/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ReminderService periodically scans the caller's loans and flags the
// approved ones whose end date falls within the reminder window.
type ReminderService struct {
	loans      *LoanService
	schedule   string
	windowDays int
	cron       *cron.Cron
	notify     func(loan *domain.Loan, daysLeft int)
}

// NewReminderService creates a reminder service firing on the given
// cron schedule. notify is invoked once per due loan each run.
func NewReminderService(loans *LoanService, schedule string, windowDays int, notify func(loan *domain.Loan, daysLeft int)) *ReminderService {
	return &ReminderService{
		loans:      loans,
		schedule:   schedule,
		windowDays: windowDays,
		cron:       cron.New(),
		notify:     notify,
	}
}

// Start launches the background schedule.
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.Run)
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("reminder service started (schedule %q, window %d days)", s.schedule, s.windowDays)
	return nil
}

// Stop halts the schedule, waiting for an in-flight run to finish.
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("reminder service stopped")
}

// Run performs a single reminder sweep.
func (s *ReminderService) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	loans, err := s.loans.List(ctx)
	if err != nil {
		logger.Error("reminder sweep failed: %v", err)
		return
	}

	today := domain.Today()
	due := 0
	for i := range loans {
		loan := &loans[i]
		if !loan.Approved {
			continue
		}
		daysLeft := int(loan.EndDate.Sub(today.Time).Hours() / 24)
		if daysLeft < 0 || daysLeft > s.windowDays {
			continue
		}
		due++
		if s.notify != nil {
			s.notify(loan, daysLeft)
		}
	}

	if due > 0 {
		logger.Info("reminder sweep: %d loan(s) ending within %d days", due, s.windowDays)
	}
}
