package scheduler

import (
	"context"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// DeliveryReminderScheduler periodically reminds customers of upcoming deliveries
type DeliveryReminderScheduler struct {
	cron      *cron.Cron
	reminders service.ReminderService
	spec      string
	lead      time.Duration
}

func NewDeliveryReminderScheduler(reminders service.ReminderService, spec string, lead time.Duration) *DeliveryReminderScheduler {
	return &DeliveryReminderScheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reminders: reminders,
		spec:      spec,
		lead:      lead,
	}
}

// Run executes one reminder pass
func (s *DeliveryReminderScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	sent, err := s.reminders.SendDueReminders(ctx, s.lead)
	if err != nil {
		logger.Error("Delivery reminder job failed", err, map[string]interface{}{
			"sent": sent,
		})
		return
	}
	logger.Debug("Delivery reminder job finished", map[string]interface{}{
		"sent": sent,
	})
}

func (s *DeliveryReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Run); err != nil {
		logger.Error("Failed to add cron job for delivery reminders", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Delivery reminder scheduler started", map[string]interface{}{
		"spec": s.spec,
		"lead": s.lead.String(),
	})
	return nil
}

// Stop waits for a running job to finish
func (s *DeliveryReminderScheduler) Stop() {
	logger.Info("Stopping delivery reminder scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Delivery reminder scheduler stopped")
}
