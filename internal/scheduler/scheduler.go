package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/config"
)

const jobTimeout = 2 * time.Minute

// Reports builds the content the weekly job pushes out.
type Reports interface {
	WeeklySummary(ctx context.Context, now time.Time) (string, error)
	ExportToSheet(ctx context.Context) (int, error)
}

// MessageSender delivers a text message to a phone number.
type MessageSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Scheduler runs the weekly report on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	reports   Reports
	sender    MessageSender
	recipient string
	export    bool
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewScheduler registers the weekly job. sender may be nil when WhatsApp is not
// configured; the sheet export runs only when Sheets is configured.
func NewScheduler(cfg config.Config, reports Reports, sender MessageSender, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reports:   reports,
		sender:    sender,
		recipient: cfg.WhatsApp.ReportRecipient,
		export:    cfg.Sheets.Enabled(),
		location:  loc,
		now:       time.Now,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(cfg.Reporting.CronSchedule, s.runWeeklyReport); err != nil {
		return nil, fmt.Errorf("schedule weekly report %q: %w", cfg.Reporting.CronSchedule, err)
	}

	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("timezone", s.location.String()))
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report failed", zap.Error(err))
	}
}

// RunWeeklyReport sends the weekly summary and exports the orders. Both steps
// are attempted; their errors are joined.
func (s *Scheduler) RunWeeklyReport(ctx context.Context) error {
	var errs []error

	if s.sender != nil {
		if err := s.sendSummary(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if s.export {
		n, err := s.reports.ExportToSheet(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("export orders: %w", err))
		} else {
			s.logger.Info("weekly export done", zap.Int("orders", n))
		}
	}

	return errors.Join(errs...)
}

func (s *Scheduler) sendSummary(ctx context.Context) error {
	summary, err := s.reports.WeeklySummary(ctx, s.now().In(s.location))
	if err != nil {
		return fmt.Errorf("build weekly summary: %w", err)
	}

	id, err := s.sender.SendText(ctx, s.recipient, summary)
	if err != nil {
		return fmt.Errorf("send weekly summary: %w", err)
	}

	s.logger.Info("weekly summary sent", zap.String("message_id", id))
	return nil
}
