package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// Refresher regenerates the live farm data.
type Refresher interface {
	Refresh()
}

// DigestSender builds and delivers the daily digest.
type DigestSender interface {
	Send(ctx context.Context) (models.DailyReport, error)
}

// Scheduler manages the periodic refresh and the daily digest.
type Scheduler struct {
	cron            *cron.Cron
	refresher       Refresher
	digest          DigestSender
	refreshInterval time.Duration
	digestSchedule  string
	logger          *zap.Logger
}

// NewScheduler creates a new scheduler instance. digest may be nil to skip the daily report.
func NewScheduler(refresher Refresher, refreshInterval time.Duration, digest DigestSender, digestSchedule string, loc *time.Location, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow)
	// plus descriptors such as "@every 30s".
	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{logger})))

	return &Scheduler{
		cron:            c,
		refresher:       refresher,
		digest:          digest,
		refreshInterval: refreshInterval,
		digestSchedule:  digestSchedule,
		logger:          logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.Duration("refresh_interval", s.refreshInterval),
		zap.String("digest_schedule", s.digestSchedule))

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.refreshInterval), s.refresh); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	if s.digest != nil {
		if _, err := s.cron.AddFunc(s.digestSchedule, s.sendDigest); err != nil {
			return fmt.Errorf("schedule daily digest: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	s.refresher.Refresh()
	s.logger.Debug("farm data refreshed")
}

func (s *Scheduler) sendDigest() {
	s.logger.Info("generating daily digest")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.digest.Send(ctx)
	if err != nil {
		s.logger.Error("daily digest delivered with errors", zap.Error(err))
		return
	}
	s.logger.Info("daily digest sent successfully", zap.Time("date", report.Date))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
