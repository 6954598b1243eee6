// Package digest builds the end-of-day farm report and delivers it to the configured sinks.
package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/service/reporting"
)

// Sink receives a finished digest.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, report models.DailyReport, summary string) error
}

// SnapshotSource exposes the current farm state.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// Summarizer produces the text sections of the digest.
type Summarizer interface {
	CalculateEggsSummary(start, end time.Time) string
	CalculateMortalityRate(start, end time.Time) string
	CalculateFeedEfficiency(start, end time.Time) string
}

// Service assembles and distributes daily digests.
type Service struct {
	source     SnapshotSource
	summarizer Summarizer
	sinks      []Sink
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a digest service. Sinks may be empty.
func NewService(source SnapshotSource, summarizer Summarizer, loc *time.Location, logger *zap.Logger, sinks ...Sink) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source:     source,
		summarizer: summarizer,
		sinks:      sinks,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// Build assembles the report for the current day without delivering it.
func (s *Service) Build() (models.DailyReport, string) {
	now := s.now().In(s.loc)
	snap := s.source.Snapshot()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	report := models.DailyReport{
		Date:      dayStart,
		FarmName:  snap.Farm.Name,
		Profit:    snap.FinancialMetrics.Profit,
		CreatedAt: now,
	}

	if latest, ok := snap.LatestProduction(); ok {
		report.EggsCollected = latest.EggsCollected
		report.FeedConsumed = latest.FeedConsumption
		report.WaterConsumed = latest.WaterConsumption
		report.Mortality = latest.Mortality
		report.BirdCount = latest.BirdCount
		report.AvgWeight = latest.AvgWeight
		report.FeedConversionRatio = reporting.FeedConversionRatio(latest.FeedConsumption, latest.EggsCollected)
	}

	for _, a := range snap.Alerts {
		if a.IsRead {
			continue
		}
		report.UnreadAlerts++
		if a.Type == models.AlertCritical {
			report.UnreadCritical++
		}
	}
	for _, t := range snap.MaintenanceTasks {
		if t.Status != models.TaskCompleted {
			report.OpenTasks++
		}
	}

	weekStart := dayStart.AddDate(0, 0, -6)
	var b strings.Builder
	fmt.Fprintf(&b, "%s daily report %s\n", report.FarmName, dayStart.Format("2006-01-02"))
	fmt.Fprintf(&b, "Today: %d eggs, %.0f kg feed, %d deaths, %d birds.\n", report.EggsCollected, report.FeedConsumed, report.Mortality, report.BirdCount)
	if s.summarizer != nil {
		b.WriteString(s.summarizer.CalculateEggsSummary(weekStart, now) + "\n")
		b.WriteString(s.summarizer.CalculateFeedEfficiency(weekStart, now) + "\n")
		b.WriteString(s.summarizer.CalculateMortalityRate(weekStart, now) + "\n")
	}
	fmt.Fprintf(&b, "Alerts: %d unread (%d critical). Open maintenance tasks: %d.", report.UnreadAlerts, report.UnreadCritical, report.OpenTasks)

	return report, b.String()
}

// Send builds the digest and hands it to every sink. A failing sink does not
// stop the others; all failures are returned joined.
func (s *Service) Send(ctx context.Context) (models.DailyReport, error) {
	report, summary := s.Build()
	if len(s.sinks) == 0 {
		s.logger.Info("digest built without sinks", zap.Time("date", report.Date), zap.String("summary", summary))
		return report, nil
	}

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, report, summary); err != nil {
			s.logger.Error("digest delivery failed", zap.String("sink", sink.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		s.logger.Info("digest delivered", zap.String("sink", sink.Name()))
	}

	return report, errors.Join(errs...)
}
