package digest

import (
	"context"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/repository/mongodb"
	"github.com/mamadbah2/farmdash/internal/repository/sheets"
	client "github.com/mamadbah2/farmdash/pkg/clients/whatsapp"
)

const reportsRange = "Reports!A:J"

// ArchiveSink stores digests in the report archive.
type ArchiveSink struct {
	repo mongodb.Repository
}

// NewArchiveSink wraps a report repository.
func NewArchiveSink(repo mongodb.Repository) *ArchiveSink {
	return &ArchiveSink{repo: repo}
}

func (s *ArchiveSink) Name() string { return "archive" }

func (s *ArchiveSink) Deliver(ctx context.Context, report models.DailyReport, _ string) error {
	return s.repo.SaveDailyReport(ctx, report)
}

// SheetSink appends one row per digest to the reports sheet.
type SheetSink struct {
	repo sheets.Repository
}

// NewSheetSink wraps a sheets repository.
func NewSheetSink(repo sheets.Repository) *SheetSink {
	return &SheetSink{repo: repo}
}

func (s *SheetSink) Name() string { return "sheets" }

func (s *SheetSink) Deliver(ctx context.Context, report models.DailyReport, _ string) error {
	return s.repo.WriteRow(ctx, reportsRange, ReportRow(report))
}

// ReportRow flattens a report into the column order of the reports sheet.
func ReportRow(r models.DailyReport) []interface{} {
	return []interface{}{
		r.Date.Format("2006-01-02"),
		r.EggsCollected,
		r.FeedConsumed,
		r.WaterConsumed,
		r.Mortality,
		r.BirdCount,
		r.AvgWeight,
		r.FeedConversionRatio,
		r.UnreadAlerts,
		r.OpenTasks,
	}
}

// MessageSink texts the digest to the farm operator.
type MessageSink struct {
	client client.Client
	to     string
}

// NewMessageSink sends digests to the given WhatsApp number.
func NewMessageSink(c client.Client, to string) *MessageSink {
	return &MessageSink{client: c, to: to}
}

func (s *MessageSink) Name() string { return "whatsapp" }

func (s *MessageSink) Deliver(ctx context.Context, _ models.DailyReport, summary string) error {
	_, err := s.client.SendTextMessage(ctx, client.SendTextMessageRequest{To: s.to, Body: summary})
	return err
}
