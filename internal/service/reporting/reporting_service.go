package reporting

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

const (
	dateLayout = "2006-01-02"
	// eggMassKg is the assumed mass of one egg used for feed conversion.
	eggMassKg = 0.06
)

// ErrUnknownRange indicates an unsupported analytics range or report type.
var ErrUnknownRange = errors.New("unknown range")

// ErrInvalidDate indicates a report date not formatted YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// SnapshotSource exposes the current farm state.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// Service exposes production analytics, period reports and text summaries.
type Service struct {
	source SnapshotSource
	logger *zap.Logger
	loc    *time.Location
}

// NewService wires a new reporting service instance. Period boundaries are
// computed in loc; nil means UTC.
func NewService(source SnapshotSource, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, logger: logger, loc: loc}
}

// ParseDate reads a YYYY-MM-DD date as midnight in the report location.
func (s *Service) ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("report date %q: %w", raw, ErrInvalidDate)
	}
	return t, nil
}

// Totals aggregates a run of production records.
type Totals struct {
	Days                int     `json:"days"`
	TotalEggs           int     `json:"total_eggs"`
	TotalFeed           float64 `json:"total_feed"`
	TotalWater          float64 `json:"total_water"`
	TotalMortality      int     `json:"total_mortality"`
	AvgWeight           float64 `json:"avg_weight"`
	AvgDailyProduction  float64 `json:"avg_daily_production"`
	FeedConversionRatio float64 `json:"feed_conversion_ratio"`
	MortalityRate       float64 `json:"mortality_rate"`
}

// Summarize computes totals, averages, feed conversion and mortality rate.
// Mortality rate is relative to the bird count of the first record.
func Summarize(records []models.ProductionRecord) Totals {
	t := Totals{Days: len(records)}
	if len(records) == 0 {
		return t
	}

	var weight float64
	for _, r := range records {
		t.TotalEggs += r.EggsCollected
		t.TotalFeed += r.FeedConsumption
		t.TotalWater += r.WaterConsumption
		t.TotalMortality += r.Mortality
		weight += r.AvgWeight
	}

	t.AvgWeight = weight / float64(len(records))
	t.AvgDailyProduction = float64(t.TotalEggs) / float64(len(records))
	t.FeedConversionRatio = FeedConversionRatio(t.TotalFeed, t.TotalEggs)

	population := records[0].BirdCount
	if population <= 0 {
		population = 1
	}
	t.MortalityRate = float64(t.TotalMortality) / float64(population) * 100
	return t
}

// FeedConversionRatio returns kg of feed per kg of eggs, or 0 without eggs.
func FeedConversionRatio(feedKg float64, eggs int) float64 {
	if eggs <= 0 {
		return 0
	}
	return feedKg / (float64(eggs) * eggMassKg)
}

// DailyPoint is one day of the analytics charts.
type DailyPoint struct {
	Date      time.Time `json:"date"`
	Eggs      int       `json:"eggs"`
	Feed      float64   `json:"feed"`
	Water     float64   `json:"water"`
	Mortality int       `json:"mortality"`
	FCR       float64   `json:"fcr"`
}

// Analytics is the analytics page payload.
type Analytics struct {
	Range        string                  `json:"range"`
	Totals       Totals                  `json:"totals"`
	Series       []DailyPoint            `json:"series"`
	Financials   models.FinancialMetrics `json:"financials"`
	ProfitMargin float64                 `json:"profit_margin"`
}

// ParseRange maps "7d", "30d" and "90d" to a day count; empty means 30d.
func ParseRange(v string) (int, error) {
	switch strings.TrimSpace(v) {
	case "7d":
		return 7, nil
	case "", "30d":
		return 30, nil
	case "90d":
		return 90, nil
	default:
		return 0, fmt.Errorf("analytics range %q: %w", v, ErrUnknownRange)
	}
}

// Analytics computes metrics over the newest days records.
func (s *Service) Analytics(days int) Analytics {
	snap := s.source.Snapshot()
	records := snap.ProductionData
	if days > 0 && days < len(records) {
		records = records[len(records)-days:]
	}

	series := make([]DailyPoint, 0, len(records))
	for _, r := range records {
		series = append(series, DailyPoint{
			Date:      r.Date,
			Eggs:      r.EggsCollected,
			Feed:      r.FeedConsumption,
			Water:     r.WaterConsumption,
			Mortality: r.Mortality,
			FCR:       round2(FeedConversionRatio(r.FeedConsumption, r.EggsCollected)),
		})
	}

	return Analytics{
		Range:        fmt.Sprintf("%dd", days),
		Totals:       Summarize(records),
		Series:       series,
		Financials:   snap.FinancialMetrics,
		ProfitMargin: snap.FinancialMetrics.ProfitMargin(),
	}
}

// ReportType selects the period of a report.
type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

// ParseReportType validates a report type; empty means weekly.
func ParseReportType(v string) (ReportType, error) {
	switch rt := ReportType(strings.ToLower(strings.TrimSpace(v))); rt {
	case "":
		return ReportWeekly, nil
	case ReportDaily, ReportWeekly, ReportMonthly:
		return rt, nil
	default:
		return "", fmt.Errorf("report type %q: %w", v, ErrUnknownRange)
	}
}

// PeriodReport summarizes production between two inclusive bounds.
type PeriodReport struct {
	Type   ReportType  `json:"type"`
	Farm   models.Farm `json:"farm"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Period string      `json:"period"`
	Totals Totals      `json:"totals"`
}

// Report builds the daily, weekly (Sunday to Saturday) or monthly report containing date.
func (s *Service) Report(kind ReportType, date time.Time) PeriodReport {
	start, end := PeriodBounds(kind, date.In(s.loc))
	snap := s.source.Snapshot()

	var selected []models.ProductionRecord
	for _, r := range snap.ProductionData {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		selected = append(selected, r)
	}

	s.logger.Debug("period report built",
		zap.String("type", string(kind)),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("records", len(selected)))

	return PeriodReport{
		Type:   kind,
		Farm:   snap.Farm,
		Start:  start,
		End:    end,
		Period: fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006")),
		Totals: Summarize(selected),
	}
}

// PeriodBounds returns the first and last instants of the period containing t.
func PeriodBounds(kind ReportType, t time.Time) (time.Time, time.Time) {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	var start, next time.Time
	switch kind {
	case ReportDaily:
		start = dayStart
		next = start.AddDate(0, 0, 1)
	case ReportMonthly:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		next = start.AddDate(0, 1, 0)
	default:
		start = dayStart.AddDate(0, 0, -int(t.Weekday()))
		next = start.AddDate(0, 0, 7)
	}
	return start, next.Add(-time.Nanosecond)
}

// CalculateEggsSummary aggregates egg production for a period and returns a formatted string.
func (s *Service) CalculateEggsSummary(start, end time.Time) string {
	records := s.between(start, end)
	if len(records) == 0 {
		return fmt.Sprintf("Egg summary (%s-%s): no records yet.", start.Format(dateLayout), end.Format(dateLayout))
	}
	totals := Summarize(records)
	return fmt.Sprintf("Egg summary (%s-%s): %d eggs across %d days, %.0f per day.",
		start.Format(dateLayout), end.Format(dateLayout), totals.TotalEggs, totals.Days, totals.AvgDailyProduction)
}

// CalculateMortalityRate produces a mortality ratio against the flock size at the start of the period.
func (s *Service) CalculateMortalityRate(start, end time.Time) string {
	records := s.between(start, end)
	totals := Summarize(records)
	if totals.TotalMortality == 0 {
		return fmt.Sprintf("Mortality (%s-%s): no incidents logged.", start.Format(dateLayout), end.Format(dateLayout))
	}

	rate := math.Round(totals.MortalityRate*100) / 100
	return fmt.Sprintf("Mortality (%s-%s): %d deaths across %d days. Mortality rate %.2f%% based on population %d.",
		start.Format(dateLayout), end.Format(dateLayout), totals.TotalMortality, totals.Days, rate, records[0].BirdCount)
}

// CalculateFeedEfficiency reports feed usage and conversion for a period.
func (s *Service) CalculateFeedEfficiency(start, end time.Time) string {
	records := s.between(start, end)
	if len(records) == 0 {
		return fmt.Sprintf("Feed (%s-%s): awaiting data.", start.Format(dateLayout), end.Format(dateLayout))
	}

	totals := Summarize(records)
	statement := "Feed conversion pending egg records."
	if totals.TotalEggs > 0 {
		statement = fmt.Sprintf("Feed conversion ratio %.2f.", totals.FeedConversionRatio)
	}
	return fmt.Sprintf("Feed (%s-%s): %.2f kg consumed across %d days. %s",
		start.Format(dateLayout), end.Format(dateLayout), totals.TotalFeed, totals.Days, statement)
}

func (s *Service) between(start, end time.Time) []models.ProductionRecord {
	var out []models.ProductionRecord
	for _, r := range s.source.Snapshot().ProductionData {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
