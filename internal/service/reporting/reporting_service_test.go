package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

type staticSource struct{ snap models.Snapshot }

func (s staticSource) Snapshot() models.Snapshot { return s.snap }

func record(date time.Time, eggs int, feed float64, mortality, birds int, weight float64) models.ProductionRecord {
	return models.ProductionRecord{
		Date:             date,
		EggsCollected:    eggs,
		FeedConsumption:  feed,
		WaterConsumption: 3600,
		Mortality:        mortality,
		BirdCount:        birds,
		AvgWeight:        weight,
	}
}

// Saturday 2026-10-17 back to Thursday 2026-10-08.
func tenDays() []models.ProductionRecord {
	end := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	out := make([]models.ProductionRecord, 0, 10)
	for i := 9; i >= 0; i-- {
		out = append(out, record(end.AddDate(0, 0, -i), 12000, 1800, 2, 15000, 2.0))
	}
	return out
}

func newService(records []models.ProductionRecord) *Service {
	snap := models.Snapshot{
		Farm:           models.Farm{Name: "Sunrise Poultry Farm"},
		ProductionData: records,
		FinancialMetrics: models.FinancialMetrics{
			Revenue: 45000,
			Profit:  13000,
		},
	}
	return NewService(staticSource{snap}, time.UTC, nil)
}

func TestSummarize(t *testing.T) {
	records := []models.ProductionRecord{
		record(time.Now(), 12000, 1800, 3, 15000, 1.9),
		record(time.Now(), 13000, 1900, 1, 14990, 2.1),
	}
	totals := Summarize(records)

	assert.Equal(t, 2, totals.Days)
	assert.Equal(t, 25000, totals.TotalEggs)
	assert.Equal(t, 3700.0, totals.TotalFeed)
	assert.Equal(t, 4, totals.TotalMortality)
	assert.InDelta(t, 2.0, totals.AvgWeight, 1e-9)
	assert.InDelta(t, 12500.0, totals.AvgDailyProduction, 1e-9)
	assert.InDelta(t, 3700.0/(25000*0.06), totals.FeedConversionRatio, 1e-9)
	assert.InDelta(t, 4.0/15000*100, totals.MortalityRate, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, Summarize(nil))
	assert.Zero(t, FeedConversionRatio(100, 0))
}

func TestParseRange(t *testing.T) {
	for in, want := range map[string]int{"7d": 7, "30d": 30, "": 30, "90d": 90} {
		got, err := ParseRange(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRange("1y")
	assert.ErrorIs(t, err, ErrUnknownRange)
}

func TestAnalytics(t *testing.T) {
	svc := newService(tenDays())

	a := svc.Analytics(7)
	assert.Equal(t, "7d", a.Range)
	assert.Equal(t, 7, a.Totals.Days)
	require.Len(t, a.Series, 7)
	assert.Equal(t, 2.5, a.Series[0].FCR)
	assert.InDelta(t, 28.89, a.ProfitMargin, 0.01)

	all := svc.Analytics(90)
	assert.Equal(t, 10, all.Totals.Days)
}

func TestPeriodBounds(t *testing.T) {
	wed := time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

	start, end := PeriodBounds(ReportWeekly, wed)
	assert.Equal(t, time.Date(2026, time.October, 11, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Date(2026, time.October, 17, 23, 59, 59, 999999999, time.UTC), end)

	start, end = PeriodBounds(ReportDaily, wed)
	assert.Equal(t, time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 14, end.Day())

	start, end = PeriodBounds(ReportMonthly, wed)
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, time.Date(2026, time.October, 31, 23, 59, 59, 999999999, time.UTC), end)
}

func TestReport(t *testing.T) {
	svc := newService(tenDays())

	weekly := svc.Report(ReportWeekly, time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 7, weekly.Totals.Days)
	assert.Equal(t, 84000, weekly.Totals.TotalEggs)
	assert.Equal(t, "Oct 11 - Oct 17, 2026", weekly.Period)
	assert.Equal(t, "Sunrise Poultry Farm", weekly.Farm.Name)

	daily := svc.Report(ReportDaily, time.Date(2026, time.October, 9, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, daily.Totals.Days)

	empty := svc.Report(ReportMonthly, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, empty.Totals.Days)
	assert.Zero(t, empty.Totals.AvgDailyProduction)
	assert.Zero(t, empty.Totals.FeedConversionRatio)
}

func TestParseDateUsesReportLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	svc := NewService(staticSource{}, loc, nil)

	date, err := svc.ParseDate("2026-10-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 10, 0, 0, 0, 0, loc), date)

	report := svc.Report(ReportDaily, date)
	assert.Equal(t, "Oct 10 - Oct 10, 2026", report.Period)

	_, err = svc.ParseDate("10/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseReportType(t *testing.T) {
	rt, err := ParseReportType("")
	require.NoError(t, err)
	assert.Equal(t, ReportWeekly, rt)

	rt, err = ParseReportType("Monthly")
	require.NoError(t, err)
	assert.Equal(t, ReportMonthly, rt)

	_, err = ParseReportType("yearly")
	assert.ErrorIs(t, err, ErrUnknownRange)
}

func TestSummaries(t *testing.T) {
	svc := newService(tenDays())
	start := time.Date(2026, time.October, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.October, 17, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, "Egg summary (2026-10-11-2026-10-17): 84000 eggs across 7 days, 12000 per day.",
		svc.CalculateEggsSummary(start, end))
	assert.Equal(t, "Feed (2026-10-11-2026-10-17): 12600.00 kg consumed across 7 days. Feed conversion ratio 2.50.",
		svc.CalculateFeedEfficiency(start, end))
	assert.Equal(t, "Mortality (2026-10-11-2026-10-17): 14 deaths across 7 days. Mortality rate 0.09% based on population 15000.",
		svc.CalculateMortalityRate(start, end))

	later := start.AddDate(1, 0, 0)
	assert.Contains(t, svc.CalculateEggsSummary(later, later), "no records yet")
	assert.Contains(t, svc.CalculateFeedEfficiency(later, later), "awaiting data")
	assert.Contains(t, svc.CalculateMortalityRate(later, later), "no incidents logged")
}
