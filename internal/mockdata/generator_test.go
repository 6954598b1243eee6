package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
}

func TestSnapshotShape(t *testing.T) {
	g := New(WithSeed(7), WithClock(fixedClock))
	snap := g.Snapshot()

	assert.Equal(t, "Sunrise Poultry Farm", snap.Farm.Name)
	assert.Equal(t, 15000, snap.Farm.TotalBirds)
	assert.Len(t, snap.SensorData, 5)
	assert.Len(t, snap.ControlSystems, 5)
	assert.Len(t, snap.Alerts, 3)
	assert.Len(t, snap.MaintenanceTasks, 3)
	require.Len(t, snap.ProductionData, HistoryDays)

	latest, ok := snap.LatestProduction()
	require.True(t, ok)
	assert.True(t, latest.Date.Equal(fixedClock()))
	assert.True(t, snap.ProductionData[0].Date.Equal(fixedClock().Add(-29*day)))

	for i := 1; i < len(snap.ProductionData); i++ {
		assert.True(t, snap.ProductionData[i].Date.After(snap.ProductionData[i-1].Date))
	}
}

func TestProductionRanges(t *testing.T) {
	g := New(WithSeed(42), WithClock(fixedClock))
	for range 200 {
		rec := g.Production()
		assert.GreaterOrEqual(t, rec.EggsCollected, 12000)
		assert.Less(t, rec.EggsCollected, 14000)
		assert.GreaterOrEqual(t, rec.FeedConsumption, 1800.0)
		assert.Less(t, rec.FeedConsumption, 2000.0)
		assert.GreaterOrEqual(t, rec.Mortality, 0)
		assert.Less(t, rec.Mortality, 5)
		assert.Greater(t, rec.BirdCount, 14950)
		assert.GreaterOrEqual(t, rec.AvgWeight, 1.8)
		assert.Less(t, rec.AvgWeight, 2.1)
	}
}

func TestSensorsAreStamped(t *testing.T) {
	g := New(WithSeed(1), WithClock(fixedClock))
	for _, s := range g.Sensors() {
		assert.True(t, s.Timestamp.Equal(fixedClock()), s.ID)
		if s.Type == models.SensorTemperature && s.Location == "Coop B" {
			assert.Equal(t, models.SensorWarning, s.Status)
		}
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a := New(WithSeed(99), WithClock(fixedClock)).Snapshot()
	b := New(WithSeed(99), WithClock(fixedClock)).Snapshot()
	assert.Equal(t, a, b)
}

func TestFarmProfileOverride(t *testing.T) {
	snap := New(WithFarmProfile("Kindia Layers", ""), WithClock(fixedClock)).Snapshot()
	assert.Equal(t, "Kindia Layers", snap.Farm.Name)
	assert.Equal(t, "Rural Valley, State", snap.Farm.Location)
}
