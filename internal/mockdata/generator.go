// Package mockdata produces the randomized farm state the dashboard runs on.
package mockdata

import (
	"math/rand/v2"
	"time"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// HistoryDays is the length of the production history in a fresh snapshot.
const HistoryDays = 30

const day = 24 * time.Hour

// Generator builds snapshots from a random source and a clock.
type Generator struct {
	rnd      *rand.Rand
	now      func() time.Time
	farmName string
	location string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithSeed makes the generator deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithFarmProfile overrides the farm name and location; empty values keep the defaults.
func WithFarmProfile(name, location string) Option {
	return func(g *Generator) {
		if name != "" {
			g.farmName = name
		}
		if location != "" {
			g.location = location
		}
	}
}

// New returns a Generator seeded from the runtime's random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		farmName: "Sunrise Poultry Farm",
		location: "Rural Valley, State",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Snapshot builds a complete initial farm state.
func (g *Generator) Snapshot() models.Snapshot {
	now := g.now()
	return models.Snapshot{
		Farm:             g.farm(),
		SensorData:       g.Sensors(),
		ProductionData:   g.history(now),
		ControlSystems:   controlSystems(now),
		Alerts:           alerts(now),
		FinancialMetrics: financials(),
		MaintenanceTasks: maintenanceTasks(now),
	}
}

// Sensors returns a fresh reading for every installed sensor.
func (g *Generator) Sensors() []models.SensorReading {
	now := g.now()
	return []models.SensorReading{
		{ID: "1", Type: models.SensorTemperature, Value: 22.5 + g.rnd.Float64()*3, Unit: "°C", Location: "Coop A", Timestamp: now, Status: models.SensorNormal},
		{ID: "2", Type: models.SensorHumidity, Value: 65 + g.rnd.Float64()*10, Unit: "%", Location: "Coop A", Timestamp: now, Status: models.SensorNormal},
		{ID: "3", Type: models.SensorTemperature, Value: 24.1 + g.rnd.Float64()*2, Unit: "°C", Location: "Coop B", Timestamp: now, Status: models.SensorWarning},
		{ID: "4", Type: models.SensorAirQuality, Value: 85 + g.rnd.Float64()*10, Unit: "AQI", Location: "Coop A", Timestamp: now, Status: models.SensorNormal},
		{ID: "5", Type: models.SensorLight, Value: 300 + g.rnd.Float64()*100, Unit: "lux", Location: "Coop B", Timestamp: now, Status: models.SensorNormal},
	}
}

// Production returns a random production record dated now.
func (g *Generator) Production() models.ProductionRecord {
	return g.production(g.now())
}

func (g *Generator) production(date time.Time) models.ProductionRecord {
	return models.ProductionRecord{
		Date:             date,
		EggsCollected:    12000 + g.rnd.IntN(2000),
		FeedConsumption:  float64(1800 + g.rnd.IntN(200)),
		WaterConsumption: float64(3500 + g.rnd.IntN(500)),
		Mortality:        g.rnd.IntN(5),
		BirdCount:        15000 - g.rnd.IntN(50),
		AvgWeight:        1.8 + g.rnd.Float64()*0.3,
	}
}

func (g *Generator) history(now time.Time) []models.ProductionRecord {
	records := make([]models.ProductionRecord, 0, HistoryDays)
	for i := range HistoryDays {
		records = append(records, g.production(now.Add(-time.Duration(HistoryDays-1-i)*day)))
	}
	return records
}

func (g *Generator) farm() models.Farm {
	return models.Farm{
		ID:              "1",
		Name:            g.farmName,
		Location:        g.location,
		TotalBirds:      15000,
		CoopCount:       6,
		EstablishedDate: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		FarmType:        models.FarmTypeLayers,
	}
}

func controlSystems(now time.Time) []models.ControlSystem {
	return []models.ControlSystem{
		{ID: "1", Name: "Climate Control - Coop A", Type: models.ControlClimate, Status: models.ControlActive, IsAutomated: true, CurrentValue: 22.5, TargetValue: 23.0, Unit: "°C", LastUpdated: now},
		{ID: "2", Name: "Ventilation System", Type: models.ControlClimate, Status: models.ControlActive, IsAutomated: true, CurrentValue: 75, TargetValue: 80, Unit: "%", LastUpdated: now.Add(-time.Hour)},
		{ID: "3", Name: "LED Lighting Schedule", Type: models.ControlLighting, Status: models.ControlActive, IsAutomated: true, CurrentValue: 14, TargetValue: 16, Unit: "hours", LastUpdated: now},
		{ID: "4", Name: "Automatic Feeder", Type: models.ControlFeeding, Status: models.ControlActive, IsAutomated: true, CurrentValue: 1850, TargetValue: 1800, Unit: "kg", LastUpdated: now.Add(-2 * time.Hour)},
		{ID: "5", Name: "Water Supply System", Type: models.ControlWater, Status: models.ControlActive, IsAutomated: true, CurrentValue: 3200, TargetValue: 3500, Unit: "L", LastUpdated: now},
	}
}

func alerts(now time.Time) []models.Alert {
	return []models.Alert{
		{
			ID:             "1",
			Type:           models.AlertWarning,
			Title:          "High Temperature Alert",
			Message:        "Temperature in Coop B has exceeded optimal range (26.2°C)",
			Timestamp:      now.Add(-time.Hour),
			Source:         "Temperature Sensor - Coop B",
			ActionRequired: true,
		},
		{
			ID:             "2",
			Type:           models.AlertInfo,
			Title:          "Feed Level Low",
			Message:        "Feed silo #2 is at 15% capacity. Schedule refill soon.",
			Timestamp:      now.Add(-3 * time.Hour),
			Source:         "Feed Management System",
			ActionRequired: true,
		},
		{
			ID:             "3",
			Type:           models.AlertCritical,
			Title:          "Water Pump Malfunction",
			Message:        "Water pump in Coop C has stopped working. Immediate attention required.",
			Timestamp:      now.Add(-6 * time.Hour),
			IsRead:         true,
			Source:         "Water Management System",
			ActionRequired: true,
		},
	}
}

func financials() models.FinancialMetrics {
	return models.FinancialMetrics{
		Revenue:        45000,
		Expenses:       32000,
		Profit:         13000,
		FeedCost:       18000,
		MedicationCost: 2500,
		UtilityCost:    4500,
		LaborCost:      7000,
		Period:         models.PeriodMonthly,
	}
}

func maintenanceTasks(now time.Time) []models.MaintenanceTask {
	completed := now.Add(-day)
	return []models.MaintenanceTask{
		{
			ID:                "1",
			Title:             "Replace Air Filters",
			Description:       "Replace HVAC air filters in all coops",
			Priority:          models.PriorityMedium,
			Status:            models.TaskPending,
			AssignedTo:        "John Smith",
			DueDate:           now.Add(2 * day),
			Equipment:         "HVAC System",
			EstimatedDuration: 120,
		},
		{
			ID:                "2",
			Title:             "Water Line Inspection",
			Description:       "Inspect and clean water lines in Coop A",
			Priority:          models.PriorityHigh,
			Status:            models.TaskInProgress,
			AssignedTo:        "Mike Johnson",
			DueDate:           now.Add(day),
			Equipment:         "Water System",
			EstimatedDuration: 180,
		},
		{
			ID:                "3",
			Title:             "Generator Testing",
			Description:       "Monthly backup generator test and maintenance",
			Priority:          models.PriorityMedium,
			Status:            models.TaskCompleted,
			AssignedTo:        "Sarah Wilson",
			DueDate:           now.Add(-2 * day),
			CompletedDate:     &completed,
			Equipment:         "Backup Generator",
			EstimatedDuration: 90,
		},
	}
}
