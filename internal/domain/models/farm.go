package models

import "time"

// FarmType enumerates the production focus of a farm.
type FarmType string

const (
	FarmTypeLayers   FarmType = "layers"
	FarmTypeBroilers FarmType = "broilers"
	FarmTypeMixed    FarmType = "mixed"
)

// Farm is the static profile of the monitored farm.
type Farm struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	TotalBirds      int       `json:"total_birds"`
	CoopCount       int       `json:"coop_count"`
	EstablishedDate time.Time `json:"established_date"`
	FarmType        FarmType  `json:"farm_type"`
}

// FinancialPeriod is the accounting window of a FinancialMetrics value.
type FinancialPeriod string

const (
	PeriodDaily   FinancialPeriod = "daily"
	PeriodWeekly  FinancialPeriod = "weekly"
	PeriodMonthly FinancialPeriod = "monthly"
)

// FinancialMetrics captures revenue and cost breakdown for a period.
type FinancialMetrics struct {
	Revenue        float64         `json:"revenue"`
	Expenses       float64         `json:"expenses"`
	Profit         float64         `json:"profit"`
	FeedCost       float64         `json:"feed_cost"`
	MedicationCost float64         `json:"medication_cost"`
	UtilityCost    float64         `json:"utility_cost"`
	LaborCost      float64         `json:"labor_cost"`
	Period         FinancialPeriod `json:"period"`
}

// ProfitMargin returns profit as a percentage of revenue, or 0 without revenue.
func (f FinancialMetrics) ProfitMargin() float64 {
	if f.Revenue == 0 {
		return 0
	}
	return f.Profit / f.Revenue * 100
}
