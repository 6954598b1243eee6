package models

// Snapshot is the complete farm state at one point in time. A published
// snapshot is never modified; mutations produce a new one.
type Snapshot struct {
	Version          uint64             `json:"version"`
	Farm             Farm               `json:"farm"`
	SensorData       []SensorReading    `json:"sensor_data"`
	ProductionData   []ProductionRecord `json:"production_data"`
	ControlSystems   []ControlSystem    `json:"control_systems"`
	Alerts           []Alert            `json:"alerts"`
	FinancialMetrics FinancialMetrics   `json:"financial_metrics"`
	MaintenanceTasks []MaintenanceTask  `json:"maintenance_tasks"`
}

// LatestProduction returns the newest production record, if any.
func (s Snapshot) LatestProduction() (ProductionRecord, bool) {
	if len(s.ProductionData) == 0 {
		return ProductionRecord{}, false
	}
	return s.ProductionData[len(s.ProductionData)-1], true
}
