package models

import "time"

// SensorType enumerates the kinds of environment sensors installed in the coops.
type SensorType string

const (
	SensorTemperature SensorType = "temperature"
	SensorHumidity    SensorType = "humidity"
	SensorAirQuality  SensorType = "air_quality"
	SensorLight       SensorType = "light"
	SensorSound       SensorType = "sound"
)

// SensorStatus is the health classification attached to a reading.
type SensorStatus string

const (
	SensorNormal   SensorStatus = "normal"
	SensorWarning  SensorStatus = "warning"
	SensorCritical SensorStatus = "critical"
)

// SensorReading is a single measurement. The whole set is replaced on every refresh.
type SensorReading struct {
	ID        string       `json:"id"`
	Type      SensorType   `json:"type"`
	Value     float64      `json:"value"`
	Unit      string       `json:"unit"`
	Location  string       `json:"location"`
	Timestamp time.Time    `json:"timestamp"`
	Status    SensorStatus `json:"status"`
}
