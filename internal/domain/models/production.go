package models

import "time"

// ProductionRecord captures one day of flock output and consumption.
type ProductionRecord struct {
	Date             time.Time `json:"date" bson:"date"`
	EggsCollected    int       `json:"eggs_collected" bson:"eggs_collected"`
	FeedConsumption  float64   `json:"feed_consumption" bson:"feed_consumption"`   // kg
	WaterConsumption float64   `json:"water_consumption" bson:"water_consumption"` // L
	Mortality        int       `json:"mortality" bson:"mortality"`
	BirdCount        int       `json:"bird_count" bson:"bird_count"`
	AvgWeight        float64   `json:"avg_weight" bson:"avg_weight"` // kg
}
