package models

import "time"

// DailyReport represents the end-of-day digest archived and sent to the operator.
type DailyReport struct {
	Date                time.Time `bson:"date" json:"date"`
	FarmName            string    `bson:"farm_name" json:"farm_name"`
	EggsCollected       int       `bson:"eggs_collected" json:"eggs_collected"`
	FeedConsumed        float64   `bson:"feed_consumed" json:"feed_consumed"`
	WaterConsumed       float64   `bson:"water_consumed" json:"water_consumed"`
	Mortality           int       `bson:"mortality" json:"mortality"`
	BirdCount           int       `bson:"bird_count" json:"bird_count"`
	AvgWeight           float64   `bson:"avg_weight" json:"avg_weight"`
	FeedConversionRatio float64   `bson:"feed_conversion_ratio" json:"feed_conversion_ratio"`
	UnreadAlerts        int       `bson:"unread_alerts" json:"unread_alerts"`
	UnreadCritical      int       `bson:"unread_critical" json:"unread_critical"`
	OpenTasks           int       `bson:"open_tasks" json:"open_tasks"`
	Profit              float64   `bson:"profit" json:"profit"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
}
