package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedSearch represents a search a user keeps around for re-running
// Collection: saved_searches
type SavedSearch struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
	Owner      string             `bson:"owner" json:"owner"`
	Query      string             `bson:"query" json:"query"`
	Sources    []string           `bson:"sources" json:"sources"`
	TimeFilter string             `bson:"time_filter" json:"time_filter"`
	Language   string             `bson:"language,omitempty" json:"language,omitempty"`
	Sort       string             `bson:"sort" json:"sort"`

	// Alert settings: when enabled, a re-run whose total reaches
	// AlertMinMentions records an Alert and publishes alert.triggered.
	AlertEnabled     bool `bson:"alert_enabled" json:"alert_enabled"`
	AlertMinMentions int  `bson:"alert_min_mentions" json:"alert_min_mentions"`

	LastRunAt time.Time `bson:"last_run_at,omitempty" json:"last_run_at,omitempty"`
	LastTotal int       `bson:"last_total" json:"last_total"`
}
