package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert records one fired alert of a saved search
// Collection: alerts
type Alert struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	SavedSearchID primitive.ObjectID `bson:"saved_search_id" json:"saved_search_id"`
	Owner         string             `bson:"owner" json:"owner"`
	Query         string             `bson:"query" json:"query"`
	TotalPosts    int                `bson:"total_posts" json:"total_posts"`
	Message       string             `bson:"message" json:"message"`
}
