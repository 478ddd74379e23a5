package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mention-radar/models"
)

type AlertRepository struct {
	col *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{col: db.Collection("alerts")}
}

// Insert stores a fired alert and returns its generated id.
func (r *AlertRepository) Insert(ctx context.Context, a *models.Alert) (primitive.ObjectID, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	a.ID = id
	return id, nil
}

// ListBySavedSearch returns the newest alerts for one saved search.
func (r *AlertRepository) ListBySavedSearch(ctx context.Context, savedSearchID primitive.ObjectID, limit int64) ([]models.Alert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, bson.M{"saved_search_id": savedSearchID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Alert
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOwner returns the newest alerts across all of an owner's saved searches.
func (r *AlertRepository) ListByOwner(ctx context.Context, owner string, limit int64) ([]models.Alert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Alert
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
