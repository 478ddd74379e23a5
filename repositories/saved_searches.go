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

type SavedSearchRepository struct {
	col *mongo.Collection
}

func NewSavedSearchRepository(db *mongo.Database) *SavedSearchRepository {
	return &SavedSearchRepository{col: db.Collection("saved_searches")}
}

// Insert stores a new saved search and returns its generated id.
func (r *SavedSearchRepository) Insert(ctx context.Context, s *models.SavedSearch) (primitive.ObjectID, error) {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	s.ID = id
	return id, nil
}

// GetByID finds one saved search by its id.
func (r *SavedSearchRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SavedSearch, error) {
	var s models.SavedSearch
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns an owner's saved searches, most recently updated first.
func (r *SavedSearchRepository) ListByOwner(ctx context.Context, owner string, limit int64) ([]models.SavedSearch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.SavedSearch
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields of a saved search.
func (r *SavedSearchRepository) Update(ctx context.Context, s *models.SavedSearch) error {
	s.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"updated_at":         s.UpdatedAt,
		"query":              s.Query,
		"sources":            s.Sources,
		"time_filter":        s.TimeFilter,
		"language":           s.Language,
		"sort":               s.Sort,
		"alert_enabled":      s.AlertEnabled,
		"alert_min_mentions": s.AlertMinMentions,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": s.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RecordRun stamps the outcome of a re-run on the saved search.
func (r *SavedSearchRepository) RecordRun(ctx context.Context, id primitive.ObjectID, ranAt time.Time, total int) error {
	update := bson.M{"$set": bson.M{
		"last_run_at": ranAt,
		"last_total":  total,
		"updated_at":  time.Now(),
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete removes a saved search by id.
func (r *SavedSearchRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
