package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizforge/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecommendationRepository keeps one document per user in
// "recommendations", holding the user's most recent quiz topics.
type RecommendationRepository struct {
	col *mongo.Collection
}

func NewRecommendationRepository(db *mongo.Database) *RecommendationRepository {
	return &RecommendationRepository{col: db.Collection("recommendations")}
}

// RecordTopic appends a topic to the user's recent list, keeping only the
// newest RecommendationCap entries. $slice with a negative count trims
// from the front, so old topics fall off as new ones arrive.
func (r *RecommendationRepository) RecordTopic(ctx context.Context, userID, topic string) error {
	update := bson.M{
		"$push": bson.M{
			"topics": bson.M{
				"$each":  []string{topic},
				"$slice": -domain.RecommendationCap,
			},
		},
		"$set": bson.M{"last_updated": time.Now().UTC()},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts); err != nil {
		return fmt.Errorf("failed to record topic for user: %w", err)
	}
	return nil
}

// Get returns the user's recommendation document, or nil when the user has
// no recorded topics yet.
func (r *RecommendationRepository) Get(ctx context.Context, userID string) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}
	return &rec, nil
}
