package repository

import (
	"context"
	"fmt"

	"quizforge/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RegistrationRepository persists quiz registrations in
// "quiz_registrations" with a unique (user_id, quiz_id) index.
type RegistrationRepository struct {
	col *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{col: db.Collection("quiz_registrations")}
}

// InitializeIndexes creates the unique registration index.
func (r *RegistrationRepository) InitializeIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "quiz_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create registration indexes: %w", err)
	}
	return nil
}

// Insert records a registration. Registering twice is not an error; the
// duplicate insert is simply dropped.
func (r *RegistrationRepository) Insert(ctx context.Context, reg *domain.Registration) error {
	if _, err := r.col.InsertOne(ctx, reg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}
	return nil
}

// Exists reports whether the user is registered for the quiz.
func (r *RegistrationRepository) Exists(ctx context.Context, userID, quizID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "quiz_id": quizID})
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return count > 0, nil
}

// QuizIDsByUser returns the identifiers of every quiz the user has
// registered for.
func (r *RegistrationRepository) QuizIDsByUser(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer cur.Close(ctx)

	var regs []domain.Registration
	if err := cur.All(ctx, &regs); err != nil {
		return nil, fmt.Errorf("failed to decode registrations: %w", err)
	}

	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.QuizID)
	}
	return ids, nil
}
