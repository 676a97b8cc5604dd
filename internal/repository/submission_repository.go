package repository

import (
	"context"
	"errors"
	"fmt"

	"quizforge/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionRepository persists graded attempts in "quiz_submissions".
// A unique index on (user_id, quiz_id) makes insertion the arbiter of
// the one-attempt rule: concurrent submits race on the index, not on a
// read-then-write check.
type SubmissionRepository struct {
	col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{col: db.Collection("quiz_submissions")}
}

// InitializeIndexes creates the unique attempt index.
func (r *SubmissionRepository) InitializeIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "quiz_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create submission indexes: %w", err)
	}
	return nil
}

// Insert records a submission. A duplicate-key error means the user has
// already submitted this quiz.
func (r *SubmissionRepository) Insert(ctx context.Context, sub *domain.Submission) error {
	if _, err := r.col.InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewAlreadySubmittedError()
		}
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// FindByUserAndQuiz returns the user's submission for the quiz, or nil when
// none exists.
func (r *SubmissionRepository) FindByUserAndQuiz(ctx context.Context, userID, quizID string) (*domain.Submission, error) {
	var sub domain.Submission
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "quiz_id": quizID}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch submission: %w", err)
	}
	return &sub, nil
}

// FindByQuiz returns all submissions for a quiz.
func (r *SubmissionRepository) FindByQuiz(ctx context.Context, quizID string) ([]domain.Submission, error) {
	cur, err := r.col.Find(ctx, bson.M{"quiz_id": quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions for quiz %s: %w", quizID, err)
	}
	defer cur.Close(ctx)

	var subs []domain.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	return subs, nil
}

// FindByUser returns the user's submissions, most recent first.
func (r *SubmissionRepository) FindByUser(ctx context.Context, userID string) ([]domain.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions for user: %w", err)
	}
	defer cur.Close(ctx)

	var subs []domain.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	return subs, nil
}
