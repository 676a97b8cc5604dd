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

// QuizRepository persists quizzes in the "quizzes" collection.
type QuizRepository struct {
	col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{col: db.Collection("quizzes")}
}

// Save inserts a newly generated quiz.
func (r *QuizRepository) Save(ctx context.Context, quiz *domain.Quiz) error {
	if _, err := r.col.InsertOne(ctx, quiz); err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

// GetByID fetches a quiz by its identifier.
func (r *QuizRepository) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to fetch quiz %s: %w", id, err)
	}
	return &quiz, nil
}

// Update writes the quiz document back, removing any fields named in
// clearedFields so stale values (such as an old schedule) do not linger.
func (r *QuizRepository) Update(ctx context.Context, quiz *domain.Quiz, clearedFields []string) error {
	raw, err := bson.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz %s: %w", quiz.ID, err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to rebuild quiz document %s: %w", quiz.ID, err)
	}
	delete(doc, "_id")

	update := bson.M{"$set": doc}
	if len(clearedFields) > 0 {
		unset := bson.M{}
		for _, field := range clearedFields {
			delete(doc, field)
			unset[field] = ""
		}
		update["$unset"] = unset
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": quiz.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update quiz %s: %w", quiz.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.NewQuizNotFoundError(quiz.ID)
	}
	return nil
}

// Delete removes a quiz permanently.
func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}

// FindByCreatedRange returns quizzes created within [from, to), optionally
// filtered by status, newest first.
func (r *QuizRepository) FindByCreatedRange(ctx context.Context, from, to time.Time, status domain.Status) ([]domain.Quiz, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes by range: %w", err)
	}
	defer cur.Close(ctx)

	var quizzes []domain.Quiz
	if err := cur.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to decode quizzes: %w", err)
	}
	return quizzes, nil
}

// FindScheduled returns every scheduled quiz ordered by start time.
func (r *QuizRepository) FindScheduled(ctx context.Context) ([]domain.Quiz, error) {
	filter := bson.M{
		"status":             domain.StatusScheduled,
		"scheduled_datetime": bson.M{"$exists": true},
	}
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_datetime", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled quizzes: %w", err)
	}
	defer cur.Close(ctx)

	var quizzes []domain.Quiz
	if err := cur.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to decode scheduled quizzes: %w", err)
	}
	return quizzes, nil
}
