package service

import (
	"context"
	"time"

	"quizforge/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) Save(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepo) Update(ctx context.Context, quiz *domain.Quiz, clearedFields []string) error {
	args := m.Called(ctx, quiz, clearedFields)
	return args.Error(0)
}

func (m *MockQuizRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepo) FindByCreatedRange(ctx context.Context, from, to time.Time, status domain.Status) ([]domain.Quiz, error) {
	args := m.Called(ctx, from, to, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}

func (m *MockQuizRepo) FindScheduled(ctx context.Context) ([]domain.Quiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}

type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Insert(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepo) FindByUserAndQuiz(ctx context.Context, userID, quizID string) (*domain.Submission, error) {
	args := m.Called(ctx, userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) FindByQuiz(ctx context.Context, quizID string) ([]domain.Submission, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) FindByUser(ctx context.Context, userID string) ([]domain.Submission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Submission), args.Error(1)
}

type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Insert(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepo) Exists(ctx context.Context, userID, quizID string) (bool, error) {
	args := m.Called(ctx, userID, quizID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrationRepo) QuizIDsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockRecommendationRepo struct {
	mock.Mock
}

func (m *MockRecommendationRepo) RecordTopic(ctx context.Context, userID, topic string) error {
	args := m.Called(ctx, userID, topic)
	return args.Error(0)
}

func (m *MockRecommendationRepo) Get(ctx context.Context, userID string) (*domain.Recommendation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recommendation), args.Error(1)
}

type MockNewsFetcher struct {
	mock.Mock
}

func (m *MockNewsFetcher) FindArticles(ctx context.Context, topic string, max int) []domain.Article {
	args := m.Called(ctx, topic, max)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Article)
}

func (m *MockNewsFetcher) ExtractText(ctx context.Context, links []string) []string {
	args := m.Called(ctx, links)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockNewsFetcher) TrendingTopics(ctx context.Context) []string {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockContextStore struct {
	mock.Mock
}

func (m *MockContextStore) Ingest(ctx context.Context, userID string, chunks []string) bool {
	args := m.Called(ctx, userID, chunks)
	return args.Bool(0)
}

func (m *MockContextStore) Retrieve(ctx context.Context, userID, query string) string {
	args := m.Called(ctx, userID, query)
	return args.String(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
