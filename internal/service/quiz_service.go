package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/generator"
	"quizforge/internal/logger"
	"quizforge/internal/parser"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// NewsFetcher is the discovery + extraction capability the pipeline needs.
type NewsFetcher interface {
	FindArticles(ctx context.Context, topic string, max int) []domain.Article
	ExtractText(ctx context.Context, links []string) []string
	TrendingTopics(ctx context.Context) []string
}

// TextGenerator produces raw completion text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuizRepo is the persistence surface the quiz service depends on.
type QuizRepo interface {
	Save(ctx context.Context, quiz *domain.Quiz) error
	GetByID(ctx context.Context, id string) (*domain.Quiz, error)
	Update(ctx context.Context, quiz *domain.Quiz, clearedFields []string) error
	Delete(ctx context.Context, id string) error
	FindByCreatedRange(ctx context.Context, from, to time.Time, status domain.Status) ([]domain.Quiz, error)
	FindScheduled(ctx context.Context) ([]domain.Quiz, error)
}

// RecommendationRepo records topics for the per-user recommendation list.
type RecommendationRepo interface {
	RecordTopic(ctx context.Context, userID, topic string) error
	Get(ctx context.Context, userID string) (*domain.Recommendation, error)
}

// GenerateParams carries one quiz-generation request through the pipeline.
type GenerateParams struct {
	Topic      string
	Type       domain.QuizType
	Count      int
	Difficulty string
	Language   string
	CreatedBy  string
}

// ReviewParams updates a draft after human review. Questions, when present,
// replace the stored list; Status is the target lifecycle state.
type ReviewParams struct {
	QuizID    string
	Questions []domain.Question
	Status    domain.Status
}

// QuizService drives quiz generation and lifecycle management.
type QuizService interface {
	Generate(ctx context.Context, p GenerateParams) (*domain.Quiz, error)
	Review(ctx context.Context, p ReviewParams) (*domain.Quiz, error)
	Schedule(ctx context.Context, quizID string, start time.Time, durationMinutes int) (*domain.Quiz, error)
	Delete(ctx context.Context, quizID string) error
	Regenerate(ctx context.Context, quizID string) ([]domain.Question, error)
	GetByID(ctx context.Context, quizID string) (*domain.Quiz, error)
	History(ctx context.Context, from, to time.Time, status domain.Status) ([]domain.Quiz, error)
}

type quizService struct {
	quizRepo     QuizRepo
	recRepo      RecommendationRepo
	fetcher      NewsFetcher
	contextStore domain.ContextStore
	textGen      TextGenerator
	quizCfg      config.QuizConfig
	fetcherCfg   config.FetcherConfig
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizRepo QuizRepo,
	recRepo RecommendationRepo,
	fetcher NewsFetcher,
	contextStore domain.ContextStore,
	textGen TextGenerator,
	quizCfg config.QuizConfig,
	fetcherCfg config.FetcherConfig,
) QuizService {
	return &quizService{
		quizRepo:     quizRepo,
		recRepo:      recRepo,
		fetcher:      fetcher,
		contextStore: contextStore,
		textGen:      textGen,
		quizCfg:      quizCfg,
		fetcherCfg:   fetcherCfg,
	}
}

// rawContextFallback bounds how many extracted article bodies feed the
// prompt directly when retrieval returns nothing.
const rawContextFallback = 2

func (s *quizService) Generate(ctx context.Context, p GenerateParams) (*domain.Quiz, error) {
	if strings.TrimSpace(p.Topic) == "" {
		return nil, domain.NewInvalidInputError("topic cannot be empty")
	}
	if p.Count < s.quizCfg.MinQuestions || p.Count > s.quizCfg.MaxQuestions {
		return nil, domain.NewInvalidInputError(fmt.Sprintf(
			"number of questions must be between %d and %d", s.quizCfg.MinQuestions, s.quizCfg.MaxQuestions))
	}
	if p.Type != domain.TypeGeneral && p.Type != domain.TypeNewsBased {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown quiz type: %s", p.Type))
	}

	params := generator.Params{
		Topic:      p.Topic,
		Count:      p.Count,
		Difficulty: p.Difficulty,
		Language:   p.Language,
	}

	var prompt string
	if p.Type == domain.TypeNewsBased {
		contextText, err := s.newsContext(ctx, p)
		if err != nil {
			return nil, err
		}
		prompt = generator.NewsPrompt(params, contextText)
	} else {
		prompt = generator.GeneralPrompt(params)
	}

	raw, err := s.textGen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions := parser.Parse(raw, p.Count)
	if !parser.Sufficient(len(questions), p.Count) {
		logger.Get().Warn("Parsed too few questions from model reply",
			zap.String("topic", p.Topic),
			zap.Int("expected", p.Count),
			zap.Int("parsed", len(questions)))
		return nil, domain.NewParseShortfallError(p.Count, len(questions))
	}

	quiz := domain.NewQuiz(util.NewULID(), p.Type, p.Topic, p.Difficulty, p.Language, p.Count, questions, p.CreatedBy)
	quiz.Prompt = prompt
	quiz.RawResponse = raw

	if err := s.quizRepo.Save(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("failed to save generated quiz", err)
	}

	// Recommendations are advisory; a write failure must not fail the quiz.
	if err := s.recRepo.RecordTopic(ctx, p.CreatedBy, p.Topic); err != nil {
		logger.Get().Error("Failed to record topic for recommendations",
			zap.Error(err), zap.String("topic", p.Topic))
	}

	logger.Get().Info("Quiz generated",
		zap.String("quizID", quiz.ID),
		zap.String("topic", p.Topic),
		zap.String("type", string(p.Type)),
		zap.Int("questions", len(questions)))
	return quiz, nil
}

// newsContext grounds the prompt in fetched articles: discovery, extraction,
// per-user ingestion, then retrieval with a raw-text fallback.
func (s *quizService) newsContext(ctx context.Context, p GenerateParams) (string, error) {
	articles := s.fetcher.FindArticles(ctx, p.Topic, s.fetcherCfg.MaxArticles)
	if len(articles) == 0 {
		return "", domain.NewNoSourceMaterialError(p.Topic)
	}

	links := make([]string, 0, len(articles))
	for _, a := range articles {
		links = append(links, a.Link)
	}
	texts := s.fetcher.ExtractText(ctx, links)
	if len(texts) == 0 {
		return "", domain.NewNoArticleContentError(p.Topic)
	}

	if ok := s.contextStore.Ingest(ctx, p.CreatedBy, texts); !ok {
		logger.Get().Warn("Context ingestion failed, falling back to raw article text",
			zap.String("topic", p.Topic))
	}

	contextText := s.contextStore.Retrieve(ctx, p.CreatedBy, p.Topic)
	if contextText == "" {
		n := rawContextFallback
		if len(texts) < n {
			n = len(texts)
		}
		contextText = strings.Join(texts[:n], "\n\n")
	}
	return contextText, nil
}

func (s *quizService) Review(ctx context.Context, p ReviewParams) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, p.QuizID)
	if err != nil {
		return nil, err
	}

	if len(p.Questions) > 0 {
		for i := range p.Questions {
			p.Questions[i].Number = i + 1
		}
		quiz.Questions = p.Questions
		quiz.NumQuestions = len(p.Questions)
	}

	t, err := quiz.WithStatus(p.Status, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.quizRepo.Update(ctx, &t.Quiz, t.ClearedFields); err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz reviewed",
		zap.String("quizID", p.QuizID),
		zap.String("status", string(p.Status)))
	return &t.Quiz, nil
}

func (s *quizService) Schedule(ctx context.Context, quizID string, start time.Time, durationMinutes int) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if durationMinutes == 0 {
		durationMinutes = s.quizCfg.DefaultDurationMinutes
		if durationMinutes == 0 {
			durationMinutes = domain.DefaultDurationMinutes
		}
	}

	t, err := quiz.Schedule(start, durationMinutes, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.quizRepo.Update(ctx, &t.Quiz, t.ClearedFields); err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz scheduled",
		zap.String("quizID", quizID),
		zap.Time("start", start),
		zap.Int("durationMinutes", durationMinutes))
	return &t.Quiz, nil
}

func (s *quizService) Delete(ctx context.Context, quizID string) error {
	if err := s.quizRepo.Delete(ctx, quizID); err != nil {
		return err
	}
	logger.Get().Info("Quiz deleted", zap.String("quizID", quizID))
	return nil
}

// Regenerate reruns generation for an existing quiz and returns the fresh
// questions without persisting them; the admin applies them via Review.
func (s *quizService) Regenerate(ctx context.Context, quizID string) ([]domain.Question, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	prompt := quiz.Prompt
	if prompt == "" {
		params := generator.Params{
			Topic:      quiz.Topic,
			Count:      quiz.NumQuestions,
			Difficulty: quiz.Difficulty,
			Language:   quiz.Language,
		}
		if quiz.Type == domain.TypeNewsBased {
			contextText := s.contextStore.Retrieve(ctx, quiz.CreatedBy, quiz.Topic)
			if contextText == "" {
				return nil, domain.NewNoArticleContentError(quiz.Topic)
			}
			prompt = generator.NewsPrompt(params, contextText)
		} else {
			prompt = generator.GeneralPrompt(params)
		}
	}

	raw, err := s.textGen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions := parser.Parse(raw, quiz.NumQuestions)
	if !parser.Sufficient(len(questions), quiz.NumQuestions) {
		return nil, domain.NewParseShortfallError(quiz.NumQuestions, len(questions))
	}
	return questions, nil
}

func (s *quizService) GetByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	return s.quizRepo.GetByID(ctx, quizID)
}

// historyDefaultWindow is the lookback applied when the range is omitted.
const historyDefaultWindow = 30 * 24 * time.Hour

func (s *quizService) History(ctx context.Context, from, to time.Time, status domain.Status) ([]domain.Quiz, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-historyDefaultWindow)
	}
	if !from.Before(to) {
		return nil, domain.NewInvalidInputError("history range start must precede its end")
	}
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid status: %s", status))
	}
	return s.quizRepo.FindByCreatedRange(ctx, from, to, status)
}
