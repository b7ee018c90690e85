package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizentia_backend/internal/model"
	"quizentia_backend/internal/repository"
	"quizentia_backend/internal/util"
	"quizentia_backend/pkg/logger"
	"quizentia_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	// ingestionBatchSize is both the candidate floor and the cap: fewer
	// listed URLs abort the run, and only the first 12 are processed.
	ingestionBatchSize = 12

	maxQuestionsPerArticle = 10

	// maxArticleRunes bounds the text handed to the generation model.
	maxArticleRunes = 6000
)

type ListingFetcher interface {
	LatestArticleURLs(ctx context.Context, limit int) ([]string, error)
}

type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) (*Article, error)
}

type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, articleText string) (string, error)
}

type IngestionStore interface {
	URLExists(url string) (bool, error)
	CreateBatch(items []repository.PendingQuiz, weekID string) ([]uint, error)
}

// generatedQuiz is the expected shape of the generation model's response.
type generatedQuiz struct {
	Title     string              `json:"title"`
	Questions []model.RawQuestion `json:"questions"`
}

// QuizPayload is a title with a flattened question list, the shape served
// to quiz takers.
type QuizPayload struct {
	Title     string           `json:"title"`
	Questions []model.Question `json:"questions"`
}

type IngestionResult struct {
	QuizIDs        []uint `json:"quiz_ids"`
	TotalQuestions int    `json:"total_questions"`
	WeekID         string `json:"week_id"`
	WeekLabel      string `json:"week_label"`
}

// IngestionService orchestrates the weekly batch: listing fetch, per-URL
// dedup, scrape, generate, normalize, then one transactional persist.
type IngestionService struct {
	Listing   ListingFetcher
	Articles  ArticleFetcher
	Generator QuizGenerator
	Store     IngestionStore

	// Now is the only clock read; injected for tests.
	Now func() time.Time
}

func NewIngestionService(listing ListingFetcher, articles ArticleFetcher, generator QuizGenerator, store IngestionStore) *IngestionService {
	return &IngestionService{
		Listing:   listing,
		Articles:  articles,
		Generator: generator,
		Store:     store,
		Now:       time.Now,
	}
}

// RunWeeklyIngestion processes the first 12 listed article URLs and persists
// every successfully generated quiz in one transaction. Per-article failures
// are logged and skipped; an insufficient listing or a persistence failure
// aborts the whole run. The operation is not retried here.
func (s *IngestionService) RunWeeklyIngestion(ctx context.Context) (*IngestionResult, error) {
	start := s.Now()
	logger.Log.Info("Starting weekly ingestion")

	urls, err := s.Listing.LatestArticleURLs(ctx, ingestionBatchSize)
	if err != nil {
		monitoring.IngestionRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	logger.Log.Info("Retrieved candidate URLs", zap.Int("count", len(urls)))

	if len(urls) < ingestionBatchSize {
		monitoring.IngestionRuns.WithLabelValues("insufficient").Inc()
		return nil, fmt.Errorf("%w: got %d, need %d", util.ErrInsufficientCandidates, len(urls), ingestionBatchSize)
	}

	var pending []repository.PendingQuiz

	for i, url := range urls[:ingestionBatchSize] {
		logger.Log.Info("Processing article",
			zap.Int("index", i+1),
			zap.Int("total", ingestionBatchSize),
			zap.String("url", url))

		exists, err := s.Store.URLExists(url)
		if err != nil {
			monitoring.IngestionRuns.WithLabelValues("error").Inc()
			return nil, err
		}
		if exists {
			logger.Log.Info("Article already ingested, skipping", zap.String("url", url))
			monitoring.IngestionArticles.WithLabelValues("skipped_existing").Inc()
			continue
		}

		item, ok := s.processArticle(ctx, url)
		if !ok {
			monitoring.IngestionArticles.WithLabelValues("skipped_error").Inc()
			continue
		}

		pending = append(pending, *item)
		monitoring.IngestionArticles.WithLabelValues("accepted").Inc()
	}

	// One week id for the whole batch, from the run's start time: every
	// article in this run lands in the same bucket no matter how long
	// processing takes.
	weekID := util.WeekID(start)

	ids, err := s.Store.CreateBatch(pending, weekID)
	if err != nil {
		monitoring.IngestionRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	totalQuestions := 0
	for _, item := range pending {
		totalQuestions += len(item.Questions)
	}

	logger.Log.Info("Weekly ingestion completed",
		zap.Int("quizzes", len(ids)),
		zap.Int("questions", totalQuestions),
		zap.String("week_id", weekID))
	monitoring.IngestionRuns.WithLabelValues("success").Inc()

	return &IngestionResult{
		QuizIDs:        ids,
		TotalQuestions: totalQuestions,
		WeekID:         weekID,
		WeekLabel:      util.WeekLabel(start),
	}, nil
}

// processArticle runs scrape -> generate -> normalize for one URL. Any
// failure skips the whole article; individual questions are never dropped.
func (s *IngestionService) processArticle(ctx context.Context, url string) (*repository.PendingQuiz, bool) {
	article, err := s.Articles.FetchArticle(ctx, url)
	if err != nil {
		logger.Log.Error("Failed to scrape article", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	if article.FullText == "" {
		logger.Log.Warn("Empty article content", zap.String("url", url))
		return nil, false
	}
	logger.Log.Info("Scraped article", zap.String("title", article.Title))

	raw, err := s.Generator.GenerateQuiz(ctx, truncateRunes(article.FullText, maxArticleRunes))
	if err != nil {
		logger.Log.Error("Quiz generation failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}

	var generated generatedQuiz
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		logger.Log.Error("Generation response is not valid JSON", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	logger.Log.Info("Generated questions", zap.Int("count", len(generated.Questions)))

	title := generated.Title
	if title == "" {
		title = article.Title
	}

	rawQuestions := generated.Questions
	if len(rawQuestions) > maxQuestionsPerArticle {
		rawQuestions = rawQuestions[:maxQuestionsPerArticle]
	}

	questions := make([]model.Question, 0, len(rawQuestions))
	for _, rq := range rawQuestions {
		q, err := model.NormalizeQuestion(rq)
		if err != nil {
			logger.Log.Error("Malformed question, skipping article", zap.String("url", url), zap.Error(err))
			return nil, false
		}
		questions = append(questions, q)
	}

	return &repository.PendingQuiz{
		Title:     title,
		URL:       url,
		Questions: questions,
	}, true
}

// GenerateQuizForURL scrapes one article and generates its quiz without
// persisting anything. Unlike batch ingestion, every failure is fatal here.
func (s *IngestionService) GenerateQuizForURL(ctx context.Context, url string) (*QuizPayload, error) {
	article, err := s.Articles.FetchArticle(ctx, url)
	if err != nil {
		return nil, err
	}
	if article.FullText == "" {
		return nil, util.ErrEmptyArticle
	}

	raw, err := s.Generator.GenerateQuiz(ctx, truncateRunes(article.FullText, maxArticleRunes))
	if err != nil {
		return nil, err
	}

	var generated generatedQuiz
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		return nil, fmt.Errorf("parsing generation response: %w", err)
	}

	questions := make([]model.Question, 0, len(generated.Questions))
	for _, rq := range generated.Questions {
		q, err := model.NormalizeQuestion(rq)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return &QuizPayload{
		Title:     article.Title,
		Questions: questions,
	}, nil
}

// truncateRunes bounds by code points, not bytes, so a multi-byte character
// is never split.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
