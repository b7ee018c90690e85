package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"quizentia_backend/internal/model"
	"quizentia_backend/internal/util"
	"quizentia_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	weeklyCachePrefix = "weekly_quizzes:"
	weeklyCacheTTL    = 5 * time.Minute
)

type QuizReader interface {
	GetByIDs(ids []uint) ([]*model.Quiz, error)
	GetLatest(limit int) ([]*model.Quiz, error)
	List(skip, limit int) ([]*model.Quiz, error)
	Count() (int64, error)
}

type DefinitionReader interface {
	GetAllOrdered() ([]*model.QuizDefinition, error)
	List(skip, limit int) ([]*model.QuizDefinition, error)
	GetByWeek(weekID string) ([]*model.QuizDefinition, error)
	GetByQuizID(quizID uint) (*model.QuizDefinition, error)
}

// WeekBucket is the derived grouping of definitions sharing a week key.
type WeekBucket struct {
	WeekLabel       string                  `json:"week_label"`
	WeekID          string                  `json:"week_id"`
	QuizIDs         []uint                  `json:"quiz_ids"`
	Quizzes         []*model.QuizDefinition `json:"quizzes"`
	LatestCreatedAt time.Time               `json:"latest_created_at"`
}

// QuizService serves persisted quizzes: ordered id lookups, latest-N, and
// the week-bucketed listing. The weekly listing is cached in redis when a
// client is configured; mutations invalidate it.
type QuizService struct {
	Quizzes     QuizReader
	Definitions DefinitionReader
	Redis       *redis.Client

	Now func() time.Time
}

func NewQuizService(quizzes QuizReader, definitions DefinitionReader, rdb *redis.Client) *QuizService {
	return &QuizService{
		Quizzes:     quizzes,
		Definitions: definitions,
		Redis:       rdb,
		Now:         time.Now,
	}
}

// GetQuizzes concatenates question lists in the caller's id order. Absent
// ids fail the whole lookup, naming them. An empty id list falls back to
// the latest 10 quizzes.
func (s *QuizService) GetQuizzes(ids []uint) (*QuizPayload, error) {
	if len(ids) == 0 {
		return s.latestQuizzes(10)
	}

	quizzes, err := s.Quizzes.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	quizMap := make(map[uint]*model.Quiz, len(quizzes))
	for _, quiz := range quizzes {
		quizMap[quiz.ID] = quiz
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := quizMap[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &util.NotFoundError{MissingIDs: missing}
	}

	questions := make([]model.Question, 0)
	for _, id := range ids {
		list, err := quizMap[id].QuestionList()
		if err != nil {
			return nil, err
		}
		questions = append(questions, list...)
	}

	title := "Selected Quizzes"
	if len(ids) == 1 {
		title = quizMap[ids[0]].Title
	}

	return &QuizPayload{Title: title, Questions: questions}, nil
}

func (s *QuizService) latestQuizzes(limit int) (*QuizPayload, error) {
	quizzes, err := s.Quizzes.GetLatest(limit)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, util.ErrNoQuizzes
	}

	questions := make([]model.Question, 0)
	for _, quiz := range quizzes {
		list, err := quiz.QuestionList()
		if err != nil {
			return nil, err
		}
		questions = append(questions, list...)
	}

	return &QuizPayload{Title: "Latest Quizzes", Questions: questions}, nil
}

func (s *QuizService) ListDefinitions(skip, limit int) ([]*model.QuizDefinition, error) {
	return s.Definitions.List(skip, limit)
}

// ListWeekly groups all definitions into week buckets, newest week first.
// Legacy definitions without a stored week id get one recomputed from their
// creation time; the recomputed value is never written back.
func (s *QuizService) ListWeekly(ctx context.Context, maxWeeks int) ([]WeekBucket, error) {
	cacheKey := fmt.Sprintf("%s%d", weeklyCachePrefix, maxWeeks)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var buckets []WeekBucket
			if err := json.Unmarshal([]byte(cached), &buckets); err == nil {
				return buckets, nil
			}
		}
	}

	defs, err := s.Definitions.GetAllOrdered()
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return []WeekBucket{}, nil
	}

	buckets := make(map[string]*WeekBucket)
	for _, def := range defs {
		createdAt := def.CreatedAt
		if createdAt.IsZero() {
			createdAt = s.Now()
		}

		weekID := def.WeekID
		if weekID == "" {
			weekID = util.WeekID(createdAt)
		}

		bucket, ok := buckets[weekID]
		if !ok {
			bucket = &WeekBucket{
				WeekLabel:       util.WeekLabel(createdAt),
				WeekID:          weekID,
				QuizIDs:         make([]uint, 0, 4),
				Quizzes:         make([]*model.QuizDefinition, 0, 4),
				LatestCreatedAt: createdAt,
			}
			buckets[weekID] = bucket
		}

		if createdAt.After(bucket.LatestCreatedAt) {
			bucket.LatestCreatedAt = createdAt
		}
		bucket.QuizIDs = append(bucket.QuizIDs, def.QuizID)
		bucket.Quizzes = append(bucket.Quizzes, def)
	}

	ordered := make([]WeekBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ordered = append(ordered, *bucket)
	}
	// Lexicographic descending is chronologically correct because every
	// field of the YYMMWW key is zero-padded.
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].WeekID > ordered[j].WeekID
	})

	if len(ordered) > maxWeeks {
		ordered = ordered[:maxWeeks]
	}

	if s.Redis != nil {
		if data, err := json.Marshal(ordered); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, weeklyCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache weekly listing", zap.Error(err))
			}
		}
	}

	return ordered, nil
}

// InvalidateWeeklyCache drops every cached weekly listing; called after
// ingestion and after admin mutations.
func (s *QuizService) InvalidateWeeklyCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	keys, err := s.Redis.Keys(ctx, weeklyCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate weekly cache", zap.Error(err))
	}
}

// AdminWeekQuestion is one question annotated with its owning quiz, for the
// admin review surface.
type AdminWeekQuestion struct {
	QuizID    uint   `json:"quiz_id"`
	QuizTitle string `json:"quiz_title"`
	model.Question
}

type WeekQuestions struct {
	WeekID         string              `json:"week_id"`
	TotalQuestions int                 `json:"total_questions"`
	Questions      []AdminWeekQuestion `json:"questions"`
}

func (s *QuizService) GetWeekQuestions(weekID string) (*WeekQuestions, error) {
	quizzes, err := s.weekQuizzes(weekID)
	if err != nil {
		return nil, err
	}

	questions := make([]AdminWeekQuestion, 0)
	for _, quiz := range quizzes {
		list, err := quiz.QuestionList()
		if err != nil {
			return nil, err
		}
		for _, q := range list {
			questions = append(questions, AdminWeekQuestion{
				QuizID:    quiz.ID,
				QuizTitle: quiz.Title,
				Question:  q,
			})
		}
	}

	return &WeekQuestions{
		WeekID:         weekID,
		TotalQuestions: len(questions),
		Questions:      questions,
	}, nil
}

type WeekStats struct {
	WeekID         string `json:"week_id"`
	TotalQuizzes   int    `json:"total_quizzes"`
	TotalQuestions int    `json:"total_questions"`
	CanDeleteMore  bool   `json:"can_delete_more"`
}

func (s *QuizService) GetWeekStats(weekID string) (*WeekStats, error) {
	quizzes, err := s.weekQuizzes(weekID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, quiz := range quizzes {
		total += quiz.QuestionCount()
	}

	return &WeekStats{
		WeekID:         weekID,
		TotalQuizzes:   len(quizzes),
		TotalQuestions: total,
		CanDeleteMore:  total > 100,
	}, nil
}

func (s *QuizService) weekQuizzes(weekID string) ([]*model.Quiz, error) {
	defs, err := s.Definitions.GetByWeek(weekID)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w for week %s", util.ErrNoQuizzes, weekID)
	}

	ids := make([]uint, 0, len(defs))
	for _, def := range defs {
		ids = append(ids, def.QuizID)
	}
	return s.Quizzes.GetByIDs(ids)
}

// AdminQuizSummary is one row of the paginated admin listing.
type AdminQuizSummary struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	QuestionsCount int       `json:"questions_count"`
	WeekID         *string   `json:"week_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type AdminQuizList struct {
	Total   int64              `json:"total"`
	Skip    int                `json:"skip"`
	Limit   int                `json:"limit"`
	Quizzes []AdminQuizSummary `json:"quizzes"`
}

func (s *QuizService) ListAllQuizzes(skip, limit int) (*AdminQuizList, error) {
	total, err := s.Quizzes.Count()
	if err != nil {
		return nil, err
	}

	quizzes, err := s.Quizzes.List(skip, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]AdminQuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summary := AdminQuizSummary{
			ID:             quiz.ID,
			Title:          quiz.Title,
			URL:            quiz.URL,
			QuestionsCount: quiz.QuestionCount(),
			CreatedAt:      quiz.CreatedAt,
		}

		def, err := s.Definitions.GetByQuizID(quiz.ID)
		if err != nil {
			return nil, err
		}
		if def != nil && def.WeekID != "" {
			weekID := def.WeekID
			summary.WeekID = &weekID
		}

		summaries = append(summaries, summary)
	}

	return &AdminQuizList{
		Total:   total,
		Skip:    skip,
		Limit:   limit,
		Quizzes: summaries,
	}, nil
}
