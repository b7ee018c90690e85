package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"quizentia_backend/internal/repository"
	"quizentia_backend/internal/util"
	"quizentia_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeListing struct {
	urls []string
	err  error
}

func (f *fakeListing) LatestArticleURLs(_ context.Context, limit int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.urls) > limit {
		return f.urls[:limit], nil
	}
	return f.urls, nil
}

type fakeArticles struct {
	articles map[string]*Article
	errs     map[string]error
}

func (f *fakeArticles) FetchArticle(_ context.Context, url string) (*Article, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	article, ok := f.articles[url]
	if !ok {
		return nil, fmt.Errorf("no article for %s", url)
	}
	return article, nil
}

type fakeGenerator struct {
	responses map[string]string
	errs      map[string]error
	inputs    []string
}

func (f *fakeGenerator) GenerateQuiz(_ context.Context, articleText string) (string, error) {
	f.inputs = append(f.inputs, articleText)
	if err, ok := f.errs[articleText]; ok {
		return "", err
	}
	resp, ok := f.responses[articleText]
	if !ok {
		return "", fmt.Errorf("no response for %q", articleText)
	}
	return resp, nil
}

type fakeStore struct {
	existing  map[string]bool
	saved     []repository.PendingQuiz
	savedWeek string
	createErr error
	urlErr    error
}

func (f *fakeStore) URLExists(url string) (bool, error) {
	if f.urlErr != nil {
		return false, f.urlErr
	}
	return f.existing[url], nil
}

func (f *fakeStore) CreateBatch(items []repository.PendingQuiz, weekID string) ([]uint, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.saved = items
	f.savedWeek = weekID
	ids := make([]uint, 0, len(items))
	for i := range items {
		ids = append(ids, uint(i+1))
	}
	return ids, nil
}

func generatedJSON(t *testing.T, title string, count int) string {
	t.Helper()
	questions := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, map[string]interface{}{
			"question":       fmt.Sprintf("Q%d", i),
			"options":        []string{"a", "b", "c", "d"},
			"correct_answer": "a",
			"hint":           "h",
		})
	}
	data, err := json.Marshal(map[string]interface{}{
		"title":     title,
		"questions": questions,
	})
	require.NoError(t, err)
	return string(data)
}

func ingestionFixture(t *testing.T, articleCount int) (*IngestionService, *fakeListing, *fakeArticles, *fakeGenerator, *fakeStore) {
	t.Helper()

	listing := &fakeListing{}
	articles := &fakeArticles{articles: map[string]*Article{}, errs: map[string]error{}}
	generator := &fakeGenerator{responses: map[string]string{}, errs: map[string]error{}}
	store := &fakeStore{existing: map[string]bool{}}

	for i := 1; i <= articleCount; i++ {
		url := fmt.Sprintf("https://example.com/articles/%d", i)
		text := fmt.Sprintf("text-%d", i)
		listing.urls = append(listing.urls, url)
		articles.articles[url] = &Article{
			Title:    fmt.Sprintf("Article %d", i),
			Content:  []string{text},
			FullText: text,
		}
		generator.responses[text] = generatedJSON(t, fmt.Sprintf("Quiz %d", i), 2)
	}

	svc := NewIngestionService(listing, articles, generator, store)
	svc.Now = func() time.Time {
		return time.Date(2025, time.December, 3, 9, 0, 0, 0, time.UTC)
	}
	return svc, listing, articles, generator, store
}

func TestRunWeeklyIngestion(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, _, _, _, store := ingestionFixture(t, 12)

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)

		assert.Len(t, result.QuizIDs, 12)
		assert.Equal(t, 24, result.TotalQuestions)
		assert.Equal(t, "251201", result.WeekID)
		assert.Equal(t, "December 1st Week", result.WeekLabel)
		assert.Equal(t, "251201", store.savedWeek)
		assert.Len(t, store.saved, 12)
		assert.Equal(t, "Quiz 1", store.saved[0].Title)
	})

	t.Run("InsufficientCandidates", func(t *testing.T) {
		svc, listing, _, _, store := ingestionFixture(t, 12)
		listing.urls = listing.urls[:11]

		_, err := svc.RunWeeklyIngestion(ctx)
		assert.ErrorIs(t, err, util.ErrInsufficientCandidates)
		assert.Empty(t, store.saved)
	})

	t.Run("AlreadyIngestedURLSkipped", func(t *testing.T) {
		svc, listing, _, _, store := ingestionFixture(t, 12)
		store.existing[listing.urls[1]] = true

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)

		assert.Len(t, result.QuizIDs, 11)
		for _, item := range store.saved {
			assert.NotEqual(t, listing.urls[1], item.URL)
		}
	})

	t.Run("GenerationFailureSkipsOnlyThatArticle", func(t *testing.T) {
		svc, _, _, generator, store := ingestionFixture(t, 12)
		generator.errs["text-3"] = fmt.Errorf("model unavailable")

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)

		assert.Len(t, result.QuizIDs, 11)
		assert.Equal(t, 22, result.TotalQuestions)
		for _, item := range store.saved {
			assert.NotEqual(t, "Quiz 3", item.Title)
		}
	})

	t.Run("ScrapeFailureSkipsArticle", func(t *testing.T) {
		svc, listing, articles, _, _ := ingestionFixture(t, 12)
		articles.errs[listing.urls[0]] = fmt.Errorf("connection refused")

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)
		assert.Len(t, result.QuizIDs, 11)
	})

	t.Run("EmptyArticleSkipped", func(t *testing.T) {
		svc, listing, articles, _, _ := ingestionFixture(t, 12)
		articles.articles[listing.urls[4]].FullText = ""

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)
		assert.Len(t, result.QuizIDs, 11)
	})

	t.Run("UnparsableGenerationSkipsArticle", func(t *testing.T) {
		svc, _, _, generator, _ := ingestionFixture(t, 12)
		generator.responses["text-7"] = "```json not actually json"

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)
		assert.Len(t, result.QuizIDs, 11)
	})

	t.Run("MalformedQuestionSkipsWholeArticle", func(t *testing.T) {
		svc, _, _, generator, store := ingestionFixture(t, 12)
		// First question fine, second missing its hint.
		generator.responses["text-5"] = `{"title":"Broken","questions":[` +
			`{"question":"Q0","options":["a","b","c","d"],"correct_answer":"a","hint":"h"},` +
			`{"question":"Q1","options":["a","b","c","d"],"correct_answer":"a"}]}`

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)

		assert.Len(t, result.QuizIDs, 11)
		for _, item := range store.saved {
			assert.NotEqual(t, "Broken", item.Title)
		}
	})

	t.Run("QuestionsCappedAtTen", func(t *testing.T) {
		svc, _, _, generator, store := ingestionFixture(t, 12)
		generator.responses["text-2"] = generatedJSON(t, "Quiz 2", 15)

		result, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)

		assert.Equal(t, 11*2+10, result.TotalQuestions)
		for _, item := range store.saved {
			if item.Title == "Quiz 2" {
				assert.Len(t, item.Questions, 10)
			}
		}
	})

	t.Run("ArticleTextTruncatedBeforeGeneration", func(t *testing.T) {
		svc, listing, articles, generator, _ := ingestionFixture(t, 12)

		long := make([]rune, 7000)
		for i := range long {
			long[i] = 'x'
		}
		articles.articles[listing.urls[0]].FullText = string(long)
		generator.responses[string(long[:6000])] = generatedJSON(t, "Long", 2)

		_, err := svc.RunWeeklyIngestion(ctx)
		require.NoError(t, err)

		for _, input := range generator.inputs {
			assert.LessOrEqual(t, len([]rune(input)), 6000)
		}
	})

	t.Run("PersistenceFailureFailsRun", func(t *testing.T) {
		svc, _, _, _, store := ingestionFixture(t, 12)
		store.createErr = fmt.Errorf("deadlock")

		_, err := svc.RunWeeklyIngestion(ctx)
		assert.Error(t, err)
	})

	t.Run("StoreLookupFailureFailsRun", func(t *testing.T) {
		svc, _, _, _, store := ingestionFixture(t, 12)
		store.urlErr = fmt.Errorf("connection lost")

		_, err := svc.RunWeeklyIngestion(ctx)
		assert.Error(t, err)
	})
}

func TestGenerateQuizForURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, listing, _, _, _ := ingestionFixture(t, 12)

		payload, err := svc.GenerateQuizForURL(ctx, listing.urls[0])
		require.NoError(t, err)
		assert.Equal(t, "Article 1", payload.Title)
		assert.Len(t, payload.Questions, 2)
	})

	t.Run("EmptyArticleFatal", func(t *testing.T) {
		svc, listing, articles, _, _ := ingestionFixture(t, 12)
		articles.articles[listing.urls[0]].FullText = ""

		_, err := svc.GenerateQuizForURL(ctx, listing.urls[0])
		assert.ErrorIs(t, err, util.ErrEmptyArticle)
	})

	t.Run("FetchFailureFatal", func(t *testing.T) {
		svc, listing, articles, _, _ := ingestionFixture(t, 12)
		articles.errs[listing.urls[0]] = fmt.Errorf("timeout")

		_, err := svc.GenerateQuizForURL(ctx, listing.urls[0])
		assert.Error(t, err)
	})

	t.Run("MalformedQuestionFatal", func(t *testing.T) {
		svc, listing, _, generator, _ := ingestionFixture(t, 12)
		generator.responses["text-1"] = `{"title":"T","questions":[{"question":"Q","options":["a"],"hint":"h"}]}`

		_, err := svc.GenerateQuizForURL(ctx, listing.urls[0])
		assert.ErrorIs(t, err, util.ErrMalformedQuestion)
	})
}
