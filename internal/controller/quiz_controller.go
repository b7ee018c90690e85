package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quizentia_backend/internal/service"
	"quizentia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	IngestionService *service.IngestionService
	QuizService      *service.QuizService
	ScrapeService    *service.ScrapeService
}

func NewQuizController(ingestion *service.IngestionService, quiz *service.QuizService, scrape *service.ScrapeService) *QuizController {
	return &QuizController{
		IngestionService: ingestion,
		QuizService:      quiz,
		ScrapeService:    scrape,
	}
}

// @Summary Scrape a single article
// @Tags quiz
// @Produce json
// @Param url query string true "article URL"
// @Success 200 {object} util.Response
// @Router /api/scrape [post]
func (c *QuizController) Scrape(ctx *gin.Context) {
	url := ctx.Query("url")
	if url == "" {
		util.BadRequest(ctx, "url is required")
		return
	}

	article, err := c.ScrapeService.FetchArticle(ctx.Request.Context(), url)
	if err != nil {
		util.Error(ctx, http.StatusBadGateway, err.Error())
		return
	}

	util.Success(ctx, article)
}

// @Summary Generate a quiz for one article without persisting it
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/generate_quiz [post]
func (c *QuizController) GenerateQuiz(ctx *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	payload, err := c.IngestionService.GenerateQuizForURL(ctx.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, util.ErrEmptyArticle) {
			util.BadRequest(ctx, "Empty Article Content")
			return
		}
		util.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	util.Success(ctx, payload)
}

// @Summary List candidate article URLs from the source index
// @Tags quiz
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/listing_scrape [get]
func (c *QuizController) ListingScrape(ctx *gin.Context) {
	urls, err := c.ScrapeService.LatestArticleURLs(ctx.Request.Context(), 12)
	if err != nil {
		util.Error(ctx, http.StatusBadGateway, err.Error())
		return
	}

	util.Success(ctx, gin.H{"urls": urls})
}

// @Summary Run the weekly ingestion batch
// @Tags quiz
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/ingestion/weekly [post]
func (c *QuizController) WeeklyIngestion(ctx *gin.Context) {
	result, err := c.IngestionService.RunWeeklyIngestion(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, util.ErrInsufficientCandidates) {
			util.BadRequest(ctx, "Not enough URLs scraped")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	c.QuizService.InvalidateWeeklyCache(ctx.Request.Context())
	util.Success(ctx, result)
}

// @Summary List quiz definitions
// @Tags quiz
// @Produce json
// @Param skip query int false "offset" default(0)
// @Param limit query int false "page size" default(100)
// @Success 200 {object} util.Response
// @Router /api/quizzes/list [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	skip, limit := paginationParams(ctx, 100, 1000)

	defs, err := c.QuizService.ListDefinitions(skip, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, defs)
}

// @Summary List quizzes grouped into week buckets, newest first
// @Tags quiz
// @Produce json
// @Param max_weeks query int false "maximum buckets" default(6)
// @Success 200 {object} util.Response
// @Router /api/quizzes/weekly [get]
func (c *QuizController) WeeklyQuizzes(ctx *gin.Context) {
	maxWeeks, err := strconv.Atoi(ctx.DefaultQuery("max_weeks", "6"))
	if err != nil || maxWeeks < 1 || maxWeeks > 52 {
		util.BadRequest(ctx, "max_weeks must be between 1 and 52")
		return
	}

	buckets, err := c.QuizService.ListWeekly(ctx.Request.Context(), maxWeeks)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, buckets)
}

// @Summary Fetch quizzes by id, or the latest 10 when no ids are given
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/quizzes/get [post]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	var req struct {
		QuizIDs []uint `json:"quiz_ids"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	payload, err := c.QuizService.GetQuizzes(req.QuizIDs)
	if err != nil {
		var notFound *util.NotFoundError
		if errors.As(err, &notFound) {
			util.NotFound(ctx, notFound.Error())
			return
		}
		if errors.Is(err, util.ErrNoQuizzes) {
			util.NotFound(ctx, "No quizzes found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, payload)
}

func paginationParams(ctx *gin.Context, defaultLimit, maxLimit int) (int, int) {
	skip, err := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}
