package controller

import (
	"errors"
	"strconv"

	"quizentia_backend/internal/service"
	"quizentia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AuthService      *service.AuthService
	QuizService      *service.QuizService
	RetentionService *service.RetentionService
}

func NewAdminController(auth *service.AuthService, quiz *service.QuizService, retention *service.RetentionService) *AdminController {
	return &AdminController{
		AuthService:      auth,
		QuizService:      quiz,
		RetentionService: retention,
	}
}

// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			util.Error(ctx, 401, "Incorrect username or password")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary All questions for one week, unbounded
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param weekId path string true "week id"
// @Success 200 {object} util.Response
// @Router /api/admin/weeks/{weekId}/questions [get]
func (c *AdminController) WeekQuestions(ctx *gin.Context) {
	weekID := ctx.Param("weekId")

	questions, err := c.QuizService.GetWeekQuestions(weekID)
	if err != nil {
		if errors.Is(err, util.ErrNoQuizzes) {
			util.NotFound(ctx, "No quizzes found for week "+weekID)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary Week statistics
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param weekId path string true "week id"
// @Success 200 {object} util.Response
// @Router /api/admin/weeks/{weekId}/stats [get]
func (c *AdminController) WeekStats(ctx *gin.Context) {
	weekID := ctx.Param("weekId")

	stats, err := c.QuizService.GetWeekStats(weekID)
	if err != nil {
		if errors.Is(err, util.ErrNoQuizzes) {
			util.NotFound(ctx, "No quizzes found for week "+weekID)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary Paginated listing of all quizzes
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes [get]
func (c *AdminController) ListAllQuizzes(ctx *gin.Context) {
	skip, limit := paginationParams(ctx, 50, 1000)

	list, err := c.QuizService.ListAllQuizzes(skip, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, list)
}

// @Summary Delete a quiz and its definition
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{quizId} [delete]
func (c *AdminController) DeleteQuiz(ctx *gin.Context) {
	quizID, ok := parseQuizID(ctx)
	if !ok {
		return
	}

	if err := c.RetentionService.DeleteQuiz(quizID); err != nil {
		respondMutationError(ctx, err)
		return
	}

	c.QuizService.InvalidateWeeklyCache(ctx.Request.Context())
	util.Success(ctx, gin.H{
		"message":         "Quiz deleted successfully",
		"deleted_quiz_id": quizID,
	})
}

// @Summary Delete one question from a quiz
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "quiz id"
// @Param index path int true "question index"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{quizId}/questions/{index} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	quizID, ok := parseQuizID(ctx)
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid question index")
		return
	}

	deleted, err := c.RetentionService.DeleteQuestion(quizID, index)
	if err != nil {
		respondMutationError(ctx, err)
		return
	}

	c.QuizService.InvalidateWeeklyCache(ctx.Request.Context())
	util.Success(ctx, gin.H{
		"message":              "Question deleted successfully",
		"deleted_question":     deleted.Question,
		"remaining_questions":  deleted.Remaining,
		"week_total_questions": deleted.WeekTotal,
	})
}

// @Summary Update one question in a quiz
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "quiz id"
// @Param index path int true "question index"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{quizId}/questions/{index} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	quizID, ok := parseQuizID(ctx)
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid question index")
		return
	}

	var update service.QuestionUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.RetentionService.UpdateQuestion(quizID, index, update)
	if err != nil {
		respondMutationError(ctx, err)
		return
	}

	c.QuizService.InvalidateWeeklyCache(ctx.Request.Context())
	util.Success(ctx, gin.H{
		"message":          "Question updated successfully",
		"updated_question": updated,
	})
}

func parseQuizID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return 0, false
	}
	return uint(id), true
}

func respondMutationError(ctx *gin.Context, err error) {
	var retention *util.RetentionError
	switch {
	case errors.As(err, &retention):
		util.BadRequest(ctx, retention.Error())
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrDefinitionNotFound),
		errors.Is(err, util.ErrQuestionIndex):
		util.NotFound(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
