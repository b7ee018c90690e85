package app

import (
	"quizentia_backend/internal/config"
	"quizentia_backend/internal/middleware"
	"quizentia_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/scrape", c.quiz.Scrape)
		public.POST("/generate_quiz", c.quiz.GenerateQuiz)
		public.GET("/listing_scrape", c.quiz.ListingScrape)
		public.POST("/ingestion/weekly", c.quiz.WeeklyIngestion)

		public.GET("/quizzes/list", c.quiz.ListQuizzes)
		public.GET("/quizzes/weekly", c.quiz.WeeklyQuizzes)
		public.POST("/quizzes/get", c.quiz.GetQuiz)
	}

	admin := router.Group("/api/admin")
	admin.POST("/login", c.admin.Login)

	authorized := admin.Group("/")
	authorized.Use(middleware.AuthMiddleware(cfg), middleware.AdminRequired())
	{
		authorized.GET("/weeks/:weekId/questions", c.admin.WeekQuestions)
		authorized.GET("/weeks/:weekId/stats", c.admin.WeekStats)
		authorized.GET("/quizzes", c.admin.ListAllQuizzes)
		authorized.DELETE("/quizzes/:quizId", c.admin.DeleteQuiz)
		authorized.DELETE("/quizzes/:quizId/questions/:index", c.admin.DeleteQuestion)
		authorized.PUT("/quizzes/:quizId/questions/:index", c.admin.UpdateQuestion)
	}
}
