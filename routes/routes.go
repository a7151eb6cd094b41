package routes

import (
	"context"

	"quranstudy/config"
	"quranstudy/handlers"
	"quranstudy/middleware"
	"quranstudy/models"
	"quranstudy/monitoring"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	ctx context.Context,
	router *gin.Engine,
	cfg *config.Config,
	tokens middleware.TokenParser,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	quizHandler *handlers.QuizHandler,
	surahHandler *handlers.SurahHandler,
	healthHandler *handlers.HealthHandler,
) {
	handlers.RegisterValidators()

	auth := middleware.AuthMiddleware(tokens)
	strict := middleware.RateLimiter(ctx, cfg.RateLimit.AuthMaxRequests, cfg.RateLimit.Window)
	generation := middleware.RateLimiter(ctx, cfg.RateLimit.QuizMaxRequests, cfg.RateLimit.Window)

	v1 := router.Group("/v1")
	v1.Use(middleware.RateLimiter(ctx, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window))
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", strict, authHandler.Register)
			authRoutes.POST("/login", strict, authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.POST("/refresh-tokens", authHandler.RefreshTokens)
			authRoutes.GET("/profile", auth, authHandler.GetProfile)
		}

		users := v1.Group("/users", auth)
		{
			users.POST("", middleware.RequireRights(models.RightManageUsers), userHandler.CreateUser)
			users.GET("", middleware.RequireRights(models.RightGetUsers), userHandler.GetUsers)
			users.GET("/:userId", middleware.RequireRights(models.RightGetUsers), userHandler.GetUser)
			users.PATCH("/:userId", middleware.RequireRights(models.RightManageUsers), userHandler.UpdateUser)
			users.DELETE("/:userId", middleware.RequireRights(models.RightManageUsers), userHandler.DeleteUser)
		}

		quizzes := v1.Group("/quiz", auth)
		{
			quizzes.GET("", generation, quizHandler.GenerateQuiz)
			quizzes.POST("/submit", quizHandler.SubmitQuiz)
			quizzes.GET("/list", quizHandler.GetUserQuizzes)
			quizzes.GET("/:quizId", quizHandler.GetQuizByID)
		}

		v1.GET("/surah/dashboard", surahHandler.Dashboard)
		v1.GET("/surah/:surahId", surahHandler.GetSurah)
		v1.GET("/search", surahHandler.Search)

		v1.GET("/ws/quiz/:quizId", auth, quizHandler.LiveFeed)
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", monitoring.PrometheusHandler())
}
