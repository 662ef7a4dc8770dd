package router

import (
	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/handlers"
	"github.com/vilanovax/karbarg/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, cfg config.Scoring) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	questionHandler := handlers.NewQuestionHandler()
	answerHandler := handlers.NewAnswerHandler()
	leaderboardHandler := handlers.NewLeaderboardHandler(cfg)
	userHandler := handlers.NewUserHandler(cfg)
	categoryHandler := handlers.NewCategoryHandler()
	microcopyHandler := handlers.NewMicrocopyHandler(cfg)
	careerHandler := handlers.NewCareerHandler()
	adminHandler := handlers.NewAdminHandler()

	// Public routes
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/logout", authHandler.Logout)

	r.GET("/questions", questionHandler.List)
	r.GET("/questions/:qid", questionHandler.Detail)
	r.GET("/categories", categoryHandler.List)
	r.GET("/users/:id", userHandler.Profile)
	r.GET("/qa/leaderboard", leaderboardHandler.List)
	r.GET("/career/levels", careerHandler.Levels)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/questions", questionHandler.Create)
		authorized.PATCH("/questions/:qid", questionHandler.Update)
		authorized.POST("/questions/:qid/answers", answerHandler.Create)
		authorized.POST("/questions/:qid/accept", answerHandler.Accept)
		authorized.POST("/answers/:aid/reaction", answerHandler.Reaction)

		authorized.GET("/career/progress/:levelId", careerHandler.Progress)
		authorized.POST("/career/levels/:levelId/tasks/:taskId/start", careerHandler.StartTask)
		authorized.POST("/career/levels/:levelId/tasks/:taskId/complete", careerHandler.CompleteTask)

		authorized.GET("/microcopy/active", microcopyHandler.Active)
		authorized.POST("/microcopy/events", microcopyHandler.RecordEvent)
		authorized.POST("/microcopy/events/:id/action", microcopyHandler.RecordAction)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/microcopy/stats", microcopyHandler.Stats)
		admin.PATCH("/microcopy/definitions", microcopyHandler.ToggleDefinition)
		admin.POST("/questions/:qid/hide", adminHandler.HideQuestion)
	}
}
