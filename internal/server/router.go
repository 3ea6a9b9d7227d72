package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studyloop/studyloop-backend/internal/handlers"
	"github.com/studyloop/studyloop-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	DocumentHandler *handlers.DocumentHandler
	PlanHandler     *handlers.PlanHandler
	SessionHandler  *handlers.SessionHandler
	ServiceName     string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)

	api := protected.Group("/api")
	// Documents
	api.POST("/documents", cfg.DocumentHandler.Register)
	api.GET("/documents", cfg.DocumentHandler.List)
	api.PUT("/documents/:id/analysis", cfg.DocumentHandler.SaveAnalysis)
	api.GET("/documents/:id/analysis", cfg.DocumentHandler.GetAnalysis)
	// Plans
	api.POST("/plans/generate", cfg.PlanHandler.Generate)
	api.GET("/plans", cfg.PlanHandler.ListActive)
	api.GET("/plans/:id", cfg.PlanHandler.Get)
	api.PATCH("/plans/:id/status", cfg.PlanHandler.UpdateStatus)
	// Sessions
	api.POST("/sessions/:id/complete", cfg.SessionHandler.Complete)

	return router
}
