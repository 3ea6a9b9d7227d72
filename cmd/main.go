package main

import (
	"context"
	"fmt"
	"os"
	"time"

	redisclient "github.com/studyloop/studyloop-backend/internal/clients/redis"
	"github.com/studyloop/studyloop-backend/internal/db"
	"github.com/studyloop/studyloop-backend/internal/handlers"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/middleware"
	"github.com/studyloop/studyloop-backend/internal/observability"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/scheduler"
	"github.com/studyloop/studyloop-backend/internal/server"
	"github.com/studyloop/studyloop-backend/internal/services"
	"github.com/studyloop/studyloop-backend/internal/utils"
)

const serviceName = "studyloop"

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "media", log)
	styleProfilePath := utils.GetEnv("STYLE_PROFILE_PATH", "", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(ctx)
		}()
	}

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := databaseService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	documentRepo := repos.NewDocumentRepo(theDB, log)
	documentAnalysisRepo := repos.NewDocumentAnalysisRepo(theDB, log)
	studyPlanRepo := repos.NewStudyPlanRepo(theDB, log)
	studySessionRepo := repos.NewStudySessionRepo(theDB, log)

	// Style profiles override file is optional; built-in tables apply
	// when it is absent.
	var styleProfiles map[string]map[scheduler.Mode]int
	if styleProfilePath != "" {
		styleProfiles, err = scheduler.LoadStyleProfiles(styleProfilePath)
		if err != nil {
			log.Error("Could not load style profiles", "path", styleProfilePath, "error", err)
			os.Exit(1)
		}
		log.Info("Loaded style profiles", "path", styleProfilePath, "styles", len(styleProfiles))
	}

	// Plan cache is optional; the service degrades to database reads.
	var planCache redisclient.PlanCache
	if cache, cacheErr := redisclient.NewPlanCache(log); cacheErr != nil {
		log.Warn("Plan cache unavailable, continuing without it", "error", cacheErr)
	} else {
		planCache = cache
		defer planCache.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	avatarService, err := services.NewAvatarService(log, mediaDir)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(
		theDB,
		log,
		userRepo,
		userTokenRepo,
		avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(theDB, log, userRepo)
	documentService := services.NewDocumentService(theDB, log, documentRepo)
	analysisService := services.NewAnalysisService(theDB, log, documentAnalysisRepo)
	planService := services.NewPlanService(
		theDB,
		log,
		studyPlanRepo,
		studySessionRepo,
		documentRepo,
		analysisService,
		planCache,
		styleProfiles,
	)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	documentHandler := handlers.NewDocumentHandler(documentService, analysisService)
	planHandler := handlers.NewPlanHandler(planService)
	sessionHandler := handlers.NewSessionHandler(planService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		UserHandler:     userHandler,
		DocumentHandler: documentHandler,
		PlanHandler:     planHandler,
		SessionHandler:  sessionHandler,
		ServiceName:     serviceName,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
