package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/survivor-fantasy-api/internal/config"
	"github.com/yourusername/survivor-fantasy-api/internal/handler"
	"github.com/yourusername/survivor-fantasy-api/internal/middleware"
	pgRepo "github.com/yourusername/survivor-fantasy-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/survivor-fantasy-api/internal/repository/redis"
	"github.com/yourusername/survivor-fantasy-api/internal/service"
	ws "github.com/yourusername/survivor-fantasy-api/internal/websocket"
	"github.com/yourusername/survivor-fantasy-api/pkg/auth"
	"github.com/yourusername/survivor-fantasy-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	seasonRepo := pgRepo.NewSeasonRepo(db)
	episodeRepo := pgRepo.NewEpisodeRepo(db)
	tribeRepo := pgRepo.NewTribeRepo(db)
	contestantRepo := pgRepo.NewContestantRepo(db)
	rankingRepo := pgRepo.NewRankingRepo(db)
	draftPickRepo := pgRepo.NewDraftPickRepo(db)
	soleSurvivorRepo := pgRepo.NewSoleSurvivorRepo(db)
	categoryRepo := pgRepo.NewScoreCategoryRepo(db)
	eventRepo := pgRepo.NewScoringEventRepo(db)
	episodeScoreRepo := pgRepo.NewEpisodeScoreRepo(db)
	refreshTokenRepo := pgRepo.NewRefreshTokenRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем email сервис
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		emailService = &service.NoopEmailService{}
	}

	// Инициализируем WebSocket-хаб
	hub := ws.NewHub()
	go hub.Run()

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, refreshTokenRepo, jwtService,
		cfg.JWT.ExpirationHrs, cfg.Auth.RefreshTokenLifetime)
	userService := service.NewUserService(userRepo)
	seasonService := service.NewSeasonService(db, seasonRepo, episodeRepo, tribeRepo, cfg.Game.DefaultTeamSize)
	contestantService := service.NewContestantService(contestantRepo, seasonRepo, tribeRepo)
	draftService := service.NewDraftService(db, rankingRepo, draftPickRepo, contestantRepo, seasonRepo)
	rankingService := service.NewRankingService(db, rankingRepo, contestantRepo, seasonRepo, draftService)
	soleSurvivorService := service.NewSoleSurvivorService(soleSurvivorRepo, contestantRepo, seasonRepo)
	scoringService := service.NewScoringService(db, seasonRepo, episodeRepo, contestantRepo,
		categoryRepo, eventRepo, episodeScoreRepo, soleSurvivorRepo, rankingRepo, userRepo,
		draftService, emailService, cacheRepo, hub, cfg.Game.SoleSurvivorPointsPerEpisode)
	leaderboardService := service.NewLeaderboardService(episodeScoreRepo, cacheRepo)
	exportService := service.NewExportService(seasonRepo, episodeRepo, episodeScoreRepo,
		contestantRepo, draftPickRepo, soleSurvivorRepo)
	reminderService := service.NewReminderService(userRepo, seasonRepo, emailService, cacheRepo)

	// Периодическая очистка истекших refresh-токенов
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			authService.CleanupExpiredTokens()
		}
	}()

	// Напоминания о дедлайне драфта
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			reminderService.SendDraftReminders(context.Background())
		}
	}()

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	seasonHandler := handler.NewSeasonHandler(seasonService, contestantService)
	draftHandler := handler.NewDraftHandler(rankingService, draftService, soleSurvivorService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, exportService)
	adminHandler := handler.NewAdminHandler(seasonService, contestantService, scoringService)
	wsHandler := handler.NewWSHandler(hub, jwtService, cacheRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Настраиваем Gin
	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Printf("Failed to set trusted proxies: %v", err)
	}

	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			strictLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strictLimit, authHandler.Register)
			authGroup.POST("/login", strictLimit, authHandler.Login)
			authGroup.POST("/refresh", rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()), authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)

			authedAuth := authGroup.Group("")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/logout-all", authHandler.LogoutAll)
				authedAuth.POST("/ws-ticket", authHandler.GenerateWSTicket)
			}
		}

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateProfile)
			users.POST("/me/change-password", userHandler.ChangePassword)
		}

		seasons := api.Group("/seasons")
		{
			seasons.GET("", seasonHandler.ListSeasons)
			seasons.GET("/active", seasonHandler.GetActiveSeason)

			seasonWithID := seasons.Group("/:seasonId")
			seasonWithID.Use(middleware.ExtractUintParam("seasonId", "seasonID"))
			{
				seasonWithID.GET("", seasonHandler.GetSeason)
				seasonWithID.GET("/contestants", seasonHandler.GetContestants)
				seasonWithID.GET("/tribes", seasonHandler.GetTribes)
				seasonWithID.GET("/episodes", seasonHandler.GetEpisodes)
				seasonWithID.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

				authedSeason := seasonWithID.Group("")
				authedSeason.Use(authMiddleware.RequireAuth())
				{
					authedSeason.GET("/ranking", draftHandler.GetRanking)
					authedSeason.PUT("/ranking", draftHandler.ReplaceRanking)
					authedSeason.POST("/ranking/submit", draftHandler.SubmitRanking)
					authedSeason.GET("/picks", draftHandler.GetTeam)
					authedSeason.GET("/sole-survivor", draftHandler.GetSoleSurvivor)
					authedSeason.PUT("/sole-survivor", draftHandler.SelectSoleSurvivor)
					authedSeason.GET("/sole-survivor/history", draftHandler.GetSoleSurvivorHistory)
					authedSeason.GET("/my-scores", leaderboardHandler.GetMyBreakdown)
				}

				adminSeason := seasonWithID.Group("")
				adminSeason.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
				{
					adminSeason.GET("/leaderboard/export", leaderboardHandler.ExportStandings)
				}
			}
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.POST("/seasons", adminHandler.CreateSeason)

			adminSeason := admin.Group("/seasons/:seasonId")
			adminSeason.Use(middleware.ExtractUintParam("seasonId", "seasonID"))
			{
				adminSeason.PUT("", adminHandler.UpdateSeason)
				adminSeason.POST("/activate", adminHandler.ActivateSeason)
				adminSeason.POST("/episodes", adminHandler.CreateEpisode)
				adminSeason.POST("/tribes", adminHandler.CreateTribe)
				adminSeason.POST("/contestants", adminHandler.CreateContestant)
				adminSeason.GET("/categories", adminHandler.GetCategories)
				adminSeason.POST("/categories", adminHandler.CreateCategory)
				adminSeason.PUT("/categories/:categoryId",
					middleware.ExtractUintParam("categoryId", "categoryID"), adminHandler.UpdateCategory)
			}

			adminContestant := admin.Group("/contestants/:contestantId")
			adminContestant.Use(middleware.ExtractUintParam("contestantId", "contestantID"))
			{
				adminContestant.PUT("", adminHandler.UpdateContestant)
				adminContestant.PUT("/elimination", adminHandler.SetElimination)
			}

			adminEpisode := admin.Group("/episodes/:episodeId")
			adminEpisode.Use(middleware.ExtractUintParam("episodeId", "episodeID"))
			{
				adminEpisode.GET("/events", adminHandler.GetEpisodeEvents)
				adminEpisode.POST("/events", adminHandler.RecordEvent)
				adminEpisode.POST("/finalize", adminHandler.FinalizeEpisode)
			}
		}
	}

	// WebSocket маршрут
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	readTimeout := cfg.Server.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15
	}
	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30
	}
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнала остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
