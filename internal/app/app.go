package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"gestor/internal/config"
	"gestor/internal/handlers"
	"gestor/internal/livecache"
	"gestor/internal/pdf"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
	"gestor/internal/routes"
	"gestor/internal/services"
	"gestor/internal/session"
	"gestor/internal/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gestor/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)

	// === Change feed ===
	feed := realtime.NewFeed()

	// === Services ===
	authService := services.NewAuthService(accountRepo)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	resetService := services.NewPasswordResetService(resetRepo, accountRepo, emailService, authService)

	tgService := services.NewTelegramService(cfg.Telegram.BotToken)
	insightService := services.NewInsightService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)

	taskService := services.NewTaskService(taskRepo, userRepo, notificationRepo, feed, tgService)
	clientService := services.NewClientService(clientRepo, feed)
	eventService := services.NewEventService(eventRepo, feed)
	transactionService := services.NewTransactionService(transactionRepo, feed)
	teamService := services.NewTeamService(userRepo, taskRepo, clientRepo)
	notificationService := services.NewNotificationService(notificationRepo, feed)

	notifier := services.NewDeadlineNotifier(
		taskRepo, notificationRepo, userRepo, feed, tgService, cfg.Notifier.ScanInterval(),
	)

	// === Session orchestration ===
	manager := session.NewManager(userRepo, authService, notifier, feed)
	manager.Start()
	defer manager.Close()

	// === Entity caches ===
	caches := livecache.NewCaches(
		authService, feed,
		taskRepo, clientRepo, eventRepo, transactionRepo,
		teamService.BuildTeam,
	)
	defer caches.Close()

	manager.SetReadyHook(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		caches.RefreshAll(ctx)
	})

	// === PDF / storage ===
	pdfGen := pdf.NewReportGenerator(cfg.Storage.RootDir, "assets/fonts/DejaVuSans.ttf")
	avatarStore := storage.NewAvatarStore(cfg.Storage.RootDir, cfg.Storage.PublicBaseURL)

	// === Handlers ===
	jwtKey := []byte(cfg.Auth.JWTSecret)
	authHandler := handlers.NewAuthHandler(authService, userRepo, emailService, resetService, jwtKey)
	profileHandler := handlers.NewProfileHandler(manager, userRepo, avatarStore, feed, caches)
	taskHandler := handlers.NewTaskHandler(taskService, caches)
	clientHandler := handlers.NewClientHandler(clientService, caches)
	eventHandler := handlers.NewEventHandler(eventService, caches)
	transactionHandler := handlers.NewTransactionHandler(transactionService, caches)
	teamHandler := handlers.NewTeamHandler(caches)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	insightHandler := handlers.NewInsightHandler(insightService, caches)
	reportHandler := handlers.NewReportHandler(transactionRepo, userRepo, pdfGen)
	realtimeHandler := handlers.NewRealtimeHandler(feed)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded files (avatars, reports)
	router.Static("/files", cfg.Storage.RootDir)

	routes.SetupRoutes(
		router,
		jwtKey,
		authHandler,
		profileHandler,
		taskHandler,
		clientHandler,
		eventHandler,
		transactionHandler,
		teamHandler,
		notificationHandler,
		insightHandler,
		reportHandler,
		realtimeHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
