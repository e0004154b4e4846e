package routes

import (
	"github.com/gin-gonic/gin"

	"gestor/internal/handlers"
	"gestor/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtKey []byte,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	taskHandler *handlers.TaskHandler,
	clientHandler *handlers.ClientHandler,
	eventHandler *handlers.EventHandler,
	transactionHandler *handlers.TransactionHandler,
	teamHandler *handlers.TeamHandler,
	notificationHandler *handlers.NotificationHandler,
	insightHandler *handlers.InsightHandler,
	reportHandler *handlers.ReportHandler,
	realtimeHandler *handlers.RealtimeHandler,
) *gin.Engine {

	// ---- public
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/refresh", authHandler.RefreshToken)
	r.POST("/auth/password-reset/request", authHandler.RequestPasswordReset)
	r.POST("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtKey))

	r.POST("/auth/logout", authHandler.Logout)

	// PROFILE / SESSION
	profile := r.Group("/profile")
	{
		profile.GET("/", profileHandler.Get)
		profile.PUT("/", profileHandler.Update)
		profile.POST("/onboarding", profileHandler.CompleteOnboarding)
		profile.POST("/avatar", profileHandler.UploadAvatar)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.GetAll)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
	}

	// CLIENTS (funnel)
	clients := r.Group("/clients")
	{
		clients.POST("/", clientHandler.Create)
		clients.GET("/", clientHandler.GetAll)
		clients.GET("/:id", clientHandler.GetByID)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Delete)
		clients.POST("/:id/status", clientHandler.ChangeStatus)
		clients.POST("/:id/claim", clientHandler.Claim)
	}

	// CALENDAR
	events := r.Group("/events")
	{
		events.POST("/", eventHandler.Create)
		events.GET("/", eventHandler.GetAll)
		events.PUT("/:id", eventHandler.Update)
		events.DELETE("/:id", eventHandler.Delete)
	}

	// LEDGER (mutations are manager-only)
	transactions := r.Group("/transactions")
	{
		transactions.GET("/", transactionHandler.GetAll)
		transactions.POST("/", middleware.RequireManager(), transactionHandler.Create)
		transactions.PUT("/:id", middleware.RequireManager(), transactionHandler.Update)
		transactions.DELETE("/:id", middleware.RequireManager(), transactionHandler.Delete)
	}

	// TEAM (read-only projection)
	r.GET("/team", teamHandler.GetAll)

	// NOTIFICATIONS
	notifications := r.Group("/notifications")
	{
		notifications.GET("/", notificationHandler.List)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}

	// INSIGHTS
	r.GET("/insights/dashboard", insightHandler.Dashboard)

	// REPORTS (managers)
	reports := r.Group("/reports", middleware.RequireManager())
	{
		reports.GET("/ledger", reportHandler.LedgerPDF)
	}

	// REALTIME
	r.GET("/realtime", realtimeHandler.Subscribe)

	return r
}
