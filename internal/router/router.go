package router

import (
	"context"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/config"
	"github.com/Hunteraulo1/f95-france/internal/handlers"
	"github.com/Hunteraulo1/f95-france/internal/logger"
	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/notify"
	"github.com/Hunteraulo1/f95-france/internal/scrape"
	"github.com/Hunteraulo1/f95-france/internal/submissions"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup configures and returns the Gin router
func Setup(db *gorm.DB, cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	policy, err := auth.NewPolicy()
	if err != nil {
		return nil, err
	}
	sessions := auth.NewSessions(db, cfg.JWTSecret)
	inbox := notify.NewInbox(db, log)
	notifier := notify.NewNotifier(db, inbox, notify.NewDiscord(cfg.ScrapeTimeout), log)
	subs := submissions.NewService(db, log, notifier)
	scraper := scrape.New(cfg.ScrapeTimeout, scrapeCache(cfg, log), cfg.ScrapeCacheTTL, log)

	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(log), corsMiddleware(cfg))
	router.Use(middleware.APILogger(db, notifier, log))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, sessions, notifier, log)
	gameHandler := handlers.NewGameHandler(db, subs, log)
	submissionHandler := handlers.NewSubmissionHandler(subs, policy)
	dashboardHandler := handlers.NewDashboardHandler(db, subs)
	notificationHandler := handlers.NewNotificationHandler(inbox)
	translatorHandler := handlers.NewTranslatorHandler(db)
	logHandler := handlers.NewLogHandler(db)
	configHandler := handlers.NewConfigHandler(db)
	userHandler := handlers.NewUserHandler(db)
	scrapeHandler := handlers.NewScrapeHandler(scraper)

	requireAuth := middleware.AuthMiddleware(sessions, log)
	can := func(p auth.Permission) gin.HandlerFunc { return middleware.RequirePermission(policy, p) }

	// API routes
	api := router.Group("/api")
	{
		// Authentication routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", requireAuth, authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		api.GET("/dashboard", requireAuth, dashboardHandler.GetDashboard)

		games := api.Group("/games")
		{
			games.GET("", gameHandler.GetGames)
			games.GET("/search", gameHandler.SearchGames)
			games.GET("/:id", gameHandler.GetGame)
			games.POST("", requireAuth, can(auth.PermGamesWrite), gameHandler.CreateGame)
			games.PUT("/:id", requireAuth, can(auth.PermGamesWrite), gameHandler.UpdateGame)
			games.DELETE("/:id", requireAuth, can(auth.PermGamesWrite), gameHandler.DeleteGame)

			games.POST("/:id/translations", requireAuth, can(auth.PermGamesWrite), gameHandler.CreateTranslation)
			games.PUT("/:id/translations/:tid", requireAuth, can(auth.PermGamesWrite), gameHandler.UpdateTranslation)
			games.DELETE("/:id/translations/:tid", requireAuth, can(auth.PermGamesWrite), gameHandler.DeleteTranslation)
		}

		subRoutes := api.Group("/submissions", requireAuth)
		{
			subRoutes.GET("", can(auth.PermSubmissionsCreate), submissionHandler.GetMySubmissions)
			subRoutes.GET("/all", can(auth.PermSubmissionsModerate), submissionHandler.GetAllSubmissions)
			subRoutes.GET("/:id", submissionHandler.GetSubmission)
			subRoutes.PATCH("/:id/status", can(auth.PermSubmissionsModerate), submissionHandler.UpdateSubmissionStatus)
		}

		notifications := api.Group("/notifications", requireAuth)
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		translators := api.Group("/translators", requireAuth)
		{
			translators.GET("", can(auth.PermTranslatorsRead), translatorHandler.GetTranslators)
			translators.POST("", can(auth.PermTranslatorsWrite), translatorHandler.CreateTranslator)
			translators.PUT("/:id", can(auth.PermTranslatorsWrite), translatorHandler.UpdateTranslator)
		}

		api.GET("/logs", requireAuth, can(auth.PermLogsRead), logHandler.GetLogs)

		cfgRoutes := api.Group("/config", requireAuth, can(auth.PermConfigManage))
		{
			cfgRoutes.GET("", configHandler.GetConfig)
			cfgRoutes.PUT("", configHandler.UpdateConfig)
		}

		users := api.Group("/users", requireAuth, can(auth.PermUsersManage))
		{
			users.GET("", userHandler.GetUsers)
			users.PATCH("/:id/role", userHandler.UpdateRole)
		}

		me := api.Group("/me", requireAuth)
		{
			me.PUT("/profile", userHandler.UpdateProfile)
			me.PUT("/preferences", userHandler.UpdatePreferences)
		}

		api.POST("/scrape", requireAuth, can(auth.PermGamesWrite), scrapeHandler.Scrape)
	}

	return router, nil
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	if len(cfg.CORSOrigins) == 0 {
		return cors.Default()
	}
	c := cors.DefaultConfig()
	c.AllowOrigins = cfg.CORSOrigins
	c.AllowCredentials = true
	c.AddAllowHeaders("Authorization")
	c.AddExposeHeaders(auth.RenewHeader)
	return cors.New(c)
}

// scrapeCache returns the redis cache when one is configured and reachable
func scrapeCache(cfg *config.Config, log *zap.Logger) scrape.Cache {
	client, err := scrape.ConnectRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil || client == nil {
		return nil
	}
	return scrape.NewRedisCache(client)
}
