package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/issuedesk/issuedesk/docs"
	"github.com/issuedesk/issuedesk/internal/api/handler"
	"github.com/issuedesk/issuedesk/internal/api/middleware"
	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/service"
	"github.com/issuedesk/issuedesk/internal/infrastructure/config"
	mongodb "github.com/issuedesk/issuedesk/internal/infrastructure/db/mongo"
	redisdb "github.com/issuedesk/issuedesk/internal/infrastructure/db/redis"
	"github.com/issuedesk/issuedesk/internal/realtime"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, hub *realtime.Hub, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("issuedesk"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	issueRepo := mongodb.NewIssueRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, log)
	issueService := service.NewIssueService(issueRepo, hub, log)
	commentService := service.NewCommentService(commentRepo, issueRepo, hub, log)
	dashboardService := service.NewDashboardService(issueRepo, commentRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	issueHandler := handler.NewIssueHandler(issueService)
	commentHandler := handler.NewCommentHandler(commentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	wsHandler := realtime.NewHandler(hub, userRepo, cfg.JWTSecret, cfg.ClientOrigin)

	authRequired := middleware.Auth(cfg.JWTSecret, userRepo)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	limiter := redisdb.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)

	// --- API routes ---
	api := e.Group("/api", middleware.RateLimit(limiter, log))

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authRequired)
	auth.PUT("/profile", authHandler.UpdateProfile, authRequired)
	auth.GET("/users", authHandler.ListUsers, authRequired, adminOnly)

	issues := api.Group("/issues", authRequired)
	issues.GET("", issueHandler.List)
	issues.GET("/:id", issueHandler.Get)
	issues.POST("", issueHandler.Create)
	issues.PUT("/:id", issueHandler.Update)
	issues.PATCH("/:id/assign", issueHandler.Assign)
	issues.DELETE("/:id", issueHandler.Delete)

	comments := api.Group("/comments", authRequired)
	comments.GET("/issue/:issueId", commentHandler.ListByIssue)
	comments.POST("", commentHandler.Create)
	comments.PUT("/:id", commentHandler.Update)
	comments.DELETE("/:id", commentHandler.Delete)

	dashboard := api.Group("/dashboard", authRequired)
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/activity", dashboardHandler.Activity)

	// --- Realtime ---
	e.GET("/ws", wsHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // are dependencies up?

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
