package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/uiforge/uiforge/internal/ai"
	iauth "github.com/uiforge/uiforge/internal/auth"
	"github.com/uiforge/uiforge/internal/handlers"
	"github.com/uiforge/uiforge/internal/middleware"
	"github.com/uiforge/uiforge/internal/services"
	"github.com/uiforge/uiforge/pkg/mail"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
// mailer and aiClient may be nil: code delivery and generation then degrade
// gracefully (codes are only logged, generation endpoints return 502).
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, mailer mail.Mailer, aiClient *ai.Client, otpOpts ...services.OTPOption) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	// Basic rate limiting: 100 requests/minute per IP+path
	r.Use(middleware.RateLimit(100, time.Minute))

	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	otpSvc, err := services.NewOTPService(db, mailer, otpOpts...)
	if err != nil {
		return nil, err
	}
	userSvc, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	componentSvc, err := services.NewComponentService(db)
	if err != nil {
		return nil, err
	}
	statsSvc, err := services.NewStatsService(db)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(otpSvc, userSvc, jwt)
	componentHandler := handlers.NewComponentHandler(componentSvc)
	generateHandler := handlers.NewGenerateHandler(aiClient, componentSvc)
	chatHandler := handlers.NewChatHandler(aiClient)
	searchHandler := handlers.NewSearchHandler(aiClient, componentSvc)
	statsHandler := handlers.NewStatsHandler(statsSvc)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/otp", authHandler.RequestCode)
		auth.POST("/otp/verify", authHandler.VerifyCode)
	}

	// Public component browsing and search
	r.GET("/api/components", componentHandler.List)
	r.GET("/api/components/:id", componentHandler.Get)
	r.POST("/api/search", searchHandler.Search)

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)

	api.POST("/components", componentHandler.Create)
	api.DELETE("/components/:id", componentHandler.Delete)

	api.POST("/generate", generateHandler.Generate)
	api.POST("/refine", generateHandler.Refine)
	api.POST("/chat", chatHandler.Chat)

	api.GET("/dashboard/stats", statsHandler.Overview)

	return r, nil
}
