package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/metrics"
	"github.com/polkiloo/foodcourt/internal/server/http/handlers"
	"github.com/polkiloo/foodcourt/internal/server/http/middleware"
)

const maxBodyBytes = 1 << 20

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(Setup)

// Params lists router dependencies.
type Params struct {
	fx.In

	Facade  handlers.FoodCourtFacade
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Config  *config.Config
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.Instrument(p.Metrics))
	engine.Use(middleware.DecompressRequest(maxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	authHandler := handlers.NewAuthHandler(p.Facade, p.Config.CookieSecure)
	catalogHandler := handlers.NewCatalogHandler(p.Facade)
	balanceHandler := handlers.NewBalanceHandler(p.Facade)
	tokenHandler := handlers.NewTokenHandler(p.Facade)
	stallHandler := handlers.NewStallHandler(p.Facade)
	adminHandler := handlers.NewAdminHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	engine.GET("/stalls", catalogHandler.List)

	auth := engine.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/stall-login", authHandler.StallLogin)
	auth.POST("/admin-login", authHandler.AdminLogin)
	auth.POST("/logout", authHandler.Logout)

	users := engine.Group("/users", middleware.RequireRole(p.Facade, model.RoleUser))
	users.GET("/balance", balanceHandler.Get)

	tokens := engine.Group("/tokens")
	customer := tokens.Group("", middleware.RequireRole(p.Facade, model.RoleUser))
	customer.POST("", tokenHandler.Place)
	customer.GET("", tokenHandler.List)

	stall := tokens.Group("/stall", middleware.RequireRole(p.Facade, model.RoleStallOwner))
	stall.GET("", stallHandler.List)
	stall.PATCH("", stallHandler.Update)

	admin := engine.Group("/admin", middleware.RequireRole(p.Facade, model.RoleAdmin))
	admin.GET("", adminHandler.Get)
	admin.POST("", adminHandler.Post)

	return engine
}
