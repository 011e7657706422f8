package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/visitly/availability-api/api/swagger"
	"github.com/visitly/availability-api/internal/handler"
	"github.com/visitly/availability-api/internal/middleware"
	"github.com/visitly/availability-api/internal/repository"
	"github.com/visitly/availability-api/internal/schedule"
	"github.com/visitly/availability-api/internal/service"
	"github.com/visitly/availability-api/pkg/cache"
	"github.com/visitly/availability-api/pkg/config"
	"github.com/visitly/availability-api/pkg/database"
	"github.com/visitly/availability-api/pkg/logger"
	corsmiddleware "github.com/visitly/availability-api/pkg/middleware/cors"
	reqidmiddleware "github.com/visitly/availability-api/pkg/middleware/requestid"
)

// @title Visitly Availability API
// @version 1.0.0
// @description Weekly recurring availability for visit hosts
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	grid, err := gridFromConfig(cfg.Availability)
	if err != nil {
		logr.Sugar().Fatalw("invalid availability grid config", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	availRepo := repository.NewAvailabilityRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	availService, err := service.NewAvailabilityService(userRepo, availRepo, cacheRepo, metricsService, grid, cfg.Availability.CacheTTL, validate, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init availability service", "error", err)
	}

	authHandler := handler.NewAuthHandler(authService)
	availHandler := handler.NewAvailabilityHandler(availService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	}

	hosts := api.Group("/hosts", middleware.JWT(authService))
	{
		hosts.GET("/:id/availability", availHandler.GetWeekly)
		hosts.GET("/:id/availability/export", availHandler.Export)
		hosts.PUT("/:id/availability", middleware.RBAC("ADMIN", "SELF"), availHandler.SaveWeekly)
		hosts.DELETE("/:id/availability", middleware.RBAC("ADMIN", "SELF"), availHandler.ClearWeekly)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func gridFromConfig(cfg config.AvailabilityConfig) (schedule.Grid, error) {
	start, err := schedule.ParseTimeOfDay(cfg.DayStart)
	if err != nil {
		return schedule.Grid{}, fmt.Errorf("AVAILABILITY_DAY_START: %w", err)
	}
	end, err := schedule.ParseTimeOfDay(cfg.DayEnd)
	if err != nil {
		return schedule.Grid{}, fmt.Errorf("AVAILABILITY_DAY_END: %w", err)
	}
	return schedule.Grid{DayStart: start, DayEnd: end, SlotMinutes: cfg.SlotMinutes}, nil
}
