package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campushq/attendance-insights-api/internal/handler"
	"github.com/campushq/attendance-insights-api/internal/middleware"
	"github.com/campushq/attendance-insights-api/internal/models"
	"github.com/campushq/attendance-insights-api/internal/repository"
	"github.com/campushq/attendance-insights-api/internal/service"
	"github.com/campushq/attendance-insights-api/pkg/cache"
	"github.com/campushq/attendance-insights-api/pkg/config"
	"github.com/campushq/attendance-insights-api/pkg/database"
	"github.com/campushq/attendance-insights-api/pkg/logger"
	corsmiddleware "github.com/campushq/attendance-insights-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/attendance-insights-api/pkg/middleware/requestid"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Analytics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, true)
		}
	}

	attendanceRepo := repository.NewAttendanceRepository(db)
	analyticsSvc := service.NewAnalyticsService(service.AnalyticsServiceParams{
		Source:  attendanceRepo,
		Cache:   cacheSvc,
		Metrics: metricsSvc,
		Logger:  logr,
		Config: service.AnalyticsServiceConfig{
			CacheTTL:          cfg.Analytics.CacheTTL,
			DefaultTimeRange:  models.TimeRange(cfg.Analytics.DefaultTimeRange),
			PatternWindowDays: cfg.Analytics.PatternWindowDays,
			GoodDayThreshold:  cfg.Analytics.GoodDayThreshold,
		},
	})

	authSvc := service.NewAuthService(cfg.JWT.Secret)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.GET("/analytics", analyticsHandler.Overview)
	api.GET("/analytics/system", analyticsHandler.System)

	if cfg.Seed.Enabled {
		seedRepo := repository.NewSeedRepository(db)
		seedSvc := service.NewSeedService(seedRepo, attendanceRepo, cacheSvc, logr, service.SeedServiceConfig{
			SampleDays: cfg.Seed.SampleDays,
			SampleSize: cfg.Seed.SampleSize,
		})
		admin := api.Group("/admin", middleware.JWT(authSvc))
		admin.POST("/analytics/seed", handler.NewSeedHandler(seedSvc).Seed)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
