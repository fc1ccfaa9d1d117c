package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-activities-api/api/swagger"
	"github.com/noah-isme/sma-activities-api/internal/handler"
	"github.com/noah-isme/sma-activities-api/internal/middleware"
	"github.com/noah-isme/sma-activities-api/internal/models"
	"github.com/noah-isme/sma-activities-api/internal/repository"
	"github.com/noah-isme/sma-activities-api/internal/service"
	"github.com/noah-isme/sma-activities-api/pkg/cache"
	"github.com/noah-isme/sma-activities-api/pkg/config"
	"github.com/noah-isme/sma-activities-api/pkg/database"
	"github.com/noah-isme/sma-activities-api/pkg/jobs"
	"github.com/noah-isme/sma-activities-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-activities-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-activities-api/pkg/middleware/requestid"
)

// @title Mergington Activities API
// @version 1.0.0
// @description Extracurricular activity directory, registration and announcements
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Activities.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, activity cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r, stopBackground := newRouter(ctx, cfg, logr, db, cacheRepo)
	defer stopBackground()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
}

func newRouter(ctx context.Context, cfg *config.Config, logr *zap.Logger, db *sqlx.DB, cacheRepo *repository.CacheRepository) (*gin.Engine, func()) {
	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Activities.CacheTTL, logr, cfg.Activities.CacheEnabled && cacheRepo.Enabled())

	activitySvc := service.NewActivityService(repository.NewActivityRepository(db), cacheSvc, metricsSvc, validate, logr, service.ActivityServiceConfig{
		CacheTTL:       cfg.Activities.CacheTTL,
		ExportsEnabled: cfg.Exports.Enabled,
		ExportTitle:    cfg.Exports.PDFTitle,
	})
	stopBackground := func() {}
	if cfg.Activities.WarmCache && cacheSvc.Enabled() {
		warmer := jobs.NewRefresher("activity-catalog", activitySvc.WarmCache, jobs.RefresherConfig{
			MaxRetries: 3,
			RetryDelay: 2 * time.Second,
			Logger:     logr,
		})
		warmer.Start(ctx)
		activitySvc.SetCacheWarmer(warmer)
		warmer.Trigger()
		stopBackground = warmer.Stop
	}
	authSvc := service.NewAuthService(repository.NewTeacherRepository(db), validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	announcementSvc := service.NewAnnouncementService(repository.NewAnnouncementRepository(db), validate, logr)

	activityHandler := handler.NewActivityHandler(activitySvc)
	authHandler := handler.NewAuthHandler(authSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
		"database": db.PingContext,
		"cache":    cacheRepo.Ping,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	teacherOnly := []gin.HandlerFunc{middleware.JWT(authSvc), middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	activities := api.Group("/activities")
	activities.GET("", activityHandler.List)
	activities.GET("/days", activityHandler.Days)
	activities.GET("/directory", activityHandler.Directory)
	activities.GET("/directory/export", activityHandler.Export)
	activities.POST("/:name/signup", append(teacherOnly, middleware.Audit(logr, "activity.signup"), activityHandler.Signup)...)
	activities.DELETE("/:name/participants/:email", append(teacherOnly, middleware.Audit(logr, "activity.unregister"), activityHandler.Unregister)...)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/session", append(teacherOnly, authHandler.Session)...)

	announcements := api.Group("/announcements")
	announcements.GET("", announcementHandler.List)
	announcements.GET("/all", append(teacherOnly, announcementHandler.ListAll)...)
	announcements.POST("", append(teacherOnly, middleware.Audit(logr, "announcement.create"), announcementHandler.Create)...)
	announcements.PUT("/:id", append(teacherOnly, middleware.Audit(logr, "announcement.update"), announcementHandler.Update)...)
	announcements.DELETE("/:id", append(teacherOnly, middleware.Audit(logr, "announcement.delete"), announcementHandler.Delete)...)

	api.GET("/system/metrics", append(teacherOnly, metricsHandler.Summary)...)

	return r, stopBackground
}
