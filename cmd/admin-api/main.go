package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/stellar-edu/stellar-admin-api/api/swagger"
	"github.com/stellar-edu/stellar-admin-api/internal/handler"
	"github.com/stellar-edu/stellar-admin-api/internal/llm"
	"github.com/stellar-edu/stellar-admin-api/internal/middleware"
	"github.com/stellar-edu/stellar-admin-api/internal/models"
	"github.com/stellar-edu/stellar-admin-api/internal/repository"
	"github.com/stellar-edu/stellar-admin-api/internal/service"
	"github.com/stellar-edu/stellar-admin-api/internal/upstream"
	"github.com/stellar-edu/stellar-admin-api/pkg/cache"
	"github.com/stellar-edu/stellar-admin-api/pkg/config"
	"github.com/stellar-edu/stellar-admin-api/pkg/logger"
	"github.com/stellar-edu/stellar-admin-api/pkg/middleware/cors"
	"github.com/stellar-edu/stellar-admin-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	var cacheStore service.CacheStore
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		cacheStore = repository.NewCacheRepository(redisClient)
	}

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheStore, log)

	platform := upstream.NewClient(upstream.ClientParams{
		BaseURL:  cfg.Upstream.BaseURL,
		Timeout:  cfg.Upstream.Timeout,
		Logger:   log,
		Observer: metricsService,
	})

	modelClient := llm.New(llm.Params{
		BaseURL:     cfg.Model.BaseURL,
		APIKey:      cfg.Model.APIKey,
		Model:       cfg.Model.Name,
		Timeout:     cfg.Model.Timeout,
		Temperature: cfg.Model.Temperature,
		Logger:      log,
	})

	authService := service.NewAuthService(cfg.JWT.Secret)

	progressService := service.NewProgressService(service.ProgressServiceParams{
		Fetcher:  platform,
		Cache:    cacheService,
		Metrics:  metricsService,
		Logger:   log,
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	overviewService := service.NewOverviewService(service.OverviewServiceParams{
		Fetcher:  platform,
		Cache:    cacheService,
		Metrics:  metricsService,
		Logger:   log,
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	questionService := service.NewQuestionService(service.QuestionServiceParams{
		Generator:        modelClient,
		Store:            platform,
		Metrics:          metricsService,
		Logger:           log,
		MaxQuestions:     cfg.Generation.MaxQuestions,
		SafetyMultiplier: cfg.Generation.SafetyMultiplier,
	})

	reportService := service.NewReportService(service.ReportServiceParams{
		Fetcher:    platform,
		SchoolName: cfg.Reports.SchoolName,
		Logger:     log,
	})

	router := buildRouter(cfg, log, routerDeps{
		auth:      authService,
		metrics:   metricsService,
		dashboard: handler.NewDashboardHandler(progressService, overviewService),
		questions: handler.NewQuestionHandler(questionService, log),
		reports:   handler.NewReportHandler(reportService),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type routerDeps struct {
	auth      middleware.TokenValidator
	metrics   *service.MetricsService
	dashboard *handler.DashboardHandler
	questions *handler.QuestionHandler
	reports   *handler.ReportHandler
}

func buildRouter(cfg *config.Config, log *zap.Logger, deps routerDeps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(cors.New(cfg.CORS.AllowedOrigins))
	router.Use(logger.GinMiddleware(log))
	router.Use(middleware.Metrics(deps.metrics))

	handler.NewMetricsHandler(deps.metrics).RegisterRoutes(router)
	if cfg.Env != config.EnvProduction {
		router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group(cfg.APIPrefix)
	api.Use(middleware.Auth(deps.auth))
	api.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))

	deps.dashboard.RegisterRoutes(api)
	deps.questions.RegisterRoutes(api)
	deps.reports.RegisterRoutes(api)

	return router
}
