package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	"github.com/noah-isme/sma-timetable-api/pkg/storage"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Student timetable lookup, classmates rosters and calendar export
// @BasePath /api/v1
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := config.LoadTermCatalog(cfg.Terms.File)
	if err != nil {
		logr.Fatal("failed to load term catalog", zap.Error(err))
	}
	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		logr.Fatal("invalid calendar timezone", zap.String("timezone", cfg.Calendar.Timezone), zap.Error(err))
	}
	terms, err := service.NewTermService(catalog, loc)
	if err != nil {
		logr.Fatal("invalid term catalog", zap.Error(err))
	}
	clock, err := timetable.NewClock(terms.Lessons())
	if err != nil {
		logr.Fatal("invalid lesson table", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect directory database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, prefix cache disabled", zap.Error(err))
		redisClient = nil
	}

	store, err := newDocumentStore(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to init calendar storage", zap.String("backend", cfg.Calendar.Storage), zap.Error(err))
	}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		redisRepo := repository.NewCacheRepository(redisClient, "sma-timetable", logr)
		defer redisRepo.Close()
		cacheRepo = redisRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Directory.PrefixCacheTTL, logr)

	layout := timetable.ParseLayout(cfg.Timetable.PeriodLayout)
	students := repository.NewStudentRepository(db)
	sections := repository.NewSectionRepository(db)
	prefixes := repository.NewPrefixRepository(db)

	affiliation := service.NewAffiliationService(prefixes, cacheSvc, cfg.Directory.PrefixCacheTTL, metrics, logr)
	identifier := service.NewIdentifierService(students, affiliation, metrics, logr)
	schedule := service.NewScheduleService(students, sections, affiliation, layout, cfg.Directory.FetchConcurrency, metrics, logr)
	query := service.NewQueryService(identifier, schedule)
	calendar := service.NewCalendarService(terms, clock, layout, export.NewICSExporter(), store, service.CalendarOptions{
		ProductID:    cfg.Calendar.ProductID,
		DownloadBase: cfg.Calendar.PublicBaseURL + cfg.APIPrefix + "/calendars",
	}, metrics, logr)
	exports := service.NewExportService(export.NewCSVExporter(true), export.NewPDFExporter(cfg.Export.PDFFontPath), layout, metrics)

	validate := validator.New()
	if err := terms.RegisterValidation(validate); err != nil {
		logr.Fatal("failed to register validators", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, logr, routerDeps{
		db:       db,
		terms:    terms,
		query:    query,
		schedule: schedule,
		calendar: calendar,
		exports:  exports,
		metrics:  metrics,
		validate: validate,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Warn("server shutdown", zap.Error(err))
		}
	}()

	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"default_term", terms.Default().String(),
		"period_layout", string(layout),
		"calendar_storage", cfg.Calendar.Storage,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newDocumentStore(ctx context.Context, cfg *config.Config) (service.DocumentStore, error) {
	switch cfg.Calendar.Storage {
	case config.StorageMinio:
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioStorage(ctx, client, cfg.Minio.Bucket)
	default:
		return storage.NewLocalStorage(cfg.Calendar.StorageDir)
	}
}
