package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

type routerDeps struct {
	db       *sqlx.DB
	terms    *service.TermService
	query    *service.QueryService
	schedule *service.ScheduleService
	calendar *service.CalendarService
	exports  *service.ExportService
	metrics  *service.MetricsService
	validate *validator.Validate
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics, "/metrics", "/health", "/ready", "/docs"))

	metricsHandler := handler.NewMetricsHandler(deps.metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	queryHandler := handler.NewQueryHandler(deps.query, deps.terms)
	classmatesHandler := handler.NewClassmatesHandler(deps.schedule, deps.terms)
	calendarHandler := handler.NewCalendarHandler(deps.query, deps.calendar, deps.terms, deps.validate)
	exportHandler := handler.NewTimetableExportHandler(deps.query, deps.exports, deps.terms)
	termHandler := handler.NewTermHandler(deps.terms)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Term(deps.terms))
	{
		api.GET("/terms", termHandler.List)
		api.GET("/query", queryHandler.Query)
		api.GET("/classmates", classmatesHandler.List)
		api.GET("/timetable/export", exportHandler.Download)
		api.GET("/calendar", calendarHandler.Export)
		api.POST("/calendar", calendarHandler.Export)
		api.GET("/calendars/:file", calendarHandler.Download)
	}

	return r
}
