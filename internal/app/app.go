package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dbsvc "github.com/yungbote/partvault-backend/internal/data/db"
	apphttp "github.com/yungbote/partvault-backend/internal/http"
	"github.com/yungbote/partvault-backend/internal/observability"
	"github.com/yungbote/partvault-backend/internal/pkg/envutil"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        Config
	Repos      Repos
	Aggregates Aggregates
	Metrics    *observability.Metrics
	Router     *gin.Engine

	server       *apphttp.Server
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	gin.SetMode(cfg.GinMode)

	pg, err := dbsvc.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()
	if err := dbsvc.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	if err := dbsvc.EnsurePartIndexes(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres ensure indexes: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	reposet := wireRepos(theDB, log)
	aggset := wireAggregates(cfg, theDB, log, metrics, reposet)
	events := wireEventPublisher(cfg, log, metrics)
	handlerset := wireHandlers(log, aggset, reposet, events)
	router := wireRouter(cfg, log, metrics, handlerset)

	return &App{
		Log:        log,
		DB:         theDB,
		Cfg:        cfg,
		Repos:      reposet,
		Aggregates: aggset,
		Metrics:    metrics,
		Router:     router,
		server:     apphttp.NewServer(log, cfg.HTTPAddr, router),
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}

	if a.Cfg.TracingEnabled {
		a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
			ServiceName: "partvault-backend",
			Environment: a.Cfg.Environment,
			Version:     a.Cfg.ServiceVersion,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
