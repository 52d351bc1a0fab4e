package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	documentapp "github.com/lenses/backend/internal/application/document"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/adapter"
	"github.com/lenses/backend/internal/infrastructure/cache"
	"github.com/lenses/backend/internal/infrastructure/config"
	"github.com/lenses/backend/internal/infrastructure/logger"
	"github.com/lenses/backend/internal/infrastructure/migration"
	"github.com/lenses/backend/internal/infrastructure/persistence"
	"github.com/lenses/backend/internal/infrastructure/printing"
	"github.com/lenses/backend/internal/infrastructure/telemetry"
	"github.com/lenses/backend/internal/interfaces/http/handler"
	"github.com/lenses/backend/internal/interfaces/http/middleware"
	"github.com/lenses/backend/internal/interfaces/http/router"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	version             = "1.0.0"
	instrumentationName = "github.com/lenses/backend/internal/application/document"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so the OTLP log exporter can tee the logger
	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	log = providers.Logs().Tee(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting document service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	defer func() { _ = profiler.Stop() }()

	if cfg.Database.AutoMigrate {
		if err := migrateUp(cfg, log); err != nil {
			return err
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.GormLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: !cfg.IsProduction(),
	}, log); err != nil {
		return fmt.Errorf("db tracing: %w", err)
	}
	log.Info("Database connected successfully")

	metrics, err := telemetry.NewDocumentMetrics(providers.Meter(instrumentationName))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	margins, err := document.NewMargins(cfg.Renderer.MarginMM, cfg.Renderer.MarginMM, cfg.Renderer.MarginMM, cfg.Renderer.MarginMM)
	if err != nil {
		return err
	}
	opts := []documentapp.Option{
		documentapp.WithTracer(providers.Tracer(instrumentationName)),
		documentapp.WithMetrics(metrics),
		documentapp.WithBatchLimit(cfg.Renderer.BatchLimit),
		documentapp.WithPageDefaults(documentapp.PageDefaults{
			PaperSize:   document.PaperSize(strings.ToUpper(cfg.Renderer.PaperSize)),
			Orientation: document.Orientation(strings.ToUpper(cfg.Renderer.Orientation)),
			Margins:     margins,
		}),
	}

	docCache, err := cache.NewFactory(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	},
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Cache.RequireRedis),
		cache.WithCleanupInterval(cfg.Cache.CleanupInterval),
	).New(ctx, cfg.Cache.Type)
	if err != nil {
		return fmt.Errorf("artifact cache: %w", err)
	}
	if docCache != nil {
		defer func() { _ = docCache.Close() }()
		opts = append(opts, documentapp.WithCache(docCache, cfg.Cache.TTL))
	}

	if cfg.Renderer.Enabled {
		storage, err := newStorage(ctx, cfg, log)
		if err != nil {
			return err
		}
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Renderer.Timeout,
			RemoteURL:      cfg.Renderer.RemoteURL,
			NoSandbox:      cfg.Renderer.NoSandbox,
			Logger:         log,
		})
		defer func() { _ = renderer.Close() }()
		opts = append(opts, documentapp.WithPDF(renderer, storage))
	} else {
		log.Info("PDF rendering disabled, HTML preview only")
	}

	service := documentapp.NewAssemblyService(
		adapter.NewRegistry(),
		persistence.NewGormArtifactRepository(db.DB),
		log,
		opts...,
	)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defaultTenant, err := uuid.Parse(cfg.App.DefaultTenant)
	if err != nil {
		return fmt.Errorf("app.default_tenant: %w", err)
	}

	handler.NewHealthHandler(db, cfg.Renderer.Enabled).Register(engine)
	if cfg.Renderer.Enabled && cfg.Storage.Type == "filesystem" {
		engine.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.Tenant(defaultTenant)),
	)
	r.Register(handler.DocumentRoutes(handler.NewDocumentHandler(service))).
		Register(handler.ArtifactRoutes(handler.NewArtifactHandler(service)))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited gracefully")
	return nil
}

func newEngine(cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return router.NewEngine(router.EngineConfig{
		Logger: log,
		CORS:   cors,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		QuietPaths:     []string{"/health"},
	})
}

// newStorage builds the configured PDF storage backend
func newStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (printing.PDFStorage, error) {
	switch cfg.Storage.Type {
	case "s3":
		bucket, err := printing.NewS3Storage(ctx, printing.S3StorageConfig{
			Endpoint:          cfg.Storage.Endpoint,
			Region:            cfg.Storage.Region,
			Bucket:            cfg.Storage.Bucket,
			AccessKey:         cfg.Storage.AccessKey,
			SecretKey:         cfg.Storage.SecretKey,
			UseSSL:            cfg.Storage.UseSSL,
			UsePathStyle:      cfg.Storage.UsePathStyle,
			PresignExpiration: cfg.Storage.PresignExpiration,
			Logger:            log,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		if err := bucket.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		return bucket, nil
	default:
		local, err := printing.NewFileSystemStorage(printing.FileSystemStorageConfig{
			BasePath: cfg.Storage.BasePath,
			BaseURL:  cfg.Storage.BaseURL,
			Logger:   log,
		})
		if err != nil {
			return nil, fmt.Errorf("filesystem storage: %w", err)
		}
		return local, nil
	}
}

// migrateUp applies the embedded migrations over a dedicated connection,
// which the migrator closes when done
func migrateUp(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
