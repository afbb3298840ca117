package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nursery-service/internal/format"
	"nursery-service/internal/handler"
	"nursery-service/internal/middleware"
	"nursery-service/internal/model"
	"nursery-service/internal/records"
	"nursery-service/internal/repository"
	"nursery-service/internal/schema"
	"nursery-service/internal/seed"
	"nursery-service/pkg/config"
	"nursery-service/pkg/database"
	"nursery-service/pkg/jwtutil"
	"nursery-service/pkg/logger"
	"nursery-service/prometheus"
)

const serviceName = "nursery-service"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	log, err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: serviceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	log.Info("Starting nursery service...", cfg.LogConfig()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Prometheus metrics
	metrics := prometheus.NewMetrics(cfg.Metrics.Prefix, promclient.DefaultRegisterer)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Initialize storage
	db, recordRepo, userRepo, err := openStores(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				log.Error("Failed to close database", zap.Error(err))
			}
		}()
	}

	if cfg.SeedDemo {
		if err := seed.Demo(ctx, userRepo, log); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
		if db != nil && cfg.Catalog.Source == "database" {
			if err := seed.Catalog(ctx, db, log); err != nil {
				log.Fatal("Failed to seed catalog", zap.Error(err))
			}
		}
	}

	// Initialize schema registry
	registry, err := schema.NewRegistry(ctx, catalogSource(cfg, db))
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}
	log.Info("Catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("tables", len(registry.ListTables())))
	if cfg.Catalog.Source == "yaml" && cfg.Catalog.Watch {
		if err := schema.Watch(ctx, registry, cfg.Catalog.File, log, metrics.RecordCatalogReload); err != nil {
			log.Fatal("Failed to watch catalog file", zap.Error(err))
		}
		log.Info("Watching catalog file", zap.String("file", cfg.Catalog.File))
	}

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	log.Info("JWT utility initialized")

	h := handler.New(handler.Options{
		Records:      records.NewService(registry, recordRepo, metrics),
		Users:        userRepo,
		JWT:          jwtUtil,
		Metrics:      metrics,
		Formatter:    format.New(cfg.Display.CurrencySymbol),
		SecureCookie: cfg.Server.Env == "production",
		ServiceName:  serviceName,
	})

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware(log))
	e.Use(metrics.Middleware())

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPM:   cfg.LoginLimit.RPM,
		Burst: cfg.LoginLimit.Burst,
	})
	h.Register(e, middleware.JWTAuthMiddleware(jwtUtil, metrics), limiter.Middleware())

	// Start server
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
}

// openStores connects the configured backend. db is nil for the memory driver.
func openStores(cfg *config.Config, log *zap.Logger) (*gorm.DB, repository.RecordRepository, repository.UserRepository, error) {
	if cfg.DB.Driver == "memory" {
		log.Warn("Using in-memory storage; data is lost on restart")
		return nil, repository.NewMemoryRecordRepository(), repository.NewMemoryUserRepository(), nil
	}

	db, err := database.Open(&cfg.DB, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(db, model.AllModels()...); err != nil {
		_ = database.Close(db)
		return nil, nil, nil, err
	}
	log.Info("Database connection established", zap.String("driver", cfg.DB.Driver))
	return db, repository.NewRecordRepository(db), repository.NewUserRepository(db), nil
}

func catalogSource(cfg *config.Config, db *gorm.DB) schema.Source {
	switch cfg.Catalog.Source {
	case "yaml":
		return schema.FileSource{Path: cfg.Catalog.File}
	case "database":
		return schema.DatabaseSource{DB: db}
	default:
		return schema.BuiltinSource()
	}
}
