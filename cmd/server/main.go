package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/config"
	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
	kennelEvents "github.com/Kilat-Pet-Delivery/service-kennel/internal/events"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/logger"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/repository/memory"
)

const serviceName = "service-kennel"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, cfg.LogLevel, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("storage_driver", cfg.StorageDriver),
	)

	// Initialize repositories
	var (
		dogRepo dogDomain.DogRepository
		refRepo dogDomain.ReferenceRepository
		checks  = map[string]health.Checker{}
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		dogRepo = memory.NewDogRepository()
		refRepo = memory.NewSeededReferenceRepository()
		log.Warn("using in-memory storage, records are lost on restart")
	default:
		db := openDatabase(cfg, log)
		dogRepo = repository.NewGormDogRepository(db)
		refRepo = repository.NewGormReferenceRepository(db)
		checks["database"] = health.GormChecker(db)
	}

	// Initialize application services
	dogService := application.NewDogService(dogRepo, refRepo, log)
	referenceService := application.NewReferenceService(refRepo, log)

	// Initialize and start intake consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaConfig.Enabled {
		intakeConsumer := kennelEvents.NewIntakeEventConsumer(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaConfig.GroupID(),
			cfg.KafkaConfig.IntakeTopic,
			dogService,
			log,
		)
		defer func() { _ = intakeConsumer.Close() }()

		go func() {
			log.Info("starting intake event consumer", zap.String("topic", cfg.KafkaConfig.IntakeTopic))
			if err := intakeConsumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("intake event consumer error", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	dogHandler := handler.NewDogHandler(dogService)
	referenceHandler := handler.NewReferenceHandler(referenceService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(serviceName, checks)
	healthHandler.RegisterRoutes(router)

	// Register routes
	dogHandler.RegisterRoutes(&router.RouterGroup)
	referenceHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

// openDatabase connects to PostgreSQL and brings the schema up to date.
func openDatabase(cfg *config.ServiceConfig, log *zap.Logger) *gorm.DB {
	dbConfig := database.PostgresConfig{
		Host:            cfg.DBConfig.Host,
		Port:            cfg.DBConfig.Port,
		User:            cfg.DBConfig.User,
		Password:        cfg.DBConfig.Password,
		DBName:          cfg.DBConfig.DBName,
		SSLMode:         cfg.DBConfig.SSLMode,
		MaxOpenConns:    cfg.DBConfig.MaxOpenConns,
		MaxIdleConns:    cfg.DBConfig.MaxIdleConns,
		ConnMaxLifetime: cfg.DBConfig.ConnMaxLifetime,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.IsDevelopment() {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		if err := repository.SeedReferenceData(db); err != nil {
			log.Fatal("failed to seed reference data", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
		return db
	}

	if err := database.RunMigrations(dbConfig.DatabaseURL(), log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	return db
}
