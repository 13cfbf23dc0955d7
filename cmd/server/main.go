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
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rotas-rs/service-tripcost/internal/application"
	"github.com/rotas-rs/service-tripcost/internal/config"
	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/domain/trip"
	tripEvents "github.com/rotas-rs/service-tripcost/internal/events"
	"github.com/rotas-rs/service-tripcost/internal/feed"
	"github.com/rotas-rs/service-tripcost/internal/handler"
	"github.com/rotas-rs/service-tripcost/internal/platform/database"
	"github.com/rotas-rs/service-tripcost/internal/platform/kafka"
	"github.com/rotas-rs/service-tripcost/internal/platform/logger"
	"github.com/rotas-rs/service-tripcost/internal/platform/middleware"
	"github.com/rotas-rs/service-tripcost/internal/repository"
	"github.com/rotas-rs/service-tripcost/internal/routing"
)

const serviceName = "service-tripcost"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.Bool("persistence", cfg.DBConfig.Enabled()),
		zap.Bool("events", cfg.KafkaConfig.Enabled()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database when snapshot persistence is configured
	var (
		db        *gorm.DB
		snapshots poi.SnapshotRepository
	)
	if cfg.DBConfig.Enabled() {
		db, err = database.Connect(database.PostgresConfig{
			Host:     cfg.DBConfig.Host,
			Port:     cfg.DBConfig.Port,
			User:     cfg.DBConfig.User,
			Password: cfg.DBConfig.Password,
			DBName:   cfg.DBConfig.DBName,
			SSLMode:  cfg.DBConfig.SSLMode,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&repository.POISnapshotModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		snapshots = repository.NewGormPOIRepository(db)
	}

	// Initialize Kafka producer
	var publisher kafka.Publisher = kafka.NopPublisher{}
	if cfg.KafkaConfig.Enabled() {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	// Initialize outbound clients
	provider := routing.NewProvider(
		routing.NewOSRMClient(cfg.Routing.OSRMURL, cfg.Routing.Timeout),
		routing.NewNominatimClient(cfg.Routing.NominatimURL, cfg.Routing.NominatimUserAgent, cfg.Routing.Timeout),
		log.Named("routing"),
	)
	fetcher := feed.NewFetcher(cfg.Feed.URL, cfg.Routing.Timeout, log.Named("feed"))

	// Initialize application services
	store := poi.NewStore()
	poiService := application.NewPOIService(store, fetcher, snapshots, provider, publisher, log)
	tripService := application.NewTripService(
		provider,
		store,
		trip.NewStandardCostStrategy(),
		trip.NewDisplay[*trip.Estimate](cfg.MaxSessions),
		publisher,
		log,
	)

	// Warm the store, then load the live feed
	if err := poiService.WarmFromSnapshot(ctx); err != nil {
		log.Warn("failed to warm poi store from snapshot", zap.Error(err))
	}
	if _, err := poiService.Refresh(ctx); err != nil {
		log.Warn("initial poi feed load failed", zap.Error(err))
	}
	go poiService.RunRefreshLoop(ctx, cfg.Feed.RefreshInterval)

	// Initialize and start the command consumer in a goroutine
	if cfg.KafkaConfig.Enabled() {
		commandConsumer := tripEvents.NewFeedCommandConsumer(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaConfig.GroupPrefix+"tripcost-service",
			poiService,
			log,
		)
		defer func() { _ = commandConsumer.Close() }()

		go func() {
			log.Info("starting feed command consumer")
			if err := commandConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("feed command consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register routes
	handler.NewHealthHandler(poiService, db, serviceName).RegisterRoutes(router)
	handler.NewTripHandler(tripService).RegisterRoutes(&router.RouterGroup)
	handler.NewPOIHandler(poiService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminHandler(poiService).RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 4*cfg.Routing.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel background work
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
