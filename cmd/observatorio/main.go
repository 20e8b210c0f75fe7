package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/observatorio/internal/observatorio/auth"
	"github.com/gartstein/observatorio/internal/observatorio/config"
	"github.com/gartstein/observatorio/internal/observatorio/controller"
	"github.com/gartstein/observatorio/internal/observatorio/db"
	"github.com/gartstein/observatorio/internal/observatorio/docs"
	"github.com/gartstein/observatorio/internal/observatorio/events"
	"github.com/gartstein/observatorio/internal/observatorio/handlers"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
	"go.uber.org/zap"
)

// producer is the event sink shared by every service.
type producer interface {
	controller.EventProducer
	Close()
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := db.NewRepository(ctx, cfg.Database(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()

	prod, err := initProducer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
	}
	defer prod.Close()

	router, err := newRouter(cfg, repo, prod, logger)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	server := handlers.NewServer(cfg.HTTPPort, router, logger)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	select {
	case <-ctx.Done():
	case err := <-server.Errors():
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}
	server.Stop()
	logger.Info("Server stopped properly")
}

func newRouter(cfg *config.Config, repo *db.Repository, prod producer, logger *zap.Logger) (http.Handler, error) {
	respond := handlers.NewResponder(logger, cfg.ExposeErrors)

	companies := handlers.NewCompanyResource(controller.NewService[models.Company](
		"empresas", db.NewStore[models.Company](repo, db.CompanyTable), prod, logger), respond)
	products := handlers.NewProductResource(controller.NewService[models.ProductOrService](
		"productos-servicios", db.NewStore[models.ProductOrService](repo, db.ProductTable), prod, logger), respond)
	surveys := handlers.NewSurveyResource(controller.NewService[models.DemandSurvey](
		"encuestas-demanda", db.NewStore[models.DemandSurvey](repo, db.SurveyTable), prod, logger), respond)
	sectorEvents := handlers.NewEventResource(controller.NewService[models.SectorEvent](
		"eventos-sectores", db.NewStore[models.SectorEvent](repo, db.EventTable), prod, logger), respond)
	trends := handlers.NewTrendResource(controller.NewService[models.TechnologyTrend](
		"tendencias-tecnologicas", db.NewStore[models.TechnologyTrend](repo, db.TrendTable), prod, logger), respond)

	users := controller.NewUserService(repo, prod, logger)

	return handlers.NewRouter(handlers.RouterOptions{
		Logger:        logger,
		Authenticator: auth.NewGate(cfg.JWTSecret, users, logger),
		Validator:     validation.New(),
		Responder:     respond,
		Health:        repo.Ping,
		Info: docs.Info{
			Title:       "API Observatorio",
			Version:     "1.0.0",
			Description: "Companies, products and services, demand surveys, sector events and technology trends.",
		},
	},
		companies, products, surveys, sectorEvents, trends,
		handlers.NewCompanyTrendHandler(controller.NewCompanyTrendService(repo, prod, logger), companies.IDRule(), respond),
		handlers.NewCountryHandler(controller.NewCountryService(repo, prod, logger), respond),
		handlers.NewUserHandler(users, cfg.JWTSecret, respond),
	)
}

// initProducer connects to Kafka, or discards events when no brokers are configured.
func initProducer(cfg *config.Config, logger *zap.Logger) (producer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, change events are discarded")
		return events.NopProducer{}, nil
	}
	p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// initLogger initializes a Zap production logger at level.
func initLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
