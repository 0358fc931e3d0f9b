package main

import (
	"domisafe/internal/config"
	"domisafe/internal/handlers"
	"domisafe/internal/services"
	"domisafe/utils"

	"go.uber.org/zap"
)

type application struct {
	logger             *zap.SugaredLogger
	tokens             *utils.Manager
	limiter            rateCounter
	rateLimitPerMinute int
	trustForwardedFor  bool
	workerHandler      *handlers.WorkerHandler
}

func initializeApp(cfg config.Config, store services.WorkerStore, tokens *utils.Manager, limiter rateCounter, logger *zap.SugaredLogger) *application {
	// Services
	discoveryService := &services.DiscoveryService{
		Store:         store,
		Logger:        logger,
		DefaultRadius: cfg.Discovery.DefaultRadiusKm,
		QueryTimeout:  cfg.Discovery.QueryTimeout,
	}
	workerService := &services.WorkerService{
		Store:        store,
		Logger:       logger,
		QueryTimeout: cfg.Discovery.QueryTimeout,
	}

	// Handlers
	workerHandler := &handlers.WorkerHandler{
		Discovery: discoveryService,
		Workers:   workerService,
		Logger:    logger,
	}

	return &application{
		logger:             logger,
		tokens:             tokens,
		limiter:            limiter,
		rateLimitPerMinute: cfg.RateLimit.PerMinute,
		trustForwardedFor:  cfg.RateLimit.TrustForwardedFor,
		workerHandler:      workerHandler,
	}
}
