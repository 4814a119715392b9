package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/npavezibarra/flow-sub/internal/api"
	v1 "github.com/npavezibarra/flow-sub/internal/api/v1"
	"github.com/npavezibarra/flow-sub/internal/cache"
	"github.com/npavezibarra/flow-sub/internal/config"
	"github.com/npavezibarra/flow-sub/internal/integration/flow"
	"github.com/npavezibarra/flow-sub/internal/integration/flow/webhook"
	"github.com/npavezibarra/flow-sub/internal/logger"
	"github.com/npavezibarra/flow-sub/internal/redis"
	"github.com/npavezibarra/flow-sub/internal/repository/memory"
	"github.com/npavezibarra/flow-sub/internal/service"

	"github.com/getsentry/sentry-go"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			log.Errorw("failed to initialize sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Type == "redis" {
		redisClient, err = redis.NewClient(cfg.Redis, log)
		if err != nil {
			log.Warnw("redis unavailable, falling back to in-memory cache", "error", err)
		} else {
			defer redisClient.Close()
		}
	}
	appCache := cache.Initialize(cfg, redisClient, log)

	if !cfg.Flow.Configured() {
		log.Warnw("flow credentials not configured, all access checks will deny")
	}
	flowClient := flow.NewClient(cfg, log)

	accountRepo := memory.NewAccountRepository()

	params := service.ServiceParams{
		Logger:        log,
		Config:        cfg,
		Cache:         appCache,
		AccountRepo:   accountRepo,
		AccountWriter: accountRepo,
		FlowClient:    flowClient,
	}
	accessService := service.NewAccessService(params)
	roleSyncService := service.NewRoleSyncService(params)
	subscriptionService := service.NewSubscriptionService(params)
	accountService := service.NewAccountService(params)

	webhookHandler := webhook.NewHandler(flowClient, accountRepo, accessService, log)

	handlers := api.Handlers{
		Health:       v1.NewHealthHandler(),
		Access:       v1.NewAccessHandler(accessService, log),
		Account:      v1.NewAccountHandler(accountService, log),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, log),
		Plan:         v1.NewPlanHandler(subscriptionService, log),
		Webhook:      v1.NewWebhookHandler(webhookHandler, log),
	}
	router := api.NewRouter(handlers, cfg, log, accessService, roleSyncService)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Infow("starting server", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
}
