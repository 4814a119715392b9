package api

import (
	v1 "github.com/npavezibarra/flow-sub/internal/api/v1"
	"github.com/npavezibarra/flow-sub/internal/config"
	"github.com/npavezibarra/flow-sub/internal/logger"
	"github.com/npavezibarra/flow-sub/internal/rest/middleware"
	"github.com/npavezibarra/flow-sub/internal/service"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Health       *v1.HealthHandler
	Access       *v1.AccessHandler
	Account      *v1.AccountHandler
	Subscription *v1.SubscriptionHandler
	Plan         *v1.PlanHandler
	Webhook      *v1.WebhookHandler
}

// NewRouter assembles the gin engine. Webhooks and the plan catalog are
// public; everything under /v1 except plans requires a bearer token.
func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	log *logger.Logger,
	access service.AccessService,
	roleSync service.RoleSyncService,
) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler,
	)

	router.GET("/health", handlers.Health.Health)

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/flow", handlers.Webhook.HandleFlowWebhook)
	}

	public := router.Group("/v1")
	{
		public.GET("/plans", handlers.Plan.ListPlans)
	}

	private := router.Group("/v1")
	private.Use(
		middleware.AuthenticateMiddleware(cfg),
		middleware.SentryUserContextMiddleware,
		middleware.RoleSyncMiddleware(access, roleSync, log),
	)
	{
		private.PUT("/accounts", handlers.Account.UpsertAccount)
		private.GET("/accounts/:id", handlers.Account.GetAccount)
		private.GET("/access", handlers.Access.GetAccess)
		private.GET("/subscriptions", handlers.Subscription.ListSubscriptions)
		private.POST("/subscriptions", handlers.Subscription.CreateSubscription)
		private.POST("/subscriptions/:id/cancel", handlers.Subscription.CancelSubscription)
	}

	return router
}
