package webhook

import (
	"context"

	"github.com/npavezibarra/flow-sub/internal/domain/account"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/integration/flow"
	"github.com/npavezibarra/flow-sub/internal/logger"
)

// CacheInvalidator drops the cached access verdict and record snapshot
// for one user. Satisfied by the access service.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Handler processes Flow webhook events. Its only job in this core is
// cache invalidation: any event naming a subscription or customer clears
// the verdicts of every account bound to it, so the next access check
// re-reads the provider.
type Handler struct {
	client      flow.FlowClient
	accountRepo account.Repository
	invalidator CacheInvalidator
	logger      *logger.Logger
}

// NewHandler creates a new Flow webhook handler
func NewHandler(
	client flow.FlowClient,
	accountRepo account.Repository,
	invalidator CacheInvalidator,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		client:      client,
		accountRepo: accountRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// HandleEvent verifies and processes one webhook event.
func (h *Handler) HandleEvent(ctx context.Context, event *Event) error {
	if !h.client.Configured() {
		return ierr.NewError("flow credentials not configured").
			WithHint("Service not configured").
			Mark(ierr.ErrSystem)
	}

	if err := h.client.VerifyWebhookSignature(event.SignatureParams(), event.Signature); err != nil {
		h.logger.Warnw("rejected webhook with bad signature", "event", event.Event)
		return err
	}

	if event.Event == "" || event.Data.IsEmpty() {
		return ierr.NewError("invalid webhook payload").
			WithHint("Invalid payload").
			Mark(ierr.ErrValidation)
	}

	h.logger.Infow("processing Flow webhook event", "event", event.Event)

	if subscriptionID := event.ResolveSubscriptionID(); subscriptionID != "" {
		return h.invalidateBySubscription(ctx, subscriptionID)
	}
	if event.Data.CustomerID != "" {
		return h.invalidateByCustomer(ctx, event.Data.CustomerID)
	}

	h.logger.Infow("webhook names no subscription or customer, ignoring", "event", event.Event)
	return nil
}

func (h *Handler) invalidateBySubscription(ctx context.Context, subscriptionID string) error {
	accounts, err := h.accountRepo.ListBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		h.logger.Errorw("failed to find accounts for subscription",
			"subscription_id", subscriptionID,
			"error", err)
		// the webhook is acknowledged anyway; verdicts expire via TTL
		return nil
	}

	for _, acct := range accounts {
		h.invalidator.Invalidate(ctx, acct.ID)
		h.logger.Infow("invalidated access cache",
			"user_id", acct.ID,
			"subscription_id", subscriptionID)
	}
	return nil
}

func (h *Handler) invalidateByCustomer(ctx context.Context, customerID string) error {
	accounts, err := h.accountRepo.ListByCustomerID(ctx, customerID)
	if err != nil {
		h.logger.Errorw("failed to find accounts for customer",
			"customer_id", customerID,
			"error", err)
		return nil
	}

	for _, acct := range accounts {
		h.invalidator.Invalidate(ctx, acct.ID)
		h.logger.Infow("invalidated access cache",
			"user_id", acct.ID,
			"customer_id", customerID)
	}
	return nil
}
