package service

import (
	"context"
	"time"

	"github.com/npavezibarra/flow-sub/internal/cache"
	"github.com/npavezibarra/flow-sub/internal/domain/subscription"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/types"
)

// AccessService answers the one question the rest of the system asks:
// does this user currently have an active subscription? Verdicts are
// cached per user and recomputed lazily after expiry or invalidation.
type AccessService interface {
	// IsActive resolves the user's access verdict, serving from cache
	// when a fresh verdict exists.
	IsActive(ctx context.Context, userID string) (*AccessResult, error)

	// Invalidate drops the user's cached verdict and subscription list
	// so the next read recomputes from Flow.
	Invalidate(ctx context.Context, userID string)
}

// AccessResult is the cached outcome of an access resolution.
type AccessResult struct {
	UserID     string           `json:"user_id"`
	Active     bool             `json:"active"`
	Rule       types.AccessRule `json:"rule,omitempty"`
	ComputedAt time.Time        `json:"computed_at"`
}

type accessService struct {
	ServiceParams
}

// NewAccessService creates a new access service
func NewAccessService(params ServiceParams) AccessService {
	return &accessService{ServiceParams: params}
}

func accessVerdictKey(userID string) string {
	return cache.Key("access", "verdict", userID)
}

func subscriptionListKey(userID string) string {
	return cache.Key("access", "subs", userID)
}

func (s *accessService) IsActive(ctx context.Context, userID string) (*AccessResult, error) {
	if userID == "" {
		return nil, ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}

	key := accessVerdictKey(userID)
	if raw, found := s.Cache.Get(ctx, key); found {
		if result, ok := cache.UnmarshalCacheValue[AccessResult](raw); ok {
			return result, nil
		}
		// Unreadable entry, drop it and recompute.
		s.Cache.Delete(ctx, key)
	}

	result, expiry, cacheable := s.resolve(ctx, userID)
	if cacheable {
		s.Cache.Set(ctx, key, result, expiry)
	}
	return result, nil
}

// resolve recomputes the verdict from Flow. It reports whether the
// outcome may be cached: verdicts computed while Flow is unreachable or
// unconfigured are served fail-closed but never stored, so access
// recovers as soon as the upstream does.
func (s *accessService) resolve(ctx context.Context, userID string) (*AccessResult, time.Duration, bool) {
	now := time.Now().UTC()
	inactive := &AccessResult{UserID: userID, Active: false, ComputedAt: now}

	if !s.FlowClient.Configured() {
		s.Logger.WithContext(ctx).Warnw("flow client not configured, denying access",
			"user_id", userID)
		return inactive, 0, false
	}

	subscriptionIDs, err := s.AccountRepo.GetSubscriptionIDs(ctx, userID)
	if err != nil {
		s.Logger.WithContext(ctx).Errorw("failed to load subscription bindings",
			"user_id", userID,
			"error", err)
		return inactive, 0, false
	}

	if len(subscriptionIDs) == 0 {
		// Cached briefly: a user mid-checkout gets picked up quickly
		// once their first subscription lands.
		return inactive, cache.ExpiryNoSubscriptions, true
	}

	records := make([]*subscription.SubscriptionRecord, 0, len(subscriptionIDs))
	for _, id := range subscriptionIDs {
		record, err := s.FlowClient.GetSubscription(ctx, id)
		if err != nil {
			s.Logger.WithContext(ctx).Warnw("skipping unreadable subscription",
				"user_id", userID,
				"subscription_id", id,
				"error", err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		// Every fetch failed. Deny but do not cache the denial.
		s.Logger.WithContext(ctx).Errorw("all subscription fetches failed, denying access",
			"user_id", userID,
			"subscription_count", len(subscriptionIDs))
		return inactive, 0, false
	}

	verdict := subscription.Resolve(records, now)
	result := &AccessResult{
		UserID:     userID,
		Active:     verdict.Active,
		Rule:       verdict.Rule,
		ComputedAt: now,
	}
	return result, cache.ExpiryAccessVerdict, true
}

func (s *accessService) Invalidate(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	s.Cache.Delete(ctx, accessVerdictKey(userID))
	s.Cache.Delete(ctx, subscriptionListKey(userID))
	s.Logger.WithContext(ctx).Debugw("invalidated access cache", "user_id", userID)
}
