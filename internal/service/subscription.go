package service

import (
	"context"
	"time"

	"github.com/npavezibarra/flow-sub/internal/api/dto"
	"github.com/npavezibarra/flow-sub/internal/cache"
	"github.com/npavezibarra/flow-sub/internal/domain/subscription"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/integration/flow"

	"github.com/samber/lo"
)

// SubscriptionService exposes a user's subscriptions: listing them with
// display labels and payment links, enrolling in a plan, and cancelling.
type SubscriptionService interface {
	// List returns the user's subscriptions with status labels and, for
	// records with a pending invoice, a payment URL.
	List(ctx context.Context, userID string) (*dto.ListSubscriptionsResponse, error)

	// Enroll creates a Flow subscription for the user, creating the
	// Flow customer first if the user has none yet.
	Enroll(ctx context.Context, userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)

	// Cancel cancels one of the user's own subscriptions.
	Cancel(ctx context.Context, userID, subscriptionID string, req *dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error)

	// Plans returns the plan catalog.
	Plans(ctx context.Context) (*dto.ListPlansResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

func (s *subscriptionService) List(ctx context.Context, userID string) (*dto.ListSubscriptionsResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}

	key := subscriptionListKey(userID)
	if raw, found := s.Cache.Get(ctx, key); found {
		if response, ok := cache.UnmarshalCacheValue[dto.ListSubscriptionsResponse](raw); ok {
			return response, nil
		}
		s.Cache.Delete(ctx, key)
	}

	subscriptionIDs, err := s.AccountRepo.GetSubscriptionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]*dto.SubscriptionResponse, 0, len(subscriptionIDs))
	for _, id := range subscriptionIDs {
		record, err := s.FlowClient.GetSubscription(ctx, id)
		if err != nil {
			s.Logger.WithContext(ctx).Warnw("skipping unreadable subscription in listing",
				"user_id", userID,
				"subscription_id", id,
				"error", err)
			continue
		}
		items = append(items, s.toResponse(ctx, record, now))
	}

	response := &dto.ListSubscriptionsResponse{
		Items: items,
		Total: len(items),
	}
	s.Cache.Set(ctx, key, response, cache.ExpirySubscriptionList)
	return response, nil
}

// toResponse attaches the display label and, when a pending invoice
// exists, resolves its payment URL.
func (s *subscriptionService) toResponse(ctx context.Context, record *subscription.SubscriptionRecord, now time.Time) *dto.SubscriptionResponse {
	text, category := subscription.Label(record, now)
	response := &dto.SubscriptionResponse{
		SubscriptionID: record.SubscriptionID,
		PlanID:         record.PlanID,
		PlanName:       record.PlanName,
		StatusText:     text,
		StatusCategory: category,
		PeriodEnd:      record.PeriodEnd,
		TrialEnd:       record.TrialEnd,
	}

	if invoice := record.FirstUnpaidInvoice(); invoice != nil {
		response.PaymentURL = invoice.PaymentURL
		if response.PaymentURL == "" && invoice.InvoiceID != "" {
			// The subscription payload sometimes omits the link; the
			// invoice endpoint always carries it.
			detail, err := s.FlowClient.GetInvoice(ctx, invoice.InvoiceID)
			if err != nil {
				s.Logger.WithContext(ctx).Warnw("failed to resolve invoice payment link",
					"invoice_id", invoice.InvoiceID,
					"error", err)
			} else {
				response.PaymentURL = detail.PaymentLink
			}
		}
	}
	return response
}

func (s *subscriptionService) Enroll(ctx context.Context, userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.AccountRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID := acct.CustomerID
	if customerID == "" {
		customer, err := s.FlowClient.CreateCustomer(ctx, &flow.CreateCustomerRequest{
			Name:       acct.Email,
			Email:      acct.Email,
			ExternalID: acct.ID,
		})
		if err != nil {
			return nil, err
		}
		customerID = customer.CustomerID
		if err := s.AccountRepo.SetCustomerID(ctx, userID, customerID); err != nil {
			return nil, err
		}
	}

	record, err := s.FlowClient.CreateSubscription(ctx, &flow.CreateSubscriptionRequest{
		CustomerID: customerID,
		PlanID:     req.PlanID,
		CouponID:   req.CouponID,
		TrialDays:  req.TrialDays,
	})
	if err != nil {
		return nil, err
	}

	if err := s.AccountRepo.AddSubscriptionID(ctx, userID, record.SubscriptionID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	s.Logger.WithContext(ctx).Infow("enrolled user in plan",
		"user_id", userID,
		"plan_id", req.PlanID,
		"subscription_id", record.SubscriptionID)
	return s.toResponse(ctx, record, time.Now().UTC()), nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userID, subscriptionID string, req *dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if userID == "" || subscriptionID == "" {
		return nil, ierr.NewError("user id and subscription id are required").
			WithHint("User ID and subscription ID are required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	subscriptionIDs, err := s.AccountRepo.GetSubscriptionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(subscriptionIDs, subscriptionID) {
		return nil, ierr.NewError("subscription does not belong to user").
			WithHint("You can only cancel your own subscriptions").
			WithReportableDetails(map[string]interface{}{
				"subscription_id": subscriptionID,
			}).
			Mark(ierr.ErrPermissionDenied)
	}

	record, err := s.FlowClient.CancelSubscription(ctx, subscriptionID, req.AtPeriodEnd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	s.Logger.WithContext(ctx).Infow("cancelled subscription",
		"user_id", userID,
		"subscription_id", subscriptionID,
		"at_period_end", req.AtPeriodEnd)
	return s.toResponse(ctx, record, time.Now().UTC()), nil
}

func (s *subscriptionService) Plans(ctx context.Context) (*dto.ListPlansResponse, error) {
	plans, err := s.FlowClient.GetPlans(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(plans, func(p flow.Plan, _ int) *dto.PlanResponse {
		return &dto.PlanResponse{
			PlanID:   p.PlanID,
			Name:     p.Name,
			Currency: p.Currency,
			Amount:   p.Amount,
			Interval: p.Interval,
		}
	})
	return &dto.ListPlansResponse{Items: items, Total: len(items)}, nil
}

// invalidate drops every cached view of the user so mutations are
// visible on the next read.
func (s *subscriptionService) invalidate(ctx context.Context, userID string) {
	s.Cache.Delete(ctx, accessVerdictKey(userID))
	s.Cache.Delete(ctx, subscriptionListKey(userID))
}
