package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/npavezibarra/flow-sub/internal/domain/subscription"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/integration/flow"
	"github.com/npavezibarra/flow-sub/internal/types"
)

var _ flow.FlowClient = (*StubFlowClient)(nil)

// StubFlowClient is a scripted flow.FlowClient for service tests. Seed it
// with records and per-ID errors, then assert on call counters.
type StubFlowClient struct {
	mu sync.Mutex

	NotConfigured bool
	Subscriptions map[string]*subscription.SubscriptionRecord
	Errors        map[string]error
	Plans         []flow.Plan

	GetSubscriptionCalls int
	CreateCustomerCalls  int
	CancelCalls          int

	customerSeq     int
	subscriptionSeq int
}

// NewStubFlowClient creates a new stub Flow client
func NewStubFlowClient() *StubFlowClient {
	return &StubFlowClient{
		Subscriptions: make(map[string]*subscription.SubscriptionRecord),
		Errors:        make(map[string]error),
	}
}

// SeedSubscription registers a record returned by GetSubscription.
func (s *StubFlowClient) SeedSubscription(record *subscription.SubscriptionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Subscriptions[record.SubscriptionID] = record
}

// FailSubscription makes GetSubscription return err for an ID.
func (s *StubFlowClient) FailSubscription(subscriptionID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors[subscriptionID] = err
}

func (s *StubFlowClient) Configured() bool {
	return !s.NotConfigured
}

func (s *StubFlowClient) notConfiguredErr() error {
	return ierr.NewError("flow credentials not configured").
		WithHint("Set the Flow API key and secret key").
		Mark(ierr.ErrValidation)
}

func (s *StubFlowClient) GetSubscription(_ context.Context, subscriptionID string) (*subscription.SubscriptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.GetSubscriptionCalls++
	if s.NotConfigured {
		return nil, s.notConfiguredErr()
	}
	if err, ok := s.Errors[subscriptionID]; ok {
		return nil, err
	}
	record, ok := s.Subscriptions[subscriptionID]
	if !ok {
		return nil, ierr.NewError("subscription not found").
			WithReportableDetails(map[string]interface{}{
				"subscription_id": subscriptionID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return record, nil
}

func (s *StubFlowClient) GetInvoice(_ context.Context, invoiceID string) (*flow.InvoiceDetail, error) {
	if s.NotConfigured {
		return nil, s.notConfiguredErr()
	}
	return &flow.InvoiceDetail{ID: invoiceID}, nil
}

func (s *StubFlowClient) GetPlans(_ context.Context) ([]flow.Plan, error) {
	if s.NotConfigured {
		return nil, s.notConfiguredErr()
	}
	return s.Plans, nil
}

func (s *StubFlowClient) CreateCustomer(_ context.Context, req *flow.CreateCustomerRequest) (*flow.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CreateCustomerCalls++
	if s.NotConfigured {
		return nil, s.notConfiguredErr()
	}
	s.customerSeq++
	return &flow.Customer{
		CustomerID: fmt.Sprintf("cus_%d", s.customerSeq),
		Name:       req.Name,
		Email:      req.Email,
	}, nil
}

func (s *StubFlowClient) CreateSubscription(_ context.Context, req *flow.CreateSubscriptionRequest) (*subscription.SubscriptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.NotConfigured {
		return nil, s.notConfiguredErr()
	}
	s.subscriptionSeq++
	record := &subscription.SubscriptionRecord{
		SubscriptionID: fmt.Sprintf("sus_%d", s.subscriptionSeq),
		CustomerID:     req.CustomerID,
		PlanID:         req.PlanID,
		PlanName:       req.PlanID,
		Status:         types.SubscriptionStatusActive,
	}
	s.Subscriptions[record.SubscriptionID] = record
	return record, nil
}

func (s *StubFlowClient) CancelSubscription(_ context.Context, subscriptionID string, atPeriodEnd bool) (*subscription.SubscriptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CancelCalls++
	if s.NotConfigured {
		return nil, s.notConfiguredErr()
	}
	record, ok := s.Subscriptions[subscriptionID]
	if !ok {
		return nil, ierr.NewError("subscription not found").Mark(ierr.ErrNotFound)
	}
	record.Status = types.SubscriptionStatusCancelled
	record.CancelAtPeriodEnd = atPeriodEnd
	return record, nil
}

func (s *StubFlowClient) VerifyWebhookSignature(params map[string]string, signature string) error {
	if s.NotConfigured {
		return s.notConfiguredErr()
	}
	if signature == "invalid" {
		return ierr.NewError("invalid webhook signature").Mark(ierr.ErrPermissionDenied)
	}
	return nil
}
