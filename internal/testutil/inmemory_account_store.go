package testutil

import (
	"context"

	"github.com/npavezibarra/flow-sub/internal/domain/account"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"

	"github.com/samber/lo"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	*InMemoryStore[*account.Account]
}

// NewInMemoryAccountStore creates a new in-memory account store
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		InMemoryStore: NewInMemoryStore[*account.Account](),
	}
}

// Helper to copy account
func copyAccount(a *account.Account) *account.Account {
	if a == nil {
		return nil
	}
	return &account.Account{
		ID:              a.ID,
		Email:           a.Email,
		CustomerID:      a.CustomerID,
		SubscriptionIDs: append([]string{}, a.SubscriptionIDs...),
		Roles:           append([]string{}, a.Roles...),
	}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").Mark(ierr.ErrValidation)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	return s.InMemoryStore.Create(ctx, a.ID, copyAccount(a))
}

func (s *InMemoryAccountStore) Upsert(ctx context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").Mark(ierr.ErrValidation)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.InMemoryStore.Update(ctx, a.ID, copyAccount(a)); err != nil {
		return s.InMemoryStore.Create(ctx, a.ID, copyAccount(a))
	}
	return nil
}

func (s *InMemoryAccountStore) Get(ctx context.Context, userID string) (*account.Account, error) {
	a, err := s.InMemoryStore.Get(ctx, userID)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithHint("Account not found").
			WithReportableDetails(map[string]interface{}{
				"user_id": userID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyAccount(a), nil
}

func (s *InMemoryAccountStore) GetSubscriptionIDs(ctx context.Context, userID string) ([]string, error) {
	a, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.SubscriptionIDs, nil
}

func (s *InMemoryAccountStore) AddSubscriptionID(ctx context.Context, userID, subscriptionID string) error {
	a, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !lo.Contains(a.SubscriptionIDs, subscriptionID) {
		a.SubscriptionIDs = append(a.SubscriptionIDs, subscriptionID)
	}
	return s.InMemoryStore.Update(ctx, userID, a)
}

func (s *InMemoryAccountStore) SetCustomerID(ctx context.Context, userID, customerID string) error {
	a, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	a.CustomerID = customerID
	return s.InMemoryStore.Update(ctx, userID, a)
}

func (s *InMemoryAccountStore) GetRoleFlags(ctx context.Context, userID string) ([]string, error) {
	a, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Roles, nil
}

func (s *InMemoryAccountStore) SetRoleFlags(ctx context.Context, userID string, roles []string) error {
	a, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	a.Roles = append([]string{}, roles...)
	return s.InMemoryStore.Update(ctx, userID, a)
}

func (s *InMemoryAccountStore) ListBySubscriptionID(ctx context.Context, subscriptionID string) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range s.InMemoryStore.All(ctx) {
		if a.OwnsSubscription(subscriptionID) {
			out = append(out, copyAccount(a))
		}
	}
	return out, nil
}

func (s *InMemoryAccountStore) ListByCustomerID(ctx context.Context, customerID string) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range s.InMemoryStore.All(ctx) {
		if a.CustomerID == customerID {
			out = append(out, copyAccount(a))
		}
	}
	return out, nil
}
