package memory

import (
	"context"
	"sync"

	"github.com/npavezibarra/flow-sub/internal/domain/account"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"

	"github.com/samber/lo"
)

// AccountRepository is an in-memory account.Repository. It backs local
// runs and deployments where the host platform pushes account state in
// through the API rather than sharing a database.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
}

// NewAccountRepository creates a new in-memory account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*account.Account),
	}
}

func cloneAccount(a *account.Account) *account.Account {
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

// Upsert stores or replaces an account. Host platforms call this when a
// user record changes on their side.
func (r *AccountRepository) Upsert(_ context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").Mark(ierr.ErrValidation)
	}
	if err := a.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *AccountRepository) Get(_ context.Context, userID string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[userID]
	if !ok {
		return nil, ierr.NewError("account not found").
			WithHint("Account not found").
			WithReportableDetails(map[string]interface{}{
				"user_id": userID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) GetSubscriptionIDs(ctx context.Context, userID string) ([]string, error) {
	a, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.SubscriptionIDs, nil
}

func (r *AccountRepository) AddSubscriptionID(_ context.Context, userID, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[userID]
	if !ok {
		return ierr.NewError("account not found").Mark(ierr.ErrNotFound)
	}
	if !lo.Contains(a.SubscriptionIDs, subscriptionID) {
		a.SubscriptionIDs = append(a.SubscriptionIDs, subscriptionID)
	}
	return nil
}

func (r *AccountRepository) SetCustomerID(_ context.Context, userID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[userID]
	if !ok {
		return ierr.NewError("account not found").Mark(ierr.ErrNotFound)
	}
	a.CustomerID = customerID
	return nil
}

func (r *AccountRepository) GetRoleFlags(ctx context.Context, userID string) ([]string, error) {
	a, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Roles, nil
}

func (r *AccountRepository) SetRoleFlags(_ context.Context, userID string, roles []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[userID]
	if !ok {
		return ierr.NewError("account not found").Mark(ierr.ErrNotFound)
	}
	a.Roles = append([]string{}, roles...)
	return nil
}

func (r *AccountRepository) ListBySubscriptionID(_ context.Context, subscriptionID string) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*account.Account
	for _, a := range r.accounts {
		if a.OwnsSubscription(subscriptionID) {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *AccountRepository) ListByCustomerID(_ context.Context, customerID string) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*account.Account
	for _, a := range r.accounts {
		if a.CustomerID == customerID {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}
