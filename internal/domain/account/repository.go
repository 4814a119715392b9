package account

import "context"

// Repository is the contract an account store adapter must provide. The
// core only reads subscription bindings and reads/writes role flags; it
// never owns the account records themselves.
type Repository interface {
	// Get retrieves an account by user ID
	Get(ctx context.Context, userID string) (*Account, error)

	// GetSubscriptionIDs returns the Flow subscription IDs bound to a user
	GetSubscriptionIDs(ctx context.Context, userID string) ([]string, error)

	// AddSubscriptionID binds a newly created subscription to a user
	AddSubscriptionID(ctx context.Context, userID, subscriptionID string) error

	// SetCustomerID persists the Flow customer ID for a user
	SetCustomerID(ctx context.Context, userID, customerID string) error

	// GetRoleFlags returns the role flags the user currently holds
	GetRoleFlags(ctx context.Context, userID string) ([]string, error)

	// SetRoleFlags replaces the user's role flags
	SetRoleFlags(ctx context.Context, userID string, roles []string) error

	// ListBySubscriptionID finds every account bound to a subscription
	ListBySubscriptionID(ctx context.Context, subscriptionID string) ([]*Account, error)

	// ListByCustomerID finds every account bound to a Flow customer
	ListByCustomerID(ctx context.Context, customerID string) ([]*Account, error)
}

// Writer is implemented by stores that accept account state pushed in
// from the host platform. Kept separate from Repository because the
// core itself never creates accounts.
type Writer interface {
	// Upsert stores or replaces an account record
	Upsert(ctx context.Context, a *Account) error
}
