package account

import (
	ierr "github.com/npavezibarra/flow-sub/internal/errors"

	"github.com/samber/lo"
)

// Account is the site-side user record this core reads role flags and
// subscription bindings from. The authoritative store lives outside this
// service; this model is what the Repository adapters surface.
type Account struct {
	ID              string   `json:"id"`
	Email           string   `json:"email,omitempty"`
	CustomerID      string   `json:"customer_id,omitempty"`
	SubscriptionIDs []string `json:"subscription_ids,omitempty"`
	Roles           []string `json:"roles,omitempty"`
}

// HasRole reports whether the account holds the given role flag.
func (a *Account) HasRole(role string) bool {
	return a != nil && lo.Contains(a.Roles, role)
}

// OwnsSubscription reports whether the subscription is bound to this account.
func (a *Account) OwnsSubscription(subscriptionID string) bool {
	return a != nil && lo.Contains(a.SubscriptionIDs, subscriptionID)
}

func (a *Account) Validate() error {
	if a.ID == "" {
		return ierr.NewError("account id is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
