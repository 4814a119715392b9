package dto

import (
	"github.com/npavezibarra/flow-sub/internal/domain/account"
	"github.com/npavezibarra/flow-sub/internal/validator"
)

// UpsertAccountRequest mirrors a user record pushed in by the host
// platform. Subscription bindings and the Flow customer ID are optional;
// the service fills them in as the user enrolls.
type UpsertAccountRequest struct {
	UserID          string   `json:"user_id" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	CustomerID      string   `json:"customer_id,omitempty"`
	SubscriptionIDs []string `json:"subscription_ids,omitempty"`
	Roles           []string `json:"roles,omitempty"`
}

func (r *UpsertAccountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToAccount converts the request into the domain model.
func (r *UpsertAccountRequest) ToAccount() *account.Account {
	return &account.Account{
		ID:              r.UserID,
		Email:           r.Email,
		CustomerID:      r.CustomerID,
		SubscriptionIDs: r.SubscriptionIDs,
		Roles:           r.Roles,
	}
}

// AccountResponse echoes the stored account state.
type AccountResponse struct {
	UserID          string   `json:"user_id"`
	Email           string   `json:"email"`
	CustomerID      string   `json:"customer_id,omitempty"`
	SubscriptionIDs []string `json:"subscription_ids,omitempty"`
	Roles           []string `json:"roles,omitempty"`
}

// NewAccountResponse converts the domain model into the response shape.
func NewAccountResponse(a *account.Account) *AccountResponse {
	return &AccountResponse{
		UserID:          a.ID,
		Email:           a.Email,
		CustomerID:      a.CustomerID,
		SubscriptionIDs: a.SubscriptionIDs,
		Roles:           a.Roles,
	}
}
