package dto

import (
	"time"

	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/types"
	"github.com/npavezibarra/flow-sub/internal/validator"
)

// SubscriptionResponse is one entry of a user's subscription listing.
type SubscriptionResponse struct {
	SubscriptionID string               `json:"subscription_id"`
	PlanID         string               `json:"plan_id"`
	PlanName       string               `json:"plan_name"`
	StatusText     string               `json:"status_text"`
	StatusCategory types.StatusCategory `json:"status_category"`
	PeriodEnd      *time.Time           `json:"period_end,omitempty"`
	TrialEnd       *time.Time           `json:"trial_end,omitempty"`
	// PaymentURL points at the pending invoice's payment page when one
	// exists, so the listing can offer a "pay now" action.
	PaymentURL string `json:"payment_url,omitempty"`
}

// ListSubscriptionsResponse wraps a user's subscription listing.
type ListSubscriptionsResponse struct {
	Items []*SubscriptionResponse `json:"items"`
	Total int                     `json:"total"`
}

// CreateSubscriptionRequest enrolls the authenticated user in a plan.
type CreateSubscriptionRequest struct {
	PlanID    string `json:"plan_id" validate:"required"`
	CouponID  string `json:"coupon_id,omitempty"`
	TrialDays int    `json:"trial_days,omitempty" validate:"gte=0"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CancelSubscriptionRequest cancels one of the user's subscriptions.
type CancelSubscriptionRequest struct {
	// AtPeriodEnd keeps access until the paid period runs out instead
	// of cutting it immediately.
	AtPeriodEnd bool `json:"at_period_end"`
}

func (r *CancelSubscriptionRequest) Validate() error {
	if r == nil {
		return ierr.NewError("request cannot be nil").
			WithHint("Please provide a valid cancel request").
			Mark(ierr.ErrValidation)
	}
	return nil
}
