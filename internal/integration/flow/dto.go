package flow

import (
	"time"

	"github.com/npavezibarra/flow-sub/internal/domain/subscription"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/shopspring/decimal"
)

// Flow date fields arrive as strings in either of these layouts.
var flowTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SubscriptionResponse is the wire shape of Flow's subscription/get and
// subscription/create responses.
type SubscriptionResponse struct {
	SubscriptionID    string           `json:"subscriptionId"`
	CustomerID        string           `json:"customerId"`
	PlanID            string           `json:"planId"`
	PlanName          string           `json:"plan_name"`
	Status            int              `json:"status"`
	Morose            int              `json:"morose"`
	TrialEnd          string           `json:"trial_end"`
	SubscriptionStart string           `json:"subscription_start"`
	PeriodStart       string           `json:"period_start"`
	PeriodEnd         string           `json:"period_end"`
	CancelAtPeriodEnd int              `json:"cancel_at_period_end"`
	Invoices          []InvoicePayload `json:"invoices"`
}

// InvoicePayload is an invoice embedded in a subscription response.
type InvoicePayload struct {
	ID         string          `json:"id"`
	Status     int             `json:"status"`
	DueDate    string          `json:"dueDate"`
	Amount     decimal.Decimal `json:"amount"`
	PaymentURL string          `json:"paymentUrl"`
	URL        string          `json:"url"`
	Token      string          `json:"token"`
}

// InvoiceDetail is the richer shape returned by invoice/get; it carries
// the hosted payment link used by the portal.
type InvoiceDetail struct {
	ID          string          `json:"id"`
	Status      int             `json:"status"`
	DueDate     string          `json:"dueDate"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentLink string          `json:"paymentLink"`
}

// Plan is one entry of plans/list.
type Plan struct {
	PlanID   string          `json:"planId"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Interval int             `json:"interval"`
	Status   int             `json:"status"`
}

// PlanListResponse wraps plans/list, which paginates under "data".
type PlanListResponse struct {
	Total int    `json:"total"`
	Data  []Plan `json:"data"`
}

// Customer is the wire shape of customer/create.
type Customer struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ExternalID string `json:"externalId"`
}

// CreateCustomerRequest carries the params for customer/create.
type CreateCustomerRequest struct {
	Name       string
	Email      string
	ExternalID string
}

// CreateSubscriptionRequest carries the params for subscription/create.
type CreateSubscriptionRequest struct {
	CustomerID string
	PlanID     string
	CouponID   string
	TrialDays  int
}

// ErrorResponse is Flow's error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// parseFlowTime parses a Flow date string, returning nil for empty or
// unparseable values so absent data degrades instead of erroring.
func parseFlowTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range flowTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// ToDomain normalizes the wire payload into the typed record the resolver
// consumes. Absent or malformed fields fall back to the inactive default
// for their axis; this mapping never fails.
func (r *SubscriptionResponse) ToDomain() *subscription.SubscriptionRecord {
	if r == nil {
		return nil
	}

	planName := r.PlanName
	if planName == "" {
		planName = r.PlanID
	}

	record := &subscription.SubscriptionRecord{
		SubscriptionID:    r.SubscriptionID,
		CustomerID:        r.CustomerID,
		PlanID:            r.PlanID,
		PlanName:          planName,
		Status:            types.SubscriptionStatus(r.Status),
		Morose:            types.MoroseLevel(r.Morose),
		TrialEnd:          parseFlowTime(r.TrialEnd),
		PeriodStart:       parseFlowTime(r.PeriodStart),
		PeriodEnd:         parseFlowTime(r.PeriodEnd),
		CancelAtPeriodEnd: r.CancelAtPeriodEnd == 1,
	}

	for _, inv := range r.Invoices {
		record.Invoices = append(record.Invoices, &subscription.InvoiceRecord{
			InvoiceID:  inv.ID,
			Status:     inv.Status,
			DueDate:    parseFlowTime(inv.DueDate),
			Amount:     inv.Amount,
			PaymentURL: inv.paymentURL(),
			Token:      inv.Token,
		})
	}

	return record
}

// paymentURL resolves the best payment URL embedded in the invoice,
// falling back to the token-derived hosted payment page.
func (i InvoicePayload) paymentURL() string {
	if i.PaymentURL != "" {
		return i.PaymentURL
	}
	if i.URL != "" {
		return i.URL
	}
	if i.Token != "" {
		return PayBaseURL + i.Token
	}
	return ""
}
