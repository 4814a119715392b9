package subscription

import (
	"time"

	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/shopspring/decimal"
)

// SubscriptionRecord is a read-only snapshot of one Flow subscription, as
// normalized from the provider payload at the I/O boundary. Any field may
// be absent in the raw data; absent fields default to the inactive value
// for their axis and the resolver degrades to "no rule matched".
type SubscriptionRecord struct {
	SubscriptionID    string                   `json:"subscription_id"`
	CustomerID        string                   `json:"customer_id,omitempty"`
	PlanID            string                   `json:"plan_id,omitempty"`
	PlanName          string                   `json:"plan_name,omitempty"`
	Status            types.SubscriptionStatus `json:"status"`
	Morose            types.MoroseLevel        `json:"morose"`
	TrialEnd          *time.Time               `json:"trial_end,omitempty"`
	PeriodStart       *time.Time               `json:"period_start,omitempty"`
	PeriodEnd         *time.Time               `json:"period_end,omitempty"`
	CancelAtPeriodEnd bool                     `json:"cancel_at_period_end"`
	Invoices          []*InvoiceRecord         `json:"invoices,omitempty"`
}

// InvoiceRecord is a single billing charge belonging to a subscription.
type InvoiceRecord struct {
	InvoiceID  string          `json:"invoice_id"`
	Status     int             `json:"status"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	PaymentURL string          `json:"payment_url,omitempty"`
	Token      string          `json:"token,omitempty"`
}

// Unpaid reports whether the invoice is still unpaid.
func (i *InvoiceRecord) Unpaid() bool {
	return i != nil && i.Status == types.InvoiceStatusUnpaid
}

// WithinDueDate reports whether now is on or before the invoice due date.
// An invoice with no due date is never within its due window.
func (i *InvoiceRecord) WithinDueDate(now time.Time) bool {
	return i != nil && i.DueDate != nil && !now.After(*i.DueDate)
}

// FirstUnpaidInvoice returns the first unpaid invoice in slice order, or
// nil. First-found (not soonest-due) is the provider's observed contract
// and is relied on by the grace rules; keep the scan order as is.
func (r *SubscriptionRecord) FirstUnpaidInvoice() *InvoiceRecord {
	for _, inv := range r.Invoices {
		if inv.Unpaid() {
			return inv
		}
	}
	return nil
}
