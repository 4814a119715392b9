package webhook

// Event is an inbound Flow webhook payload. Flow signs the top-level
// scalar parameters with the same scheme as API requests; the nested data
// object is excluded from the signature.
type Event struct {
	Event     string    `json:"event"`
	Data      EventData `json:"data"`
	Signature string    `json:"s"`
}

// EventData carries the identifiers a webhook may name. Depending on the
// event type the subscription ID shows up at the top level, nested under
// subscription, or nested under the invoice that triggered the event.
type EventData struct {
	SubscriptionID string            `json:"subscriptionId,omitempty"`
	CustomerID     string            `json:"customerId,omitempty"`
	Subscription   *SubscriptionData `json:"subscription,omitempty"`
	Invoice        *InvoiceData      `json:"invoice,omitempty"`
}

type SubscriptionData struct {
	SubscriptionID string `json:"subscriptionId"`
}

type InvoiceData struct {
	ID             string `json:"id"`
	SubscriptionID string `json:"subscriptionId"`
}

// IsEmpty reports whether the payload names nothing actionable.
func (d EventData) IsEmpty() bool {
	return d.SubscriptionID == "" && d.CustomerID == "" &&
		d.Subscription == nil && d.Invoice == nil
}

// ResolveSubscriptionID returns the subscription the event refers to,
// checking the top-level field first and then the nested fallbacks.
func (e *Event) ResolveSubscriptionID() string {
	if e.Data.SubscriptionID != "" {
		return e.Data.SubscriptionID
	}
	if e.Data.Subscription != nil && e.Data.Subscription.SubscriptionID != "" {
		return e.Data.Subscription.SubscriptionID
	}
	if e.Data.Invoice != nil && e.Data.Invoice.SubscriptionID != "" {
		return e.Data.Invoice.SubscriptionID
	}
	return ""
}

// SignatureParams returns the scalar parameters covered by the signature.
// Nested objects are skipped, matching Flow's signing behavior.
func (e *Event) SignatureParams() map[string]string {
	return map[string]string{
		"event": e.Event,
	}
}
