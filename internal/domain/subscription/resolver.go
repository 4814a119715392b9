package subscription

import (
	"time"

	"github.com/npavezibarra/flow-sub/internal/types"
)

// AccessVerdict is the resolver output: whether the user has paid access,
// which rule granted it and the deciding record (both for diagnostics and
// status labeling). The zero value is the inactive verdict.
type AccessVerdict struct {
	Active bool                `json:"active"`
	Rule   types.AccessRule    `json:"rule,omitempty"`
	Record *SubscriptionRecord `json:"-"`
}

// Resolve decides paid access from a user's subscription records at the
// injected instant. It is pure: now is never read internally and the
// records are not mutated. Evaluation stops at the first record that
// grants access since the aggregate is a single boolean; record order does
// not affect correctness.
func Resolve(records []*SubscriptionRecord, now time.Time) AccessVerdict {
	for _, record := range records {
		if record == nil {
			continue
		}
		if rule := accessRule(record, now); rule != types.AccessRuleNone {
			return AccessVerdict{Active: true, Rule: rule, Record: record}
		}
	}
	return AccessVerdict{}
}

// accessRule evaluates the access rules against one record in priority
// order and returns the first that matches.
func accessRule(r *SubscriptionRecord, now time.Time) types.AccessRule {
	// A. Active trial grants access regardless of payment. The boundary is
	// inclusive: now == trial_end is still active.
	if r.Status == types.SubscriptionStatusTrial && r.TrialEnd != nil && !now.After(*r.TrialEnd) {
		return types.AccessRuleTrial
	}

	unpaid := r.FirstUnpaidInvoice()

	// B. New subscribers keep access while their first invoice is still
	// within its due window.
	if r.Morose == types.MorosePendingFirstPayment && unpaid.WithinDueDate(now) {
		return types.AccessRulePendingFirst
	}

	// C. Any live unpaid invoice within its due date grants access,
	// independent of status and morose. Subsumes B and covers normal
	// renewal grace periods.
	if unpaid.WithinDueDate(now) {
		return types.AccessRuleInvoiceGrace
	}

	// D. In-good-standing subscriber. A missing period_end means no known
	// expiry and is treated as still active.
	if r.Status == types.SubscriptionStatusActive && r.Morose == types.MoroseCurrent {
		if r.PeriodEnd == nil || !now.After(*r.PeriodEnd) {
			return types.AccessRuleActivePaid
		}
	}

	// E. Cancelled but paid through the end of the period.
	if r.Status == types.SubscriptionStatusCancelled && r.CancelAtPeriodEnd &&
		r.PeriodEnd != nil && !now.After(*r.PeriodEnd) {
		return types.AccessRuleCancelledTail
	}

	return types.AccessRuleNone
}
