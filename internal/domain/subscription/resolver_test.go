package subscription

import (
	"testing"
	"time"

	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestResolve_NoRecords(t *testing.T) {
	verdict := Resolve(nil, baseTime)
	assert.False(t, verdict.Active)
	assert.Equal(t, types.AccessRuleNone, verdict.Rule)
	assert.Nil(t, verdict.Record)

	verdict = Resolve([]*SubscriptionRecord{}, baseTime)
	assert.False(t, verdict.Active)

	// nil entries are tolerated
	verdict = Resolve([]*SubscriptionRecord{nil}, baseTime)
	assert.False(t, verdict.Active)
}

func TestResolve_TrialBoundary(t *testing.T) {
	trialEnd := baseTime

	record := &SubscriptionRecord{
		SubscriptionID: "sub_trial",
		Status:         types.SubscriptionStatusTrial,
		TrialEnd:       &trialEnd,
	}

	tests := []struct {
		name   string
		now    time.Time
		active bool
	}{
		{"before trial end", trialEnd.Add(-time.Hour), true},
		{"exactly at trial end", trialEnd, true},
		{"after trial end", trialEnd.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Resolve([]*SubscriptionRecord{record}, tt.now)
			assert.Equal(t, tt.active, verdict.Active)
			if tt.active {
				assert.Equal(t, types.AccessRuleTrial, verdict.Rule)
				assert.Same(t, record, verdict.Record)
			}
		})
	}
}

func TestResolve_TrialWithoutEndDate(t *testing.T) {
	// trial status with no trial_end defaults to no match
	record := &SubscriptionRecord{
		SubscriptionID: "sub_trial",
		Status:         types.SubscriptionStatusTrial,
	}
	assert.False(t, Resolve([]*SubscriptionRecord{record}, baseTime).Active)
}

func TestResolve_ActiveWithoutPeriodEndIsPermissive(t *testing.T) {
	record := &SubscriptionRecord{
		SubscriptionID: "sub_active",
		Status:         types.SubscriptionStatusActive,
		Morose:         types.MoroseCurrent,
	}

	// no known expiry means access is assumed, regardless of now
	for _, now := range []time.Time{baseTime, baseTime.AddDate(10, 0, 0)} {
		verdict := Resolve([]*SubscriptionRecord{record}, now)
		assert.True(t, verdict.Active)
		assert.Equal(t, types.AccessRuleActivePaid, verdict.Rule)
	}
}

func TestResolve_ActiveExpiresAtPeriodEnd(t *testing.T) {
	periodEnd := baseTime

	record := &SubscriptionRecord{
		SubscriptionID: "sub_active",
		Status:         types.SubscriptionStatusActive,
		Morose:         types.MoroseCurrent,
		PeriodEnd:      &periodEnd,
	}

	assert.True(t, Resolve([]*SubscriptionRecord{record}, periodEnd).Active)
	assert.False(t, Resolve([]*SubscriptionRecord{record}, periodEnd.Add(time.Second)).Active)
}

func TestResolve_ActiveButMoroseDoesNotMatchRuleD(t *testing.T) {
	record := &SubscriptionRecord{
		SubscriptionID: "sub_active",
		Status:         types.SubscriptionStatusActive,
		Morose:         types.MoroseOverdueSuspended,
	}
	assert.False(t, Resolve([]*SubscriptionRecord{record}, baseTime).Active)
}

func TestResolve_CancelledTail(t *testing.T) {
	periodEnd := baseTime.Add(48 * time.Hour)

	withTail := &SubscriptionRecord{
		SubscriptionID:    "sub_cancelled",
		Status:            types.SubscriptionStatusCancelled,
		CancelAtPeriodEnd: true,
		PeriodEnd:         &periodEnd,
	}

	verdict := Resolve([]*SubscriptionRecord{withTail}, baseTime)
	assert.True(t, verdict.Active)
	assert.Equal(t, types.AccessRuleCancelledTail, verdict.Rule)

	assert.True(t, Resolve([]*SubscriptionRecord{withTail}, periodEnd).Active)
	assert.False(t, Resolve([]*SubscriptionRecord{withTail}, periodEnd.Add(time.Second)).Active)

	// same dates without cancel_at_period_end never grant access
	immediate := &SubscriptionRecord{
		SubscriptionID:    "sub_cancelled",
		Status:            types.SubscriptionStatusCancelled,
		CancelAtPeriodEnd: false,
		PeriodEnd:         &periodEnd,
	}
	assert.False(t, Resolve([]*SubscriptionRecord{immediate}, baseTime).Active)

	// no period_end means no tail either
	noEnd := &SubscriptionRecord{
		SubscriptionID:    "sub_cancelled",
		Status:            types.SubscriptionStatusCancelled,
		CancelAtPeriodEnd: true,
	}
	assert.False(t, Resolve([]*SubscriptionRecord{noEnd}, baseTime).Active)
}

func TestResolve_InvoiceGraceOverridesStatus(t *testing.T) {
	dueDate := baseTime.Add(72 * time.Hour)

	// a suspended, inactive-looking record with a live unpaid invoice
	record := &SubscriptionRecord{
		SubscriptionID: "sub_overdue",
		Status:         types.SubscriptionStatusInactive,
		Morose:         types.MoroseOverdueSuspended,
		Invoices: []*InvoiceRecord{
			{InvoiceID: "inv_1", Status: types.InvoiceStatusUnpaid, DueDate: &dueDate},
		},
	}

	verdict := Resolve([]*SubscriptionRecord{record}, baseTime)
	assert.True(t, verdict.Active)
	assert.Equal(t, types.AccessRuleInvoiceGrace, verdict.Rule)

	assert.True(t, Resolve([]*SubscriptionRecord{record}, dueDate).Active)
	assert.False(t, Resolve([]*SubscriptionRecord{record}, dueDate.Add(time.Second)).Active)
}

func TestResolve_PendingFirstPaymentGrace(t *testing.T) {
	dueDate := baseTime.Add(24 * time.Hour)

	record := &SubscriptionRecord{
		SubscriptionID: "sub_new",
		Status:         types.SubscriptionStatusInactive,
		Morose:         types.MorosePendingFirstPayment,
		Invoices: []*InvoiceRecord{
			{InvoiceID: "inv_first", Status: types.InvoiceStatusUnpaid, DueDate: &dueDate},
		},
	}

	verdict := Resolve([]*SubscriptionRecord{record}, baseTime)
	assert.True(t, verdict.Active)
	// rule B outranks rule C for the same invoice
	assert.Equal(t, types.AccessRulePendingFirst, verdict.Rule)

	assert.False(t, Resolve([]*SubscriptionRecord{record}, dueDate.Add(time.Hour)).Active)
}

func TestResolve_FirstUnpaidInvoiceWins(t *testing.T) {
	// The invoice scan takes the first unpaid invoice in slice order, not
	// the one with the latest due date. An expired first unpaid invoice
	// therefore masks a later one that is still within its window. This is
	// the provider's observed behavior and is pinned here deliberately.
	expiredDue := baseTime.Add(-time.Hour)
	liveDue := baseTime.Add(time.Hour)

	record := &SubscriptionRecord{
		SubscriptionID: "sub_quirk",
		Invoices: []*InvoiceRecord{
			{InvoiceID: "inv_expired", Status: types.InvoiceStatusUnpaid, DueDate: &expiredDue},
			{InvoiceID: "inv_live", Status: types.InvoiceStatusUnpaid, DueDate: &liveDue},
		},
	}

	assert.False(t, Resolve([]*SubscriptionRecord{record}, baseTime).Active)

	// paid invoices are skipped by the scan
	record.Invoices[0].Status = 1
	verdict := Resolve([]*SubscriptionRecord{record}, baseTime)
	assert.True(t, verdict.Active)
	assert.Equal(t, types.AccessRuleInvoiceGrace, verdict.Rule)
}

func TestResolve_AnyMatchWinsAcrossRecords(t *testing.T) {
	inactive := &SubscriptionRecord{
		SubscriptionID: "sub_dead",
		Status:         types.SubscriptionStatusInactive,
	}
	active := &SubscriptionRecord{
		SubscriptionID: "sub_live",
		Status:         types.SubscriptionStatusActive,
		Morose:         types.MoroseCurrent,
	}

	verdict := Resolve([]*SubscriptionRecord{inactive, active}, baseTime)
	assert.True(t, verdict.Active)
	assert.Equal(t, "sub_live", verdict.Record.SubscriptionID)

	// order does not change the outcome
	verdict = Resolve([]*SubscriptionRecord{active, inactive}, baseTime)
	assert.True(t, verdict.Active)
}

func TestResolve_UnknownStatusIsInactive(t *testing.T) {
	record := &SubscriptionRecord{
		SubscriptionID: "sub_unknown",
		Status:         types.SubscriptionStatus(99),
		Morose:         types.MoroseCurrent,
		PeriodEnd:      lo.ToPtr(baseTime.Add(time.Hour)),
	}
	assert.False(t, Resolve([]*SubscriptionRecord{record}, baseTime).Active)
}

func TestResolve_TrialOutranksInvoiceGrace(t *testing.T) {
	trialEnd := baseTime.Add(time.Hour)
	dueDate := baseTime.Add(time.Hour)

	record := &SubscriptionRecord{
		SubscriptionID: "sub_trial",
		Status:         types.SubscriptionStatusTrial,
		TrialEnd:       &trialEnd,
		Invoices: []*InvoiceRecord{
			{InvoiceID: "inv_1", Status: types.InvoiceStatusUnpaid, DueDate: &dueDate},
		},
	}

	verdict := Resolve([]*SubscriptionRecord{record}, baseTime)
	assert.True(t, verdict.Active)
	assert.Equal(t, types.AccessRuleTrial, verdict.Rule)
}
