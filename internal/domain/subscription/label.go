package subscription

import (
	"time"

	"github.com/npavezibarra/flow-sub/internal/types"
)

// labelTexts are the display strings shown in the subscriber portal, in
// the site's language.
var labelTexts = map[types.StatusCategory]string{
	types.StatusCategoryTrialActive:    "Período de prueba",
	types.StatusCategoryTrialExpired:   "Prueba expirada",
	types.StatusCategoryCancelledTail:  "Cancelada (activa hasta fin de período)",
	types.StatusCategoryCancelled:      "Cancelada",
	types.StatusCategoryPendingGrace:   "Pendiente de pago",
	types.StatusCategoryPendingExpired: "Pago vencido",
	types.StatusCategoryOverdueGrace:   "Pendiente de pago",
	types.StatusCategorySuspended:      "Suspendida",
	types.StatusCategoryRenewalPending: "Renovación pendiente",
	types.StatusCategoryActive:         "Activa",
	types.StatusCategoryInactive:       "Inactiva",
}

// Label classifies a single record for display. The classification is
// mutually exclusive and richer than the resolver verdict: a record can
// grant access through the invoice grace rule while still being labeled
// as pending payment. It reuses the resolver's date comparisons so label
// and verdict can never disagree on a boundary.
func Label(r *SubscriptionRecord, now time.Time) (string, types.StatusCategory) {
	category := categorize(r, now)
	return labelTexts[category], category
}

func categorize(r *SubscriptionRecord, now time.Time) types.StatusCategory {
	if r == nil {
		return types.StatusCategoryInactive
	}

	if r.Status == types.SubscriptionStatusTrial {
		if r.TrialEnd != nil && !now.After(*r.TrialEnd) {
			return types.StatusCategoryTrialActive
		}
		return types.StatusCategoryTrialExpired
	}

	if r.Status == types.SubscriptionStatusCancelled {
		if r.CancelAtPeriodEnd && r.PeriodEnd != nil && !now.After(*r.PeriodEnd) {
			return types.StatusCategoryCancelledTail
		}
		return types.StatusCategoryCancelled
	}

	unpaid := r.FirstUnpaidInvoice()

	if r.Morose == types.MorosePendingFirstPayment {
		if unpaid.WithinDueDate(now) {
			return types.StatusCategoryPendingGrace
		}
		return types.StatusCategoryPendingExpired
	}

	if r.Morose == types.MoroseOverdueSuspended {
		if unpaid.WithinDueDate(now) {
			return types.StatusCategoryOverdueGrace
		}
		return types.StatusCategorySuspended
	}

	if unpaid != nil {
		return types.StatusCategoryRenewalPending
	}

	if r.Status == types.SubscriptionStatusActive && r.Morose == types.MoroseCurrent {
		if r.PeriodEnd == nil || !now.After(*r.PeriodEnd) {
			return types.StatusCategoryActive
		}
	}

	return types.StatusCategoryInactive
}
