package subscription

import (
	"testing"
	"time"

	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestLabel_Categories(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	unpaidLive := []*InvoiceRecord{
		{InvoiceID: "inv_1", Status: types.InvoiceStatusUnpaid, DueDate: &future},
	}
	unpaidExpired := []*InvoiceRecord{
		{InvoiceID: "inv_1", Status: types.InvoiceStatusUnpaid, DueDate: &past},
	}

	tests := []struct {
		name     string
		record   *SubscriptionRecord
		category types.StatusCategory
		text     string
	}{
		{
			name:     "nil record",
			record:   nil,
			category: types.StatusCategoryInactive,
			text:     "Inactiva",
		},
		{
			name: "trial active",
			record: &SubscriptionRecord{
				Status:   types.SubscriptionStatusTrial,
				TrialEnd: &future,
			},
			category: types.StatusCategoryTrialActive,
			text:     "Período de prueba",
		},
		{
			name: "trial expired",
			record: &SubscriptionRecord{
				Status:   types.SubscriptionStatusTrial,
				TrialEnd: &past,
			},
			category: types.StatusCategoryTrialExpired,
			text:     "Prueba expirada",
		},
		{
			name: "trial without end date",
			record: &SubscriptionRecord{
				Status: types.SubscriptionStatusTrial,
			},
			category: types.StatusCategoryTrialExpired,
			text:     "Prueba expirada",
		},
		{
			name: "cancelled with tail",
			record: &SubscriptionRecord{
				Status:            types.SubscriptionStatusCancelled,
				CancelAtPeriodEnd: true,
				PeriodEnd:         &future,
			},
			category: types.StatusCategoryCancelledTail,
			text:     "Cancelada (activa hasta fin de período)",
		},
		{
			name: "cancelled tail expired",
			record: &SubscriptionRecord{
				Status:            types.SubscriptionStatusCancelled,
				CancelAtPeriodEnd: true,
				PeriodEnd:         &past,
			},
			category: types.StatusCategoryCancelled,
			text:     "Cancelada",
		},
		{
			name: "cancelled immediately",
			record: &SubscriptionRecord{
				Status: types.SubscriptionStatusCancelled,
			},
			category: types.StatusCategoryCancelled,
			text:     "Cancelada",
		},
		{
			name: "pending first payment in grace",
			record: &SubscriptionRecord{
				Morose:   types.MorosePendingFirstPayment,
				Invoices: unpaidLive,
			},
			category: types.StatusCategoryPendingGrace,
			text:     "Pendiente de pago",
		},
		{
			name: "pending first payment expired",
			record: &SubscriptionRecord{
				Morose:   types.MorosePendingFirstPayment,
				Invoices: unpaidExpired,
			},
			category: types.StatusCategoryPendingExpired,
			text:     "Pago vencido",
		},
		{
			name: "overdue in grace",
			record: &SubscriptionRecord{
				Status:   types.SubscriptionStatusActive,
				Morose:   types.MoroseOverdueSuspended,
				Invoices: unpaidLive,
			},
			category: types.StatusCategoryOverdueGrace,
			text:     "Pendiente de pago",
		},
		{
			name: "overdue suspended",
			record: &SubscriptionRecord{
				Status:   types.SubscriptionStatusActive,
				Morose:   types.MoroseOverdueSuspended,
				Invoices: unpaidExpired,
			},
			category: types.StatusCategorySuspended,
			text:     "Suspendida",
		},
		{
			name: "renewal pending",
			record: &SubscriptionRecord{
				Status:   types.SubscriptionStatusActive,
				Morose:   types.MoroseCurrent,
				Invoices: unpaidLive,
			},
			category: types.StatusCategoryRenewalPending,
			text:     "Renovación pendiente",
		},
		{
			name: "active in good standing",
			record: &SubscriptionRecord{
				Status:    types.SubscriptionStatusActive,
				Morose:    types.MoroseCurrent,
				PeriodEnd: &future,
			},
			category: types.StatusCategoryActive,
			text:     "Activa",
		},
		{
			name: "active without period end",
			record: &SubscriptionRecord{
				Status: types.SubscriptionStatusActive,
				Morose: types.MoroseCurrent,
			},
			category: types.StatusCategoryActive,
			text:     "Activa",
		},
		{
			name: "active past period end",
			record: &SubscriptionRecord{
				Status:    types.SubscriptionStatusActive,
				Morose:    types.MoroseCurrent,
				PeriodEnd: &past,
			},
			category: types.StatusCategoryInactive,
			text:     "Inactiva",
		},
		{
			name:     "empty record",
			record:   &SubscriptionRecord{},
			category: types.StatusCategoryInactive,
			text:     "Inactiva",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, category := Label(tt.record, now)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.text, text)
		})
	}
}

// A record granted access by the invoice grace rule is still labeled as
// pending payment; verdict and label classify on different axes but must
// agree on date boundaries.
func TestLabel_AgreesWithResolverOnBoundaries(t *testing.T) {
	dueDate := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	record := &SubscriptionRecord{
		SubscriptionID: "sub_1",
		Status:         types.SubscriptionStatusActive,
		Morose:         types.MoroseOverdueSuspended,
		Invoices: []*InvoiceRecord{
			{InvoiceID: "inv_1", Status: types.InvoiceStatusUnpaid, DueDate: &dueDate},
		},
	}

	for _, now := range []time.Time{dueDate.Add(-time.Hour), dueDate, dueDate.Add(time.Second)} {
		verdict := Resolve([]*SubscriptionRecord{record}, now)
		_, category := Label(record, now)

		inGrace := category == types.StatusCategoryOverdueGrace
		assert.Equal(t, verdict.Active, inGrace, "now=%s", now)
	}
}

func TestLabel_EveryCategoryHasText(t *testing.T) {
	for category, text := range labelTexts {
		assert.NotEmpty(t, text, "category %s has no label text", category)
	}
	assert.Len(t, labelTexts, 11)
}
