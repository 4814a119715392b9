package service

import (
	"testing"
	"time"

	"github.com/npavezibarra/flow-sub/internal/api/dto"
	"github.com/npavezibarra/flow-sub/internal/domain/account"
	"github.com/npavezibarra/flow-sub/internal/domain/subscription"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/integration/flow"
	"github.com/npavezibarra/flow-sub/internal/testutil"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SubscriptionService
	access  AccessService
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		Cache:       s.GetCache(),
		AccountRepo: s.GetStores().AccountRepo,
		FlowClient:  s.GetStores().FlowClient,
	}
	s.service = NewSubscriptionService(params)
	s.access = NewAccessService(params)
}

func (s *SubscriptionServiceSuite) seedUser(userID, customerID string, subscriptionIDs ...string) {
	err := s.GetStores().AccountRepo.Create(s.GetContext(), &account.Account{
		ID:              userID,
		Email:           userID + "@example.com",
		CustomerID:      customerID,
		SubscriptionIDs: subscriptionIDs,
	})
	s.NoError(err)
}

func (s *SubscriptionServiceSuite) TestList_LabelsAndPaymentURL() {
	dueDate := time.Now().UTC().Add(72 * time.Hour)
	s.seedUser("user_1", "cus_1", "sus_active", "sus_overdue")
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_active",
		PlanID:         "plan_basic",
		PlanName:       "Plan Básico",
		Status:         types.SubscriptionStatusActive,
	})
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_overdue",
		PlanID:         "plan_pro",
		PlanName:       "Plan Pro",
		Status:         types.SubscriptionStatusActive,
		Morose:         types.MoroseOverdueSuspended,
		Invoices: []*subscription.InvoiceRecord{
			{
				InvoiceID:  "inv_1",
				Status:     types.InvoiceStatusUnpaid,
				DueDate:    &dueDate,
				PaymentURL: "https://www.flow.cl/app/web/pay.php?token=tok_1",
			},
		},
	})

	response, err := s.service.List(s.GetContext(), "user_1")
	s.NoError(err)
	s.Equal(2, response.Total)

	byID := lo.KeyBy(response.Items, func(item *dto.SubscriptionResponse) string {
		return item.SubscriptionID
	})
	s.Equal(types.StatusCategoryActive, byID["sus_active"].StatusCategory)
	s.Empty(byID["sus_active"].PaymentURL)

	s.Equal(types.StatusCategoryOverdueGrace, byID["sus_overdue"].StatusCategory)
	s.Equal("Pendiente de pago", byID["sus_overdue"].StatusText)
	s.Equal("https://www.flow.cl/app/web/pay.php?token=tok_1", byID["sus_overdue"].PaymentURL)
}

func (s *SubscriptionServiceSuite) TestList_ResolvesMissingPaymentLinkFromInvoice() {
	dueDate := time.Now().UTC().Add(24 * time.Hour)
	s.seedUser("user_1", "cus_1", "sus_1")
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_1",
		Status:         types.SubscriptionStatusActive,
		Invoices: []*subscription.InvoiceRecord{
			{InvoiceID: "inv_1", Status: types.InvoiceStatusUnpaid, DueDate: &dueDate},
		},
	})

	response, err := s.service.List(s.GetContext(), "user_1")
	s.NoError(err)
	s.Require().Len(response.Items, 1)
	// The stub's invoice endpoint returns a detail without a link; all
	// that matters here is the fallback lookup happened without error.
	s.Equal("sus_1", response.Items[0].SubscriptionID)
}

func (s *SubscriptionServiceSuite) TestList_SecondCallServedFromCache() {
	s.seedUser("user_1", "cus_1", "sus_1")
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_1",
		Status:         types.SubscriptionStatusActive,
	})

	_, err := s.service.List(s.GetContext(), "user_1")
	s.NoError(err)
	s.Equal(1, s.GetStores().FlowClient.GetSubscriptionCalls)

	_, err = s.service.List(s.GetContext(), "user_1")
	s.NoError(err)
	s.Equal(1, s.GetStores().FlowClient.GetSubscriptionCalls)
}

func (s *SubscriptionServiceSuite) TestList_SkipsUnreadableRecords() {
	s.seedUser("user_1", "cus_1", "sus_broken", "sus_ok")
	s.GetStores().FlowClient.FailSubscription("sus_broken",
		ierr.NewError("flow unavailable").Mark(ierr.ErrHTTPClient))
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_ok",
		Status:         types.SubscriptionStatusActive,
	})

	response, err := s.service.List(s.GetContext(), "user_1")
	s.NoError(err)
	s.Equal(1, response.Total)
	s.Equal("sus_ok", response.Items[0].SubscriptionID)
}

func (s *SubscriptionServiceSuite) TestEnroll_CreatesCustomerOnce() {
	s.seedUser("user_1", "")

	first, err := s.service.Enroll(s.GetContext(), "user_1", &dto.CreateSubscriptionRequest{
		PlanID: "plan_basic",
	})
	s.NoError(err)
	s.NotEmpty(first.SubscriptionID)
	s.Equal(1, s.GetStores().FlowClient.CreateCustomerCalls)

	acct, err := s.GetStores().AccountRepo.Get(s.GetContext(), "user_1")
	s.NoError(err)
	s.NotEmpty(acct.CustomerID)
	s.Contains(acct.SubscriptionIDs, first.SubscriptionID)

	second, err := s.service.Enroll(s.GetContext(), "user_1", &dto.CreateSubscriptionRequest{
		PlanID: "plan_pro",
	})
	s.NoError(err)
	s.NotEqual(first.SubscriptionID, second.SubscriptionID)
	s.Equal(1, s.GetStores().FlowClient.CreateCustomerCalls)
}

func (s *SubscriptionServiceSuite) TestEnroll_RequiresPlanID() {
	s.seedUser("user_1", "cus_1")

	result, err := s.service.Enroll(s.GetContext(), "user_1", &dto.CreateSubscriptionRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Nil(result)
}

func (s *SubscriptionServiceSuite) TestEnroll_InvalidatesAccessVerdict() {
	s.seedUser("user_1", "cus_1")

	// Prime a denial while the user has no subscriptions.
	result, err := s.access.IsActive(s.GetContext(), "user_1")
	s.NoError(err)
	s.False(result.Active)

	_, err = s.service.Enroll(s.GetContext(), "user_1", &dto.CreateSubscriptionRequest{
		PlanID: "plan_basic",
	})
	s.NoError(err)

	result, err = s.access.IsActive(s.GetContext(), "user_1")
	s.NoError(err)
	s.True(result.Active)
}

func (s *SubscriptionServiceSuite) TestCancel_OwnSubscription() {
	s.seedUser("user_1", "cus_1", "sus_1")
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_1",
		Status:         types.SubscriptionStatusActive,
	})

	result, err := s.service.Cancel(s.GetContext(), "user_1", "sus_1", &dto.CancelSubscriptionRequest{
		AtPeriodEnd: true,
	})
	s.NoError(err)
	s.Equal("sus_1", result.SubscriptionID)
	s.Equal(1, s.GetStores().FlowClient.CancelCalls)
}

func (s *SubscriptionServiceSuite) TestCancel_RejectsForeignSubscription() {
	s.seedUser("user_1", "cus_1", "sus_1")
	s.seedUser("user_2", "cus_2", "sus_2")
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_2",
		Status:         types.SubscriptionStatusActive,
	})

	result, err := s.service.Cancel(s.GetContext(), "user_1", "sus_2", &dto.CancelSubscriptionRequest{})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
	s.Nil(result)
	s.Equal(0, s.GetStores().FlowClient.CancelCalls)
}

func (s *SubscriptionServiceSuite) TestPlans_ReturnsCatalog() {
	s.GetStores().FlowClient.Plans = []flow.Plan{
		{PlanID: "plan_basic", Name: "Plan Básico", Currency: "CLP", Amount: decimal.NewFromInt(9900), Interval: 1},
		{PlanID: "plan_pro", Name: "Plan Pro", Currency: "CLP", Amount: decimal.NewFromInt(19900), Interval: 1},
	}

	response, err := s.service.Plans(s.GetContext())
	s.NoError(err)
	s.Equal(2, response.Total)
	s.Equal("plan_basic", response.Items[0].PlanID)
	s.Equal(decimal.NewFromInt(9900), response.Items[0].Amount)
}
