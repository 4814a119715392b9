package service

import (
	"testing"

	"github.com/npavezibarra/flow-sub/internal/api/dto"
	"github.com/npavezibarra/flow-sub/internal/domain/subscription"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/testutil"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/stretchr/testify/suite"
)

type AccountServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AccountService
	access  AccessService
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Cache:         s.GetCache(),
		AccountRepo:   s.GetStores().AccountRepo,
		AccountWriter: s.GetStores().AccountRepo,
		FlowClient:    s.GetStores().FlowClient,
	}
	s.service = NewAccountService(params)
	s.access = NewAccessService(params)
}

func (s *AccountServiceSuite) TestUpsert_CreatesAndReplaces() {
	resp, err := s.service.Upsert(s.GetContext(), &dto.UpsertAccountRequest{
		UserID: "user_1",
		Email:  "user_1@example.com",
	})
	s.NoError(err)
	s.Equal("user_1", resp.UserID)

	resp, err = s.service.Upsert(s.GetContext(), &dto.UpsertAccountRequest{
		UserID:          "user_1",
		Email:           "user_1@example.com",
		SubscriptionIDs: []string{"sus_1"},
	})
	s.NoError(err)
	s.Equal([]string{"sus_1"}, resp.SubscriptionIDs)

	got, err := s.service.Get(s.GetContext(), "user_1")
	s.NoError(err)
	s.Equal([]string{"sus_1"}, got.SubscriptionIDs)
}

func (s *AccountServiceSuite) TestUpsert_Validation() {
	_, err := s.service.Upsert(s.GetContext(), &dto.UpsertAccountRequest{
		UserID: "user_1",
		Email:  "not-an-email",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AccountServiceSuite) TestUpsert_InvalidatesStaleVerdict() {
	s.GetStores().FlowClient.SeedSubscription(&subscription.SubscriptionRecord{
		SubscriptionID: "sus_1",
		Status:         types.SubscriptionStatusActive,
	})
	_, err := s.service.Upsert(s.GetContext(), &dto.UpsertAccountRequest{
		UserID: "user_1",
		Email:  "user_1@example.com",
	})
	s.NoError(err)

	result, err := s.access.IsActive(s.GetContext(), "user_1")
	s.NoError(err)
	s.False(result.Active)

	// The host platform pushes a record that now carries a binding.
	_, err = s.service.Upsert(s.GetContext(), &dto.UpsertAccountRequest{
		UserID:          "user_1",
		Email:           "user_1@example.com",
		SubscriptionIDs: []string{"sus_1"},
	})
	s.NoError(err)

	result, err = s.access.IsActive(s.GetContext(), "user_1")
	s.NoError(err)
	s.True(result.Active)
}

func (s *AccountServiceSuite) TestGet_Unknown() {
	_, err := s.service.Get(s.GetContext(), "ghost")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
