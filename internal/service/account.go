package service

import (
	"context"

	"github.com/npavezibarra/flow-sub/internal/api/dto"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
)

// AccountService accepts account state pushed in by the host platform
// and exposes the stored view. The host remains the system of record;
// this is a mirror the access engine reads from.
type AccountService interface {
	// Upsert stores or replaces a user record.
	Upsert(ctx context.Context, req *dto.UpsertAccountRequest) (*dto.AccountResponse, error)

	// Get returns the stored record for a user.
	Get(ctx context.Context, userID string) (*dto.AccountResponse, error)
}

type accountService struct {
	ServiceParams
}

// NewAccountService creates a new account service
func NewAccountService(params ServiceParams) AccountService {
	return &accountService{ServiceParams: params}
}

func (s *accountService) Upsert(ctx context.Context, req *dto.UpsertAccountRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.AccountWriter == nil {
		return nil, ierr.NewError("account store is read only").
			WithHint("This deployment does not accept pushed account state").
			Mark(ierr.ErrInvalidOperation)
	}

	acct := req.ToAccount()
	if err := s.AccountWriter.Upsert(ctx, acct); err != nil {
		return nil, err
	}

	// A replaced record may change bindings or roles; stale verdicts
	// must not outlive it.
	s.Cache.Delete(ctx, accessVerdictKey(acct.ID))
	s.Cache.Delete(ctx, subscriptionListKey(acct.ID))

	s.Logger.WithContext(ctx).Infow("upserted account", "user_id", acct.ID)
	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) Get(ctx context.Context, userID string) (*dto.AccountResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}

	acct, err := s.AccountRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acct), nil
}
