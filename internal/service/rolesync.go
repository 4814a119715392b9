package service

import (
	"context"

	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/samber/lo"
)

// RoleSyncService reconciles a user's role flags with their access
// verdict. Reconciliation is lazy: it runs when the user is looked at,
// not when their subscription changes.
type RoleSyncService interface {
	// SyncRole grants or revokes the subscriber role to match the
	// verdict. Administrators are never demoted.
	SyncRole(ctx context.Context, userID string, active bool) error
}

type roleSyncService struct {
	ServiceParams
}

// NewRoleSyncService creates a new role sync service
func NewRoleSyncService(params ServiceParams) RoleSyncService {
	return &roleSyncService{ServiceParams: params}
}

func (s *roleSyncService) SyncRole(ctx context.Context, userID string, active bool) error {
	if userID == "" {
		return ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}

	roles, err := s.AccountRepo.GetRoleFlags(ctx, userID)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load user roles").
			WithReportableDetails(map[string]interface{}{
				"user_id": userID,
			}).
			Mark(ierr.ErrDatabase)
	}

	hasSubscriber := lo.Contains(roles, types.RoleFlowSubscriber)

	switch {
	case active && !hasSubscriber:
		roles = append(roles, types.RoleFlowSubscriber)
	case !active && hasSubscriber:
		if lo.Contains(roles, types.RoleAdministrator) {
			// Admins keep every role regardless of subscription state.
			return nil
		}
		roles = lo.Without(roles, types.RoleFlowSubscriber)
	default:
		// Already consistent.
		return nil
	}

	if err := s.AccountRepo.SetRoleFlags(ctx, userID, roles); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update user roles").
			WithReportableDetails(map[string]interface{}{
				"user_id": userID,
			}).
			Mark(ierr.ErrDatabase)
	}

	s.Logger.WithContext(ctx).Infow("synchronized subscriber role",
		"user_id", userID,
		"active", active)
	return nil
}
