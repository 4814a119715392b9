package middleware

import (
	"github.com/npavezibarra/flow-sub/internal/logger"
	"github.com/npavezibarra/flow-sub/internal/service"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/gin-gonic/gin"
)

// RoleSyncMiddleware lazily reconciles the subscriber role on every
// authenticated request. The verdict comes from the access cache, so
// this stays cheap between recomputations. Sync failures never fail the
// request; the next one retries.
func RoleSyncMiddleware(access service.AccessService, roleSync service.RoleSyncService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := types.GetUserID(ctx)
		if userID == "" {
			c.Next()
			return
		}

		result, err := access.IsActive(ctx, userID)
		if err != nil {
			log.WithContext(ctx).Warnw("skipping role sync, access resolution failed",
				"user_id", userID,
				"error", err)
			c.Next()
			return
		}

		if err := roleSync.SyncRole(ctx, userID, result.Active); err != nil {
			log.WithContext(ctx).Warnw("role sync failed",
				"user_id", userID,
				"error", err)
		}
		c.Next()
	}
}
