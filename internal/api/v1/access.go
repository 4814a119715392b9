package v1

import (
	"net/http"

	"github.com/npavezibarra/flow-sub/internal/api/dto"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/logger"
	"github.com/npavezibarra/flow-sub/internal/service"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	service service.AccessService
	log     *logger.Logger
}

func NewAccessHandler(service service.AccessService, log *logger.Logger) *AccessHandler {
	return &AccessHandler{service: service, log: log}
}

// @Summary Get the current user's access verdict
// @Description Resolve whether the authenticated user currently has subscriber access
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccessResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /access [get]
func (h *AccessHandler) GetAccess(c *gin.Context) {
	userID := types.GetUserID(c.Request.Context())
	if userID == "" {
		c.Error(ierr.NewError("user is not authenticated").
			WithHint("Authentication is required").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	result, err := h.service.IsActive(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to resolve access", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.AccessResponse{
		UserID:     result.UserID,
		Active:     result.Active,
		Rule:       result.Rule,
		ComputedAt: result.ComputedAt,
	})
}
