package v1

import (
	"net/http"

	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/integration/flow/webhook"
	"github.com/npavezibarra/flow-sub/internal/logger"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	handler *webhook.Handler
	log     *logger.Logger
}

func NewWebhookHandler(handler *webhook.Handler, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{handler: handler, log: log}
}

// @Summary Receive a Flow webhook event
// @Description Verify and process a webhook notification from Flow
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param event body webhook.Event true "Webhook event"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /webhooks/flow [post]
func (h *WebhookHandler) HandleFlowWebhook(c *gin.Context) {
	var event webhook.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		h.log.Error("Failed to bind webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, ierr.NewErrorResponse(ierr.WithError(err).
			WithHint("Invalid payload").
			Mark(ierr.ErrValidation)))
		return
	}

	err := h.handler.HandleEvent(c.Request.Context(), &event)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	// Flow retries on any non-200, so the status signals what is wrong
	// to an operator reading the provider's delivery log.
	switch {
	case ierr.IsSystem(err):
		c.JSON(http.StatusInternalServerError, ierr.NewErrorResponse(err))
	case ierr.IsPermissionDenied(err):
		c.JSON(http.StatusUnauthorized, ierr.NewErrorResponse(err))
	case ierr.IsValidation(err):
		c.JSON(http.StatusBadRequest, ierr.NewErrorResponse(err))
	default:
		c.JSON(http.StatusInternalServerError, ierr.NewErrorResponse(err))
	}
}
