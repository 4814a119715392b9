package v1

import (
	"net/http"

	"github.com/npavezibarra/flow-sub/internal/logger"
	"github.com/npavezibarra/flow-sub/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewPlanHandler(service service.SubscriptionService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{service: service, log: log}
}

// @Summary List plans
// @Description List the plan catalog available for enrollment
// @Tags Plans
// @Produce json
// @Success 200 {object} dto.ListPlansResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	resp, err := h.service.Plans(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list plans", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
