package v1

import (
	"net/http"

	"github.com/npavezibarra/flow-sub/internal/api/dto"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/logger"
	"github.com/npavezibarra/flow-sub/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service service.AccountService
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// @Summary Upsert an account
// @Description Store or replace a user record pushed by the host platform
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body dto.UpsertAccountRequest true "Account state"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts [put]
func (h *AccountHandler) UpsertAccount(c *gin.Context) {
	var req dto.UpsertAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Upsert(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to upsert account", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an account
// @Description Get the stored record for a user
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get account", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
