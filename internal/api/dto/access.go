package dto

import (
	"time"

	"github.com/npavezibarra/flow-sub/internal/types"
)

// AccessResponse reports whether a user currently has subscriber access.
type AccessResponse struct {
	UserID     string           `json:"user_id"`
	Active     bool             `json:"active"`
	Rule       types.AccessRule `json:"rule,omitempty"`
	ComputedAt time.Time        `json:"computed_at"`
}
