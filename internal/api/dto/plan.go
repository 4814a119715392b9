package dto

import "github.com/shopspring/decimal"

// PlanResponse is one entry of the plan catalog.
type PlanResponse struct {
	PlanID   string          `json:"plan_id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Interval int             `json:"interval"`
}

// ListPlansResponse wraps the plan catalog.
type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
	Total int             `json:"total"`
}
