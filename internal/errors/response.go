package errors

import (
	"github.com/cockroachdb/errors"
)

// ErrorDetail is the consumer-facing portion of an error response.
type ErrorDetail struct {
	Message  string                 `json:"message"`
	Internal string                 `json:"internal_error,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the JSON body returned for any failed API request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the response body for an error. When the error is
// an InternalError the hint becomes the consumer message and the operator
// message is exposed as internal_error; otherwise the raw message is used.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message: err.Error(),
		},
	}

	var internal *InternalError
	if errors.As(err, &internal) {
		if internal.Hint != "" {
			resp.Error.Message = internal.Hint
			resp.Error.Internal = internal.Message
		}
		resp.Error.Details = internal.ReportableDetails
	}

	return resp
}
