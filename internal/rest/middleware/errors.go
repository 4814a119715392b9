package middleware

import (
	ierr "github.com/npavezibarra/flow-sub/internal/errors"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached by handlers into the standard
// error response body with the status mapped from the error's class.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	err := c.Errors.Last().Err
	if c.Writer.Written() {
		return
	}
	c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
}
