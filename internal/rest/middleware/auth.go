package middleware

import (
	"net/http"
	"strings"

	"github.com/npavezibarra/flow-sub/internal/config"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// AuthenticateMiddleware validates the bearer token and puts the user ID
// into the request context. Routes behind it can assume types.GetUserID
// returns a non-empty value.
func AuthenticateMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticate(cfg, c.GetHeader(types.HeaderAuthorization))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ierr.NewErrorResponse(err))
			return
		}

		ctx := types.SetUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func authenticate(cfg *config.Configuration, header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ierr.NewError("missing or malformed authorization header").
			WithHint("Provide a bearer token").
			Mark(ierr.ErrPermissionDenied)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, prefix), claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ierr.NewErrorf("unexpected signing method %v", t.Header["alg"]).
					Mark(ierr.ErrPermissionDenied)
			}
			return []byte(cfg.Auth.Secret), nil
		})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrPermissionDenied)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ierr.NewError("token carries no subject").
			WithHint("Invalid token").
			Mark(ierr.ErrPermissionDenied)
	}
	return claims.Subject, nil
}
