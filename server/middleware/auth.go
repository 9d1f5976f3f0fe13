package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/habit/auth"
	"github.com/kbukum/habit/auth/authctx"
	apperrors "github.com/kbukum/habit/errors"
	"github.com/kbukum/habit/logger"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves the bearer token, if any, and attaches the identity
// to the request context. It never rejects: requests without a valid token
// continue anonymously.
func Authenticate(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		if id, ok := authn.Authenticate(ctx, token); ok {
			ctx = authctx.With(ctx, id)
			ctx = logger.ContextWithUserID(ctx, id.ID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// RequireIdentity aborts anonymous requests with 403 and the same body a
// failed login gets.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authctx.From(c.Request.Context()); !ok {
			err := apperrors.Forbidden()
			c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
			return
		}
		c.Next()
	}
}
