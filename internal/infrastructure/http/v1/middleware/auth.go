package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"autoparts/internal/core/apperror"
	appctx "autoparts/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.StaffUser, error)
}

// Auth middleware validates bearer tokens and populates user context.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// LocalAdmin lets every request act as an administrator. It stands in for
// Auth when no token secret is configured.
func LocalAdmin() gin.HandlerFunc {
	user := &appctx.StaffUser{UserID: "local", Name: "local admin", IsAdmin: true}
	return func(c *gin.Context) {
		setUser(c, user)
		c.Next()
	}
}

func setUser(c *gin.Context, user *appctx.StaffUser) {
	ctx := appctx.WithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)
	c.Set("user_id", user.UserID)
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
