package middleware

import (
	"net/http"
	"slices"

	"github.com/erp/settlement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequirePermission lets the request through when the token grants permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission lets the request through when the token grants at
// least one of permissions. It must run after the JWT middleware.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorInfo{
				Code:      dto.ErrCodeUnauthorized,
				Message:   "Authentication required",
				RequestID: GetRequestID(c),
			}))
			return
		}
		if !slices.ContainsFunc(permissions, claims.HasPermission) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorInfo{
				Code:      dto.ErrCodeForbidden,
				Message:   "Missing permission",
				RequestID: GetRequestID(c),
			}))
			return
		}
		c.Next()
	}
}
