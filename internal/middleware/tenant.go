package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/gin-gonic/gin"
)

const (
	institutionIDKey = contextKey("institutionID")
	userIDKey        = contextKey("userID")

	// InstitutionHeader carries the opaque tenant identifier resolved by the
	// upstream identity gateway; this service never interprets it.
	InstitutionHeader = "X-Institution-ID"
	// UserHeader carries the acting user, used for audit fields and approval
	// checks.
	UserHeader = "X-User-ID"
)

// TenantMiddleware extracts the institution and user identifiers set by the
// gateway and stores them in the request context. Requests without an
// institution are rejected: every treasury row is tenant-scoped.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		institutionID := c.GetHeader(InstitutionHeader)
		if institutionID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Missing institution header")
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail("X-Institution-ID header required"))
			return
		}
		userID := c.GetHeader(UserHeader)

		logger := GetLoggerFromCtx(c.Request.Context()).With(
			slog.String("institution_id", institutionID),
		)

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, institutionIDKey, institutionID)
		ctx = context.WithValue(ctx, userIDKey, userID)
		ctx = context.WithValue(ctx, loggerKey, logger)
		c.Request = c.Request.WithContext(ctx)

		c.Set(string(institutionIDKey), institutionID)
		c.Set(string(userIDKey), userID)
		c.Set(string(loggerKey), logger)

		c.Next()
	}
}

// GetInstitutionIDFromContext retrieves the tenant ID from the Gin context.
func GetInstitutionIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(institutionIDKey))
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(userIDKey))
	if !exists {
		if v := c.Request.Context().Value(userIDKey); v != nil {
			s, ok := v.(string)
			return s, ok
		}
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
