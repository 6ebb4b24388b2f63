package middlewares

import (
	"ControlMed/assistant"
	"ControlMed/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKey defines a custom context key type to store user details in the context.
type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
	doctorIDKey contextKey = "doctorID"
	clinicIDKey contextKey = "clinicID"
)

// TokenAuthMiddleware validates the token and adds user details to the request context.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Retrieve the accessToken from the URL query parameter.
		token := c.DefaultQuery("accessToken", "")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			c.Abort()
			return
		}

		// Validate the token and extract claims.
		claims, err := utils.ValidateToken(token, assistant.RoleAdmin, assistant.RoleDoctor, assistant.RoleReception)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Add user details to the context for later use in handlers.
		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, userRoleKey, claims.Role)
		ctx = context.WithValue(ctx, doctorIDKey, claims.DoctorID)
		ctx = context.WithValue(ctx, clinicIDKey, claims.ClinicID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleAuthMiddleware restricts access to users with the specified role.
func RoleAuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := ExtractUserRoleFromContext(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
			c.Abort()
			return
		}

		if role != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient privileges"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ExtractUserIDFromContext retrieves the userID from the context.
func ExtractUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return "", errors.New("user ID not found in context")
	}
	return userID, nil
}

// ExtractUserRoleFromContext retrieves the user role from the context.
func ExtractUserRoleFromContext(ctx context.Context) (string, error) {
	userRole, ok := ctx.Value(userRoleKey).(string)
	if !ok {
		return "", errors.New("user role not found in context")
	}
	return userRole, nil
}

// ExtractClinicIDFromContext retrieves the clinic id from the context.
func ExtractClinicIDFromContext(ctx context.Context) (string, error) {
	clinicID, ok := ctx.Value(clinicIDKey).(string)
	if !ok || clinicID == "" {
		return "", errors.New("clinic ID not found in context")
	}
	return clinicID, nil
}

// ExtractCallerFromContext assembles the assistant caller identity from the
// validated token claims.
func ExtractCallerFromContext(ctx context.Context) (assistant.Caller, error) {
	userID, err := ExtractUserIDFromContext(ctx)
	if err != nil {
		return assistant.Caller{}, err
	}
	role, err := ExtractUserRoleFromContext(ctx)
	if err != nil {
		return assistant.Caller{}, err
	}
	doctorID, _ := ctx.Value(doctorIDKey).(string)
	return assistant.Caller{UserID: userID, Role: role, DoctorID: doctorID}, nil
}
