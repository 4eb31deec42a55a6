package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"ironloop/gym-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys under which the middleware stores the caller's identity.
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// jwtClaims mirrors the payload produced by the auth service.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the caller's id and
// role in the request context for the handlers downstream.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			abortWithError(c, http.StatusUnauthorized, "Token has expired")
			return
		case err != nil:
			abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			return
		case !token.Valid || claims.UserID == "" || claims.Role == "":
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RoleMiddleware rejects callers whose role is not in the allowed set.
// Must run after AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := tokenRole(c)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "User role not found in context")
			return
		}
		if !slices.Contains(allowedRoles, role) {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", role))
			return
		}
		c.Next()
	}
}

// abortWithError writes a JSON error body and stops the handler chain.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func tokenUserID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextUserIDKey)
	if !ok {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok && idStr != ""
}

func tokenRole(c *gin.Context) (domain.Role, bool) {
	raw, ok := c.Get(ContextUserRoleKey)
	if !ok {
		return "", false
	}
	role, ok := raw.(domain.Role)
	return role, ok && role != ""
}
