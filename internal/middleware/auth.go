package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"spp-be-svc/pkg/utils"
)

const (
	ContextUserIDKey    = "user_id"
	ContextStudentIDKey = "student_id"
	ContextRoleKey      = "role"
)

// AuthMiddleware validates the Bearer token and stores the caller's identity
// on the request context
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "Authorization header is required", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.UnauthorizedResponse(c, "Authorization header must be a Bearer token", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			utils.UnauthorizedResponse(c, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.UnauthorizedResponse(c, "Invalid token claims", nil)
			c.Abort()
			return
		}

		if userID, ok := claims["user_id"].(float64); ok {
			c.Set(ContextUserIDKey, uint(userID))
		}
		if studentID, ok := claims["student_id"].(float64); ok {
			c.Set(ContextStudentIDKey, uint(studentID))
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(ContextRoleKey, role)
		}

		c.Next()
	}
}

// RequireRole restricts a route to callers carrying one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.ForbiddenResponse(c, "Insufficient permissions", nil)
		c.Abort()
	}
}

// GetUserID returns the authenticated user ID from the request context
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetStudentID returns the student ID bound to the authenticated user, if any
func GetStudentID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextStudentIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
