package middleware

import (
	"fmt"
	"os"
	"strings"

	"tripdesk/constants"
	"tripdesk/types"
	agentTypes "tripdesk/types/agent"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IsAuthenticated verifies the bearer token and gates on permissions. Claims
// land in c.Locals("user"), the permission set in c.Locals("permissions").
func IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := verifyToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Invalid or expired token",
				Status:  fiber.StatusUnauthorized,
			})
		}

		permissions := extractPermissions(claims)
		if !hasAnyPermission(permissions, requiredPermissions) {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "You do not have permission to perform this action",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals("user", claims)
		c.Locals("permissions", permissions)
		return c.Next()
	}
}

// RequirePermissions gates on specific permissions.
func RequirePermissions(permissions ...string) fiber.Handler {
	return IsAuthenticated(permissions)
}

// RequireAnyPermission only requires a valid token.
func RequireAnyPermission(permissions ...string) fiber.Handler {
	return IsAuthenticated(append(permissions, constants.PermAny))
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header missing")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("invalid token format")
	}
	return parts[1], nil
}

func verifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

func extractPermissions(claims jwt.MapClaims) map[string]bool {
	permissionSet := make(map[string]bool)
	userPermissions, ok := claims["permissions"].([]interface{})
	if !ok {
		return permissionSet
	}
	for _, p := range userPermissions {
		if perm, ok := p.(string); ok {
			permissionSet[perm] = true
		}
	}
	return permissionSet
}

func hasAnyPermission(have map[string]bool, required []string) bool {
	for _, perm := range required {
		if perm == constants.PermAny {
			return true
		}
		if have[perm] {
			return true
		}
	}
	return false
}

// CurrentUser rebuilds the authenticated user from the verified claims.
// Returns nil when the route ran without authentication.
func CurrentUser(c *fiber.Ctx) *agentTypes.Current {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return nil
	}
	current := &agentTypes.Current{}
	if id, ok := claims["sub"].(string); ok {
		current.ID = id
	}
	if id, ok := claims["uid"].(string); ok && current.ID == "" {
		current.ID = id
	}
	if name, ok := claims["name"].(string); ok {
		current.Name = name
	}
	if role, ok := claims["role"].(string); ok {
		current.Role = role
	}
	return current
}

// HasPermission checks one permission inside a handler.
func HasPermission(c *fiber.Ctx, permission string) bool {
	permissions, ok := c.Locals("permissions").(map[string]bool)
	if !ok {
		return false
	}
	return permissions[permission]
}
