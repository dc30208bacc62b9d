package middleware

import (
	"errors"
	"os"
	"strings"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ErrSuspended marks a token whose account has been suspended; anything else
// that fails ResolveToken is plain unauthenticated.
var ErrSuspended = errors.New("account suspended")

// ResolveToken verifies a raw JWT and maps it back to its user: the token
// must be validly signed and unexpired, and its jti must still exist in
// auth_tokens. Suspending a user deletes those rows, so old tokens die
// immediately. Returns the user and the allow-list row ID.
func ResolveToken(tokenString string) (models.User, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return models.User{}, "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.User{}, "", errors.New("invalid claims")
	}
	jti, _ := claims["jti"].(string)
	userID, _ := claims["user_id"].(float64)
	if jti == "" || userID <= 0 {
		return models.User{}, "", errors.New("invalid claims")
	}

	var authToken models.AuthToken
	if err := db.DB.Where("id = ? AND user_id = ?", jti, uint(userID)).
		First(&authToken).Error; err != nil {
		return models.User{}, "", errors.New("token revoked")
	}

	var user models.User
	if err := db.DB.First(&user, uint(userID)).Error; err != nil {
		return models.User{}, "", errors.New("user not found")
	}
	if user.IsSuspended {
		return models.User{}, "", ErrSuspended
	}

	return user, authToken.ID, nil
}

// RequireAuth gates the authenticated API on a Bearer token resolved
// through ResolveToken.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthenticated.",
			})
		}

		user, tokenID, err := ResolveToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, ErrSuspended) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": "Account suspended",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthenticated.",
			})
		}

		c.Locals("user", user)
		c.Locals("token_id", tokenID)
		return c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthenticated.",
			})
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the request context.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}
