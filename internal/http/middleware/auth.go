package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityLocalKey stores the authenticated *Identity in fiber locals.
const IdentityLocalKey = "identity"

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Claims are the JWT claims issued by the identity provider.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies an HS256 "Authorization: Bearer" token and stores the caller identity.
// Missing or invalid tokens are rejected with 401.
func Auth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := parseToken(strings.TrimSpace(raw), secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(IdentityLocalKey, &Identity{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		})
		return c.Next()
	}
}

// RequireRole lets the request through only when the authenticated caller has one of roles.
// It must run after Auth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := IdentityFrom(c)
		if id == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// IdentityFrom returns the caller stored by Auth, or nil.
func IdentityFrom(c *fiber.Ctx) *Identity {
	id, _ := c.Locals(IdentityLocalKey).(*Identity)
	return id
}

func parseToken(raw string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
