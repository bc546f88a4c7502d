package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func validClaims(role string) Claims {
	return Claims{
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/me", Auth(testSecret), func(c *fiber.Ctx) error {
		id := IdentityFrom(c)
		return c.JSON(fiber.Map{"id": id.ID, "role": id.Role})
	})
	app.Delete("/admin", Auth(testSecret), RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	expired := validClaims("user")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noSubject := validClaims("user")
	noSubject.Subject = ""

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"valid token", "GET", "/me", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("user")), fiber.StatusOK},
		{"missing header", "GET", "/me", "", fiber.StatusUnauthorized},
		{"wrong scheme", "GET", "/me", "Basic abc", fiber.StatusUnauthorized},
		{"wrong secret", "GET", "/me", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("user")), fiber.StatusUnauthorized},
		{"wrong algorithm", "GET", "/me", "Bearer " + signToken(t, jwt.SigningMethodHS512, testSecret, validClaims("user")), fiber.StatusUnauthorized},
		{"expired", "GET", "/me", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, expired), fiber.StatusUnauthorized},
		{"no subject", "GET", "/me", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, noSubject), fiber.StatusUnauthorized},
		{"admin route as user", "DELETE", "/admin", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("user")), fiber.StatusForbidden},
		{"admin route as admin", "DELETE", "/admin", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("admin")), fiber.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireRole("admin"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
