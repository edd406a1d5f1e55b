package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fichai/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = &domain.Employee{EmployeeID: 1, InstitutionID: 3, Username: "boss", Role: domain.RoleAdmin}

func TestGenerateAndVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(admin, time.Now())
	require.NoError(t, err)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, 3, claims.InstitutionID)
	assert.Equal(t, "boss", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestVerifyJWT_Rejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := GenerateJWT(admin, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	foreign, err := GenerateJWT(admin, time.Now())
	require.NoError(t, err)
	t.Setenv("JWT_SECRET", "test-secret")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &domain.Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"alg none":     none,
		"garbage":      "abc",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyJWT(token)
			assert.Error(t, err)
		})
	}
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthRequired(), func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*domain.Claims)
		return c.SendString(claims.Username)
	})
	app.Get("/admin", AuthRequired(), RoleRequired(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newProtectedApp()

	adminToken, err := GenerateJWT(admin, time.Now())
	require.NoError(t, err)
	employeeToken, err := GenerateJWT(&domain.Employee{EmployeeID: 2, InstitutionID: 3, Username: "ana", Role: domain.RoleEmployee}, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"employee", "/me", "Bearer " + employeeToken, http.StatusOK},
		{"employee on admin route", "/admin", "Bearer " + employeeToken, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + adminToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequestContext(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		_, hasDeadline := c.UserContext().Deadline()
		if !hasDeadline {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
}

func TestLoginRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimiter(2), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
