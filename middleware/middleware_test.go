package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"worksafe/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"username": CurrentUser(c), "role": c.Locals("role")})
	})
	app.Get("/admin", JWTMiddleware, RequireRole("admin"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestJWTMiddleware(t *testing.T) {
	app := setupApp(t)

	token, err := GenerateJWT("mrossi", "user")
	require.NoError(t, err)

	status, body := call(t, app, "/me", token)
	assert.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "mrossi", data["username"])
	assert.Equal(t, "user", data["role"])

	status, body = call(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["status"])

	status, _ = call(t, app, "/me", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "mrossi",
		"role":     "user",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	status, _ = call(t, app, "/me", signed)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "mrossi"})
	signed, err = foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	status, _ = call(t, app, "/me", signed)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequireRole(t *testing.T) {
	app := setupApp(t)

	user, err := GenerateJWT("mrossi", "user")
	require.NoError(t, err)
	admin, err := GenerateJWT("boss", "admin")
	require.NoError(t, err)

	status, _ := call(t, app, "/admin", user)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, "/admin", admin)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Username string `json:"username" validate:"required,min=3"`
		Role     string `json:"role" validate:"oneof=admin user"`
		Email    string `json:"email" validate:"omitempty,email"`
		Hours    *int   `json:"hours" validate:"omitempty,min=0"`
	}

	neg := -1
	errs := ValidateStruct(&payload{Username: "ab", Role: "root", Email: "nope", Hours: &neg})
	assert.Equal(t, map[string]string{
		"username": "username must be at least 3 characters long!",
		"role":     "role must be one of: admin user",
		"email":    "Invalid email!",
		"hours":    "hours must be at least 0!",
	}, errs)

	assert.Empty(t, ValidateStruct(&payload{Username: "mrossi", Role: "user"}))
}
