package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.Conf.Set("JWT_SECRET", "middleware-test-secret")
}

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", Protected(), func(c *fiber.Ctx) error {
		id := CurrentIdentity(c)
		return c.JSON(fiber.Map{"user_id": id.UserID, "role": id.Role})
	})
	app.Get("/admin", Protected(), RolesRequired(models.RoleCompanyAdmin, models.RoleSystemAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/root", Protected(), SystemAdminRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func tokens(t *testing.T, role models.Role) services.TokenPair {
	t.Helper()
	companyID := uint(4)
	pair, err := services.IssueTokens(models.User{ID: 11, Role: role, CompanyID: &companyID})
	require.NoError(t, err)
	return pair
}

func TestProtectedResolvesIdentity(t *testing.T) {
	app := testApp()
	status, body := get(t, app, "/whoami", tokens(t, models.RoleInstructor).AccessToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"user_id":11,"role":"instructor"}`, body)
}

func TestProtectedRejects(t *testing.T) {
	app := testApp()

	status, _ := get(t, app, "/whoami", "")
	assert.Contains(t, []int{fiber.StatusBadRequest, fiber.StatusUnauthorized}, status)

	status, body := get(t, app, "/whoami", tokens(t, models.RoleStudent).RefreshToken)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "Access token required")

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "11", "role": "student", "typ": "access", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("someone-else"))
	require.NoError(t, err)
	status, _ = get(t, app, "/whoami", foreign)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "11", "role": "student", "typ": "access", "exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("middleware-test-secret"))
	require.NoError(t, err)
	status, _ = get(t, app, "/whoami", expired)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRolesRequired(t *testing.T) {
	app := testApp()

	status, body := get(t, app, "/admin", tokens(t, models.RoleStudent).AccessToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Contains(t, body, "Forbidden: insufficient role")

	status, _ = get(t, app, "/admin", tokens(t, models.RoleCompanyAdmin).AccessToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = get(t, app, "/root", tokens(t, models.RoleCompanyAdmin).AccessToken)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = get(t, app, "/root", tokens(t, models.RoleSystemAdmin).AccessToken)
	assert.Equal(t, fiber.StatusOK, status)
}
