package authValidator

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestRegister(t *testing.T) {
	app := fiber.New()
	app.Post("/register", Register(), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("validatedUser"))
	})

	status, body := post(t, app, "/register", `{"email": "  Ada@Example.COM ", "password": "longenough", "name": " Ada "}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "Ada", body["name"])

	status, body = post(t, app, "/register", `{"email": "nope", "password": "short"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, "Invalid email!", errs["email"])
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "name")
}

func TestChangeLoginPassword(t *testing.T) {
	app := fiber.New()
	app.Post("/change", ChangeLoginPassword(), func(c *fiber.Ctx) error {
		return c.SendString(`{"ok":true}`)
	})

	status, body := post(t, app, "/change", `{"currentPassword": "old", "newPassword": "brandnew1", "cnfPassword": "different"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Confirm Password Not Match!", body["errors"].(map[string]interface{})["cnfPassword"])

	status, _ = post(t, app, "/change", `{"currentPassword": "old", "newPassword": "brandnew1", "cnfPassword": "brandnew1"}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLoginHistoryListDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/history", LoginHistoryList(), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("validatedLoginHistory"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/history", nil))
	require.NoError(t, err)
	var page PageRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, PageRequest{Page: 1, Limit: 20}, page)

	resp, err = app.Test(httptest.NewRequest("GET", "/history?limit=500", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
