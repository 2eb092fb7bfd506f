package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/MohammadSabeti/K2/backend/config"
	"github.com/MohammadSabeti/K2/backend/routes"
	"github.com/MohammadSabeti/K2/backend/storage"
)

func newTestApp() *fiber.App {
	cfg := &config.Config{
		JWTSecret:      "testsecret",
		AdminUsername:  "bashi",
		AdminPassword:  "summit-pass",
		LoginRateLimit: 100,
	}
	app := fiber.New()
	routes.SetupRoutes(app, storage.NewMemoryStore(), cfg)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := result["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func TestLoginRegistersAndAuthenticates(t *testing.T) {
	app := newTestApp()

	resp, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": "ali",
		"password": "pw1",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "ali", user["username"])
	assert.Equal(t, "user", user["role"])

	// Existing account with the wrong password.
	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": "ali",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Missing fields.
	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": "ali",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminLoginBootstraps(t *testing.T) {
	app := newTestApp()

	resp, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": "bashi",
		"password": "summit-pass",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["role"])
}

func TestWeekFlow(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "ali", "pw")

	// Start the week.
	resp, result := doJSON(t, app, "POST", "/api/weeks", token, map[string]string{
		"week_start": "1402/07/01",
		"week_end":   "1402/07/07",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	draft := result["data"].(map[string]interface{})
	draftID := draft["id"].(string)
	assert.NotEmpty(t, draftID)

	// Two activities: 100% and 50%.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/weeks/%s/activities", draftID), token,
		map[string]interface{}{"name": "run", "target": 5, "done": 5})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/weeks/%s/activities", draftID), token,
		map[string]interface{}{"name": "read", "target": 4, "done": 2})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Running score.
	resp, result = doJSON(t, app, "GET", "/api/weeks/"+draftID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(75), data["running_score"])

	// Submit.
	resp, result = doJSON(t, app, "POST", fmt.Sprintf("/api/weeks/%s/submit", draftID), token,
		map[string]string{"week_feedback": "solid week"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	submitted := result["data"].(map[string]interface{})
	assert.Equal(t, float64(75), submitted["week_total_score"])
	assert.Equal(t, float64(0), submitted["progress_diff"])

	// The draft is gone after submit.
	resp, _ = doJSON(t, app, "GET", "/api/weeks/"+draftID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Same range again is rejected.
	resp, _ = doJSON(t, app, "POST", "/api/weeks", token, map[string]string{
		"week_start": "1402/07/01",
		"week_end":   "1402/07/07",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// History shows the submitted week.
	resp, result = doJSON(t, app, "GET", "/api/history", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	histData := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), histData["count"])
}

func TestWeekValidation(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "ali", "pw")

	resp, _ := doJSON(t, app, "POST", "/api/weeks", token, map[string]string{
		"week_start": "1402/13/01",
		"week_end":   "1402/13/07",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, result := doJSON(t, app, "POST", "/api/weeks", token, map[string]string{
		"week_start": "1402/07/01",
		"week_end":   "1402/07/07",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	draftID := result["data"].(map[string]interface{})["id"].(string)

	// Zero target is rejected before it reaches the draft.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/weeks/%s/activities", draftID), token,
		map[string]interface{}{"name": "x", "target": 0, "done": 3})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Submitting an empty draft is rejected.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/weeks/%s/submit", draftID), token,
		map[string]string{"week_feedback": ""})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp()

	for _, route := range [][2]string{
		{"POST", "/api/weeks"},
		{"GET", "/api/history"},
		{"POST", "/api/auth/password"},
	} {
		resp, _ := doJSON(t, app, route[0], route[1], "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", route[0], route[1])
	}
}

func TestAdminHistoryAccess(t *testing.T) {
	app := newTestApp()

	userToken := login(t, app, "ali", "pw")
	resp, _ := doJSON(t, app, "GET", "/api/admin/history", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	adminToken := login(t, app, "bashi", "summit-pass")
	resp, result := doJSON(t, app, "GET", "/api/admin/history", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotNil(t, result["data"])
}

func TestChangePasswordEndpoint(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "ali", "old-pw")

	resp, _ := doJSON(t, app, "POST", "/api/auth/password", token, map[string]string{
		"new_password": "new-pw",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": "ali",
		"password": "old-pw",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	login(t, app, "ali", "new-pw")
}

func TestLogoutDropsDrafts(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "ali", "pw")

	_, result := doJSON(t, app, "POST", "/api/weeks", token, map[string]string{
		"week_start": "1402/07/01",
		"week_end":   "1402/07/07",
	})
	draftID := result["data"].(map[string]interface{})["id"].(string)

	resp, _ := doJSON(t, app, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Token is still valid (stateless), but the draft is gone.
	resp, _ = doJSON(t, app, "GET", "/api/weeks/"+draftID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
