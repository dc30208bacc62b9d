package routes

import (
	"net/http"
	"testing"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/register", "", fiber.Map{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	var count int64
	db.DB.Model(&models.AuthToken{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterDuplicate(t *testing.T) {
	app := setupApp(t)
	createTestUser(t, "alice", false)

	resp := doJSON(t, app, fiber.MethodPost, "/api/register", "", fiber.Map{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret-password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/register", "", fiber.Map{
		"username": "bob",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, "The given data was invalid.", body["message"])
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestLogin(t *testing.T) {
	app := setupApp(t)
	createTestUser(t, "alice", false)

	resp := doJSON(t, app, fiber.MethodPost, "/api/login", "", fiber.Map{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.NotEmpty(t, body["token"])

	var user models.User
	require.NoError(t, db.DB.First(&user, "username = ?", "alice").Error)
	assert.NotNil(t, user.LastLogin)
}

func TestLoginByEmail(t *testing.T) {
	app := setupApp(t)
	createTestUser(t, "alice", false)

	resp := doJSON(t, app, fiber.MethodPost, "/api/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)
	createTestUser(t, "alice", false)

	resp := doJSON(t, app, fiber.MethodPost, "/api/login", "", fiber.Map{
		"username": "alice",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid username or password", decodeMap(t, resp)["message"])
}

func TestLoginSuspended(t *testing.T) {
	app := setupApp(t)
	user, _ := createTestUser(t, "alice", false)
	require.NoError(t, db.DB.Model(&user).Update("is_suspended", true).Error)

	resp := doJSON(t, app, fiber.MethodPost, "/api/login", "", fiber.Map{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := setupApp(t)
	_, token := createTestUser(t, "alice", false)

	resp := doJSON(t, app, fiber.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The JWT is still validly signed but its allow-list row is gone.
	resp = doJSON(t, app, fiber.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/orders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentUser(t *testing.T) {
	app := setupApp(t)
	user, token := createTestUser(t, "alice", false)

	resp := doJSON(t, app, fiber.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.User
	decodeInto(t, resp, &got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}
