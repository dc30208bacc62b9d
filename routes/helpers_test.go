package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp wires a fresh app against a per-test in-memory database. The
// shared-cache DSN keeps the schema alive across pooled connections.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	db.DB = conn

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	SetupRoutes(app)
	return app
}

// createTestUser inserts a user directly and signs a token for it, keeping
// tests clear of the auth endpoints and their rate limits.
func createTestUser(t *testing.T, username string, admin bool) (models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		IsAdmin:  admin,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := issueToken(user)
	require.NoError(t, err)
	return user, token
}

func seedProduct(t *testing.T, name, category string, price float64, stock int, featured bool) models.Product {
	t.Helper()
	product := models.Product{
		Name:          name,
		Price:         decimal.NewFromFloat(price),
		Category:      category,
		Description:   name + " description",
		StockQuantity: stock,
		IsFeatured:    featured,
		IsActive:      true,
	}
	require.NoError(t, db.DB.Create(&product).Error)
	return product
}

func seedReview(t *testing.T, userID *uint, productID uint, rating int) models.Review {
	t.Helper()
	review := models.Review{
		UserID:    userID,
		ProductID: productID,
		Name:      "Reviewer",
		Rating:    rating,
		Comment:   "a comment",
	}
	require.NoError(t, db.DB.Create(&review).Error)
	return review
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeInto(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
