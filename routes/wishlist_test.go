package routes

import (
	"fmt"
	"net/http"
	"testing"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToWishlist(t *testing.T) {
	app := setupApp(t)
	_, token := createTestUser(t, "alice", false)
	product := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, false)

	resp := doJSON(t, app, fiber.MethodPost, "/api/wishlist", token, fiber.Map{
		"product_id": product.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product added to wishlist", decodeMap(t, resp)["message"])

	// Adding again is a no-op, not a second row.
	resp = doJSON(t, app, fiber.MethodPost, "/api/wishlist", token, fiber.Map{
		"product_id": product.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.DB.Model(&models.Wishlist{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddToWishlistUnknownProduct(t *testing.T) {
	app := setupApp(t)
	_, token := createTestUser(t, "alice", false)

	resp := doJSON(t, app, fiber.MethodPost, "/api/wishlist", token, fiber.Map{
		"product_id": 999,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestListWishlistScopedToUser(t *testing.T) {
	app := setupApp(t)
	_, aliceToken := createTestUser(t, "alice", false)
	_, bobToken := createTestUser(t, "bob", false)
	product := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, false)

	resp := doJSON(t, app, fiber.MethodPost, "/api/wishlist", aliceToken, fiber.Map{
		"product_id": product.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []models.Wishlist
	resp = doJSON(t, app, fiber.MethodGet, "/api/wishlist", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &items)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Velvet Rose", items[0].Product.Name)

	resp = doJSON(t, app, fiber.MethodGet, "/api/wishlist", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &items)
	assert.Empty(t, items)
}

func TestCheckWishlist(t *testing.T) {
	app := setupApp(t)
	_, token := createTestUser(t, "alice", false)
	product := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, false)

	path := fmt.Sprintf("/api/wishlist/check/%d", product.ID)
	resp := doJSON(t, app, fiber.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeMap(t, resp)["in_wishlist"])

	resp = doJSON(t, app, fiber.MethodPost, "/api/wishlist", token, fiber.Map{
		"product_id": product.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeMap(t, resp)["in_wishlist"])
}

func TestRemoveFromWishlist(t *testing.T) {
	app := setupApp(t)
	_, token := createTestUser(t, "alice", false)
	product := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, false)

	path := fmt.Sprintf("/api/wishlist/%d", product.ID)
	resp := doJSON(t, app, fiber.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/wishlist", token, fiber.Map{
		"product_id": product.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.DB.Model(&models.Wishlist{}).Count(&count)
	assert.Zero(t, count)
}
