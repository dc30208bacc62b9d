package routes

import (
	"net/http"
	"testing"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	app := setupApp(t)
	seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, true)
	seedProduct(t, "Ocean Breeze", models.CategoryMens, 55, 20, false)
	seedProduct(t, "Citrus Zest", models.CategoryUnisex, 45, 40, true)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list ProductListResponse
	decodeInto(t, resp, &list)
	assert.EqualValues(t, 3, list.Total)
	assert.Len(t, list.Products, 3)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 1, list.TotalPages)
}

func TestListProductsCategoryFilter(t *testing.T) {
	app := setupApp(t)
	seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, true)
	seedProduct(t, "Ocean Breeze", models.CategoryMens, 55, 20, false)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products?category=mens", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list ProductListResponse
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Ocean Breeze", list.Products[0].Name)
}

func TestListProductsInvalidCategory(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products?category=bogus", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeMap(t, resp)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "category")
}

func TestListProductsPriceAndSearch(t *testing.T) {
	app := setupApp(t)
	seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, true)
	seedProduct(t, "Noir Essence", models.CategoryMens, 90, 8, true)
	seedProduct(t, "Petals Of Bloom", models.CategoryWomens, 10, 50, false)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products?min_price=40&max_price=60", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list ProductListResponse
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Velvet Rose", list.Products[0].Name)

	resp = doJSON(t, app, fiber.MethodGet, "/api/products?search=noir", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Noir Essence", list.Products[0].Name)

	resp = doJSON(t, app, fiber.MethodGet, "/api/products?min_price=abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestListProductsRatingAggregates(t *testing.T) {
	app := setupApp(t)
	user, _ := createTestUser(t, "alice", false)
	other, _ := createTestUser(t, "bob", false)

	rated := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, true)
	unrated := seedProduct(t, "Ocean Breeze", models.CategoryMens, 55, 20, false)
	seedReview(t, &user.ID, rated.ID, 5)
	seedReview(t, &other.ID, rated.ID, 4)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products?min_rating=4", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list ProductListResponse
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, rated.ID, list.Products[0].ID)
	assert.InDelta(t, 4.5, list.Products[0].AverageRating, 0.001)
	assert.EqualValues(t, 2, list.Products[0].ReviewCount)

	// Unrated products report a zero average, not an absence.
	resp = doJSON(t, app, fiber.MethodGet, "/api/products?category=mens", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, unrated.ID, list.Products[0].ID)
	assert.Zero(t, list.Products[0].AverageRating)
}

func TestListProductsSortAndPaginate(t *testing.T) {
	app := setupApp(t)
	seedProduct(t, "Cheap", models.CategoryUnisex, 10, 5, false)
	seedProduct(t, "Mid", models.CategoryUnisex, 50, 5, false)
	seedProduct(t, "Expensive", models.CategoryUnisex, 90, 5, false)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products?sort_by=price&sort_order=asc&per_page=2&page=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list ProductListResponse
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 2)
	assert.Equal(t, "Cheap", list.Products[0].Name)
	assert.Equal(t, "Mid", list.Products[1].Name)
	assert.Equal(t, 2, list.TotalPages)

	resp = doJSON(t, app, fiber.MethodGet, "/api/products?sort_by=price&sort_order=asc&per_page=2&page=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Expensive", list.Products[0].Name)
}

func TestListProductsFeatured(t *testing.T) {
	app := setupApp(t)
	seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, true)
	seedProduct(t, "Ocean Breeze", models.CategoryMens, 55, 20, false)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products?featured=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list ProductListResponse
	decodeInto(t, resp, &list)
	require.Len(t, list.Products, 1)
	assert.True(t, list.Products[0].IsFeatured)
}

func TestGetProduct(t *testing.T) {
	app := setupApp(t)
	product := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, true)

	resp := doJSON(t, app, fiber.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Product
	decodeInto(t, resp, &got)
	assert.Equal(t, product.ID, got.ID)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(50)))

	resp = doJSON(t, app, fiber.MethodGet, "/api/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	app := setupApp(t)
	_, userToken := createTestUser(t, "alice", false)
	_, adminToken := createTestUser(t, "admin", true)

	payload := fiber.Map{
		"name":           "Spiced Amber",
		"price":          65.0,
		"category":       "mens",
		"stock_quantity": 15,
	}

	resp := doJSON(t, app, fiber.MethodPost, "/api/products", "", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/products", userToken, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/products", adminToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	decodeInto(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
}

func TestCreateProductValidation(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createTestUser(t, "admin", true)

	resp := doJSON(t, app, fiber.MethodPost, "/api/products", adminToken, fiber.Map{
		"name":     "Bad Category",
		"price":    10.0,
		"category": "bogus",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/products", adminToken, fiber.Map{
		"name":     "Negative",
		"price":    -1.0,
		"category": "mens",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateProductPartial(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createTestUser(t, "admin", true)
	product := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, false)

	resp := doJSON(t, app, fiber.MethodPut, "/api/products/1", adminToken, fiber.Map{
		"stock_quantity": 0,
		"is_featured":    true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Product
	require.NoError(t, db.DB.First(&got, product.ID).Error)
	assert.Equal(t, 0, got.StockQuantity)
	assert.True(t, got.IsFeatured)
	// Untouched fields keep their values.
	assert.Equal(t, "Velvet Rose", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(50)))
}

func TestDeleteProduct(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createTestUser(t, "admin", true)
	product := seedProduct(t, "Velvet Rose", models.CategoryWomens, 50, 10, false)

	resp := doJSON(t, app, fiber.MethodDelete, "/api/products/1", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Zero(t, count)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/products/1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
