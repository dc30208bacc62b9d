package routes

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// avgRatingExpr and reviewCountExpr are correlated subqueries so listing,
// filtering and sorting by rating all share one definition.
const (
	avgRatingExpr   = "(SELECT COALESCE(AVG(r.rating), 0) FROM reviews r WHERE r.product_id = products.id)"
	reviewCountExpr = "(SELECT COUNT(*) FROM reviews r WHERE r.product_id = products.id)"
)

var productSortColumns = map[string]string{
	"price":      "products.price",
	"rating":     "average_rating",
	"created_at": "products.created_at",
}

type ProductListResponse struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

func listProducts(c *fiber.Ctx) error {
	query := db.DB.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		if !models.ValidCategory(category) {
			return validationError(c, fiber.Map{
				"category": "must be one of mens, womens, unisex, gift_sets",
			})
		}
		query = query.Where("products.category = ?", category)
	}

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"products.name LIKE ? OR products.description LIKE ? OR products.brand LIKE ?",
			like, like, like,
		)
	}

	if brand := c.Query("brand"); brand != "" {
		query = query.Where("products.brand = ?", brand)
	}

	if v := c.Query("min_price"); v != "" {
		minPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return validationError(c, fiber.Map{"min_price": "must be a number"})
		}
		query = query.Where("products.price >= ?", minPrice)
	}

	if v := c.Query("max_price"); v != "" {
		maxPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return validationError(c, fiber.Map{"max_price": "must be a number"})
		}
		query = query.Where("products.price <= ?", maxPrice)
	}

	if v := c.Query("min_rating"); v != "" {
		minRating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return validationError(c, fiber.Map{"min_rating": "must be a number"})
		}
		query = query.Where(avgRatingExpr+" >= ?", minRating)
	}

	if c.Query("featured") != "" {
		query = query.Where("products.is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error().Err(err).Msg("listProducts: count failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to count products",
		})
	}

	sortColumn, ok := productSortColumns[c.Query("sort_by", "created_at")]
	if !ok {
		sortColumn = productSortColumns["created_at"]
	}
	sortOrder := strings.ToLower(c.Query("sort_order", "desc"))
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 10)
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	var products []models.Product
	err := query.
		Select("products.*, " + avgRatingExpr + " AS average_rating, " + reviewCountExpr + " AS review_count").
		Order(sortColumn + " " + sortOrder).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	if err != nil {
		log.Error().Err(err).Msg("listProducts: query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get products",
		})
	}

	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}

	return c.JSON(ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	})
}

func getProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var product models.Product

	err := db.DB.
		Select("products.*, "+avgRatingExpr+" AS average_rating, "+reviewCountExpr+" AS review_count").
		Preload("Reviews").
		First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Error().Err(err).Msg("getProduct: query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get product",
		})
	}

	return c.JSON(product)
}

func createProduct(c *fiber.Ctx) error {
	product := new(models.Product)
	if err := c.BodyParser(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}

	if err := validate.Struct(product); err != nil {
		return validationError(c, structValidationErrors(err))
	}
	if !models.ValidCategory(product.Category) {
		return validationError(c, fiber.Map{
			"category": "must be one of mens, womens, unisex, gift_sets",
		})
	}
	if product.Price.IsNegative() {
		return validationError(c, fiber.Map{"price": "must be at least 0"})
	}

	product.ID = 0
	product.IsActive = true
	if err := db.DB.Create(product).Error; err != nil {
		log.Error().Err(err).Msg("createProduct: insert failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

type productUpdateRequest struct {
	Name           *string          `json:"name"`
	Price          *decimal.Decimal `json:"price"`
	Category       *string          `json:"category"`
	Description    *string          `json:"description"`
	Brand          *string          `json:"brand"`
	Size           *string          `json:"size"`
	ImageURL       *string          `json:"image_url"`
	GalleryImages  *datatypes.JSON  `json:"gallery_images"`
	FragranceNotes *datatypes.JSON  `json:"fragrance_notes"`
	StockQuantity  *int             `json:"stock_quantity"`
	IsFeatured     *bool            `json:"is_featured"`
	IsActive       *bool            `json:"is_active"`
}

func updateProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var existing models.Product
	if err := db.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find product",
		})
	}

	var req productUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return validationError(c, fiber.Map{"price": "must be at least 0"})
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return validationError(c, fiber.Map{
				"category": "must be one of mens, womens, unisex, gift_sets",
			})
		}
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.GalleryImages != nil {
		updates["gallery_images"] = *req.GalleryImages
	}
	if req.FragranceNotes != nil {
		updates["fragrance_notes"] = *req.FragranceNotes
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return validationError(c, fiber.Map{"stock_quantity": "must be at least 0"})
		}
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&existing).Updates(updates).Error; err != nil {
			log.Error().Err(err).Msg("updateProduct: update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update product",
			})
		}
	}

	return c.JSON(existing)
}

func deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var product models.Product
	if err := db.DB.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find product",
		})
	}

	if err := db.DB.Delete(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete product",
		})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// uploadImage stores an uploaded image under ./uploads with a generated
// name and returns the path to store on a product.
func uploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No image uploaded",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return validationError(c, fiber.Map{"image": "must be a jpeg, png, jpg or gif"})
	}

	filename := uuid.New().String() + ext
	if err := c.SaveFile(file, "./uploads/"+filename); err != nil {
		log.Error().Err(err).Msg("uploadImage: save failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to save file",
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"image_url": "/uploads/" + filename,
	})
}
