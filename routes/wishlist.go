package routes

import (
	"errors"
	"strconv"

	"perfumeshop/db"
	"perfumeshop/middleware"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func listWishlist(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var wishlists []models.Wishlist
	if err := db.DB.Preload("Product").Where("user_id = ?", user.ID).Find(&wishlists).Error; err != nil {
		log.Error().Err(err).Msg("listWishlist: query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get wishlist",
		})
	}

	return c.JSON(wishlists)
}

type wishlistRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

func addToWishlist(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req wishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, structValidationErrors(err))
	}

	var product models.Product
	if err := db.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationError(c, fiber.Map{"product_id": "does not exist"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to validate product",
		})
	}

	// Adding the same product twice is a no-op, not an error.
	wishlist := models.Wishlist{UserID: user.ID, ProductID: req.ProductID}
	err := db.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).
		FirstOrCreate(&wishlist).Error
	if err != nil {
		log.Error().Err(err).Msg("addToWishlist: upsert failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to add to wishlist",
		})
	}

	db.DB.Preload("Product").First(&wishlist, wishlist.ID)
	return c.JSON(fiber.Map{
		"message":  "Product added to wishlist",
		"wishlist": wishlist,
	})
}

func removeFromWishlist(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var wishlist models.Wishlist
	err = db.DB.Where("user_id = ? AND product_id = ?", user.ID, productID).First(&wishlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not in wishlist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to check wishlist",
		})
	}

	if err := db.DB.Delete(&wishlist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to remove from wishlist",
		})
	}

	return c.JSON(fiber.Map{"message": "Product removed from wishlist"})
}

func checkWishlist(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var count int64
	if err := db.DB.Model(&models.Wishlist{}).
		Where("user_id = ? AND product_id = ?", user.ID, productID).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to check wishlist",
		})
	}

	return c.JSON(fiber.Map{"in_wishlist": count > 0})
}
