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

func listReviews(c *fiber.Ctx) error {
	query := db.DB.Preload("User").Preload("Product")

	if v := c.Query("product_id"); v != "" {
		productID, err := strconv.Atoi(v)
		if err != nil || productID <= 0 {
			return validationError(c, fiber.Map{"product_id": "must be an integer"})
		}
		var product models.Product
		if err := db.DB.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError(c, fiber.Map{"product_id": "does not exist"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to get reviews",
			})
		}
		query = query.Where("product_id = ?", productID)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		log.Error().Err(err).Msg("listReviews: query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get reviews",
		})
	}

	return c.JSON(reviews)
}

func getReview(c *fiber.Ctx) error {
	id := c.Params("id")
	var review models.Review

	if err := db.DB.Preload("User").Preload("Product").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Review not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get review",
		})
	}

	return c.JSON(review)
}

type reviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
}

func createReview(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req reviewRequest
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

	// One review per user per product.
	var existing models.Review
	err := db.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "You have already reviewed this product",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to check existing review",
		})
	}

	review := models.Review{
		UserID:    &user.ID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := db.DB.Create(&review).Error; err != nil {
		log.Error().Err(err).Msg("createReview: insert failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create review",
		})
	}

	db.DB.Preload("User").Preload("Product").First(&review, review.ID)
	return c.Status(fiber.StatusCreated).JSON(review)
}

type reviewUpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// canModifyReview implements the ownership rule: the authoring user or an
// admin, nobody else.
func canModifyReview(user models.User, review models.Review) bool {
	if user.IsAdmin {
		return true
	}
	return review.UserID != nil && *review.UserID == user.ID
}

func updateReview(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	id := c.Params("id")

	var review models.Review
	if err := db.DB.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Review not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find review",
		})
	}

	if !canModifyReview(user, review) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only modify your own reviews",
		})
	}

	var req reviewUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return validationError(c, fiber.Map{"rating": "must be between 1 and 5"})
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		if *req.Comment == "" {
			return validationError(c, fiber.Map{"comment": "is required"})
		}
		updates["comment"] = *req.Comment
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&review).Updates(updates).Error; err != nil {
			log.Error().Err(err).Msg("updateReview: update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update review",
			})
		}
	}

	db.DB.Preload("User").Preload("Product").First(&review, review.ID)
	return c.JSON(review)
}

func deleteReview(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	id := c.Params("id")

	var review models.Review
	if err := db.DB.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Review not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find review",
		})
	}

	if !canModifyReview(user, review) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only delete your own reviews",
		})
	}

	if err := db.DB.Delete(&review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete review",
		})
	}

	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}
