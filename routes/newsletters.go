package routes

import (
	"errors"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func createNewsletter(c *fiber.Ctx) error {
	newsletter := new(models.Newsletter)
	if err := c.BodyParser(newsletter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}
	if err := validate.Struct(newsletter); err != nil {
		return validationError(c, structValidationErrors(err))
	}

	var existing models.Newsletter
	result := db.DB.Where("email = ?", newsletter.Email).Find(&existing)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to check subscription",
		})
	}
	if result.RowsAffected > 0 {
		return validationError(c, fiber.Map{"email": "has already been taken"})
	}

	newsletter.ID = 0
	newsletter.IsActive = true
	if err := db.DB.Create(newsletter).Error; err != nil {
		log.Error().Err(err).Msg("createNewsletter: insert failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create subscription",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(newsletter)
}

func listNewsletters(c *fiber.Ctx) error {
	var newsletters []models.Newsletter
	if err := db.DB.Order("created_at DESC").Find(&newsletters).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get subscriptions",
		})
	}
	return c.JSON(newsletters)
}

func getNewsletter(c *fiber.Ctx) error {
	id := c.Params("id")
	var newsletter models.Newsletter

	if err := db.DB.First(&newsletter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Subscription not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get subscription",
		})
	}

	return c.JSON(newsletter)
}

type newsletterUpdateRequest struct {
	IsActive *bool `json:"is_active"`
}

func updateNewsletter(c *fiber.Ctx) error {
	id := c.Params("id")

	var newsletter models.Newsletter
	if err := db.DB.First(&newsletter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Subscription not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find subscription",
		})
	}

	var req newsletterUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}

	if req.IsActive != nil {
		if err := db.DB.Model(&newsletter).Update("is_active", *req.IsActive).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update subscription",
			})
		}
	}

	return c.JSON(newsletter)
}

func deleteNewsletter(c *fiber.Ctx) error {
	id := c.Params("id")

	var newsletter models.Newsletter
	if err := db.DB.First(&newsletter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Subscription not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find subscription",
		})
	}

	if err := db.DB.Delete(&newsletter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete subscription",
		})
	}

	return c.JSON(fiber.Map{"message": "Newsletter subscription deleted successfully"})
}
