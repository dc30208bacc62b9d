package routes

import (
	"errors"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func createContact(c *fiber.Ctx) error {
	contact := new(models.Contact)
	if err := c.BodyParser(contact); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}
	if err := validate.Struct(contact); err != nil {
		return validationError(c, structValidationErrors(err))
	}

	contact.ID = 0
	contact.Status = models.ContactStatusNew
	if err := db.DB.Create(contact).Error; err != nil {
		log.Error().Err(err).Msg("createContact: insert failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create contact",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}

func listContacts(c *fiber.Ctx) error {
	var contacts []models.Contact
	if err := db.DB.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get contacts",
		})
	}
	return c.JSON(contacts)
}

func getContact(c *fiber.Ctx) error {
	id := c.Params("id")
	var contact models.Contact

	if err := db.DB.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Contact not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get contact",
		})
	}

	return c.JSON(contact)
}

type contactUpdateRequest struct {
	Status string `json:"status"`
}

func updateContact(c *fiber.Ctx) error {
	id := c.Params("id")

	var contact models.Contact
	if err := db.DB.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Contact not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find contact",
		})
	}

	var req contactUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}

	if req.Status != "" {
		if !models.ValidContactStatus(req.Status) {
			return validationError(c, fiber.Map{
				"status": "must be one of new, read, replied",
			})
		}
		if err := db.DB.Model(&contact).Update("status", req.Status).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update contact",
			})
		}
	}

	return c.JSON(contact)
}

func deleteContact(c *fiber.Ctx) error {
	id := c.Params("id")

	var contact models.Contact
	if err := db.DB.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Contact not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find contact",
		})
	}

	if err := db.DB.Delete(&contact).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete contact",
		})
	}

	return c.JSON(fiber.Map{"message": "Contact deleted successfully"})
}
