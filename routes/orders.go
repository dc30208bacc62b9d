package routes

import (
	"errors"
	"fmt"

	"perfumeshop/db"
	"perfumeshop/middleware"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderLine struct {
	ID       uint `json:"id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,min=1"`
}

type orderRequest struct {
	CustomerName     string      `json:"customer_name" validate:"required,max=255"`
	CustomerEmail    string      `json:"customer_email" validate:"required,email"`
	CustomerPhone    string      `json:"customer_phone" validate:"required"`
	CustomerLocation string      `json:"customer_location" validate:"required"`
	Products         []orderLine `json:"products" validate:"required,min=1"`
}

func listOrders(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	query := db.DB.Preload("User").Preload("Items.Product")
	if !user.IsAdmin {
		query = query.Where("user_id = ?", user.ID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		log.Error().Err(err).Msg("listOrders: query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get orders",
		})
	}

	return c.JSON(orders)
}

// createOrder resolves unit prices server-side and writes the order header,
// line items and stock decrements as one transaction. Client-sent prices
// are never trusted.
func createOrder(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, structValidationErrors(err))
	}
	for _, line := range req.Products {
		if line.Quantity < 1 {
			return validationError(c, fiber.Map{"products": "quantity must be at least 1"})
		}
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create order",
		})
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Products))

	for _, line := range req.Products {
		var product models.Product
		if err := tx.First(&product, line.ID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError(c, fiber.Map{
					"products": fmt.Sprintf("product %d does not exist", line.ID),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to create order",
			})
		}

		// Guarded decrement: losing a race on the last units fails the
		// whole order instead of driving stock negative.
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", product.ID, line.Quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
		if res.Error != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to create order",
			})
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return validationError(c, fiber.Map{
				"products": fmt.Sprintf("insufficient stock for %s", product.Name),
			})
		}

		// Zero stock deactivates the product, same rule the inventory
		// sweep applies.
		if err := tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity <= 0", product.ID).
			UpdateColumn("is_active", false).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to create order",
			})
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	order := models.Order{
		UserID:           user.ID,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CustomerLocation: req.CustomerLocation,
		TotalAmount:      total,
		Status:           models.OrderStatusPending,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("createOrder: insert failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create order",
		})
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("createOrder: items insert failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create order items",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save order",
		})
	}

	db.DB.Preload("User").Preload("Items.Product").First(&order, order.ID)
	BroadcastOrderEvent("order.created", order)

	return c.Status(fiber.StatusCreated).JSON(order)
}

func getOrder(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	id := c.Params("id")

	var order models.Order
	err := db.DB.Preload("User").Preload("Items.Product").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get order",
		})
	}

	if !user.IsAdmin && order.UserID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only view your own orders",
		})
	}

	return c.JSON(order)
}

type orderUpdateRequest struct {
	Status string `json:"status"`
}

// updateOrder only ever touches the status. The total and line items are
// immutable after creation.
func updateOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	var order models.Order
	if err := db.DB.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find order",
		})
	}

	var req orderUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}

	if req.Status != "" {
		if !models.ValidOrderStatus(req.Status) {
			return validationError(c, fiber.Map{
				"status": "must be one of pending, confirmed, shipped, delivered, cancelled",
			})
		}
		if err := db.DB.Model(&order).Update("status", req.Status).Error; err != nil {
			log.Error().Err(err).Msg("updateOrder: update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update order",
			})
		}
	}

	db.DB.Preload("User").Preload("Items.Product").First(&order, order.ID)
	return c.JSON(order)
}

func deleteOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	var order models.Order
	if err := db.DB.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find order",
		})
	}

	tx := db.DB.Begin()
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete order",
		})
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete order",
		})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete order",
		})
	}

	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}
