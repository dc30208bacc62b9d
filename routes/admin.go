package routes

import (
	"errors"
	"time"

	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type dashboardStats struct {
	TotalSales      float64 `json:"total_sales"`
	TotalOrders     int64   `json:"total_orders"`
	TotalCustomers  int64   `json:"total_customers"`
	TotalStock      int64   `json:"total_stock"`
	SalesGrowth     float64 `json:"sales_growth"`
	OrdersGrowth    float64 `json:"orders_growth"`
	CustomersGrowth float64 `json:"customers_growth"`
}

type bestSellingProduct struct {
	models.Product
	TotalSold int64 `json:"total_sold"`
}

type categoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// growthPercent is month-over-month growth. An empty previous period is
// defined as 0% growth, not a division by zero.
func growthPercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func sumOrders(from, to time.Time) float64 {
	var total float64
	db.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&total)
	return total
}

func countRowsBetween(model interface{}, from, to time.Time) int64 {
	var count int64
	db.DB.Model(model).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count)
	return count
}

// countCustomersBetween applies the same non-admin rule as TotalCustomers.
func countCustomersBetween(from, to time.Time) int64 {
	var count int64
	db.DB.Model(&models.User{}).
		Where("is_admin = ?", false).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count)
	return count
}

// dashboard recomputes every aggregate on each call. Nothing is cached.
func dashboard(c *fiber.Ctx) error {
	var stats dashboardStats

	db.DB.Model(&models.Order{}).Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalSales)
	db.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	db.DB.Model(&models.User{}).Where("is_admin = ?", false).Count(&stats.TotalCustomers)
	db.DB.Model(&models.Product{}).Select("COALESCE(SUM(stock_quantity), 0)").Scan(&stats.TotalStock)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	stats.SalesGrowth = growthPercent(
		sumOrders(monthStart, nextMonthStart),
		sumOrders(prevMonthStart, monthStart),
	)
	stats.OrdersGrowth = growthPercent(
		float64(countRowsBetween(&models.Order{}, monthStart, nextMonthStart)),
		float64(countRowsBetween(&models.Order{}, prevMonthStart, monthStart)),
	)
	stats.CustomersGrowth = growthPercent(
		float64(countCustomersBetween(monthStart, nextMonthStart)),
		float64(countCustomersBetween(prevMonthStart, monthStart)),
	)

	var bestSelling []bestSellingProduct
	if err := db.DB.Model(&models.Product{}).
		Select("products.*, COALESCE(SUM(order_items.quantity), 0) AS total_sold").
		Joins("LEFT JOIN order_items ON order_items.product_id = products.id").
		Group("products.id").
		Order("total_sold DESC").
		Limit(5).
		Find(&bestSelling).Error; err != nil {
		log.Error().Err(err).Msg("dashboard: best selling query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to compute dashboard",
		})
	}

	var categoryStats []categoryStat
	if err := db.DB.Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Find(&categoryStats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to compute dashboard",
		})
	}

	var recentOrders []models.Order
	if err := db.DB.Preload("User").Preload("Items.Product").
		Order("created_at DESC").
		Limit(10).
		Find(&recentOrders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to compute dashboard",
		})
	}

	return c.JSON(fiber.Map{
		"stats":          stats,
		"best_selling":   bestSelling,
		"category_stats": categoryStats,
		"recent_orders":  recentOrders,
	})
}

func listAdminUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get users",
		})
	}
	return c.JSON(users)
}

// suspendUser toggles the flag. Suspending also revokes every issued token
// so a suspended account cannot keep using an old session.
func suspendUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find user",
		})
	}

	user.IsSuspended = !user.IsSuspended
	if err := db.DB.Model(&user).Update("is_suspended", user.IsSuspended).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update user",
		})
	}

	if user.IsSuspended {
		if err := db.DB.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error; err != nil {
			log.Error().Err(err).Uint("user_id", user.ID).Msg("suspendUser: token revocation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to revoke tokens",
			})
		}
	}

	message := "User unsuspended"
	if user.IsSuspended {
		message = "User suspended"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"user":    user,
	})
}

func forceLogoutUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to find user",
		})
	}

	if err := db.DB.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to revoke tokens",
		})
	}
	if err := db.DB.Model(&user).Update("last_login", nil).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update user",
		})
	}

	return c.JSON(fiber.Map{"message": "User logged out successfully"})
}
