package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"perfumeshop/db"
	"perfumeshop/models"
	"perfumeshop/utils"

	"github.com/spf13/cobra"
)

// NewInventoryCheckCommand creates the inventory-check command. It is meant
// to run hourly from cron.
func NewInventoryCheckCommand() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "inventory-check",
		Short: "Deactivate out-of-stock products and alert on low stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The env fallback is resolved here so that a .env loaded by the
			// root command is already in effect.
			if !cmd.Flags().Changed("threshold") {
				threshold = defaultThreshold()
			}
			db.InitDatabase()
			return runInventoryCheck(threshold)
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 10, "stock threshold for low stock alerts")
	return cmd
}

func defaultThreshold() int {
	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 10
}

func runInventoryCheck(threshold int) error {
	var lowStock []models.Product
	if err := db.DB.Where("stock_quantity < ? AND stock_quantity > 0", threshold).Find(&lowStock).Error; err != nil {
		return err
	}

	var outOfStock []models.Product
	if err := db.DB.Where("stock_quantity <= 0").Find(&outOfStock).Error; err != nil {
		return err
	}
	for i := range outOfStock {
		if err := db.DB.Model(&outOfStock[i]).Update("is_active", false).Error; err != nil {
			return err
		}
	}

	if len(lowStock) > 0 {
		var body strings.Builder
		body.WriteString("Low stock alert:\n")
		for _, p := range lowStock {
			fmt.Fprintf(&body, "%s: %d left\n", p.Name, p.StockQuantity)
		}

		adminEmail := os.Getenv("ADMIN_EMAIL")
		if adminEmail == "" {
			log.Warn().Msg("ADMIN_EMAIL not set, skipping low stock alert")
		} else if err := utils.SendAlertEmail(adminEmail, "Low Stock Alert - NextGen Perfumes", body.String()); err != nil {
			// A failed alert should not abort the check itself.
			log.Error().Err(err).Msg("failed to send low stock alert")
		}
	}

	log.Info().
		Int("low_stock", len(lowStock)).
		Int("out_of_stock", len(outOfStock)).
		Msg("inventory check completed")
	return nil
}
