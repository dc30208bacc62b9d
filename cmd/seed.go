package cmd

import (
	"perfumeshop/db"
	"perfumeshop/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with an admin account and a starter catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db.InitDatabase()
			return runSeed()
		},
	}
}

func runSeed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		return err
	}
	admin := models.User{
		Username: "admin",
		Email:    "admin@nextgenperfumes.com",
		Password: string(hash),
		IsAdmin:  true,
	}
	if err := db.DB.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		return err
	}
	log.Info().Str("email", admin.Email).Msg("admin user ready")

	var productCount int64
	db.DB.Model(&models.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Info().Int64("products", productCount).Msg("catalog already seeded, skipping")
		return nil
	}

	products := []models.Product{
		{Name: "Velvet Rose", Price: decimal.NewFromFloat(50.00), Description: "Timeless elegance meets modern sophistication with notes of Bulgarian rose and vanilla.", Category: models.CategoryWomens, ImageURL: "images/perfume-2.jpg", IsFeatured: true, StockQuantity: 25, IsActive: true},
		{Name: "Midnight Bloom", Price: decimal.NewFromFloat(60.00), Description: "Enchanting fragrances for unforgettable moments with jasmine and sandalwood.", Category: models.CategoryWomens, ImageURL: "images/perfume-3.jpg", IsFeatured: true, StockQuantity: 30, IsActive: true},
		{Name: "Citrus Zest", Price: decimal.NewFromFloat(45.00), Description: "Fresh, vibrant scents that energize your day with bergamot and lemon.", Category: models.CategoryUnisex, ImageURL: "images/perfume-4.jpg", IsFeatured: true, StockQuantity: 40, IsActive: true},
		{Name: "Ocean Breeze", Price: decimal.NewFromFloat(55.00), Description: "Refreshing aquatic notes for the free spirit with sea salt and mint.", Category: models.CategoryMens, ImageURL: "images/perfume-5.jpg", IsFeatured: true, StockQuantity: 20, IsActive: true},
		{Name: "Spiced Amber", Price: decimal.NewFromFloat(65.00), Description: "Warm and mysterious with amber, cinnamon, and cedar wood.", Category: models.CategoryMens, ImageURL: "images/perfume-6.jpg", StockQuantity: 15, IsActive: true},
		{Name: "Jasmine Whisper", Price: decimal.NewFromFloat(30.00), Description: "Delicate floral notes perfect for everyday wear.", Category: models.CategoryWomens, ImageURL: "images/perfume-7.jpg", StockQuantity: 35, IsActive: true},
		{Name: "Rose Whisper", Price: decimal.NewFromFloat(40.00), Description: "Elegant rose petals with a hint of musk.", Category: models.CategoryWomens, ImageURL: "images/perfume-8.jpg", StockQuantity: 28, IsActive: true},
		{Name: "Petals Of Bloom", Price: decimal.NewFromFloat(10.00), Description: "Light and airy floral bouquet perfect for spring.", Category: models.CategoryWomens, ImageURL: "images/perfume-9.jpg", StockQuantity: 50, IsActive: true},
		{Name: "Ocean Mist", Price: decimal.NewFromFloat(80.00), Description: "Premium aquatic fragrance with marine accords.", Category: models.CategoryUnisex, ImageURL: "images/perfume-10.jpg", IsFeatured: true, StockQuantity: 12, IsActive: true},
		{Name: "Noir Essence", Price: decimal.NewFromFloat(90.00), Description: "Sophisticated and bold with black pepper and leather.", Category: models.CategoryMens, ImageURL: "images/perfume-11.jpg", IsFeatured: true, StockQuantity: 8, IsActive: true},
		{Name: "Luxury Gift Set", Price: decimal.NewFromFloat(120.00), Description: "Premium gift set with three 30ml fragrances.", Category: models.CategoryGiftSets, ImageURL: "images/gift-set-perfume.jpg", IsFeatured: true, StockQuantity: 10, IsActive: true},
	}
	if err := db.DB.Create(&products).Error; err != nil {
		return err
	}

	reviews := []models.Review{
		{UserID: &admin.ID, ProductID: products[0].ID, Name: "Sarah Johnson", Rating: 5, Comment: "Absolutely love this perfume! The scent lasts all day and I get compliments everywhere I go."},
		{UserID: &admin.ID, ProductID: products[1].ID, Name: "Mike Chen", Rating: 4, Comment: "Great fragrance, very sophisticated. Perfect for evening events."},
		{UserID: &admin.ID, ProductID: products[2].ID, Name: "Emma Davis", Rating: 5, Comment: "Fresh and energizing! Perfect for daily wear, not too overpowering."},
		{UserID: &admin.ID, ProductID: products[3].ID, Name: "Alex Rodriguez", Rating: 4, Comment: "Clean and refreshing scent. Reminds me of ocean vacations."},
	}
	if err := db.DB.Create(&reviews).Error; err != nil {
		return err
	}

	log.Info().Int("products", len(products)).Int("reviews", len(reviews)).Msg("catalog seeded")
	return nil
}
