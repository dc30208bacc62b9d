package db

import (
	"log"
	"os"
	"path/filepath"
	"perfumeshop/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDatabase() {
	var err error
	dbPath := Path()

	// Ensure the directory exists (create if it doesn't)
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create database directory:", err)
		}
	}

	// Check if the database file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Println("Database file does not exist, creating:", dbPath)
		file, err := os.Create(dbPath)
		if err != nil {
			log.Fatal("Failed to create database file:", err)
		}
		file.Close()
	}

	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	log.Println("Database connected successfully at", dbPath)

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}

// Migrate runs the schema migration. Split out so tests can run it against
// their own connection.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{}, &models.AuthToken{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.Review{},
		&models.Wishlist{}, &models.Contact{}, &models.Newsletter{},
	)
}

// Path returns the location of the SQLite file, for the backup command.
func Path() string {
	if p := os.Getenv("DB_PATH"); p != "" {
		return p
	}
	return "database.db"
}
