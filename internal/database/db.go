package database

import (
	"log"
	"os"
	"time"

	"go-pos-suite/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	// Credentials come from the .env file so the app stays portable
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Connect with GORM (wait for the DB container to be ready)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("✅ Successfully connected to MySQL!")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("✅ Database Schema Synced!")
}

// Migrate syncs the full tenant-scoped schema. Split out from Connect so
// tests can run the same migration against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Size{},
		&models.Addon{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.TransactionItemAddon{},
		&models.Expense{},
		&models.InventoryItem{},
		&models.InventoryRecord{},
		&models.SubmittedReport{},
	)
}
