package db

import (
	"fmt"
	"log"
	"os"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError so unique violations surface as gorm.ErrDuplicatedKey;
	// the loan engine relies on that to turn constraint races into domain errors.
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(gdb); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return gdb
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Item{},
		&models.Loan{},
		&models.LoanHistory{},
		&models.AuditLog{},
		&models.Tag{},
		&models.ItemTag{},
		&models.QRCode{},
		&models.Flag{},
		&models.ItemFlag{},
		&models.Comment{},
	)
}
