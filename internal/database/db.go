package database

import (
	"fmt"
	"log"

	"emlak-crm-backend/internal/config"
	"emlak-crm-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init veritabanı bağlantısını açar ve migration'ları çalıştırır.
// Global bir handle tutmuyoruz; dönen *gorm.DB main'de handler'lara
// açıkça geçirilir.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
	return db, nil
}

// Migrate testlerde sqlite ile de kullanılır.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.PortfolioOwner{},
		&models.Property{},
		&models.Request{},
		&models.MeetingNote{},
		&models.Notification{},
		&models.AuditLog{},
		&models.City{},
		&models.District{},
		&models.Neighborhood{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}
