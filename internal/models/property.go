package models

import "time"

type PropertyType string

const (
	PropertyTypeDaire  PropertyType = "Daire"
	PropertyTypeIsYeri PropertyType = "İş Yeri"
	PropertyTypeArsa   PropertyType = "Arsa"
)

type ListingType string

const (
	ListingTypeSatilik ListingType = "Satılık"
	ListingTypeKiralik ListingType = "Kiralık"
)

func ValidPropertyType(t PropertyType) bool {
	return t == PropertyTypeDaire || t == PropertyTypeIsYeri || t == PropertyTypeArsa
}

func ValidListingType(t ListingType) bool {
	return t == ListingTypeSatilik || t == ListingTypeKiralik
}

type Property struct {
	ID          uint         `gorm:"primaryKey"`
	Title       string       `gorm:"size:255;not null"`
	Type        PropertyType `gorm:"size:20;index;not null"`
	ListingType ListingType  `gorm:"size:20;index;not null"`

	City         string `gorm:"size:100;index;not null"`
	District     string `gorm:"size:100;index"`
	Neighborhood string `gorm:"size:100"`

	Price    float64  `gorm:"not null"`
	GrossM2  float64  `gorm:"not null"`
	NetM2    *float64 // Arsa için boş olabilir
	RoomPlan string   `gorm:"size:20"` // Ör: "3+1"

	Description string `gorm:"size:2000"`

	// Mülk sahibi müşteri (opsiyonel)
	CustomerID *uint `gorm:"index"`
	Customer   *Customer

	// İlanı getiren portföy sahibi (opsiyonel)
	PortfolioOwnerID *uint `gorm:"index"`
	PortfolioOwner   *PortfolioOwner

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
