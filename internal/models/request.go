package models

import "time"

// Request - müşterinin alım/kiralama talebi.
// District ve Neighborhood virgülle ayrılmış birden fazla değer tutabilir
// (ör: "Kadıköy, Üsküdar"), çünkü müşteri tek şehirde birden fazla bölgeyi
// kabul edebilir.
type Request struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer

	Type        PropertyType `gorm:"size:20;not null"`
	ListingType ListingType  `gorm:"size:20;not null"`

	City         string `gorm:"size:100"`
	District     string `gorm:"size:255"`
	Neighborhood string `gorm:"size:255"`

	MinPrice *float64
	MaxPrice *float64
	MinSize  *float64 // brüt m²
	MaxSize  *float64 // brüt m²
	Rooms    *string  `gorm:"size:20"` // Ör: "2+1"

	Fulfilled bool `gorm:"default:false"` // Danışman elle işaretler

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

type MeetingNote struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer
	Content    string    `gorm:"size:2000;not null"`
	CreatedAt  time.Time `gorm:"index"`
}
