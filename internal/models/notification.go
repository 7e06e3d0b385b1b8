package models

import "time"

// Notification - elle oluşturulan/saklanan bildirimler.
// Takip bildirimi akışı (dashboard) bu tablodan DEĞİL, talep ve görüşme
// notlarından her çağrıda yeniden hesaplanır.
type Notification struct {
	ID         uint  `gorm:"primaryKey"`
	CustomerID *uint `gorm:"index"`
	Customer   *Customer
	RequestID  *uint  `gorm:"index"`
	Message    string `gorm:"size:500;not null"`
	Read       bool   `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
