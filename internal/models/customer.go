package models

import "time"

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:50"`
	Email     string `gorm:"size:100"`
	Notes     string `gorm:"size:1000"` // Serbest not alanı
	CreatedAt time.Time
	UpdatedAt time.Time

	Requests     []Request
	MeetingNotes []MeetingNote
}

// PortfolioOwner - portföyü (ilanı) ekleyen mülk sahibi.
// Alıcı/kiracı müşteriden ayrı tutulur.
type PortfolioOwner struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:50"`
	Email     string `gorm:"size:100"`
	Notes     string `gorm:"size:1000"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Properties []Property
}
