package matching

import (
	"context"
	"fmt"
	"time"

	"emlak-crm-backend/internal/models"
)

// FollowUpGracePeriod - talep açıldıktan sonra müşteriyle temas için
// tanınan süre. Bu süre içinde görüşme notu girilmezse talep takip
// listesine düşer.
const FollowUpGracePeriod = 7 * 24 * time.Hour

type FollowUpCustomer struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type FollowUpEntry struct {
	RequestID        uint             `json:"request_id"`
	Customer         FollowUpCustomer `json:"customer"`
	RequestCreatedAt time.Time        `json:"request_created_at"`
}

type FollowUpPage struct {
	Entries  []FollowUpEntry `json:"notifications"`
	Total    int             `json:"notificationsTotal"`
	Page     int             `json:"notifPage"`
	PageSize int             `json:"notifPageSize"`
}

// NeedsFollowUp - takip bildirimi kuralının saf hali.
// Bildirim ancak süre tamamen dolduysa VE [talep, talep+7g) yarı açık
// aralığında hiç görüşme notu yoksa üretilir. Tam 7. gündeki not
// aralığın dışındadır, bildirimi bastırmaz.
func NeedsFollowUp(now, requestCreatedAt time.Time, noteTimes []time.Time) bool {
	deadline := requestCreatedAt.Add(FollowUpGracePeriod)
	if now.Before(deadline) {
		return false
	}
	for _, t := range noteTimes {
		if !t.Before(requestCreatedAt) && t.Before(deadline) {
			return false
		}
	}
	return true
}

// FollowUpNotifications takip gereken talepleri hesaplar.
// Hiçbir şey saklanmaz; her çağrıda güncel talep ve not verisinden
// yeniden türetilir. Filtreleme ve sıralama bellek içinde yapılır,
// sayfalama en sonda uygulanır.
func (e *Engine) FollowUpNotifications(ctx context.Context, now time.Time, page, pageSize int) (*FollowUpPage, error) {
	page, pageSize = NormalizePage(page, pageSize)

	cutoff := now.Add(-FollowUpGracePeriod)
	var requests []models.Request
	if err := e.db.WithContext(ctx).
		Preload("Customer").
		Where("created_at <= ?", cutoff).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("talepler listelenemedi: %w", err)
	}

	entries := make([]FollowUpEntry, 0)
	for _, req := range requests {
		var notes []models.MeetingNote
		if err := e.db.WithContext(ctx).
			Where("customer_id = ? AND created_at >= ?", req.CustomerID, req.CreatedAt).
			Find(&notes).Error; err != nil {
			return nil, fmt.Errorf("görüşme notları okunamadı: %w", err)
		}

		noteTimes := make([]time.Time, 0, len(notes))
		for _, n := range notes {
			noteTimes = append(noteTimes, n.CreatedAt)
		}

		if NeedsFollowUp(now, req.CreatedAt, noteTimes) {
			entries = append(entries, FollowUpEntry{
				RequestID: req.ID,
				Customer: FollowUpCustomer{
					ID:        req.Customer.ID,
					FirstName: req.Customer.FirstName,
					LastName:  req.Customer.LastName,
				},
				RequestCreatedAt: req.CreatedAt,
			})
		}
	}

	total := len(entries)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &FollowUpPage{
		Entries:  entries[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
