package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"emlak-crm-backend/internal/models"

	"gorm.io/gorm"
)

// Sayfalama sınırları
const (
	DefaultPageSize = 15
	MaxPageSize     = 50
)

// ErrRequestNotFound - verilen ID ile talep yok.
var ErrRequestNotFound = errors.New("talep bulunamadı")

// Engine - talep/portföy eşleştirme ve takip bildirimi hesaplamaları.
// Veritabanı bağlantısı main'de kurulup buraya açıkça verilir.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

type MatchPage struct {
	Properties []models.Property `json:"properties"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
}

// MatchProperties bir talebe uyan portföyleri yeni eklenen önce olacak
// şekilde sayfalı döner. Eşleşme olmaması hata değildir; talep yoksa
// ErrRequestNotFound döner.
func (e *Engine) MatchProperties(ctx context.Context, requestID uint, page, pageSize int) (*MatchPage, error) {
	page, pageSize = NormalizePage(page, pageSize)

	var req models.Request
	if err := e.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("talep okunamadı: %w", err)
	}

	base := e.db.WithContext(ctx).Model(&models.Property{})
	for _, f := range BuildFilters(&req, false) {
		base = f.Apply(base)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("eşleşme sayısı hesaplanamadı: %w", err)
	}

	var props []models.Property
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&props).Error; err != nil {
		return nil, fmt.Errorf("eşleşmeler listelenemedi: %w", err)
	}

	return &MatchPage{
		Properties: props,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// BatchMatchCounts her talep için sadece eşleşme sayısını döner.
// Talepler eşzamanlı sorgulanır; tek bir talepteki hata (bulunamadı
// dahil) tüm sonucu bozmaz, o talep 0 sayılır.
func (e *Engine) BatchMatchCounts(ctx context.Context, ids []uint) map[uint]int64 {
	counts := make(map[uint]int64, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(requestID uint) {
			defer wg.Done()

			n, err := e.countForRequest(ctx, requestID)
			if err != nil {
				if !errors.Is(err, ErrRequestNotFound) {
					log.Printf("Talep %d için eşleşme sayısı alınamadı: %v", requestID, err)
				}
				n = 0
			}

			mu.Lock()
			counts[requestID] = n
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return counts
}

func (e *Engine) countForRequest(ctx context.Context, requestID uint) (int64, error) {
	var req models.Request
	if err := e.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRequestNotFound
		}
		return 0, fmt.Errorf("talep okunamadı: %w", err)
	}

	q := e.db.WithContext(ctx).Model(&models.Property{})
	for _, f := range BuildFilters(&req, true) {
		q = f.Apply(q)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("eşleşme sayısı hesaplanamadı: %w", err)
	}
	return total, nil
}

// NormalizePage sayfa numarasını 1 tabanına, sayfa boyutunu
// [1, MaxPageSize] aralığına çeker.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
