package matching_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"emlak-crm-backend/internal/database"
	"emlak-crm-backend/internal/matching"
	"emlak-crm-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Her test kendi paylaşımlı in-memory veritabanını alır; cache=shared
	// olmadan havuzdaki her bağlantı ayrı boş veritabanı görür.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, first, last string) models.Customer {
	t.Helper()
	c := models.Customer{FirstName: first, LastName: last}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return c
}

func seedProperty(t *testing.T, db *gorm.DB, p models.Property) models.Property {
	t.Helper()
	if p.Title == "" {
		p.Title = "Test portföyü"
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}
	return p
}

func seedRequest(t *testing.T, db *gorm.DB, r models.Request) models.Request {
	t.Helper()
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}
	return r
}

// ── MatchProperties ────────────────────────────────────────────────────────

func TestMatchProperties_FiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	engine := matching.NewEngine(db)

	cust := seedCustomer(t, db, "Ayşe", "Demir")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older := seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Çankaya", Price: 1500000, GrossM2: 120,
		CreatedAt: base,
	})
	newer := seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Çankaya", Price: 1800000, GrossM2: 130,
		CreatedAt: base.Add(48 * time.Hour),
	})
	// Fiyatı aralık dışında
	seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Çankaya", Price: 2500000, GrossM2: 120,
		CreatedAt: base,
	})
	// Başka ilçe
	seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Mamak", Price: 1500000, GrossM2: 120,
		CreatedAt: base,
	})
	// Kiralık
	seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeKiralik,
		City: "Ankara", District: "Çankaya", Price: 1500000, GrossM2: 120,
		CreatedAt: base,
	})

	req := seedRequest(t, db, models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Çankaya",
		MinPrice: f64(1000000), MaxPrice: f64(2000000),
	})

	result, err := engine.MatchProperties(context.Background(), req.ID, 1, 15)
	if err != nil {
		t.Fatalf("MatchProperties returned error: %v", err)
	}

	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if len(result.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(result.Properties))
	}
	// Yeni eklenen önce
	if result.Properties[0].ID != newer.ID || result.Properties[1].ID != older.ID {
		t.Errorf("expected order [%d %d], got [%d %d]",
			newer.ID, older.ID, result.Properties[0].ID, result.Properties[1].ID)
	}
}

func TestMatchProperties_DistrictList(t *testing.T) {
	db := newTestDB(t)
	engine := matching.NewEngine(db)

	cust := seedCustomer(t, db, "Mehmet", "Kaya")

	kecioren := seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Keçiören", Price: 900000, GrossM2: 100,
	})
	seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Mamak", Price: 900000, GrossM2: 100,
	})

	req := seedRequest(t, db, models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		District: "Çankaya, Keçiören",
	})

	result, err := engine.MatchProperties(context.Background(), req.ID, 1, 15)
	if err != nil {
		t.Fatalf("MatchProperties returned error: %v", err)
	}
	if result.Total != 1 || result.Properties[0].ID != kecioren.ID {
		t.Errorf("expected only the Keçiören property, got total=%d", result.Total)
	}
}

func TestMatchProperties_Pagination(t *testing.T) {
	db := newTestDB(t)
	engine := matching.NewEngine(db)

	cust := seedCustomer(t, db, "Ali", "Yıldız")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedProperty(t, db, models.Property{
			Type: models.PropertyTypeIsYeri, ListingType: models.ListingTypeKiralik,
			City: "İstanbul", Price: 50000, GrossM2: 80,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	req := seedRequest(t, db, models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeIsYeri, ListingType: models.ListingTypeKiralik,
		City: "İstanbul",
	})

	page2, err := engine.MatchProperties(context.Background(), req.ID, 2, 3)
	if err != nil {
		t.Fatalf("MatchProperties returned error: %v", err)
	}
	if page2.Total != 4 {
		t.Errorf("expected total 4, got %d", page2.Total)
	}
	if len(page2.Properties) != 1 {
		t.Errorf("page 2 with pageSize 3 should hold 1 property, got %d", len(page2.Properties))
	}
	if page2.Page != 2 || page2.PageSize != 3 {
		t.Errorf("page metadata not echoed: page=%d pageSize=%d", page2.Page, page2.PageSize)
	}

	// Sayfa boyutu üst sınıra çekilir
	clamped, err := engine.MatchProperties(context.Background(), req.ID, 0, 1000)
	if err != nil {
		t.Fatalf("MatchProperties returned error: %v", err)
	}
	if clamped.Page != 1 || clamped.PageSize != matching.MaxPageSize {
		t.Errorf("expected page=1 pageSize=%d, got page=%d pageSize=%d",
			matching.MaxPageSize, clamped.Page, clamped.PageSize)
	}
}

func TestMatchProperties_RequestNotFound(t *testing.T) {
	db := newTestDB(t)
	engine := matching.NewEngine(db)

	_, err := engine.MatchProperties(context.Background(), 9999, 1, 15)
	if err != matching.ErrRequestNotFound {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestMatchProperties_NoCaching(t *testing.T) {
	db := newTestDB(t)
	engine := matching.NewEngine(db)

	cust := seedCustomer(t, db, "Zeynep", "Arslan")
	p := seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeKiralik,
		City: "İzmir", Price: 20000, GrossM2: 90,
	})
	req := seedRequest(t, db, models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeDaire, ListingType: models.ListingTypeKiralik,
		City: "İzmir",
	})

	first, err := engine.MatchProperties(context.Background(), req.ID, 1, 15)
	if err != nil || first.Total != 1 {
		t.Fatalf("expected 1 match, got total=%d err=%v", first.Total, err)
	}

	// Aynı veriyle ikinci çağrı aynı sonucu verir
	second, _ := engine.MatchProperties(context.Background(), req.ID, 1, 15)
	if second.Total != first.Total || len(second.Properties) != len(first.Properties) {
		t.Error("two calls without mutation should return identical results")
	}

	// Portföy silinince sonraki çağrıda kaybolur
	if err := db.Delete(&p).Error; err != nil {
		t.Fatalf("failed to delete property: %v", err)
	}
	third, _ := engine.MatchProperties(context.Background(), req.ID, 1, 15)
	if third.Total != 0 {
		t.Errorf("deleted property should disappear from results, total=%d", third.Total)
	}
}

// ── BatchMatchCounts ───────────────────────────────────────────────────────

func TestBatchMatchCounts_MissingIDYieldsZero(t *testing.T) {
	db := newTestDB(t)
	engine := matching.NewEngine(db)

	cust := seedCustomer(t, db, "Fatma", "Şahin")
	seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Bursa", Price: 800000, GrossM2: 100,
	})
	req := seedRequest(t, db, models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Bursa",
	})

	counts := engine.BatchMatchCounts(context.Background(), []uint{req.ID, 9999})
	if counts[req.ID] != 1 {
		t.Errorf("expected count 1 for existing request, got %d", counts[req.ID])
	}
	if counts[9999] != 0 {
		t.Errorf("missing request should count as 0, got %d", counts[9999])
	}
	if len(counts) != 2 {
		t.Errorf("expected an entry per input id, got %d entries", len(counts))
	}
}

func TestBatchMatchCounts_AppliesRoomsFilter(t *testing.T) {
	db := newTestDB(t)
	engine := matching.NewEngine(db)

	cust := seedCustomer(t, db, "Emre", "Çelik")
	seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", Price: 1200000, GrossM2: 110, RoomPlan: "3+1",
	})
	seedProperty(t, db, models.Property{
		Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", Price: 1300000, GrossM2: 95, RoomPlan: "2+1",
	})

	req := seedRequest(t, db, models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City:  "Ankara",
		Rooms: strPtr("3+1"),
	})

	// Sayım yolu oda filtresini uygular
	counts := engine.BatchMatchCounts(context.Background(), []uint{req.ID})
	if counts[req.ID] != 1 {
		t.Errorf("count path should apply rooms filter, got %d", counts[req.ID])
	}

	// Tekil eşleşme yolu uygulamaz
	list, err := engine.MatchProperties(context.Background(), req.ID, 1, 15)
	if err != nil {
		t.Fatalf("MatchProperties returned error: %v", err)
	}
	if list.Total != 2 {
		t.Errorf("single-match path should ignore rooms, got total=%d", list.Total)
	}
}
