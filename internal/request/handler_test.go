package request_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"emlak-crm-backend/internal/database"
	"emlak-crm-backend/internal/matching"
	"emlak-crm-backend/internal/models"
	"emlak-crm-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

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

	engine := matching.NewEngine(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Post("/api/requests", request.CreateRequestHandler(db))
	app.Post("/api/requests/match-counts", request.BatchMatchCountsHandler(engine))
	app.Get("/api/requests/:id/matches", request.MatchPropertiesHandler(engine))

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, []byte) {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func seedCustomer(t *testing.T, db *gorm.DB) models.Customer {
	t.Helper()
	c := models.Customer{FirstName: "Test", LastName: "Müşteri"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return c
}

func TestCreateRequest_Valid(t *testing.T) {
	app, db := setupApp(t)
	cust := seedCustomer(t, db)

	status, body := postJSON(t, app, "/api/requests", map[string]any{
		"customer_id":  cust.ID,
		"type":         "Daire",
		"listing_type": "Satılık",
		"city":         "Ankara",
		"district":     "Çankaya, Keçiören",
		"min_price":    1000000,
		"max_price":    2000000,
	})

	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	var resp request.RequestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.District != "Çankaya, Keçiören" || resp.Fulfilled {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCreateRequest_Validation(t *testing.T) {
	app, db := setupApp(t)
	cust := seedCustomer(t, db)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"unknown customer", map[string]any{"customer_id": 9999, "type": "Daire", "listing_type": "Satılık"}},
		{"invalid type", map[string]any{"customer_id": cust.ID, "type": "Rezidans", "listing_type": "Satılık"}},
		{"min above max price", map[string]any{"customer_id": cust.ID, "type": "Daire", "listing_type": "Satılık", "min_price": 2000000, "max_price": 1000000}},
		{"negative size bound", map[string]any{"customer_id": cust.ID, "type": "Daire", "listing_type": "Satılık", "min_size": -10}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, _ := postJSON(t, app, "/api/requests", c.body)
			if status != fiber.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
		})
	}
}

func TestMatchesEndpoint_NotFound(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest("GET", "/api/requests/9999/matches", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown request, got %d", resp.StatusCode)
	}
}

func TestMatchesEndpoint_ReturnsPage(t *testing.T) {
	app, db := setupApp(t)
	cust := seedCustomer(t, db)

	p := models.Property{
		Title: "Merkezi konumda daire", Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara", District: "Çankaya", Price: 1500000, GrossM2: 120,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	r := models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
		City: "Ankara",
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/requests/%d/matches", r.ID), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var page matching.MatchPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if page.Total != 1 || len(page.Properties) != 1 || page.Properties[0].ID != p.ID {
		t.Errorf("unexpected match page: %+v", page)
	}
	if page.Page != 1 || page.PageSize != matching.DefaultPageSize {
		t.Errorf("default paging metadata wrong: page=%d pageSize=%d", page.Page, page.PageSize)
	}
}

func TestBatchMatchCounts_Endpoint(t *testing.T) {
	app, db := setupApp(t)
	cust := seedCustomer(t, db)

	p := models.Property{
		Title: "Satılık dükkan", Type: models.PropertyTypeIsYeri, ListingType: models.ListingTypeSatilik,
		City: "Bursa", Price: 700000, GrossM2: 80,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	r := models.Request{
		CustomerID: cust.ID,
		Type:       models.PropertyTypeIsYeri, ListingType: models.ListingTypeSatilik,
		City: "Bursa",
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	status, body := postJSON(t, app, "/api/requests/match-counts", map[string]any{
		"ids": []string{fmt.Sprint(r.ID), "9999", "abc"},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var resp request.BatchMatchCountsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if resp.Counts[fmt.Sprint(r.ID)] != 1 {
		t.Errorf("expected count 1 for existing request, got %d", resp.Counts[fmt.Sprint(r.ID)])
	}
	// Bulunamayan ve geçersiz ID'ler 0 döner, istek başarısız olmaz
	if resp.Counts["9999"] != 0 {
		t.Errorf("missing request should count 0, got %d", resp.Counts["9999"])
	}
	if resp.Counts["abc"] != 0 {
		t.Errorf("malformed id should count 0, got %d", resp.Counts["abc"])
	}
}
