package property_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"emlak-crm-backend/internal/database"
	"emlak-crm-backend/internal/models"
	"emlak-crm-backend/internal/property"

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

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Post("/api/properties", property.CreatePropertyHandler(db))
	app.Get("/api/properties", property.ListPropertiesHandler(db))
	app.Get("/api/properties/:id", property.GetPropertyHandler(db))

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

func TestCreateProperty_Valid(t *testing.T) {
	app, _ := setupApp(t)

	status, body := postJSON(t, app, "/api/properties", map[string]any{
		"title":        "Çankaya'da 3+1 daire",
		"type":         "Daire",
		"listing_type": "Satılık",
		"city":         "Ankara",
		"district":     "Çankaya",
		"price":        1500000,
		"gross_m2":     120,
		"room_plan":    "3+1",
	})

	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	var resp property.PropertyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ID == 0 || resp.City != "Ankara" || resp.Type != "Daire" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCreateProperty_ArsaMustBeSatilik(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := postJSON(t, app, "/api/properties", map[string]any{
		"title":        "Kiralık arsa",
		"type":         "Arsa",
		"listing_type": "Kiralık",
		"city":         "Ankara",
		"price":        500000,
		"gross_m2":     400,
	})

	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for Arsa+Kiralık, got %d", status)
	}
}

func TestCreateProperty_Validation(t *testing.T) {
	app, _ := setupApp(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"type": "Daire", "listing_type": "Satılık", "city": "Ankara", "price": 1, "gross_m2": 1}},
		{"invalid type", map[string]any{"title": "x", "type": "Villa", "listing_type": "Satılık", "city": "Ankara", "price": 1, "gross_m2": 1}},
		{"negative price", map[string]any{"title": "x", "type": "Daire", "listing_type": "Satılık", "city": "Ankara", "price": -5, "gross_m2": 1}},
		{"zero gross m2", map[string]any{"title": "x", "type": "Daire", "listing_type": "Satılık", "city": "Ankara", "price": 1, "gross_m2": 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, _ := postJSON(t, app, "/api/properties", c.body)
			if status != fiber.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
		})
	}
}

func TestListProperties_FilterAndPagination(t *testing.T) {
	app, db := setupApp(t)

	for i := 0; i < 3; i++ {
		p := models.Property{
			Title: "Ankara daire", Type: models.PropertyTypeDaire, ListingType: models.ListingTypeSatilik,
			City: "Ankara", Price: 1000000, GrossM2: 100,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	izmir := models.Property{
		Title: "İzmir dükkan", Type: models.PropertyTypeIsYeri, ListingType: models.ListingTypeKiralik,
		City: "İzmir", Price: 30000, GrossM2: 60,
	}
	if err := db.Create(&izmir).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/properties?city=Ankara&page=1&pageSize=2", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	var list property.PropertyListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if list.Total != 3 {
		t.Errorf("expected total 3, got %d", list.Total)
	}
	if len(list.Properties) != 2 {
		t.Errorf("expected 2 properties on page, got %d", len(list.Properties))
	}
	if list.Page != 1 || list.PageSize != 2 {
		t.Errorf("page metadata wrong: %+v", list)
	}
	for _, p := range list.Properties {
		if p.City != "Ankara" {
			t.Errorf("city filter leaked: %+v", p)
		}
	}
}
