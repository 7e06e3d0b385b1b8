package location

import (
	"fmt"
	"strings"

	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LocationResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GET /api/locations/cities
func ListCitiesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cities []models.City
		if err := db.Order("name").Find(&cities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şehirler listelenemedi")
		}

		resp := make([]LocationResponse, 0, len(cities))
		for _, city := range cities {
			resp = append(resp, LocationResponse{ID: city.ID, Name: city.Name})
		}
		return c.JSON(resp)
	}
}

// GET /api/locations/districts?city_id=1
func ListDistrictsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.District{})

		if cidStr := c.Query("city_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err == nil && cid > 0 {
				dbq = dbq.Where("city_id = ?", cid)
			}
		}

		var districts []models.District
		if err := dbq.Order("name").Find(&districts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İlçeler listelenemedi")
		}

		resp := make([]LocationResponse, 0, len(districts))
		for _, d := range districts {
			resp = append(resp, LocationResponse{ID: d.ID, Name: d.Name})
		}
		return c.JSON(resp)
	}
}

// GET /api/locations/neighborhoods?district_id=1
func ListNeighborhoodsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Neighborhood{})

		if didStr := c.Query("district_id"); didStr != "" {
			var did uint
			if _, err := fmt.Sscan(didStr, &did); err == nil && did > 0 {
				dbq = dbq.Where("district_id = ?", did)
			}
		}

		var neighborhoods []models.Neighborhood
		if err := dbq.Order("name").Find(&neighborhoods).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mahalleler listelenemedi")
		}

		resp := make([]LocationResponse, 0, len(neighborhoods))
		for _, n := range neighborhoods {
			resp = append(resp, LocationResponse{ID: n.ID, Name: n.Name})
		}
		return c.JSON(resp)
	}
}

type CreateCityRequest struct {
	Name string `json:"name"`
}

type CreateDistrictRequest struct {
	CityID uint   `json:"city_id"`
	Name   string `json:"name"`
}

type CreateNeighborhoodRequest struct {
	DistrictID uint   `json:"district_id"`
	Name       string `json:"name"`
}

// POST /api/locations/cities (admin)
func CreateCityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şehir adı boş olamaz")
		}

		city := models.City{Name: name}
		if err := db.Create(&city).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şehir kaydedilemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(LocationResponse{ID: city.ID, Name: city.Name})
	}
}

// POST /api/locations/districts (admin)
func CreateDistrictHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDistrictRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İlçe adı boş olamaz")
		}

		var city models.City
		if err := db.First(&city, body.CityID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Şehir bulunamadı")
		}

		district := models.District{CityID: city.ID, Name: name}
		if err := db.Create(&district).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İlçe kaydedilemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(LocationResponse{ID: district.ID, Name: district.Name})
	}
}

// POST /api/locations/neighborhoods (admin)
func CreateNeighborhoodHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNeighborhoodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Mahalle adı boş olamaz")
		}

		var district models.District
		if err := db.First(&district, body.DistrictID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "İlçe bulunamadı")
		}

		neighborhood := models.Neighborhood{DistrictID: district.ID, Name: name}
		if err := db.Create(&neighborhood).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mahalle kaydedilemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(LocationResponse{ID: neighborhood.ID, Name: neighborhood.Name})
	}
}
