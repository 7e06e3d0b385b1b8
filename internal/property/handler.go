package property

import (
	"fmt"
	"strconv"
	"strings"

	"emlak-crm-backend/internal/audit"
	"emlak-crm-backend/internal/matching"
	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreatePropertyRequest struct {
	Title            string   `json:"title"`
	Type             string   `json:"type"`
	ListingType      string   `json:"listing_type"`
	City             string   `json:"city"`
	District         string   `json:"district"`
	Neighborhood     string   `json:"neighborhood"`
	Price            float64  `json:"price"`
	GrossM2          float64  `json:"gross_m2"`
	NetM2            *float64 `json:"net_m2"`
	RoomPlan         string   `json:"room_plan"`
	Description      string   `json:"description"`
	CustomerID       *uint    `json:"customer_id"`
	PortfolioOwnerID *uint    `json:"portfolio_owner_id"`
}

type UpdatePropertyRequest struct {
	Title            *string  `json:"title"`
	Type             *string  `json:"type"`
	ListingType      *string  `json:"listing_type"`
	City             *string  `json:"city"`
	District         *string  `json:"district"`
	Neighborhood     *string  `json:"neighborhood"`
	Price            *float64 `json:"price"`
	GrossM2          *float64 `json:"gross_m2"`
	NetM2            *float64 `json:"net_m2"`
	RoomPlan         *string  `json:"room_plan"`
	Description      *string  `json:"description"`
	CustomerID       *uint    `json:"customer_id"`
	PortfolioOwnerID *uint    `json:"portfolio_owner_id"`
}

type PropertyResponse struct {
	ID               uint     `json:"id"`
	Title            string   `json:"title"`
	Type             string   `json:"type"`
	ListingType      string   `json:"listing_type"`
	City             string   `json:"city"`
	District         string   `json:"district"`
	Neighborhood     string   `json:"neighborhood"`
	Price            float64  `json:"price"`
	GrossM2          float64  `json:"gross_m2"`
	NetM2            *float64 `json:"net_m2"`
	RoomPlan         string   `json:"room_plan"`
	Description      string   `json:"description"`
	CustomerID       *uint    `json:"customer_id"`
	PortfolioOwnerID *uint    `json:"portfolio_owner_id"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

type PropertyListResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
}

func toResponse(p *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:               p.ID,
		Title:            p.Title,
		Type:             string(p.Type),
		ListingType:      string(p.ListingType),
		City:             p.City,
		District:         p.District,
		Neighborhood:     p.Neighborhood,
		Price:            p.Price,
		GrossM2:          p.GrossM2,
		NetM2:            p.NetM2,
		RoomPlan:         p.RoomPlan,
		Description:      p.Description,
		CustomerID:       p.CustomerID,
		PortfolioOwnerID: p.PortfolioOwnerID,
		CreatedAt:        p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:        p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Arsa ilanlarında kiralama olmaz; bu kural sadece veri girişinde
// uygulanır, eşleştirme motoru bu kuralı bilmez.
func validateTypeCombination(t models.PropertyType, lt models.ListingType) error {
	if !models.ValidPropertyType(t) {
		return fiber.NewError(fiber.StatusBadRequest, "Tip 'Daire', 'İş Yeri' veya 'Arsa' olmalı")
	}
	if !models.ValidListingType(lt) {
		return fiber.NewError(fiber.StatusBadRequest, "İlan tipi 'Satılık' veya 'Kiralık' olmalı")
	}
	if t == models.PropertyTypeArsa && lt != models.ListingTypeSatilik {
		return fiber.NewError(fiber.StatusBadRequest, "Arsa sadece satılık olarak eklenebilir")
	}
	return nil
}

// -------------------------
// Property CRUD
// -------------------------

// POST /api/properties
func CreatePropertyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePropertyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		// Validasyon
		if strings.TrimSpace(body.Title) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Başlık boş olamaz")
		}
		if strings.TrimSpace(body.City) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şehir boş olamaz")
		}
		if err := validateTypeCombination(models.PropertyType(body.Type), models.ListingType(body.ListingType)); err != nil {
			return err
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat 0'dan küçük olamaz")
		}
		if body.GrossM2 <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Brüt m² 0'dan büyük olmalı")
		}
		if body.NetM2 != nil && *body.NetM2 <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Net m² 0'dan büyük olmalı")
		}

		if body.CustomerID != nil {
			var count int64
			db.Model(&models.Customer{}).Where("id = ?", *body.CustomerID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Müşteri bulunamadı")
			}
		}
		if body.PortfolioOwnerID != nil {
			var count int64
			db.Model(&models.PortfolioOwner{}).Where("id = ?", *body.PortfolioOwnerID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Portföy sahibi bulunamadı")
			}
		}

		property := models.Property{
			Title:            strings.TrimSpace(body.Title),
			Type:             models.PropertyType(body.Type),
			ListingType:      models.ListingType(body.ListingType),
			City:             strings.TrimSpace(body.City),
			District:         strings.TrimSpace(body.District),
			Neighborhood:     strings.TrimSpace(body.Neighborhood),
			Price:            body.Price,
			GrossM2:          body.GrossM2,
			NetM2:            body.NetM2,
			RoomPlan:         strings.TrimSpace(body.RoomPlan),
			Description:      strings.TrimSpace(body.Description),
			CustomerID:       body.CustomerID,
			PortfolioOwnerID: body.PortfolioOwnerID,
		}

		if err := db.Create(&property).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföy kaydedilemedi")
		}

		writeAudit(c, db, models.AuditActionCreate, &property, nil)

		return c.Status(fiber.StatusCreated).JSON(toResponse(&property))
	}
}

// GET /api/properties?type=Daire&listing_type=Satılık&city=Ankara&district=Çankaya&min_price=&max_price=&min_size=&max_size=&page=&pageSize=
func ListPropertiesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, pageSize := matching.NormalizePage(c.QueryInt("page", 1), c.QueryInt("pageSize", matching.DefaultPageSize))

		dbq := db.Model(&models.Property{})

		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}
		if lt := c.Query("listing_type"); lt != "" {
			dbq = dbq.Where("listing_type = ?", lt)
		}
		if city := c.Query("city"); city != "" {
			dbq = dbq.Where("city = ?", city)
		}
		if district := c.Query("district"); district != "" {
			dbq = dbq.Where("district = ?", district)
		}
		if v := c.Query("min_price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("price >= ?", f)
			}
		}
		if v := c.Query("max_price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("price <= ?", f)
			}
		}
		if v := c.Query("min_size"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("gross_m2 >= ?", f)
			}
		}
		if v := c.Query("max_size"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("gross_m2 <= ?", f)
			}
		}

		var total int64
		if err := dbq.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföyler sayılamadı")
		}

		var properties []models.Property
		if err := dbq.Session(&gorm.Session{}).
			Order("created_at desc").
			Limit(pageSize).
			Offset((page - 1) * pageSize).
			Find(&properties).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföyler listelenemedi")
		}

		resp := make([]PropertyResponse, 0, len(properties))
		for i := range properties {
			resp = append(resp, toResponse(&properties[i]))
		}

		return c.JSON(PropertyListResponse{
			Properties: resp,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
		})
	}
}

// GET /api/properties/:id
func GetPropertyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var property models.Property
		if err := db.First(&property, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Portföy bulunamadı")
		}
		return c.JSON(toResponse(&property))
	}
}

// PUT /api/properties/:id
func UpdatePropertyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var property models.Property
		if err := db.First(&property, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Portföy bulunamadı")
		}

		var body UpdatePropertyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		before := toResponse(&property)

		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Başlık boş olamaz")
			}
			property.Title = title
		}
		if body.Type != nil {
			property.Type = models.PropertyType(*body.Type)
		}
		if body.ListingType != nil {
			property.ListingType = models.ListingType(*body.ListingType)
		}
		if err := validateTypeCombination(property.Type, property.ListingType); err != nil {
			return err
		}
		if body.City != nil {
			city := strings.TrimSpace(*body.City)
			if city == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Şehir boş olamaz")
			}
			property.City = city
		}
		if body.District != nil {
			property.District = strings.TrimSpace(*body.District)
		}
		if body.Neighborhood != nil {
			property.Neighborhood = strings.TrimSpace(*body.Neighborhood)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat 0'dan küçük olamaz")
			}
			property.Price = *body.Price
		}
		if body.GrossM2 != nil {
			if *body.GrossM2 <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Brüt m² 0'dan büyük olmalı")
			}
			property.GrossM2 = *body.GrossM2
		}
		if body.NetM2 != nil {
			if *body.NetM2 <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Net m² 0'dan büyük olmalı")
			}
			property.NetM2 = body.NetM2
		}
		if body.RoomPlan != nil {
			property.RoomPlan = strings.TrimSpace(*body.RoomPlan)
		}
		if body.Description != nil {
			property.Description = strings.TrimSpace(*body.Description)
		}
		if body.CustomerID != nil {
			property.CustomerID = body.CustomerID
		}
		if body.PortfolioOwnerID != nil {
			property.PortfolioOwnerID = body.PortfolioOwnerID
		}

		if err := db.Save(&property).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföy güncellenemedi")
		}

		writeAudit(c, db, models.AuditActionUpdate, &property, before)

		return c.JSON(toResponse(&property))
	}
}

// DELETE /api/properties/:id
func DeletePropertyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var property models.Property
		if err := db.First(&property, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Portföy bulunamadı")
		}

		before := toResponse(&property)

		if err := db.Delete(&property).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföy silinemedi")
		}

		writeAudit(c, db, models.AuditActionDelete, &property, before)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, db *gorm.DB, action models.AuditAction, property *models.Property, before any) {
	userID, userName, err := audit.GetUserInfo(c, db)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toResponse(property)
	}

	if logErr := audit.WriteLog(db, audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "property",
		EntityID:    property.ID,
		Action:      action,
		Description: fmt.Sprintf("Portföy: %s - %.0f TL", property.Title, property.Price),
		Before:      before,
		After:       after,
	}); logErr != nil {
		fmt.Printf("Audit log yazılamadı: %v\n", logErr)
	}
}
