package request

import (
	"fmt"
	"strings"

	"emlak-crm-backend/internal/audit"
	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateRequestBody struct {
	CustomerID   uint     `json:"customer_id"`
	Type         string   `json:"type"`
	ListingType  string   `json:"listing_type"`
	City         string   `json:"city"`
	District     string   `json:"district"`
	Neighborhood string   `json:"neighborhood"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	MinSize      *float64 `json:"min_size"`
	MaxSize      *float64 `json:"max_size"`
	Rooms        *string  `json:"rooms"`
}

type UpdateRequestBody struct {
	Type         *string  `json:"type"`
	ListingType  *string  `json:"listing_type"`
	City         *string  `json:"city"`
	District     *string  `json:"district"`
	Neighborhood *string  `json:"neighborhood"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	MinSize      *float64 `json:"min_size"`
	MaxSize      *float64 `json:"max_size"`
	Rooms        *string  `json:"rooms"`
	Fulfilled    *bool    `json:"fulfilled"`
}

type RequestResponse struct {
	ID           uint     `json:"id"`
	CustomerID   uint     `json:"customer_id"`
	Type         string   `json:"type"`
	ListingType  string   `json:"listing_type"`
	City         string   `json:"city"`
	District     string   `json:"district"`
	Neighborhood string   `json:"neighborhood"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	MinSize      *float64 `json:"min_size"`
	MaxSize      *float64 `json:"max_size"`
	Rooms        *string  `json:"rooms"`
	Fulfilled    bool     `json:"fulfilled"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toResponse(r *models.Request) RequestResponse {
	return RequestResponse{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		Type:         string(r.Type),
		ListingType:  string(r.ListingType),
		City:         r.City,
		District:     r.District,
		Neighborhood: r.Neighborhood,
		MinPrice:     r.MinPrice,
		MaxPrice:     r.MaxPrice,
		MinSize:      r.MinSize,
		MaxSize:      r.MaxSize,
		Rooms:        r.Rooms,
		Fulfilled:    r.Fulfilled,
		CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    r.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func validateBounds(min, max *float64, label string) error {
	if min != nil && *min < 0 {
		return fiber.NewError(fiber.StatusBadRequest, label+" alt sınırı 0'dan küçük olamaz")
	}
	if max != nil && *max < 0 {
		return fiber.NewError(fiber.StatusBadRequest, label+" üst sınırı 0'dan küçük olamaz")
	}
	if min != nil && max != nil && *min > *max {
		return fiber.NewError(fiber.StatusBadRequest, label+" alt sınırı üst sınırdan büyük olamaz")
	}
	return nil
}

// -------------------------
// Request CRUD
// -------------------------

// POST /api/requests
func CreateRequestHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequestBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		// Validasyon
		var customer models.Customer
		if err := db.First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri bulunamadı")
		}
		if !models.ValidPropertyType(models.PropertyType(body.Type)) {
			return fiber.NewError(fiber.StatusBadRequest, "Tip 'Daire', 'İş Yeri' veya 'Arsa' olmalı")
		}
		if !models.ValidListingType(models.ListingType(body.ListingType)) {
			return fiber.NewError(fiber.StatusBadRequest, "İlan tipi 'Satılık' veya 'Kiralık' olmalı")
		}
		if err := validateBounds(body.MinPrice, body.MaxPrice, "Fiyat"); err != nil {
			return err
		}
		if err := validateBounds(body.MinSize, body.MaxSize, "m²"); err != nil {
			return err
		}

		req := models.Request{
			CustomerID:   body.CustomerID,
			Type:         models.PropertyType(body.Type),
			ListingType:  models.ListingType(body.ListingType),
			City:         strings.TrimSpace(body.City),
			District:     strings.TrimSpace(body.District),
			Neighborhood: strings.TrimSpace(body.Neighborhood),
			MinPrice:     body.MinPrice,
			MaxPrice:     body.MaxPrice,
			MinSize:      body.MinSize,
			MaxSize:      body.MaxSize,
			Rooms:        body.Rooms,
		}

		if err := db.Create(&req).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep kaydedilemedi")
		}

		writeAudit(c, db, models.AuditActionCreate, &req, nil)

		return c.Status(fiber.StatusCreated).JSON(toResponse(&req))
	}
}

// GET /api/requests?customer_id=1&fulfilled=false
func ListRequestsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Request{})

		if cidStr := c.Query("customer_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err == nil && cid > 0 {
				dbq = dbq.Where("customer_id = ?", cid)
			}
		}
		if fulfilledStr := c.Query("fulfilled"); fulfilledStr != "" {
			dbq = dbq.Where("fulfilled = ?", fulfilledStr == "true")
		}

		var requests []models.Request
		if err := dbq.Order("created_at desc").Find(&requests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talepler listelenemedi")
		}

		resp := make([]RequestResponse, 0, len(requests))
		for i := range requests {
			resp = append(resp, toResponse(&requests[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/requests/:id
func GetRequestHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req models.Request
		if err := db.First(&req, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Talep bulunamadı")
		}
		return c.JSON(toResponse(&req))
	}
}

// PUT /api/requests/:id
func UpdateRequestHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req models.Request
		if err := db.First(&req, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Talep bulunamadı")
		}

		var body UpdateRequestBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		before := toResponse(&req)

		if body.Type != nil {
			if !models.ValidPropertyType(models.PropertyType(*body.Type)) {
				return fiber.NewError(fiber.StatusBadRequest, "Tip 'Daire', 'İş Yeri' veya 'Arsa' olmalı")
			}
			req.Type = models.PropertyType(*body.Type)
		}
		if body.ListingType != nil {
			if !models.ValidListingType(models.ListingType(*body.ListingType)) {
				return fiber.NewError(fiber.StatusBadRequest, "İlan tipi 'Satılık' veya 'Kiralık' olmalı")
			}
			req.ListingType = models.ListingType(*body.ListingType)
		}
		if body.City != nil {
			req.City = strings.TrimSpace(*body.City)
		}
		if body.District != nil {
			req.District = strings.TrimSpace(*body.District)
		}
		if body.Neighborhood != nil {
			req.Neighborhood = strings.TrimSpace(*body.Neighborhood)
		}
		if body.MinPrice != nil {
			req.MinPrice = body.MinPrice
		}
		if body.MaxPrice != nil {
			req.MaxPrice = body.MaxPrice
		}
		if err := validateBounds(req.MinPrice, req.MaxPrice, "Fiyat"); err != nil {
			return err
		}
		if body.MinSize != nil {
			req.MinSize = body.MinSize
		}
		if body.MaxSize != nil {
			req.MaxSize = body.MaxSize
		}
		if err := validateBounds(req.MinSize, req.MaxSize, "m²"); err != nil {
			return err
		}
		if body.Rooms != nil {
			req.Rooms = body.Rooms
		}
		if body.Fulfilled != nil {
			req.Fulfilled = *body.Fulfilled
		}

		if err := db.Save(&req).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep güncellenemedi")
		}

		writeAudit(c, db, models.AuditActionUpdate, &req, before)

		return c.JSON(toResponse(&req))
	}
}

// DELETE /api/requests/:id
func DeleteRequestHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req models.Request
		if err := db.First(&req, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Talep bulunamadı")
		}

		before := toResponse(&req)

		if err := db.Delete(&req).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep silinemedi")
		}

		writeAudit(c, db, models.AuditActionDelete, &req, before)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, db *gorm.DB, action models.AuditAction, req *models.Request, before any) {
	userID, userName, err := audit.GetUserInfo(c, db)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toResponse(req)
	}

	if logErr := audit.WriteLog(db, audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "request",
		EntityID:    req.ID,
		Action:      action,
		Description: fmt.Sprintf("Talep: %s %s - müşteri %d", req.Type, req.ListingType, req.CustomerID),
		Before:      before,
		After:       after,
	}); logErr != nil {
		fmt.Printf("Audit log yazılamadı: %v\n", logErr)
	}
}
