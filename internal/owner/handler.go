package owner

import (
	"strings"

	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOwnerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

type UpdateOwnerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Notes     *string `json:"notes"`
}

type OwnerResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

func toResponse(m *models.PortfolioOwner) OwnerResponse {
	return OwnerResponse{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Email:     m.Email,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/portfolio-owners
func CreateOwnerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if strings.TrimSpace(body.FirstName) == "" || strings.TrimSpace(body.LastName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ad ve soyad boş olamaz")
		}

		owner := models.PortfolioOwner{
			FirstName: strings.TrimSpace(body.FirstName),
			LastName:  strings.TrimSpace(body.LastName),
			Phone:     strings.TrimSpace(body.Phone),
			Email:     strings.TrimSpace(body.Email),
			Notes:     strings.TrimSpace(body.Notes),
		}

		if err := db.Create(&owner).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföy sahibi kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&owner))
	}
}

// GET /api/portfolio-owners
func ListOwnersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var owners []models.PortfolioOwner
		if err := db.Order("created_at desc").Find(&owners).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföy sahipleri listelenemedi")
		}

		resp := make([]OwnerResponse, 0, len(owners))
		for i := range owners {
			resp = append(resp, toResponse(&owners[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/portfolio-owners/:id
func GetOwnerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var owner models.PortfolioOwner
		if err := db.First(&owner, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Portföy sahibi bulunamadı")
		}
		return c.JSON(toResponse(&owner))
	}
}

// PUT /api/portfolio-owners/:id
func UpdateOwnerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var owner models.PortfolioOwner
		if err := db.First(&owner, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Portföy sahibi bulunamadı")
		}

		var body UpdateOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.FirstName != nil {
			name := strings.TrimSpace(*body.FirstName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ad boş olamaz")
			}
			owner.FirstName = name
		}
		if body.LastName != nil {
			name := strings.TrimSpace(*body.LastName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Soyad boş olamaz")
			}
			owner.LastName = name
		}
		if body.Phone != nil {
			owner.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			owner.Email = strings.TrimSpace(*body.Email)
		}
		if body.Notes != nil {
			owner.Notes = strings.TrimSpace(*body.Notes)
		}

		if err := db.Save(&owner).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföy sahibi güncellenemedi")
		}

		return c.JSON(toResponse(&owner))
	}
}

// DELETE /api/portfolio-owners/:id
func DeleteOwnerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var owner models.PortfolioOwner
		if err := db.First(&owner, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Portföy sahibi bulunamadı")
		}

		if err := db.Delete(&owner).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföy sahibi silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
