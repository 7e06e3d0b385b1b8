package customer

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

type CreateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Notes     *string `json:"notes"`
}

type CustomerResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toResponse(m *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Email:     m.Email,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// -------------------------
// Customer CRUD
// -------------------------

// POST /api/customers
func CreateCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		// Validasyon
		if strings.TrimSpace(body.FirstName) == "" || strings.TrimSpace(body.LastName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ad ve soyad boş olamaz")
		}

		customer := models.Customer{
			FirstName: strings.TrimSpace(body.FirstName),
			LastName:  strings.TrimSpace(body.LastName),
			Phone:     strings.TrimSpace(body.Phone),
			Email:     strings.TrimSpace(body.Email),
			Notes:     strings.TrimSpace(body.Notes),
		}

		if err := db.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri kaydedilemedi")
		}

		writeAudit(c, db, models.AuditActionCreate, &customer, nil)

		return c.Status(fiber.StatusCreated).JSON(toResponse(&customer))
	}
}

// GET /api/customers?q=aydın
func ListCustomersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Customer{})

		// İsim/telefon araması
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone LIKE ?", like, like, like)
		}

		var customers []models.Customer
		if err := dbq.Order("created_at desc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toResponse(&customers[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/customers/:id
func GetCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		return c.JSON(toResponse(&customer))
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		before := toResponse(&customer)

		if body.FirstName != nil {
			name := strings.TrimSpace(*body.FirstName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ad boş olamaz")
			}
			customer.FirstName = name
		}
		if body.LastName != nil {
			name := strings.TrimSpace(*body.LastName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Soyad boş olamaz")
			}
			customer.LastName = name
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			customer.Email = strings.TrimSpace(*body.Email)
		}
		if body.Notes != nil {
			customer.Notes = strings.TrimSpace(*body.Notes)
		}

		if err := db.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		writeAudit(c, db, models.AuditActionUpdate, &customer, before)

		return c.JSON(toResponse(&customer))
	}
}

// DELETE /api/customers/:id
func DeleteCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		before := toResponse(&customer)

		if err := db.Delete(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		writeAudit(c, db, models.AuditActionDelete, &customer, before)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, db *gorm.DB, action models.AuditAction, customer *models.Customer, before any) {
	userID, userName, err := audit.GetUserInfo(c, db)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toResponse(customer)
	}

	if logErr := audit.WriteLog(db, audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "customer",
		EntityID:    customer.ID,
		Action:      action,
		Description: fmt.Sprintf("Müşteri: %s %s", customer.FirstName, customer.LastName),
		Before:      before,
		After:       after,
	}); logErr != nil {
		fmt.Printf("Audit log yazılamadı: %v\n", logErr)
	}
}
