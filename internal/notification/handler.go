package notification

import (
	"strings"

	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateNotificationRequest struct {
	CustomerID *uint  `json:"customer_id"`
	RequestID  *uint  `json:"request_id"`
	Message    string `json:"message"`
}

type NotificationResponse struct {
	ID         uint   `json:"id"`
	CustomerID *uint  `json:"customer_id"`
	RequestID  *uint  `json:"request_id"`
	Message    string `json:"message"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"created_at"`
}

func toResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		CustomerID: n.CustomerID,
		RequestID:  n.RequestID,
		Message:    n.Message,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/notifications
func CreateNotificationHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNotificationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		message := strings.TrimSpace(body.Message)
		if message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Mesaj boş olamaz")
		}

		n := models.Notification{
			CustomerID: body.CustomerID,
			RequestID:  body.RequestID,
			Message:    message,
		}

		if err := db.Create(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&n))
	}
}

// GET /api/notifications?read=false
func ListNotificationsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Notification{})

		if readStr := c.Query("read"); readStr != "" {
			dbq = dbq.Where("read = ?", readStr == "true")
		}

		var notifications []models.Notification
		if err := dbq.Order("created_at desc").Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirimler listelenemedi")
		}

		resp := make([]NotificationResponse, 0, len(notifications))
		for i := range notifications {
			resp = append(resp, toResponse(&notifications[i]))
		}

		return c.JSON(resp)
	}
}

// PUT /api/notifications/:id/read
func MarkNotificationReadHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var n models.Notification
		if err := db.First(&n, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bildirim bulunamadı")
		}

		if !n.Read {
			n.Read = true
			if err := db.Save(&n).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Bildirim güncellenemedi")
			}
		}

		return c.JSON(toResponse(&n))
	}
}

// DELETE /api/notifications/:id
func DeleteNotificationHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var n models.Notification
		if err := db.First(&n, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bildirim bulunamadı")
		}

		if err := db.Delete(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
