package customer

import (
	"strings"

	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMeetingNoteRequest struct {
	Content string `json:"content"`
}

type MeetingNoteResponse struct {
	ID         uint   `json:"id"`
	CustomerID uint   `json:"customer_id"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// POST /api/customers/:id/meeting-notes
func CreateMeetingNoteHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var body CreateMeetingNoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		content := strings.TrimSpace(body.Content)
		if content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Not içeriği boş olamaz")
		}

		note := models.MeetingNote{
			CustomerID: customer.ID,
			Content:    content,
		}

		if err := db.Create(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Görüşme notu kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(MeetingNoteResponse{
			ID:         note.ID,
			CustomerID: note.CustomerID,
			Content:    note.Content,
			CreatedAt:  note.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
}

// GET /api/customers/:id/meeting-notes
func ListMeetingNotesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var notes []models.MeetingNote
		if err := db.Where("customer_id = ?", customer.ID).
			Order("created_at desc").
			Find(&notes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Görüşme notları listelenemedi")
		}

		resp := make([]MeetingNoteResponse, 0, len(notes))
		for _, n := range notes {
			resp = append(resp, MeetingNoteResponse{
				ID:         n.ID,
				CustomerID: n.CustomerID,
				Content:    n.Content,
				CreatedAt:  n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		return c.JSON(resp)
	}
}

// DELETE /api/customers/:id/meeting-notes/:noteId
func DeleteMeetingNoteHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID := c.Params("noteId")
		customerID := c.Params("id")

		var note models.MeetingNote
		if err := db.First(&note, "id = ? AND customer_id = ?", noteID, customerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Görüşme notu bulunamadı")
		}

		if err := db.Delete(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Görüşme notu silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
