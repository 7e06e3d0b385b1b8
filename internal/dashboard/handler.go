package dashboard

import (
	"time"

	"emlak-crm-backend/internal/matching"
	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardResponse struct {
	Customers       int64 `json:"customers"`
	PortfolioOwners int64 `json:"portfolio_owners"`
	Properties      int64 `json:"properties"`
	Requests        int64 `json:"requests"`
	OpenRequests    int64 `json:"open_requests"`

	Notifications      []matching.FollowUpEntry `json:"notifications"`
	NotificationsTotal int                      `json:"notificationsTotal"`
	NotifPage          int                      `json:"notifPage"`
	NotifPageSize      int                      `json:"notifPageSize"`
}

// GET /api/dashboard?notifPage=1&notifPageSize=15
// Özet sayılar + takip bildirimi akışı. Bildirimler her çağrıda güncel
// talep/not verisinden yeniden hesaplanır.
func DashboardHandler(db *gorm.DB, engine *matching.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp DashboardResponse

		if err := db.Model(&models.Customer{}).Count(&resp.Customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		if err := db.Model(&models.PortfolioOwner{}).Count(&resp.PortfolioOwners).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		if err := db.Model(&models.Property{}).Count(&resp.Properties).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		if err := db.Model(&models.Request{}).Count(&resp.Requests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		if err := db.Model(&models.Request{}).Where("fulfilled = ?", false).Count(&resp.OpenRequests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		notifPage := c.QueryInt("notifPage", 1)
		notifPageSize := c.QueryInt("notifPageSize", matching.DefaultPageSize)

		feed, err := engine.FollowUpNotifications(c.Context(), time.Now(), notifPage, notifPageSize)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Takip bildirimleri hesaplanamadı")
		}

		resp.Notifications = feed.Entries
		resp.NotificationsTotal = feed.Total
		resp.NotifPage = feed.Page
		resp.NotifPageSize = feed.PageSize

		return c.JSON(resp)
	}
}
