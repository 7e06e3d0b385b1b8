package main

import (
	"log"
	"strings"

	"emlak-crm-backend/internal/audit"
	"emlak-crm-backend/internal/auth"
	"emlak-crm-backend/internal/config"
	"emlak-crm-backend/internal/customer"
	"emlak-crm-backend/internal/dashboard"
	"emlak-crm-backend/internal/database"
	"emlak-crm-backend/internal/location"
	"emlak-crm-backend/internal/matching"
	"emlak-crm-backend/internal/models"
	"emlak-crm-backend/internal/notification"
	"emlak-crm-backend/internal/owner"
	"emlak-crm-backend/internal/property"
	"emlak-crm-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Eşleştirme motoru tek sefer kurulur, handler'lara açıkça verilir
	engine := matching.NewEngine(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Admin routes
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", auth.CreateUserHandler(db))

	// Konum tanımları
	adminRoutes.Post("/locations/cities", location.CreateCityHandler(db))
	adminRoutes.Post("/locations/districts", location.CreateDistrictHandler(db))
	adminRoutes.Post("/locations/neighborhoods", location.CreateNeighborhoodHandler(db))

	// Müşteriler
	protected.Post("/customers", customer.CreateCustomerHandler(db))
	protected.Get("/customers", customer.ListCustomersHandler(db))
	protected.Get("/customers/:id", customer.GetCustomerHandler(db))
	protected.Put("/customers/:id", customer.UpdateCustomerHandler(db))
	protected.Delete("/customers/:id", customer.DeleteCustomerHandler(db))

	// Görüşme notları
	protected.Post("/customers/:id/meeting-notes", customer.CreateMeetingNoteHandler(db))
	protected.Get("/customers/:id/meeting-notes", customer.ListMeetingNotesHandler(db))
	protected.Delete("/customers/:id/meeting-notes/:noteId", customer.DeleteMeetingNoteHandler(db))

	// Portföy sahipleri
	protected.Post("/portfolio-owners", owner.CreateOwnerHandler(db))
	protected.Get("/portfolio-owners", owner.ListOwnersHandler(db))
	protected.Get("/portfolio-owners/:id", owner.GetOwnerHandler(db))
	protected.Put("/portfolio-owners/:id", owner.UpdateOwnerHandler(db))
	protected.Delete("/portfolio-owners/:id", owner.DeleteOwnerHandler(db))

	// Portföyler
	protected.Post("/properties", property.CreatePropertyHandler(db))
	protected.Get("/properties", property.ListPropertiesHandler(db))
	protected.Get("/properties/export", property.ExportPropertiesHandler(db))
	protected.Get("/properties/:id", property.GetPropertyHandler(db))
	protected.Put("/properties/:id", property.UpdatePropertyHandler(db))
	protected.Delete("/properties/:id", property.DeletePropertyHandler(db))

	// Talepler
	protected.Post("/requests", request.CreateRequestHandler(db))
	protected.Get("/requests", request.ListRequestsHandler(db))
	protected.Post("/requests/match-counts", request.BatchMatchCountsHandler(engine))
	protected.Get("/requests/:id", request.GetRequestHandler(db))
	protected.Put("/requests/:id", request.UpdateRequestHandler(db))
	protected.Delete("/requests/:id", request.DeleteRequestHandler(db))
	protected.Get("/requests/:id/matches", request.MatchPropertiesHandler(engine))

	// Konum lookup'ları
	protected.Get("/locations/cities", location.ListCitiesHandler(db))
	protected.Get("/locations/districts", location.ListDistrictsHandler(db))
	protected.Get("/locations/neighborhoods", location.ListNeighborhoodsHandler(db))

	// Bildirimler (saklanan)
	protected.Post("/notifications", notification.CreateNotificationHandler(db))
	protected.Get("/notifications", notification.ListNotificationsHandler(db))
	protected.Put("/notifications/:id/read", notification.MarkNotificationReadHandler(db))
	protected.Delete("/notifications/:id", notification.DeleteNotificationHandler(db))

	// Dashboard
	protected.Get("/dashboard", dashboard.DashboardHandler(db, engine))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
