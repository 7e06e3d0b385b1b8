package property

import (
	"bytes"
	"fmt"
	"time"

	"emlak-crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// GET /api/properties/export
// Tüm portföy listesini .xlsx olarak indirir.
func ExportPropertiesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var properties []models.Property
		if err := db.Order("created_at desc").Find(&properties).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Portföyler listelenemedi")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)

		headers := []string{"ID", "Başlık", "Tip", "İlan Tipi", "Şehir", "İlçe", "Mahalle", "Fiyat (TL)", "Brüt m²", "Net m²", "Oda", "Eklenme Tarihi"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, p := range properties {
			values := []any{
				p.ID,
				p.Title,
				string(p.Type),
				string(p.ListingType),
				p.City,
				p.District,
				p.Neighborhood,
				p.Price,
				p.GrossM2,
				"",
				p.RoomPlan,
				p.CreatedAt.Format("2006-01-02"),
			}
			if p.NetM2 != nil {
				values[9] = *p.NetM2
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("portfoy-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		return c.Send(buf.Bytes())
	}
}
