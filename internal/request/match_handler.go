package request

import (
	"errors"
	"fmt"
	"strconv"

	"emlak-crm-backend/internal/matching"

	"github.com/gofiber/fiber/v2"
)

type BatchMatchCountsBody struct {
	IDs []string `json:"ids"`
}

type BatchMatchCountsResponse struct {
	Counts map[string]int64 `json:"counts"`
}

// GET /api/requests/:id/matches?page=1&pageSize=15
func MatchPropertiesHandler(engine *matching.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var requestID uint
		if _, err := fmt.Sscan(idStr, &requestID); err != nil || requestID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz talep ID")
		}

		page := c.QueryInt("page", 1)
		pageSize := c.QueryInt("pageSize", matching.DefaultPageSize)

		result, err := engine.MatchProperties(c.Context(), requestID, page, pageSize)
		if err != nil {
			if errors.Is(err, matching.ErrRequestNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Talep bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Eşleşmeler hesaplanamadı")
		}

		return c.JSON(result)
	}
}

// POST /api/requests/match-counts
// Gövde: {"ids": ["1", "2", ...]}
// Dönen: {"counts": {"1": 4, "2": 0}}
// Bulunamayan ya da okunamayan talepler 0 sayılır, istek bütün olarak
// başarısız olmaz.
func BatchMatchCountsHandler(engine *matching.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchMatchCountsBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if len(body.IDs) == 0 {
			return c.JSON(BatchMatchCountsResponse{Counts: map[string]int64{}})
		}

		ids := make([]uint, 0, len(body.IDs))
		for _, s := range body.IDs {
			v, err := strconv.ParseUint(s, 10, 32)
			if err != nil || v == 0 {
				continue // geçersiz ID'ler sonuçta 0 olarak görünür
			}
			ids = append(ids, uint(v))
		}

		counts := engine.BatchMatchCounts(c.Context(), ids)

		resp := BatchMatchCountsResponse{Counts: make(map[string]int64, len(body.IDs))}
		for _, s := range body.IDs {
			v, err := strconv.ParseUint(s, 10, 32)
			if err != nil || v == 0 {
				resp.Counts[s] = 0
				continue
			}
			resp.Counts[s] = counts[uint(v)]
		}

		return c.JSON(resp)
	}
}
