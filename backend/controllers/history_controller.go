package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MohammadSabeti/K2/backend/config"
	"github.com/MohammadSabeti/K2/backend/middleware"
	"github.com/MohammadSabeti/K2/backend/report"
	"github.com/MohammadSabeti/K2/backend/services"
	"github.com/MohammadSabeti/K2/backend/utils"
)

type HistoryController struct {
	Reports *services.ReportService
	Cfg     *config.Config
}

func NewHistoryController(reports *services.ReportService, cfg *config.Config) *HistoryController {
	return &HistoryController{Reports: reports, Cfg: cfg}
}

func historyFilter(c *fiber.Ctx) services.HistoryFilter {
	return services.HistoryFilter{
		WeekStart: c.Query("week_start"),
		Query:     c.Query("q"),
	}
}

// GetHistory returns the caller's submitted weeks grouped and ordered
// newest first. Supports ?week_start= and ?q= filters.
func (hc *HistoryController) GetHistory(c *fiber.Ctx) error {
	groups, err := hc.Reports.History(middleware.Username(c), historyFilter(c))
	if err != nil {
		if errors.Is(err, report.ErrStorageUnavailable) {
			return utils.ServiceUnavailable(c, "Storage unavailable")
		}
		return utils.InternalServerError(c, "Could not load history")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"weeks": groups,
		"count": len(groups),
	})
}

// GetAllHistory is the admin view across every user's weeks.
func (hc *HistoryController) GetAllHistory(c *fiber.Ctx) error {
	groups, err := hc.Reports.AllHistory(historyFilter(c))
	if err != nil {
		if errors.Is(err, report.ErrStorageUnavailable) {
			return utils.ServiceUnavailable(c, "Storage unavailable")
		}
		return utils.InternalServerError(c, "Could not load history")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"weeks": groups,
		"count": len(groups),
	})
}
