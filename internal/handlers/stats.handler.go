package handlers

import (
	"errors"

	"github.com/Ether-4432/crane-game-log/internal/app"
	statsController "github.com/Ether-4432/crane-game-log/internal/controllers/stats"
	"github.com/Ether-4432/crane-game-log/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	Handler
	statsController statsController.StatsControllerInterface
}

func NewStatsHandler(app app.App, router fiber.Router) *StatsHandler {
	log := logger.New("handlers").File("stats_handler")
	return &StatsHandler{
		statsController: app.StatsController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *StatsHandler) Register() {
	stats := h.router.Group("/stats")
	stats.Get("", h.getOverview)
	stats.Get("/finish-chart", h.getFinishChart)
}

func (h *StatsHandler) getOverview(c *fiber.Ctx) error {
	var req statsController.SummaryRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}

	response, err := h.statsController.Overview(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, statsController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute statistics",
		})
	}

	return c.JSON(response)
}

func (h *StatsHandler) getFinishChart(c *fiber.Ctx) error {
	var req statsController.SummaryRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}

	png, err := h.statsController.FinishChart(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, statsController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render chart",
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
