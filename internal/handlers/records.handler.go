package handlers

import (
	"errors"

	"github.com/Ether-4432/crane-game-log/internal/app"
	recordsController "github.com/Ether-4432/crane-game-log/internal/controllers/records"
	"github.com/Ether-4432/crane-game-log/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RecordsHandler struct {
	Handler
	recordsController recordsController.RecordsControllerInterface
}

func NewRecordsHandler(app app.App, router fiber.Router) *RecordsHandler {
	log := logger.New("handlers").File("records_handler")
	return &RecordsHandler{
		recordsController: app.RecordsController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecordsHandler) Register() {
	records := h.router.Group("/records")
	records.Get("", h.listRecords)
	records.Get("/defaults", h.getDefaults)
	records.Get("/:id", h.getRecord)
	records.Post("", h.createRecord)
	records.Put("/:id", h.updateRecord)
	records.Delete("/:id", h.deleteRecord)
}

func (h *RecordsHandler) listRecords(c *fiber.Ctx) error {
	records, err := h.recordsController.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list records",
		})
	}

	return c.JSON(fiber.Map{
		"records": records,
	})
}

func (h *RecordsHandler) getDefaults(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"defaults": h.recordsController.Defaults(c.UserContext()),
	})
}

func (h *RecordsHandler) getRecord(c *fiber.Ctx) error {
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid record ID",
		})
	}

	record, err := h.recordsController.Get(c.UserContext(), recordID)
	if err != nil {
		if errors.Is(err, recordsController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get record",
		})
	}

	return c.JSON(fiber.Map{
		"record": record,
	})
}

func (h *RecordsHandler) createRecord(c *fiber.Ctx) error {
	var req recordsController.SaveRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	record, err := h.recordsController.Create(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, recordsController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"record": record,
	})
}

func (h *RecordsHandler) updateRecord(c *fiber.Ctx) error {
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid record ID",
		})
	}

	var req recordsController.SaveRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	record, err := h.recordsController.Update(c.UserContext(), recordID, &req)
	if err != nil {
		if errors.Is(err, recordsController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, recordsController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update record",
		})
	}

	return c.JSON(fiber.Map{
		"record": record,
	})
}

func (h *RecordsHandler) deleteRecord(c *fiber.Ctx) error {
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid record ID",
		})
	}

	if err := h.recordsController.Delete(c.UserContext(), recordID); err != nil {
		if errors.Is(err, recordsController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete record",
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
