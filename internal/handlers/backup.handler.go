package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ether-4432/crane-game-log/internal/app"
	backupController "github.com/Ether-4432/crane-game-log/internal/controllers/backup"
	"github.com/Ether-4432/crane-game-log/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type BackupHandler struct {
	Handler
	backupController backupController.BackupControllerInterface
}

func NewBackupHandler(app app.App, router fiber.Router) *BackupHandler {
	log := logger.New("handlers").File("backup_handler")
	return &BackupHandler{
		backupController: app.BackupController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BackupHandler) Register() {
	backup := h.router.Group("/backup")
	backup.Get("/export", h.exportBackup)
	backup.Post("/import", h.importBackup)
	backup.Post("/reset", h.resetData)
}

func (h *BackupHandler) exportBackup(c *fiber.Ctx) error {
	file, err := h.backupController.Export(c.UserContext())
	if err != nil {
		if errors.Is(err, backupController.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export backup",
		})
	}

	filename := fmt.Sprintf("crane-game-log-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.JSON(file)
}

func (h *BackupHandler) importBackup(c *fiber.Ctx) error {
	summary, err := h.backupController.Import(c.UserContext(), c.Body())
	if err != nil {
		if errors.Is(err, backupController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, backupController.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to import backup",
		})
	}

	return c.JSON(fiber.Map{
		"imported": summary,
	})
}

func (h *BackupHandler) resetData(c *fiber.Ctx) error {
	if err := h.backupController.Reset(c.UserContext()); err != nil {
		if errors.Is(err, backupController.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset data",
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
