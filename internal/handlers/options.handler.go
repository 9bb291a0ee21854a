package handlers

import (
	"errors"

	"github.com/Ether-4432/crane-game-log/internal/app"
	optionsController "github.com/Ether-4432/crane-game-log/internal/controllers/options"
	"github.com/Ether-4432/crane-game-log/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OptionsHandler struct {
	Handler
	optionsController optionsController.OptionsControllerInterface
}

func NewOptionsHandler(app app.App, router fiber.Router) *OptionsHandler {
	log := logger.New("handlers").File("options_handler")
	return &OptionsHandler{
		optionsController: app.OptionsController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *OptionsHandler) Register() {
	options := h.router.Group("/options")
	options.Get("/:kind", h.listOptions)
	options.Post("/:kind", h.addOption)
	options.Put("/:kind/:id", h.updateOption)
	options.Delete("/:kind/:id", h.deleteOption)

	stores := h.router.Group("/stores")
	stores.Get("", h.listStores)
	stores.Get("/:id", h.getStore)
	stores.Post("", h.addStore)
	stores.Put("/:id", h.updateStore)
	stores.Delete("/:id", h.deleteStore)
}

func (h *OptionsHandler) optionError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, optionsController.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if errors.Is(err, optionsController.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}

func (h *OptionsHandler) listOptions(c *fiber.Ctx) error {
	kind := optionsController.OptionKind(c.Params("kind"))

	items, err := h.optionsController.ListOptions(c.UserContext(), kind)
	if err != nil {
		return h.optionError(c, err, "Failed to list options")
	}

	return c.JSON(fiber.Map{
		"options": items,
	})
}

func (h *OptionsHandler) addOption(c *fiber.Ctx) error {
	kind := optionsController.OptionKind(c.Params("kind"))

	var req optionsController.AddOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.optionsController.AddOption(c.UserContext(), kind, &req)
	if err != nil {
		return h.optionError(c, err, "Failed to add option")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"option": item,
	})
}

func (h *OptionsHandler) updateOption(c *fiber.Ctx) error {
	kind := optionsController.OptionKind(c.Params("kind"))

	optionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid option ID",
		})
	}

	var req optionsController.AddOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.optionsController.UpdateOption(c.UserContext(), kind, optionID, &req)
	if err != nil {
		return h.optionError(c, err, "Failed to update option")
	}

	return c.JSON(fiber.Map{
		"option": item,
	})
}

func (h *OptionsHandler) deleteOption(c *fiber.Ctx) error {
	kind := optionsController.OptionKind(c.Params("kind"))

	optionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid option ID",
		})
	}

	if err := h.optionsController.DeleteOption(c.UserContext(), kind, optionID); err != nil {
		return h.optionError(c, err, "Failed to delete option")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *OptionsHandler) listStores(c *fiber.Ctx) error {
	stores, err := h.optionsController.ListStores(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list stores",
		})
	}

	return c.JSON(fiber.Map{
		"stores": stores,
	})
}

func (h *OptionsHandler) getStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	detail, err := h.optionsController.GetStore(c.UserContext(), storeID)
	if err != nil {
		return h.optionError(c, err, "Failed to get store")
	}

	return c.JSON(detail)
}

func (h *OptionsHandler) addStore(c *fiber.Ctx) error {
	var req optionsController.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	store, err := h.optionsController.AddStore(c.UserContext(), &req)
	if err != nil {
		return h.optionError(c, err, "Failed to add store")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"store": store,
	})
}

func (h *OptionsHandler) updateStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	var req optionsController.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	store, err := h.optionsController.UpdateStore(c.UserContext(), storeID, &req)
	if err != nil {
		return h.optionError(c, err, "Failed to update store")
	}

	return c.JSON(fiber.Map{
		"store": store,
	})
}

func (h *OptionsHandler) deleteStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	if err := h.optionsController.DeleteStore(c.UserContext(), storeID); err != nil {
		return h.optionError(c, err, "Failed to delete store")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
