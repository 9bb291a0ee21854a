package handlers

import (
	"github.com/Ether-4432/crane-game-log/internal/app"
	"github.com/Ether-4432/crane-game-log/internal/handlers/middleware"
	"github.com/Ether-4432/crane-game-log/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	m := app.Middleware
	router.Use(m.TraceID())

	WebSocketHandler(router, app.Websocket)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewRecordsHandler(*app, api).Register()
	NewOptionsHandler(*app, api).Register()
	NewStatsHandler(*app, api).Register()
	NewBackupHandler(*app, api).Register()

	return nil
}
