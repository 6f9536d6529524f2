package main

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/blaulicht/leitstelle/internal/events"
	"github.com/blaulicht/leitstelle/internal/model"
)

// getVehiclesHandler serves the role projection: dispatch callers see the
// vehicles flagged for the dispatch board, everyone else sees the
// vehicles of their own role.
func getVehiclesHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := Principal(ctx)

		if isDispatch(user) {
			return ctx.JSON(app.dbm.VehicleQuery().ForLeitstelle().Get())
		}

		return ctx.JSON(app.dbm.VehicleQuery().Role(user.Role).Get())
	}
}

// getStatusHandler appends a status log entry. Vehicle existence and the
// status code range are deliberately not checked.
func getStatusHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req struct {
			Vehicle string `json:"vehicle"`
			Status  int    `json:"status"`
		}

		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
		}

		user := Principal(ctx)

		entry := &model.LogEntry{
			Vehicle: req.Vehicle,
			Status:  req.Status,
			User:    user.Username,
			Role:    user.Role,
			Time:    time.Now(),
		}

		if err := app.dbm.Create(entry); err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		app.publish(events.NewStatusUpdate(entry))

		if entry.Status == model.StatusHighPriority {
			app.publish(events.NewHighPriority(entry))
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}

func getLogHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.dbm.LogQuery().Get())
	}
}
