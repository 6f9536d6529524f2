package main

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/blaulicht/leitstelle/internal/model"
)

// idParam reads the :id path parameter. Ids start at 1, so 0 marks a
// missing or malformed parameter and callers must treat it as a miss
// before querying (the query builders skip a zero id filter).
func idParam(ctx *fiber.Ctx) uint {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return 0
	}

	return uint(id)
}

func getUsersHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.dbm.UserQuery().Get())
	}
}

func getUserCreateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}

		if err := ctx.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" || req.Role == "" {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "message": "missing fields"})
		}

		u := &model.User{Username: req.Username, Password: req.Password, Role: req.Role}

		if err := app.dbm.CreateUser(u); err != nil {
			return ctx.Status(fiber.StatusConflict).
				JSON(fiber.Map{"success": false, "message": "user exists"})
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}

func getUserUpdateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := idParam(ctx)
		if id == 0 {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		raw := make(map[string]any)

		if err := json.Unmarshal(ctx.Body(), &raw); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
		}

		updates := map[string]any{}

		if s, ok := raw["password"].(string); ok {
			updates["password"] = s
		}

		if s, ok := raw["role"].(string); ok {
			updates["role"] = s
		}

		if app.dbm.UserQuery().Id(id).One() == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		if len(updates) > 0 {
			if err := app.dbm.UserQuery().Id(id).Update(updates); err != nil {
				return ctx.SendStatus(fiber.StatusNotFound)
			}
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}

func getUserDeleteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := idParam(ctx)
		if id == 0 {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		if err := app.dbm.UserQuery().Id(id).Delete(); err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}

func getAllVehiclesHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.dbm.VehicleQuery().Get())
	}
}

func getVehicleCreateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req struct {
			Name          string `json:"name"`
			Role          string `json:"role"`
			ForLeitstelle bool   `json:"forLeitstelle"`
		}

		if err := ctx.BodyParser(&req); err != nil || req.Name == "" || req.Role == "" {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "message": "missing fields"})
		}

		v := &model.Vehicle{Name: req.Name, Role: req.Role, ForLeitstelle: req.ForLeitstelle}

		if err := app.dbm.CreateVehicle(v); err != nil {
			return ctx.Status(fiber.StatusConflict).
				JSON(fiber.Map{"success": false, "message": "vehicle exists"})
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}

func getVehicleUpdateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := idParam(ctx)
		if id == 0 {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		raw := make(map[string]any)

		if err := json.Unmarshal(ctx.Body(), &raw); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
		}

		updates := map[string]any{}

		if s, ok := raw["role"].(string); ok {
			updates["role"] = s
		}

		if b, ok := raw["forLeitstelle"].(bool); ok {
			updates["for_leitstelle"] = b
		}

		if app.dbm.VehicleQuery().Id(id).One() == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		if len(updates) > 0 {
			if err := app.dbm.VehicleQuery().Id(id).Update(updates); err != nil {
				return ctx.SendStatus(fiber.StatusNotFound)
			}
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}

func getVehicleDeleteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := idParam(ctx)
		if id == 0 {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		if err := app.dbm.VehicleQuery().Id(id).Delete(); err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}
