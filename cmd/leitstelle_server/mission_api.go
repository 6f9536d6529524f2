package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/blaulicht/leitstelle/internal/database"
	"github.com/blaulicht/leitstelle/internal/events"
	"github.com/blaulicht/leitstelle/internal/model"
)

func getMissionCreateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req struct {
			Vehicles    []string `json:"vehicles"`
			Title       string   `json:"title"`
			Description string   `json:"description"`
		}

		if err := ctx.BodyParser(&req); err != nil || len(req.Vehicles) == 0 || req.Title == "" {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
		}

		user := Principal(ctx)

		m := &model.Mission{
			Vehicles:    req.Vehicles,
			Title:       req.Title,
			Description: req.Description,
			CreatedBy:   user.Username,
			CreatedAt:   time.Now(),
			Notes:       []*model.MissionNote{},
			Alarms:      []*model.MissionAlarm{},
		}

		if err := app.dbm.Create(m); err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		missionsCreated.Inc()
		app.publish(events.NewMissionEvent(m))

		return ctx.JSON(fiber.Map{"success": true, "mission": m})
	}
}

// getMissionsHandler lists missions. Dispatch roles see everything,
// drivers only missions their own vehicle is assigned to.
func getMissionsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := Principal(ctx)
		all := app.dbm.MissionQuery().Get()

		if isDispatch(user) {
			return ctx.JSON(all)
		}

		res := make([]*model.Mission, 0)

		for _, m := range all {
			if m.HasVehicle(user.Vehicle) {
				res = append(res, m)
			}
		}

		return ctx.JSON(res)
	}
}

func getMissionUpdateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		m := missionByIdParam(app, ctx)
		if m == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		u, err := model.ParseMissionUpdate(ctx.Body())
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
		}

		now := time.Now()
		oldVersion := m.Version
		changes := m.Apply(u, now)

		// nothing changed: no note, no broadcast, still a success
		if len(changes) == 0 {
			return ctx.JSON(fiber.Map{"success": true, "mission": m})
		}

		user := Principal(ctx)

		note := &model.MissionNote{
			By:   user.Username,
			At:   now,
			Text: strings.Join(changes, "; "),
		}

		if err := app.dbm.UpdateMission(m, oldVersion, note); err != nil {
			if errors.Is(err, database.ErrConflict) {
				return ctx.Status(fiber.StatusConflict).
					JSON(fiber.Map{"success": false, "message": "mission was changed concurrently"})
			}

			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		m.Notes = append(m.Notes, note)
		app.publish(events.MissionUpdatedEvent(m))

		return ctx.JSON(fiber.Map{"success": true, "mission": m})
	}
}

// missionByIdParam resolves the :id parameter to a mission. A malformed
// id must not fall through to an unfiltered query, so idParam's zero is
// a miss here.
func missionByIdParam(app *App, ctx *fiber.Ctx) *model.Mission {
	id := idParam(ctx)
	if id == 0 {
		return nil
	}

	return app.dbm.MissionQuery().Id(id).One()
}

// getMissionNoteHandler appends a free-text note. Open to any
// authenticated user, and deliberately does not broadcast.
func getMissionNoteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		m := missionByIdParam(app, ctx)
		if m == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		var req struct {
			Text string `json:"text"`
		}

		_ = ctx.BodyParser(&req)

		user := Principal(ctx)

		note := &model.MissionNote{By: user.Username, At: time.Now(), Text: req.Text}

		if err := app.dbm.AddMissionNote(m, note); err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		return ctx.JSON(fiber.Map{"success": true, "notes": m.Notes})
	}
}

// getMissionAlarmHandler appends an alarm. The note text is synthesized
// from the acting user, any caller-supplied text is ignored.
func getMissionAlarmHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		m := missionByIdParam(app, ctx)
		if m == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		var req struct {
			At *time.Time `json:"at"`
		}

		_ = ctx.BodyParser(&req)

		at := time.Now()
		if req.At != nil {
			at = *req.At
		}

		user := Principal(ctx)

		alarm := &model.MissionAlarm{At: at, Note: "Alarm from " + user.Username}

		if err := app.dbm.AddMissionAlarm(m, alarm); err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		return ctx.JSON(fiber.Map{"success": true, "alarms": m.Alarms})
	}
}
