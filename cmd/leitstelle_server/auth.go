package main

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/blaulicht/leitstelle/internal/model"
)

const principalKey = "principal"

// SessionUser is the authenticated principal established by login and
// threaded through handlers via fiber locals. Vehicle is reserved for a
// driver's vehicle assignment and is not populated by login.
type SessionUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Vehicle  string `json:"vehicle,omitempty"`
}

// Principal returns the authenticated user of the request, or nil.
func Principal(c *fiber.Ctx) *SessionUser {
	u, _ := c.Locals(principalKey).(*SessionUser)

	return u
}

func (h *HttpServer) principal(c *fiber.Ctx) *SessionUser {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return nil
	}

	username, _ := sess.Get("username").(string)
	if username == "" {
		return nil
	}

	role, _ := sess.Get("role").(string)
	vehicle, _ := sess.Get("vehicle").(string)

	return &SessionUser{Username: username, Role: role, Vehicle: vehicle}
}

func (h *HttpServer) sessionPrincipal(c *fiber.Ctx) (string, string) {
	if u := h.principal(c); u != nil {
		return u.Username, u.Role
	}

	return "", ""
}

func (h *HttpServer) authRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := h.principal(c)

		if u == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		c.Locals(principalKey, u)

		return c.Next()
	}
}

func (h *HttpServer) roleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := h.principal(c)

		if u == nil || !slices.Contains(roles, strings.ToLower(u.Role)) {
			return c.Status(fiber.StatusForbidden).SendString("Forbidden")
		}

		return c.Next()
	}
}

func (h *HttpServer) getLoginHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}

		if err := ctx.BodyParser(&req); err != nil {
			return ctx.JSON(fiber.Map{"success": false})
		}

		u := h.app.users.CheckCredentials(req.Username, req.Password)

		// same shape for bad password and unknown user
		if u == nil {
			return ctx.JSON(fiber.Map{"success": false})
		}

		sess, err := h.sessions.Get(ctx)
		if err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		sess.Set("username", u.Username)
		sess.Set("role", u.Role)

		if err := sess.Save(); err != nil {
			h.log.Error("session save error", slog.Any("error", err))

			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		return ctx.JSON(fiber.Map{"success": true, "role": u.Role})
	}
}

func (h *HttpServer) getLogoutHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess, err := h.sessions.Get(ctx)
		if err != nil {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		if err := sess.Destroy(); err != nil {
			h.log.Error("session destroy error", slog.Any("error", err))

			return ctx.SendStatus(fiber.StatusInternalServerError)
		}

		return ctx.JSON(fiber.Map{"success": true})
	}
}

func (h *HttpServer) getDebugSessionHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var u any

		if p := h.principal(ctx); p != nil {
			u = p
		}

		return ctx.JSON(fiber.Map{"sessionUser": u})
	}
}

func isDispatch(u *SessionUser) bool {
	return u != nil && model.IsDispatch(u.Role)
}
