package main

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/blaulicht/leitstelle/internal/wshandler"
)

// getWsHandler attaches a client to the broadcast feed. Subscribers get
// every event, there is no per-client filtering or replay.
func getWsHandler(app *App) fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		name := uuid.NewString()

		h := wshandler.NewHandler(app.logger, name, ws)

		app.logger.Debug("ws listener connected")
		wsConnections.Inc()
		app.hub.Subscribe(name, h.SendEvent)
		h.Listen()
		app.hub.Unsubscribe(name)
		wsConnections.Dec()
		app.logger.Debug("ws listener disconnected")
	})
}
