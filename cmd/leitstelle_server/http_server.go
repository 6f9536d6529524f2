package main

import (
	"log/slog"
	"net/http"
	"runtime/pprof"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/blaulicht/leitstelle/internal/model"
	"github.com/blaulicht/leitstelle/pkg/log"
	"github.com/blaulicht/leitstelle/staticfiles"
)

const sessionAge = time.Hour * 24

type HttpServer struct {
	log      *slog.Logger
	app      *App
	f        *fiber.App
	sessions *session.Store
}

func NewHttpServer(app *App) *HttpServer {
	engine := html.NewFileSystem(http.FS(staticfiles.Templates), ".html")

	srv := &HttpServer{
		log: slog.With(slog.String("logger", "http")),
		app: app,
		f: fiber.New(fiber.Config{
			EnablePrintRoutes:     false,
			DisableStartupMessage: true,
			Views:                 engine,
		}),
		sessions: newSessionStore(viper.GetBool("prod")),
	}

	// an empty origin would make fiber fall back to a wildcard, which it
	// refuses to combine with credentialed CORS
	clientURL := viper.GetString("client_url")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}

	srv.f.Use(cors.New(cors.Config{
		AllowOrigins:     clientURL,
		AllowCredentials: true,
	}))

	srv.f.Use(log.NewFiberLogger(&log.LoggerConfig{
		Name:          "api",
		Principal:     srv.sessionPrincipal,
		DoMetrics:     true,
		LogErrorsOnly: true,
	}))

	staticfiles.Embed(srv.f)

	auth := srv.authRequired()
	dispatch := srv.roleRequired(model.ROLE_ADMIN, model.ROLE_LEITSTELLE)
	admin := srv.roleRequired(model.ROLE_ADMIN)

	srv.f.Get("/", getLoginPageHandler())
	srv.f.Get("/admin.html", auth, admin, getPageHandler("templates/admin", "Administration"))
	srv.f.Get("/leitstelle.html", auth, dispatch, getPageHandler("templates/leitstelle", "Leitstelle"))
	srv.f.Get("/fahrer.html", auth, getPageHandler("templates/fahrer", "Fahrer"))

	srv.f.Post("/login", srv.getLoginHandler())
	srv.f.Post("/logout", auth, srv.getLogoutHandler())
	srv.f.Get("/debug-session", srv.getDebugSessionHandler())

	srv.f.Get("/admin/users", auth, admin, getUsersHandler(app))
	srv.f.Post("/admin/users", auth, admin, getUserCreateHandler(app))
	srv.f.Put("/admin/users/:id", auth, admin, getUserUpdateHandler(app))
	srv.f.Delete("/admin/users/:id", auth, admin, getUserDeleteHandler(app))

	srv.f.Get("/admin/vehicles", auth, admin, getAllVehiclesHandler(app))
	srv.f.Post("/admin/vehicles", auth, admin, getVehicleCreateHandler(app))
	srv.f.Put("/admin/vehicles/:id", auth, admin, getVehicleUpdateHandler(app))
	srv.f.Delete("/admin/vehicles/:id", auth, admin, getVehicleDeleteHandler(app))

	srv.f.Get("/vehicles", auth, getVehiclesHandler(app))

	srv.f.Post("/status", auth, getStatusHandler(app))
	srv.f.Get("/log", auth, dispatch, getLogHandler(app))

	srv.f.Post("/missions", auth, dispatch, getMissionCreateHandler(app))
	srv.f.Get("/missions", auth, getMissionsHandler(app))
	srv.f.Put("/missions/:id", auth, dispatch, getMissionUpdateHandler(app))
	srv.f.Post("/missions/:id/notes", auth, getMissionNoteHandler(app))
	srv.f.Post("/missions/:id/alarms", auth, getMissionAlarmHandler(app))

	srv.f.Get("/ws", getWsHandler(app))

	srv.f.Get("/stack", getStackHandler())
	srv.f.Get("/metrics", getMetricsHandler())

	return srv
}

// newSessionStore builds the cookie session store. Cookies are httpOnly
// with a 24 hour sliding expiry; in prod the frontend is served from
// another origin, so the cookie needs SameSite=None and Secure.
func newSessionStore(prod bool) *session.Store {
	cfg := session.Config{
		Expiration:     sessionAge,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}

	if prod {
		cfg.CookieSameSite = "None"
		cfg.CookieSecure = true
	}

	return session.New(cfg)
}

func (h *HttpServer) Listen(addr string) error {
	h.log.Info("listening on " + addr)

	return h.f.Listen(addr)
}

func getLoginPageHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.Render("templates/login", fiber.Map{"title": "Leitstelle Login"})
	}
}

func getPageHandler(template, title string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := Principal(ctx)

		return ctx.Render(template, fiber.Map{
			"title": title,
			"user":  user.Username,
			"role":  user.Role,
		})
	}
}

func getStackHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return pprof.Lookup("goroutine").WriteTo(ctx.Response().BodyWriter(), 1)
	}
}

func getMetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{DisableCompression: true},
	))
}
