package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/blaulicht/leitstelle/internal/database"
	"github.com/blaulicht/leitstelle/internal/events"
	"github.com/blaulicht/leitstelle/internal/repository"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

// missions are removed this long after completion
const missionTTL = time.Hour * 72

type App struct {
	logger *slog.Logger
	dbm    *database.DatabaseManager
	users  repository.UserRepository
	hub    *events.Hub

	ctx context.Context
}

func NewApp(dbm *database.DatabaseManager, users repository.UserRepository) *App {
	return &App{
		logger: slog.Default(),
		dbm:    dbm,
		users:  users,
		hub:    events.NewHub(),
	}
}

func (app *App) Run() {
	var cancel context.CancelFunc

	app.ctx, cancel = context.WithCancel(context.Background())

	if err := app.users.Start(); err != nil {
		app.logger.Error("error starting user repository", slog.Any("error", err))
		os.Exit(1)
	}

	srv := NewHttpServer(app)

	go func() {
		if err := srv.Listen(viper.GetString("http_addr")); err != nil {
			app.logger.Error("http server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	go app.cleaner()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
	app.logger.Info("exiting...")
	cancel()
	app.users.Stop()
}

// publish sends an event to all connected clients, fire-and-forget.
func (app *App) publish(evt *events.Event) {
	eventsCount.WithLabelValues(string(evt.Type)).Inc()
	app.hub.Publish(evt)
}

// cleaner drops missions three days after completion.
func (app *App) cleaner() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			if ids := app.dbm.DeleteExpiredMissions(time.Now().Add(-missionTTL)); len(ids) > 0 {
				app.logger.Info(fmt.Sprintf("removed %d expired missions", len(ids)))
			}
		}
	}
}

func main() {
	fmt.Printf("version %s %s\n", gitRevision, gitBranch)

	var debug = flag.Bool("debug", false, "debug logging")
	var conf = flag.String("config", "leitstelle.yml", "name of config file")
	flag.Parse()

	viper.SetConfigFile(*conf)

	viper.SetDefault("http_addr", ":3000")
	viper.SetDefault("db", "leitstelle.db")
	viper.SetDefault("users_file", "users.yml")
	viper.SetDefault("client_url", "http://localhost:3000")
	viper.SetDefault("prod", false)

	if err := viper.ReadInConfig(); err != nil {
		slog.Info(fmt.Sprintf("config file not loaded: %s", err.Error()))
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	db, err := gorm.Open(sqlite.Open(viper.GetString("db")), &gorm.Config{})
	if err != nil {
		slog.Error("error opening database", slog.Any("error", err))
		os.Exit(1)
	}

	dbm := database.New(db)

	if err := dbm.Migrate(); err != nil {
		slog.Error("migration error", slog.Any("error", err))
		os.Exit(1)
	}

	dbm.AddDefaults()

	app := NewApp(dbm, repository.NewUserDbRepository(viper.GetString("users_file"), dbm))
	app.Run()
}
