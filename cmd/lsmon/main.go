package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/spf13/viper"

	"github.com/blaulicht/leitstelle/internal/model"
)

const pollInterval = time.Second * 5

type App struct {
	g      *gocui.Gui
	logger *slog.Logger
	remote *RemoteAPI

	mx       sync.RWMutex
	missions []*model.Mission
	log      []*model.LogEntry
	selected int

	role string
}

func NewApp(remote *RemoteAPI) *App {
	return &App{
		logger:   slog.Default(),
		remote:   remote,
		missions: nil,
		log:      nil,
	}
}

func (app *App) Run() error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}

	defer g.Close()

	app.g = g
	g.SetManagerFunc(app.layout)

	if err := app.setBindings(); err != nil {
		return err
	}

	go app.poller()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (app *App) stop(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func (app *App) poller() {
	app.refresh()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		app.refresh()
	}
}

func (app *App) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()

	missions, err := app.remote.GetMissions(ctx)
	if err != nil {
		app.logger.Error("missions fetch error", slog.Any("error", err))

		return
	}

	entries, err := app.remote.GetLog(ctx)
	if err != nil {
		app.logger.Error("log fetch error", slog.Any("error", err))

		return
	}

	app.mx.Lock()
	app.missions = missions
	app.log = entries

	if app.selected >= len(app.missions) {
		app.selected = 0
	}
	app.mx.Unlock()

	app.redraw()
}

func main() {
	conf := flag.String("config", "lsmon.yml", "config file")
	server := flag.String("server", "", "server url")
	user := flag.String("user", "", "login")
	password := flag.String("password", "", "password")
	debug := flag.Bool("debug", false, "debug logging")

	flag.Parse()

	viper.SetConfigFile(*conf)

	viper.SetDefault("server", "http://localhost:3000")
	viper.SetDefault("user", "leit")
	viper.SetDefault("password", "")

	_ = viper.ReadInConfig()

	if *server != "" {
		viper.Set("server", *server)
	}

	if *user != "" {
		viper.Set("user", *user)
	}

	if *password != "" {
		viper.Set("password", *password)
	}

	var h slog.Handler
	if *debug {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	}

	slog.SetDefault(slog.New(h))

	remote, err := NewRemoteAPI(viper.GetString("server"))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	role, err := remote.Login(ctx, viper.GetString("user"), viper.GetString("password"))

	cancel()

	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	app := NewApp(remote)
	app.role = role

	if err := app.Run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
