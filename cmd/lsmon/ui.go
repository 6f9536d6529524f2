package main

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"

	"github.com/blaulicht/leitstelle/internal/model"
)

type binding struct {
	views   []string
	key     interface{}
	mod     gocui.Modifier
	handler func(*gocui.Gui, *gocui.View) error
}

func (app *App) setBindings() error {
	bindings := []*binding{
		{views: []string{""}, key: gocui.KeyCtrlC, mod: gocui.ModNone, handler: app.stop},
		{views: []string{""}, key: 'q', mod: gocui.ModNone, handler: app.stop},
		{views: []string{""}, key: gocui.KeyArrowUp, mod: gocui.ModNone, handler: app.cursorUp},
		{views: []string{""}, key: gocui.KeyArrowDown, mod: gocui.ModNone, handler: app.cursorDown},
		{views: []string{""}, key: 'r', mod: gocui.ModNone, handler: func(_ *gocui.Gui, _ *gocui.View) error {
			go app.refresh()

			return nil
		}},
	}

	for _, b := range bindings {
		for _, view := range b.views {
			if err := app.g.SetKeybinding(view, b.key, b.mod, b.handler); err != nil {
				return err
			}
		}
	}

	return nil
}

func (app *App) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("missions", 0, 0, maxX/3-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		v.Title = "Missions (" + app.role + ")"
	}

	if v, err := g.SetView("mission", maxX/3, 0, maxX-1, maxY/2-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		v.Title = "Mission"
		v.Wrap = true
	}

	if v, err := g.SetView("log", maxX/3, maxY/2, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		v.Title = "Status log"
	}

	app.redraw()

	return nil
}

func (app *App) cursorUp(_ *gocui.Gui, _ *gocui.View) error {
	app.mx.Lock()
	if app.selected > 0 {
		app.selected--
	}
	app.mx.Unlock()

	app.redraw()

	return nil
}

func (app *App) cursorDown(_ *gocui.Gui, _ *gocui.View) error {
	app.mx.Lock()
	if app.selected < len(app.missions)-1 {
		app.selected++
	}
	app.mx.Unlock()

	app.redraw()

	return nil
}

func (app *App) redraw() {
	app.g.Update(func(g *gocui.Gui) error {
		app.mx.RLock()
		defer app.mx.RUnlock()

		if v, err := g.View("missions"); err == nil {
			v.Clear()

			for i, m := range app.missions {
				cursor := "  "
				if i == app.selected {
					cursor = "> "
				}

				state := " "
				if m.Completed {
					state = "*"
				}

				fmt.Fprintf(v, "%s%s %s\n", cursor, state, m.Title)
			}
		}

		if v, err := g.View("mission"); err == nil {
			v.Clear()

			if app.selected < len(app.missions) {
				drawMission(v, app.missions[app.selected])
			}
		}

		if v, err := g.View("log"); err == nil {
			v.Clear()

			entries := app.log
			if _, sy := v.Size(); len(entries) > sy {
				entries = entries[len(entries)-sy:]
			}

			for _, e := range entries {
				mark := "  "
				if e.Status == model.StatusHighPriority {
					mark = "!!"
				}

				fmt.Fprintf(v, "%s %s %s -> %d (%s)\n",
					mark, e.Time.Format("15:04:05"), e.Vehicle, e.Status, e.User)
			}
		}

		return nil
	})
}

func drawMission(v *gocui.View, m *model.Mission) {
	fmt.Fprintf(v, "%s\n", m.Title)
	fmt.Fprintf(v, "vehicles: %s\n", strings.Join(m.Vehicles, ", "))

	if m.Description != "" {
		fmt.Fprintf(v, "%s\n", m.Description)
	}

	if m.Completed {
		if m.CompletedAt != nil {
			fmt.Fprintf(v, "completed %s\n", m.CompletedAt.Format("02.01. 15:04"))
		} else {
			fmt.Fprintln(v, "completed")
		}
	}

	if len(m.Notes) > 0 {
		fmt.Fprintln(v, "\nnotes:")

		for _, n := range m.Notes {
			fmt.Fprintf(v, "  %s %s: %s\n", n.At.Format("15:04"), n.By, n.Text)
		}
	}

	if len(m.Alarms) > 0 {
		fmt.Fprintln(v, "\nalarms:")

		for _, a := range m.Alarms {
			fmt.Fprintf(v, "  %s %s\n", a.At.Format("15:04"), a.Note)
		}
	}
}
