package main

import (
	"embed"
	"log"

	"DialTimer/audio"
	"DialTimer/timer"
	"DialTimer/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

//go:embed assets/*
var content embed.FS

func main() {
	fyneApp := app.NewWithID("io.dialtimer")

	if iconBytes, err := content.ReadFile("assets/icon.svg"); err == nil {
		fyneApp.SetIcon(fyne.NewStaticResource("icon.svg", iconBytes))
	} else {
		log.Printf("Failed to load icon. %v", err)
	}

	cfg := timer.LoadConfig(content)
	fyneApp.Settings().SetTheme(ui.NewDialTheme(
		timer.MustColor(cfg.Palette.Background, 1),
		timer.MustColor(cfg.Palette.Label, 1),
		cfg.Labels.TextSize,
	))

	a := NewAppManager(cfg, fyneSender{app: fyneApp}, audio.NewPlayer(cfg), timer.NewRealClock(nil))
	view := ui.NewDialView(cfg, a.Circle(), a)
	a.Attach(view, timer.NewRealClock(a.DispatchTick))

	w := ui.CreateMainWindow(a, fyneApp, cfg, view)

	lifecycle := fyneApp.Lifecycle()
	lifecycle.SetOnExitedForeground(a.ExitedForeground)
	lifecycle.SetOnEnteredForeground(a.EnteredForeground)
	w.SetOnClosed(a.Shutdown)

	w.ShowAndRun()
}
