package main

import (
	"embed"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"go.aimuz.me/livesub/config"
	"go.aimuz.me/livesub/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.Info("starting app", "version", version, "commit", commit, "date", date)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config, using defaults", "error", err)
		cfg = config.Default()
	}

	appService := app.New(version)

	wails := application.New(application.Options{
		Name:        "LiveSub",
		Description: "Live microphone captions with translation",
		Services: []application.Service{
			application.NewService(appService),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Keep running in the tray when the overlay is hidden
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	// Caption overlay: frameless, translucent, always on top
	mainWindow := wails.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:            "overlay",
		Title:           "LiveSub",
		Width:           cfg.Overlay.Width,
		Height:          cfg.Overlay.Height,
		X:               cfg.Overlay.X,
		Y:               cfg.Overlay.Y,
		InitialPosition: application.WindowXY,
		Frameless:       true,
		AlwaysOnTop:     true,
		DisableResize:   true,
		BackgroundType:  application.BackgroundTypeTranslucent,
		URL:             "/",
		Mac: application.MacWindow{
			Backdrop: application.MacBackdropTransparent,
		},
	})

	settingsWindow := wails.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:          "settings",
		Title:         "设置",
		Width:         300,
		Height:        250,
		AlwaysOnTop:   true,
		DisableResize: true,
		Hidden:        true,
		URL:           "/settings.html",
	})

	// Closing either window hides it; the tray quits the app
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		mainWindow.Hide()
	})
	settingsWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		settingsWindow.Hide()
	})

	if err := appService.Init(wails, mainWindow, settingsWindow, cfg); err != nil {
		slog.Error("init app", "error", err)
		os.Exit(1)
	}
	appService.Start()

	systemTray := wails.SystemTray.New()
	trayMenu := wails.NewMenu()
	trayMenu.Add("显示/隐藏字幕").OnClick(func(ctx *application.Context) {
		appService.ToggleOverlay()
	})
	trayMenu.Add("设置").OnClick(func(ctx *application.Context) {
		appService.OpenSettings()
	})
	trayMenu.Add("复制字幕").OnClick(func(ctx *application.Context) {
		if err := appService.CopyCaption(); err != nil {
			slog.Warn("copy caption", "error", err)
		}
	})
	trayMenu.AddSeparator()
	trayMenu.Add("退出").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			appService.Shutdown()
			wails.Quit()
		})
	systemTray.SetMenu(trayMenu)

	if err := wails.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
