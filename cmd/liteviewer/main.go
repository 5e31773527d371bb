package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"runtime"

	"liteviewer/internal/config"
	"liteviewer/internal/controllers"
	"liteviewer/internal/logger"
	"liteviewer/internal/models"
	"liteviewer/internal/render"
	"liteviewer/internal/services"
	"liteviewer/internal/shutdown"
	"liteviewer/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppID      = "io.liteviewer.app"
	AppVersion = "1.0.0"
)

// Application wires the viewer's models, services and MVC components together
type Application struct {
	// Core components
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	// MVC Components
	controller *controllers.MainController
	view       *views.MainView

	state    *models.ViewerState
	renderer render.Renderer

	shutdown *shutdown.Manager
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run()
}

// NewApplication creates and initializes the application using dependency injection
func NewApplication(cfg *config.Config) (*Application, error) {
	appLogger := cfg.NewLogger()

	app.SetMetadata(appMetadata(cfg))
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(cfg.Window.Title)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()

	renderer, err := newRenderer(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":     AppVersion,
		"window_size": fmt.Sprintf("%.0fx%.0f", cfg.Window.Width, cfg.Window.Height),
		"go_version":  runtime.Version(),
		"backend":     renderer.Name(),
		"log_level":   cfg.LogLevel().String(),
	})

	state := models.NewViewerState(models.ZoomLimits{
		Min:  cfg.Zoom.Min,
		Max:  cfg.Zoom.Max,
		Step: cfg.Zoom.Step,
	})
	imageService := services.NewImageService(cfg.Image.AutoOrient, appLogger)

	mainController := controllers.NewMainController(imageService, renderer, state, appLogger)
	mainController.SetFallbackViewport(image.Pt(int(cfg.Window.Width), int(cfg.Window.Height)))
	mainView := views.NewMainView(window, cfg.Display.BackgroundColor(), cfg.Display.BorderColor())
	mainController.SetMainView(mainView)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		controller: mainController,
		view:       mainView,
		state:      state,
		renderer:   renderer,
		shutdown:   shutdown.NewManager(appLogger, shutdown.DefaultTimeout),
	}

	application.registerShutdown()
	application.setupWindowEvents()

	return application, nil
}

func appMetadata(cfg *config.Config) fyne.AppMetadata {
	return fyne.AppMetadata{
		ID:      AppID,
		Name:    cfg.Window.Title,
		Version: AppVersion,
	}
}

// newRenderer builds the configured backend, falling back to imaging when the
// binary was built without it.
func newRenderer(cfg *config.Config, log logger.Logger) (render.Renderer, error) {
	opts := render.Options{Filter: cfg.Render.Filter, Logger: log}

	r, err := render.New(cfg.Render.Backend, opts)
	if errors.Is(err, render.ErrBackendUnavailable) {
		log.Warning("Application", "render backend unavailable, using imaging", map[string]interface{}{
			"requested": cfg.Render.Backend,
			"available": render.Backends(),
		})
		return render.New("imaging", opts)
	}
	return r, err
}

func (app *Application) registerShutdown() {
	app.shutdown.Register("controller", app.controller)
	app.shutdown.OnComplete(func() {
		fyne.Do(app.fyneApp.Quit)
	})
}

// Run shows the window and blocks until the application quits
func (app *Application) Run() {
	app.shutdown.Listen()
	_ = app.controller.Refresh()
	app.window.ShowAndRun()
	app.logger.Info("Application", "terminated", nil)
}

func (app *Application) setupWindowEvents() {
	app.window.SetOnClosed(func() {
		app.logger.Info("Application", "window closed, performing cleanup", nil)
		app.shutdown.Shutdown()
	})
}
