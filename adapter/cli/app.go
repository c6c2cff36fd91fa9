package cli

import (
	"errors"

	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	Config   *config.Config
	Analyzer *application.Analyzer
	Health   *observability.HealthRegistry
	Metrics  *observability.InMemoryMetrics
}

var errNotInitialized = errors.New("triage is not initialized; check the configuration")

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

func requireApp() (*App, error) {
	if app == nil || app.Analyzer == nil {
		return nil, errNotInitialized
	}
	return app, nil
}
