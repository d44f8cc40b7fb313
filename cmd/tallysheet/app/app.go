// Package app provides the application context and dependency management for
// the tallysheet CLI. It centralizes configuration, logging, and session
// construction so commands stay small.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tallysheet/tallysheet"
	"github.com/tallysheet/tallysheet/pkg/errors"
)

// App represents the tallysheet application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Session (lazy-initialized, singleton)
	mu      sync.Mutex
	session tallysheet.Session
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Session returns the processing session, creating it lazily.
func (a *App) Session() (tallysheet.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return a.session, nil
	}

	session, err := tallysheet.New(
		tallysheet.WithLogger(a.logger),
		tallysheet.WithConcurrency(a.config.Concurrency),
	)
	if err != nil {
		return nil, err
	}
	a.session = session
	return session, nil
}
