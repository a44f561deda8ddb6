package commands

import (
	"context"
	"encoding/json"
	"io"

	"outofschool/internal/app"
	"outofschool/internal/config"
)

// Env gives commands the configuration and the application services.
// Both are built on first use so that commands like "config init" work
// without a database.
type Env struct {
	ConfigPath string
	Out        io.Writer

	cfg *config.Config
	app *app.App
}

// Config loads the configuration once
func (e *Env) Config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.Load(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	return cfg, nil
}

// App builds the application once
func (e *Env) App(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

// Close releases the application if it was built
func (e *Env) Close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

// printJSON writes v as indented JSON
func (e *Env) printJSON(v interface{}) error {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
