package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-sales-dashboard/pkg/config"
)

type globals struct {
	Config   string   `type:"path" help:"Optional YAML config file." env:"SALESDASH_CONFIG"`
	EnvFile  []string `name:"env-file" default:".env" help:"Dotenv files to load (missing files are skipped)."`
	Offline  bool     `help:"Serve bundled demo data instead of calling the store API."`
	LogLevel string   `name:"log-level" help:"Override the configured log level."`
}

type cli struct {
	globals

	Serve    serveCmd    `cmd:"" default:"withargs" help:"Run the dashboard HTTP server."`
	Snapshot snapshotCmd `cmd:"" help:"Load one snapshot and print it as JSON."`
	Export   exportCmd   `cmd:"" help:"Load one snapshot and write an export file."`
	Layout   layoutCmd   `cmd:"" help:"Resolve the dashboard layout for a viewer and print it as JSON."`
	Widgets  widgetsCmd  `cmd:"" help:"List the widget catalog."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a widget entry and provider stub to a manifest."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("salesdash"),
		kong.Description("E-commerce sales dashboard."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background(), &app.globals)
	ctx.FatalIfErrorf(err)
}

// load resolves configuration and applies flag overrides on top of it.
func (g *globals) load() (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{File: g.Config, EnvFiles: g.EnvFile})
	if err != nil {
		return config.Config{}, err
	}
	if g.Offline {
		cfg.Store.Offline = true
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	return cfg, cfg.Validate()
}
