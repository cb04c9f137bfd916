package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-sales-dashboard/pkg/export"
	"github.com/goliatone/go-sales-dashboard/pkg/session"
)

type snapshotCmd struct {
	Compact bool `help:"Print the snapshot on one line."`
}

func (cmd *snapshotCmd) Run(ctx context.Context, g *globals) error {
	app, err := g.oneShot(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return cmd.write(ctx, app, os.Stdout)
}

func (cmd *snapshotCmd) write(ctx context.Context, app *application, out io.Writer) error {
	snap, err := app.snapshot.Query(ctx, queries.SnapshotInput{})
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(out)
	if !cmd.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(snap)
}

type exportCmd struct {
	Format string `short:"f" default:"csv" help:"One of csv, orders, products, revenue, json, xlsx, pdf."`
	Out    string `short:"o" help:"Output file or directory; '-' writes to stdout. Defaults to the export file name."`
}

func (cmd *exportCmd) Run(ctx context.Context, g *globals) error {
	app, err := g.oneShot(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	path, err := cmd.write(ctx, app, time.Now(), os.Stdout)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}

// write renders the export and returns the file it was written to, if any.
func (cmd *exportCmd) write(ctx context.Context, app *application, at time.Time, stdout io.Writer) (string, error) {
	format, err := export.ParseFormat(cmd.Format)
	if err != nil {
		return "", err
	}
	snap, err := app.snapshot.Query(ctx, queries.SnapshotInput{})
	if err != nil {
		return "", err
	}
	doc, err := export.Render(&snap, format, at)
	if err != nil {
		return "", err
	}
	if cmd.Out == "-" {
		_, err := stdout.Write(doc.Body)
		return "", err
	}
	path := cmd.Out
	if path == "" {
		path = doc.Filename
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, doc.Filename)
	}
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return "", fmt.Errorf("salesdash: write export: %w", err)
	}
	return path, nil
}

type widgetsCmd struct {
	All bool `help:"Include widget types that cannot be added from the catalog."`
}

func (cmd *widgetsCmd) Run(ctx context.Context, g *globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	cfg.Store.Offline = true
	app, err := buildApplication(ctx, cfg, zap.NewNop(), buildOptions{SkipRefresh: true})
	if err != nil {
		return err
	}
	defer app.Close()
	return cmd.write(ctx, app, os.Stdout)
}

func (cmd *widgetsCmd) write(ctx context.Context, app *application, out io.Writer) error {
	defs, err := app.catalog.Query(ctx, queries.CatalogInput{})
	if err != nil {
		return err
	}
	if cmd.All {
		defs = app.service.Definitions()
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tSIZE\tCATEGORY\tADDABLE")
	for _, def := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", def.Code, def.Name, def.Size, def.Category, def.Addable)
	}
	return tw.Flush()
}

type layoutCmd struct {
	Viewer string `default:"admin@example.com" help:"Viewer the layout is resolved for."`
	Locale string `default:"en" help:"Viewer locale."`
}

func (cmd *layoutCmd) Run(ctx context.Context, g *globals) error {
	app, err := g.oneShot(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return cmd.write(ctx, app, os.Stdout)
}

func (cmd *layoutCmd) write(ctx context.Context, app *application, out io.Writer) error {
	view, err := app.layout.Query(ctx, dashboard.ViewerContext{
		UserID: cmd.Viewer,
		Roles:  []string{strings.ToLower(session.RoleAdmin)},
		Locale: cmd.Locale,
	})
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(view)
}

// oneShot builds an application that loads a single snapshot. Refresh
// failures are returned instead of being left to a scheduler.
func (g *globals) oneShot(ctx context.Context) (*application, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	app, err := buildApplication(ctx, cfg, logger, buildOptions{SkipRefresh: true})
	if err != nil {
		return nil, err
	}
	if err := app.service.Refresh(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}
