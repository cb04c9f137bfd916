package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
)

type scaffoldCmd struct {
	Code            string   `required:"" help:"Widget type code; normalised to kebab case (e.g. conversion-funnel)."`
	Name            string   `required:"" help:"Display name for the widget."`
	Description     string   `required:"" help:"One-line description shown in the catalog."`
	Size            string   `enum:"small,medium,large" default:"medium" help:"Packing size class."`
	Category        string   `default:"custom" help:"Widget category (analytics, sales, etc.)."`
	ManifestPath    string   `name:"manifest" required:"" type:"path" help:"Manifest YAML file to create or update."`
	SchemaPath      string   `name:"schema" type:"path" help:"Optional JSON schema file for the widget configuration."`
	Layout          bool     `help:"Also seed the widget in the manifest layout."`
	Tag             []string `help:"Tags to record in the manifest."`
	Maintainer      []string `help:"Maintainers to record in the manifest."`
	Capabilities    []string `help:"Provider capability labels (html,json,...)."`
	ProviderPackage string   `default:"github.com/goliatone/go-sales-dashboard/components/dashboard" help:"Go package where the provider factory lives."`
	ProviderOut     string   `help:"Provider stub path (defaults to components/dashboard/provider_<code>.go)."`
	Overwrite       bool     `help:"Replace an existing manifest entry or provider stub."`
	SkipProvider    bool     `name:"skip-provider" help:"Skip provider stub generation."`
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	return cmd.run(os.Stdout)
}

func (cmd *scaffoldCmd) run(out io.Writer) error {
	code := dashboard.NormalizeWidgetType(cmd.Code)
	if code == "" || code == dashboard.WidgetStat {
		return fmt.Errorf("salesdash: %q is not a valid widget code", cmd.Code)
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("salesdash: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	providerType := strcase.ToPascal(string(code)) + "Provider"
	entry := dashboard.ManifestWidget{
		Definition: dashboard.WidgetDefinition{
			Code:        code,
			Name:        cmd.Name,
			Description: cmd.Description,
			Size:        dashboard.SizeClass(cmd.Size),
			Category:    cmd.Category,
			Addable:     true,
			Schema:      schema,
		},
		Provider: dashboard.ManifestProvider{
			Name:         cmd.Name + " Provider",
			Summary:      cmd.Description,
			Entry:        fmt.Sprintf("%s.New%s", cmd.ProviderPackage, providerType),
			Package:      cmd.ProviderPackage,
			Capabilities: cmd.Capabilities,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	idx := slices.IndexFunc(doc.Widgets, func(w dashboard.ManifestWidget) bool { return w.Definition.Code == code })
	switch {
	case idx >= 0 && !cmd.Overwrite:
		return fmt.Errorf("salesdash: manifest already defines widget %s (use --overwrite to replace)", code)
	case idx >= 0:
		doc.Widgets[idx] = entry
	default:
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.Code < doc.Widgets[j].Definition.Code
	})
	if cmd.Layout && !slices.Contains(doc.Layout, code) {
		doc.Layout = append(doc.Layout, code)
	}
	if err := dashboard.WriteManifestFile(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipProvider {
		fmt.Fprintf(out, "✓ Added %s to %s\n", code, manifestPath)
		return nil
	}
	providerPath := cmd.ProviderOut
	if providerPath == "" {
		providerPath = filepath.Join("components", "dashboard", "provider_"+strcase.ToSnake(string(code))+".go")
	}
	if err := writeProviderStub(providerPath, providerType, code, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added %s to %s and generated %s\n", code, manifestPath, providerPath)
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("salesdash: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("salesdash: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("salesdash: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeProviderStub(path, providerType string, code dashboard.WidgetType, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("salesdash: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("salesdash: mkdir provider dir: %w", err)
	}
	content := fmt.Sprintf(`package dashboard

import "context"

// %[1]s builds the %[2]s card payload from the current snapshot.
type %[1]s struct{}

// New%[1]s returns the provider for registration.
func New%[1]s() Provider {
	return &%[1]s{}
}

func (p *%[1]s) Fetch(_ context.Context, meta WidgetContext) (WidgetData, error) {
	if meta.Snapshot == nil {
		return WidgetData{}, nil
	}
	return WidgetData{
		"generated_at": meta.Snapshot.GeneratedAt,
	}, nil
}
`, providerType, code)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("salesdash: write provider stub: %w", err)
	}
	return nil
}
