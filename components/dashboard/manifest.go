package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// WidgetManifestDocument models a YAML/JSON manifest that extends or
// overrides the widget catalog.
type WidgetManifestDocument struct {
	Version  string           `json:"version" yaml:"version"`
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string           `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage string           `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Widgets  []ManifestWidget `json:"widgets" yaml:"widgets"`
	// Layout lists the widget types seeded on a fresh dashboard, in order.
	Layout []WidgetType `json:"layout,omitempty" yaml:"layout,omitempty"`
	Source string       `json:"-" yaml:"-"`
}

// ManifestWidget describes a single widget entry within a manifest.
type ManifestWidget struct {
	Definition  WidgetDefinition `json:"definition" yaml:"definition"`
	Provider    ManifestProvider `json:"provider,omitempty" yaml:"provider,omitempty"`
	Maintainers []string         `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestProvider captures discovery metadata about a provider implementation.
type ManifestProvider struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary      string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Entry        string   `json:"entry,omitempty" yaml:"entry,omitempty"`
	Package      string   `json:"package,omitempty" yaml:"package,omitempty"`
	DocsURL      string   `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Channel      string   `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions and provider metadata from a
// decoded manifest. Redefined built-ins keep their schema when the manifest
// omits one.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, widget := range doc.Widgets {
		def := widget.Definition
		if existing, ok := r.Definition(def.Code); ok && def.Schema == nil {
			def.Schema = existing.Schema
		}
		if err := r.RegisterDefinition(def); err != nil {
			return fmt.Errorf("dashboard: register widget %s from %s: %w", def.Code, doc.Source, err)
		}
		r.recordProviderMetadata(def.Code, widget.Provider)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a YAML (or JSON) manifest. Codes are normalised to
// kebab case before validation.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc WidgetManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes doc as YAML with two space indentation.
func EncodeManifest(w io.Writer, doc *WidgetManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return encoder.Close()
}

// WriteManifestFile validates doc and writes it to path, creating parent
// directories as needed.
func WriteManifestFile(path string, doc *WidgetManifestDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashboard: mkdir %s: %w", filepath.Dir(path), err)
	}
	var buf bytes.Buffer
	if err := EncodeManifest(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("dashboard: write manifest %s: %w", path, err)
	}
	return nil
}

// Validate ensures the manifest satisfies required fields and that its
// layout only seeds cards the manifest or the built-in catalog define.
func (doc *WidgetManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	known := make(map[WidgetType]struct{}, len(doc.Widgets)+len(defaultWidgetDefinitions))
	for _, def := range defaultWidgetDefinitions {
		known[def.Code] = struct{}{}
	}
	seen := make(map[WidgetType]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		def := widget.Definition
		if def.Code == "" {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing definition.code", idx)
		}
		if def.Name == "" {
			return fmt.Errorf("dashboard: manifest widget %s missing definition.name", def.Code)
		}
		switch def.Size {
		case "", SizeSmall, SizeMedium, SizeLarge:
		default:
			return fmt.Errorf("dashboard: manifest widget %s has unsupported size %q", def.Code, def.Size)
		}
		if _, exists := seen[def.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget code %s", def.Code)
		}
		seen[def.Code] = struct{}{}
		known[def.Code] = struct{}{}
	}
	for _, code := range doc.Layout {
		if code == WidgetStat {
			return fmt.Errorf("dashboard: manifest layout cannot seed stat widgets")
		}
		if _, ok := known[code]; !ok {
			return fmt.Errorf("dashboard: manifest layout references unknown widget %s", code)
		}
	}
	return nil
}

// LayoutTypes returns the seeded layout, falling back to the default catalog order.
func (doc *WidgetManifestDocument) LayoutTypes() []WidgetType {
	if doc == nil || len(doc.Layout) == 0 {
		return DefaultLayout()
	}
	return append([]WidgetType(nil), doc.Layout...)
}

func (doc *WidgetManifestDocument) normalize() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Widgets {
		doc.Widgets[i].Definition.Code = NormalizeWidgetType(string(doc.Widgets[i].Definition.Code))
	}
	for i, code := range doc.Layout {
		doc.Layout[i] = NormalizeWidgetType(string(code))
	}
}

func (p ManifestProvider) isZero() bool {
	return p.Name == "" &&
		p.Summary == "" &&
		p.Entry == "" &&
		p.Package == "" &&
		p.DocsURL == "" &&
		len(p.Capabilities) == 0 &&
		p.Channel == ""
}
