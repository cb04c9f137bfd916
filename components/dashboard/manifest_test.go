package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: 1
name: marketing-pack
widgets:
  - definition:
      code: campaign-roi
      name: Campaign ROI
      description: Return on ad spend per campaign.
      size: medium
      category: marketing
      addable: true
      schema:
        type: object
        properties:
          range:
            type: string
    provider:
      name: Campaign Provider
      summary: Calls the ads reporting API.
      entry: github.com/example/marketing.Provider
      package: github.com/example/marketing
      docs_url: https://example.com/widgets/roi
      capabilities: ["html","json"]
layout: [campaign-roi, orders-table]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)

	widget := doc.Widgets[0]
	assert.Equal(t, WidgetType("campaign-roi"), widget.Definition.Code)
	assert.Equal(t, "Campaign ROI", widget.Definition.Name)
	assert.Equal(t, SizeMedium, widget.Definition.Size)
	assert.True(t, widget.Definition.Addable)
	assert.Equal(t, "Campaign Provider", widget.Provider.Name)
	assert.Equal(t, []WidgetType{"campaign-roi", WidgetOrdersTable}, doc.LayoutTypes())
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc := &WidgetManifestDocument{
		Version: manifestVersionV1,
		Widgets: []ManifestWidget{
			{
				Definition: WidgetDefinition{Code: "inventory", Name: "Inventory", Size: SizeSmall, Addable: true},
				Provider: ManifestProvider{
					Name:  "Inventory Provider",
					Entry: "github.com/acme/widgets.NewInventoryProvider",
				},
			},
			{
				Definition: WidgetDefinition{Code: WidgetTopProducts, Name: "Best Sellers", Size: SizeMedium, Addable: true},
			},
		},
	}
	reg := NewRegistry()
	require.NoError(t, reg.LoadManifestDocument(doc))

	def, ok := reg.Definition("inventory")
	require.True(t, ok)
	assert.Equal(t, "Inventory", def.Name)

	meta, ok := reg.ProviderMetadata("inventory")
	require.True(t, ok)
	assert.Equal(t, "github.com/acme/widgets.NewInventoryProvider", meta.Entry)

	top, ok := reg.Definition(WidgetTopProducts)
	require.True(t, ok)
	assert.Equal(t, "Best Sellers", top.Name)
	assert.Equal(t, SizeMedium, top.Size)
	assert.NotEmpty(t, top.Schema, "schema should survive a redefinition without one")
	_, ok = reg.Provider(WidgetTopProducts)
	assert.True(t, ok, "provider should survive a redefinition")
}

func TestManifestValidation(t *testing.T) {
	cases := map[string]string{
		"duplicates widget code": `
widgets:
  - definition: {code: dup, name: First}
  - definition: {code: dup, name: Second}
`,
		"unsupported size": `
widgets:
  - definition: {code: huge, name: Huge, size: xl}
`,
		"cannot seed stat": `
layout: [stat]
`,
		"unsupported manifest version": `
version: "2"
`,
	}
	for want, payload := range cases {
		_, err := DecodeManifest(strings.NewReader(payload))
		require.Errorf(t, err, "expected error containing %q", want)
		assert.Contains(t, err.Error(), want)
	}
}

func TestDocsManifestsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "docs", "manifests")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	codes := map[WidgetType]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := ReadManifest(path)
		require.NoErrorf(t, err, "manifest %s should parse", path)
		for _, widget := range doc.Widgets {
			if prev, exists := codes[widget.Definition.Code]; exists {
				t.Fatalf("widget code %s defined in both %s and %s", widget.Definition.Code, prev, path)
			}
			codes[widget.Definition.Code] = path
		}
		reg := NewRegistry()
		require.NoError(t, reg.LoadManifestDocument(doc))
	}
}

func TestDecodeManifestNormalizesCodes(t *testing.T) {
	const payload = `
widgets:
  - definition: {code: Campaign ROI, name: Campaign ROI, size: small}
layout: [campaignRoi, Top Products]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, WidgetType("campaign-roi"), doc.Widgets[0].Definition.Code)
	assert.Equal(t, []WidgetType{"campaign-roi", WidgetTopProducts}, doc.Layout)
}

func TestManifestLayoutRejectsUnknownWidget(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader("layout: [weather]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown widget weather")
}

func TestWriteManifestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pack.yaml")
	doc := &WidgetManifestDocument{
		Version: ManifestVersion,
		Name:    "returns-pack",
		Widgets: []ManifestWidget{{
			Definition: WidgetDefinition{Code: "returns-rate", Name: "Returns Rate", Size: SizeSmall, Addable: true},
			Tags:       []string{"ops"},
		}},
		Layout: []WidgetType{"returns-rate", WidgetRevenueChart},
	}
	require.NoError(t, WriteManifestFile(path, doc))

	read, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "returns-pack", read.Name)
	assert.Equal(t, path, read.Source)
	assert.Equal(t, doc.Layout, read.Layout)
	assert.Equal(t, []string{"ops"}, read.Widgets[0].Tags)

	doc.Layout = []WidgetType{WidgetStat}
	require.Error(t, WriteManifestFile(path, doc))
}
