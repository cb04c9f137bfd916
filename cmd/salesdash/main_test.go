package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/pkg/config"
)

func offlineApp(t *testing.T) *application {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Offline = true
	app, err := buildApplication(context.Background(), cfg, zap.NewNop(), buildOptions{})
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestBuildApplicationLoadsOfflineSnapshot(t *testing.T) {
	app := offlineApp(t)
	state := app.service.State()
	assert.Equal(t, dashboard.StatusReady, state.Status)
	_, ok := app.service.Snapshot()
	assert.True(t, ok)
}

func TestBuildApplicationRejectsUnknownSessionStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Offline = true
	cfg.Session.Store = "etcd"
	_, err := buildApplication(context.Background(), cfg, zap.NewNop(), buildOptions{SkipRefresh: true})
	require.Error(t, err)
}

func TestSnapshotCommandPrintsJSON(t *testing.T) {
	app := offlineApp(t)
	var buf bytes.Buffer
	require.NoError(t, (&snapshotCmd{}).write(context.Background(), app, &buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "statsData")
	assert.Contains(t, decoded, "generatedAt")
}

func TestExportCommandWritesFile(t *testing.T) {
	app := offlineApp(t)
	dir := t.TempDir()
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	path, err := (&exportCmd{Format: "orders", Out: dir}).write(context.Background(), app, at, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "orders_export_2026-03-14.csv"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "Order ID,Customer,Product,Amount,Status,Date"))
}

func TestExportCommandStdoutAndBadFormat(t *testing.T) {
	app := offlineApp(t)
	var buf bytes.Buffer
	path, err := (&exportCmd{Format: "json", Out: "-"}).write(context.Background(), app, time.Now(), &buf)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Contains(t, buf.String(), "exportedAt")

	_, err = (&exportCmd{Format: "docx", Out: "-"}).write(context.Background(), app, time.Now(), &buf)
	require.Error(t, err)
}

func TestWidgetsCommandListsCatalog(t *testing.T) {
	app := offlineApp(t)
	var buf bytes.Buffer
	require.NoError(t, (&widgetsCmd{}).write(context.Background(), app, &buf))
	out := buf.String()
	assert.Contains(t, out, "revenue-chart")
	assert.NotContains(t, out, "\nstat ")

	buf.Reset()
	require.NoError(t, (&widgetsCmd{All: true}).write(context.Background(), app, &buf))
	assert.Contains(t, buf.String(), "stat")
}

func TestLayoutCommandPrintsView(t *testing.T) {
	app := offlineApp(t)
	var buf bytes.Buffer
	require.NoError(t, (&layoutCmd{Viewer: "alex@shop.io", Locale: "en"}).write(context.Background(), app, &buf))

	var view dashboard.View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, dashboard.StatusReady, view.Status)
	assert.Len(t, view.Stats, 4)
	assert.Equal(t, dashboard.ThemeDark, view.Theme)
}

func TestHandlersServeLayout(t *testing.T) {
	app := offlineApp(t)
	mux := newTestMux(app)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard/_layout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stat-revenue")
}

func TestHandlersServeDashboardPage(t *testing.T) {
	app := offlineApp(t)
	mux := newTestMux(app)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Total Revenue")
	assert.Contains(t, rec.Body.String(), `action="/admin/dashboard/refresh"`)
}

func TestScaffoldCreatesManifestAndStub(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifests", "custom.yaml")
	stub := filepath.Join(dir, "provider_conversion_funnel.go")
	cmd := &scaffoldCmd{
		Code:            "Conversion Funnel",
		Name:            "Conversion Funnel",
		Description:     "Checkout drop-off by step",
		Size:            "large",
		Category:        "analytics",
		ManifestPath:    manifest,
		Layout:          true,
		ProviderPackage: "example.com/widgets",
		ProviderOut:     stub,
	}
	var out bytes.Buffer
	require.NoError(t, cmd.run(&out))
	assert.Contains(t, out.String(), "conversion-funnel")

	doc, err := dashboard.ReadManifest(manifest)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	widget := doc.Widgets[0]
	assert.Equal(t, dashboard.WidgetType("conversion-funnel"), widget.Definition.Code)
	assert.Equal(t, dashboard.SizeLarge, widget.Definition.Size)
	assert.Equal(t, "example.com/widgets.NewConversionFunnelProvider", widget.Provider.Entry)
	assert.Equal(t, []dashboard.WidgetType{"conversion-funnel"}, doc.Layout)

	source, err := os.ReadFile(stub)
	require.NoError(t, err)
	assert.Contains(t, string(source), "func NewConversionFunnelProvider() Provider")

	err = cmd.run(&out)
	require.Error(t, err, "second run without --overwrite must fail")

	cmd.Overwrite = true
	cmd.Description = "Updated"
	require.NoError(t, cmd.run(&out))
	doc, err = dashboard.ReadManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, "Updated", doc.Widgets[0].Definition.Description)
}

func TestScaffoldRejectsStatCode(t *testing.T) {
	cmd := &scaffoldCmd{Code: "stat", Name: "Stat", Description: "x", ManifestPath: filepath.Join(t.TempDir(), "m.yaml"), SkipProvider: true}
	require.Error(t, cmd.run(&bytes.Buffer{}))
}
