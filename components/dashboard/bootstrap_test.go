package dashboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

func TestBootstrapAppliesManifestLayout(t *testing.T) {
	snapshot := demoSnapshot(fixedNow)
	svc, err := Bootstrap(context.Background(), BootstrapOptions{
		Options: Options{
			DataProvider: staticProvider(snapshot),
			Now:          func() time.Time { return fixedNow },
		},
		Manifests: []string{filepath.Join("..", "..", "docs", "manifests", "sales-pack.yaml")},
	})
	if err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}
	state := svc.State()
	if state.Status != StatusReady {
		t.Fatalf("expected ready status, got %s", state.Status)
	}
	ids := widgetIDs(state)
	if ids[len(ids)-1] != "customer-insights-1" {
		t.Fatalf("expected manifest layout to seed customer insights, got %v", ids)
	}
}

func TestBootstrapReturnsServiceOnRefreshFailure(t *testing.T) {
	boom := errors.New("upstream down")
	svc, err := Bootstrap(context.Background(), BootstrapOptions{
		Options: Options{
			DataProvider: DataProviderFunc(func(context.Context) (aggregate.Snapshot, error) {
				return aggregate.Snapshot{}, boom
			}),
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if svc == nil || svc.State().Status != StatusError {
		t.Fatalf("expected service in error state")
	}
}

func TestLoadManifestsJoinsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("version: 9\nwidgets: []\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	layout, err := LoadManifests(NewRegistry(), bad, filepath.Join(dir, "missing.yaml"))
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if layout != nil {
		t.Fatalf("expected no layout, got %v", layout)
	}
}

func TestBootstrapSkipRefresh(t *testing.T) {
	svc, err := Bootstrap(context.Background(), BootstrapOptions{SkipRefresh: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.State().Status != StatusIdle {
		t.Fatalf("expected idle service")
	}
}
