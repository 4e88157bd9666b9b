package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gazeout "dodge/internal/modules/gaze/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := gazeout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	pluginDir := t.TempDir()
	raw := `[
  {
    "name": "gaze-sim",
    "version": "1.0.0",
    "binary": "gaze-sim/gaze-sim",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "capabilities": ["gaze"]
  }
]`
	if err := os.WriteFile(filepath.Join(pluginDir, "plugins.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	manifests, err := gazeout.NewFileManifestStore(pluginDir).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if want := filepath.Join(pluginDir, "gaze-sim", "gaze-sim"); manifests[0].Binary != want {
		t.Fatalf("expected %s, got %s", want, manifests[0].Binary)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	pluginDir := t.TempDir()
	raw := `[{"name": "gaze-sim", "version": "1.0.0", "binary": "/tmp/gaze-sim", "sha256": "", "enabled": true, "capabilities": ["gaze"], "unknown_field": true}]`
	if err := os.WriteFile(filepath.Join(pluginDir, "plugins.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	if _, err := gazeout.NewFileManifestStore(pluginDir).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
