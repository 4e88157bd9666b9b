package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dodge/internal/modules/gaze/domain"
	gazeout "dodge/internal/modules/gaze/port/out"
)

const manifestFile = "plugins.json"

type FileManifestStore struct {
	pluginDir string
	path      string
}

// NewFileManifestStore reads <pluginDir>/plugins.json. Relative binaries
// resolve against pluginDir.
func NewFileManifestStore(pluginDir string) gazeout.ManifestStore {
	return &FileManifestStore{pluginDir: pluginDir, path: filepath.Join(pluginDir, manifestFile)}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read plugin manifest store: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode plugin manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.pluginDir, manifests[i].Binary))
		}
	}
	return manifests, nil
}
