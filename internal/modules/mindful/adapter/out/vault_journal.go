package out

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dodge/internal/modules/mindful/domain"
	mindfulout "dodge/internal/modules/mindful/port/out"
	"dodge/internal/platform/markdown"
	"dodge/internal/platform/slug"
)

type journalMeta struct {
	SchemaVersion   int       `yaml:"schema_version"`
	SessionID       string    `yaml:"session_id"`
	Start           time.Time `yaml:"start"`
	End             time.Time `yaml:"end"`
	DurationSeconds float64   `yaml:"duration_seconds"`
}

// VaultJournal writes one markdown note per mindful interval under
// <root>/YYYY/MM/DD.
type VaultJournal struct {
	root string
}

func NewVaultJournal(root string) mindfulout.Journal {
	return &VaultJournal{root: root}
}

func (j *VaultJournal) Append(_ context.Context, interval domain.Interval) (string, error) {
	date := interval.Start
	dir := filepath.Join(j.root, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create mindful dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(interval.SessionID)))

	meta := journalMeta{
		SchemaVersion:   domain.SchemaVersion,
		SessionID:       interval.SessionID,
		Start:           interval.Start,
		End:             interval.End,
		DurationSeconds: interval.Duration().Seconds(),
	}
	body := fmt.Sprintf("# Mindful session\n\n- Session: %s\n- Duration: %s\n", interval.SessionID, interval.Duration().Round(time.Second))
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write mindful note: %w", err)
	}
	return path, nil
}

func (j *VaultJournal) List(_ context.Context, limit int) ([]mindfulout.Entry, error) {
	entries := []mindfulout.Entry{}
	err := filepath.WalkDir(j.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == j.root {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read mindful note: %w", err)
		}
		meta := journalMeta{}
		if _, err := markdown.SplitFrontmatter(string(raw), &meta); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if meta.SessionID == "" && meta.Start.IsZero() {
			return nil
		}
		entries = append(entries, mindfulout.Entry{
			Interval: domain.Interval{SessionID: meta.SessionID, Start: meta.Start, End: meta.End},
			Path:     path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list mindful notes: %w", err)
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].Interval.Start.After(entries[b].Interval.Start)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
