// Package backup reads and writes portable JSON snapshots of saved packages.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jask/packagebuilder/internal/tracker"
)

// Version is the snapshot format written by Save.
const Version = 1

var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Snapshot is the on-disk layout.
type Snapshot struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	Packages   []*tracker.Package `json:"packages"`
}

// Save writes pkgs to path atomically.
func Save(path string, pkgs []*tracker.Package, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("backup: mkdir: %w", err)
	}
	data, err := json.MarshalIndent(Snapshot{Version: Version, ExportedAt: now.UTC(), Packages: pkgs}, "", "  ")
	if err != nil {
		return fmt.Errorf("backup: encode: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("backup: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("backup: rename: %w", err)
	}
	return nil
}

// Load reads a snapshot. Packages without an id are dropped.
func Load(path string) ([]*tracker.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backup: read: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("backup: decode: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("backup: version %d: %w", snap.Version, ErrUnsupportedVersion)
	}
	out := make([]*tracker.Package, 0, len(snap.Packages))
	for _, p := range snap.Packages {
		if p == nil || strings.TrimSpace(p.ID) == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
