package service

import (
	"context"
	"strings"

	"github.com/jask/packagebuilder/internal/backup"
	"github.com/jask/packagebuilder/internal/storage"
	"github.com/jask/packagebuilder/internal/tracker"
)

// Backup writes every saved package to path and returns how many were written.
func (s *PackageService) Backup(ctx context.Context, path string) (int, error) {
	pkgs, err := s.Store.AllPackages(ctx)
	if err != nil {
		return 0, err
	}
	if err := backup.Save(path, pkgs, s.now()); err != nil {
		return 0, err
	}
	s.logger().Info("packages backed up", "path", path, "count", len(pkgs))
	return len(pkgs), nil
}

// Restore loads a snapshot and saves its packages in one transaction,
// replacing packages with the same id. Packages of unknown type or with
// foreign ids are skipped.
func (s *PackageService) Restore(ctx context.Context, path string) (int, error) {
	pkgs, err := backup.Load(path)
	if err != nil {
		return 0, err
	}
	keep := make([]*tracker.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if !strings.HasPrefix(p.ID, storage.PackageKeyPrefix) {
			s.logger().Warn("skipping restored package", "id", p.ID, "reason", "foreign id")
			continue
		}
		if _, ok := s.Registry.Template(p.Type); !ok {
			s.logger().Warn("skipping restored package", "id", p.ID, "reason", "unknown type", "type", p.Type)
			continue
		}
		p.CurrentPhase = tracker.InferCurrentPhase(p, s.Registry.Phases(p.Type))
		keep = append(keep, p)
	}
	changed, err := s.Store.SavePackages(ctx, keep)
	if err != nil {
		return 0, err
	}
	s.logger().Info("packages restored", "path", path, "count", len(keep), "changed", changed)
	return len(keep), nil
}
