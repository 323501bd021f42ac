package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/render/pdf"
	"github.com/jask/packagebuilder/internal/tracker"
)

// ExportService writes sheets as PDF files into Dir.
type ExportService struct {
	Builder render.Builder
	Dir     string
	Log     *slog.Logger
	Now     func() time.Time
}

func (s *ExportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ExportService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func (s *ExportService) Checklist(ctx context.Context, p *tracker.Package) (string, error) {
	return s.Export(ctx, p, render.KindChecklist)
}

func (s *ExportService) CoverSheet(ctx context.Context, p *tracker.Package) (string, error) {
	return s.Export(ctx, p, render.KindCoverSheet)
}

func (s *ExportService) RoutingSheet(ctx context.Context, p *tracker.Package) (string, error) {
	return s.Export(ctx, p, render.KindRouting)
}

// Export renders one sheet and returns the written path.
func (s *ExportService) Export(ctx context.Context, p *tracker.Package, kind render.Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sheet, err := s.Builder.Build(kind, p)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := pdf.Write(&buf, sheet); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("export: mkdir %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, render.Filename(p, kind, s.now()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("export: rename %s: %w", path, err)
	}
	s.logger().Info("sheet exported", "package", p.ID, "kind", kind, "path", path, "bytes", buf.Len())
	return path, nil
}

// Summary renders the cover sheet, checklist, and routing sheet concurrently.
// Paths are returned in render.Kinds order.
func (s *ExportService) Summary(ctx context.Context, p *tracker.Package) ([]string, error) {
	paths := make([]string, len(render.Kinds))
	snapshot := p.Clone()
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range render.Kinds {
		g.Go(func() error {
			path, err := s.Export(gctx, snapshot, kind)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
