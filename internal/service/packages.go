package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jask/packagebuilder/internal/storage"
	"github.com/jask/packagebuilder/internal/templates"
	"github.com/jask/packagebuilder/internal/tracker"
)

var (
	ErrPackageNotFound      = storage.ErrPackageNotFound
	ErrNameRequired         = errors.New("applicant name is required")
	ErrUnknownWaiverType    = errors.New("unknown waiver category")
	ErrWaiverReasonRequired = errors.New("waiver reason is required")
)

// PackageService runs every edit as load, mutate, recompute, persist.
type PackageService struct {
	Store    *storage.Storage
	Registry *templates.Registry
	Log      *slog.Logger
	Now      func() time.Time
}

// Summary is a saved package with its derived progress, for listings.
type Summary struct {
	Package  *tracker.Package
	Progress tracker.Progress
	Routing  tracker.RoutingProgress
}

// Stats are the four dashboard counters.
type Stats struct {
	Complete   int
	Needed     int
	Waivers    int
	Signatures int
}

func (s *PackageService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *PackageService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// Create instantiates a package of typeID and persists it.
func (s *PackageService) Create(ctx context.Context, typeID string, info templates.ApplicantInfo) (*tracker.Package, error) {
	if strings.TrimSpace(info.Name) == "" {
		return nil, ErrNameRequired
	}
	p, err := s.Registry.CreatePackage(typeID, info, storage.GeneratePackageID(), s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.SavePackage(ctx, p); err != nil {
		return nil, err
	}
	s.logger().Info("package created", "id", p.ID, "type", p.Type)
	return p, nil
}

// Get loads one package.
func (s *PackageService) Get(ctx context.Context, id string) (*tracker.Package, error) {
	return s.Store.LoadPackage(ctx, id)
}

// List returns every package with progress, most recently updated first.
func (s *PackageService) List(ctx context.Context) ([]Summary, error) {
	pkgs, err := s.Store.AllPackages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, Summary{
			Package:  p,
			Progress: tracker.CalculateProgress(p),
			Routing:  tracker.CalculateRoutingProgress(p),
		})
	}
	return out, nil
}

// Delete removes a package. Deleting a missing package is not an error.
func (s *PackageService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Remove(ctx, id); err != nil {
		return err
	}
	s.logger().Info("package deleted", "id", id)
	return nil
}

func (s *PackageService) mutate(ctx context.Context, id, op string, fn func(p *tracker.Package, now time.Time) error) (*tracker.Package, error) {
	p, err := s.Store.LoadPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := fn(p, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Touch(now)
	p.CurrentPhase = tracker.InferCurrentPhase(p, s.Registry.Phases(p.Type))
	if _, err := s.Store.SavePackage(ctx, p); err != nil {
		return nil, err
	}
	s.logger().Debug("package updated", "id", id, "op", op)
	return p, nil
}

// UpdateApplicant replaces the applicant block, deadline, and detail fields.
func (s *PackageService) UpdateApplicant(ctx context.Context, id string, info templates.ApplicantInfo) (*tracker.Package, error) {
	if strings.TrimSpace(info.Name) == "" {
		return nil, ErrNameRequired
	}
	return s.mutate(ctx, id, "update applicant", func(p *tracker.Package, _ time.Time) error {
		p.Applicant = tracker.Applicant{
			Name:  strings.TrimSpace(info.Name),
			Rank:  strings.TrimSpace(info.Rank),
			EDIPI: strings.TrimSpace(info.EDIPI),
			MOS:   strings.TrimSpace(info.MOS),
			Unit:  strings.TrimSpace(info.Unit),
			Sex:   strings.TrimSpace(info.Sex),
		}
		p.Deadline = info.Deadline
		if t, ok := s.Registry.Template(p.Type); ok {
			t.ApplyDetails(p, info.Details)
		}
		return nil
	})
}

func (s *PackageService) UpdateDocument(ctx context.Context, id string, docID int, u tracker.DocumentUpdate) (*tracker.Package, error) {
	return s.mutate(ctx, id, "update document", func(p *tracker.Package, _ time.Time) error {
		return p.SetDocument(docID, u)
	})
}

func (s *PackageService) ToggleDocument(ctx context.Context, id string, docID int) (*tracker.Package, error) {
	return s.mutate(ctx, id, "toggle document", func(p *tracker.Package, now time.Time) error {
		return p.ToggleDocument(docID, now)
	})
}

func (s *PackageService) UpdateStep(ctx context.Context, id string, stepID int, u tracker.StepUpdate) (*tracker.Package, error) {
	return s.mutate(ctx, id, "update step", func(p *tracker.Package, _ time.Time) error {
		return p.SetStep(stepID, u)
	})
}

func (s *PackageService) SignStep(ctx context.Context, id string, stepID int) (*tracker.Package, error) {
	return s.mutate(ctx, id, "sign step", func(p *tracker.Package, now time.Time) error {
		return p.SignStep(stepID, now)
	})
}

func (s *PackageService) UnsignStep(ctx context.Context, id string, stepID int) (*tracker.Package, error) {
	return s.mutate(ctx, id, "unsign step", func(p *tracker.Package, _ time.Time) error {
		return p.UnsignStep(stepID)
	})
}

// AddWaiver records a waiver against one of the template's waiver categories.
func (s *PackageService) AddWaiver(ctx context.Context, id, category, reason string) (*tracker.Package, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrWaiverReasonRequired
	}
	return s.mutate(ctx, id, "add waiver", func(p *tracker.Package, now time.Time) error {
		t, ok := s.Registry.Template(p.Type)
		if !ok {
			return fmt.Errorf("%s: %w", p.Type, templates.ErrUnknownType)
		}
		c, ok := t.WaiverCategory(category)
		if !ok {
			return fmt.Errorf("%s: %w", category, ErrUnknownWaiverType)
		}
		p.AddWaiver(c.ID, c.Name, reason, now)
		return nil
	})
}

func (s *PackageService) RemoveWaiver(ctx context.Context, id, waiverID string) (*tracker.Package, error) {
	return s.mutate(ctx, id, "remove waiver", func(p *tracker.Package, _ time.Time) error {
		return p.RemoveWaiver(waiverID)
	})
}

func (s *PackageService) SetWaiverStatus(ctx context.Context, id, waiverID string, status tracker.WaiverStatus) (*tracker.Package, error) {
	return s.mutate(ctx, id, "waiver status", func(p *tracker.Package, _ time.Time) error {
		return p.SetWaiverStatus(waiverID, status)
	})
}

func (s *PackageService) SetStatus(ctx context.Context, id string, status tracker.PackageStatus) (*tracker.Package, error) {
	return s.mutate(ctx, id, "package status", func(p *tracker.Package, _ time.Time) error {
		return p.SetStatus(status)
	})
}

// DashboardStats derives the dashboard counters.
func DashboardStats(p *tracker.Package) Stats {
	progress := tracker.CalculateProgress(p)
	routing := tracker.CalculateRoutingProgress(p)
	return Stats{
		Complete:   progress.Complete,
		Needed:     len(progress.Missing),
		Waivers:    len(progress.WaiverNeeded),
		Signatures: routing.Total - routing.Signed,
	}
}
