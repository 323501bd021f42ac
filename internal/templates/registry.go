package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jask/packagebuilder/internal/tracker"
)

//go:embed defs/*.yaml
var builtin embed.FS

var comingSoon = []ComingSoon{
	{ID: "drill_instructor", Name: "Drill Instructor", ShortName: "DI", Reference: "MCO 1326.6"},
	{ID: "msg", Name: "Marine Security Guard", ShortName: "MSG", Reference: "MCO 5510.18A"},
	{ID: "mecep", Name: "MECEP", ShortName: "MECEP", Reference: "MCO 1560.15M"},
}

// ApplicantInfo is the form data a package is created or updated from.
type ApplicantInfo struct {
	Name     string
	Rank     string
	EDIPI    string
	MOS      string
	Unit     string
	Sex      string
	Details  map[string]string
	Deadline *time.Time
}

// Registry holds every buildable template keyed by id.
type Registry struct {
	byID  map[string]Template
	order []string
}

// LoadRegistry reads the built-in definitions and, when userDir is set,
// every *.yaml file in it. A user template with a built-in id replaces it.
// A missing userDir is not an error.
func LoadRegistry(userDir string) (*Registry, error) {
	r := &Registry{byID: map[string]Template{}}
	if err := r.loadFS(builtin, "defs"); err != nil {
		return nil, err
	}
	if userDir != "" {
		info, err := os.Stat(userDir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("templates: stat %s: %w", userDir, err)
		case !info.IsDir():
			return nil, fmt.Errorf("templates: %s is not a directory", userDir)
		default:
			if err := r.loadFS(os.DirFS(userDir), "."); err != nil {
				return nil, err
			}
		}
	}
	r.sortOrder()
	return r, nil
}

// MustRegistry returns the built-in registry and panics if it fails to load.
func MustRegistry() *Registry {
	r, err := LoadRegistry("")
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("templates: read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("templates: read %s: %w", e.Name(), err)
		}
		t, err := ParseTemplate(data)
		if err != nil {
			return fmt.Errorf("templates: %s: %w", e.Name(), err)
		}
		r.add(t)
	}
	return nil
}

func (r *Registry) add(t Template) {
	if _, ok := r.byID[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
}

func (r *Registry) sortOrder() {
	sort.SliceStable(r.order, func(i, j int) bool {
		a, b := r.byID[r.order[i]], r.byID[r.order[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})
}

// Template looks up a template by id.
func (r *Registry) Template(id string) (Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Available lists templates in display order.
func (r *Registry) Available() []Template {
	out := make([]Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ComingSoon lists package types shown as disabled.
func (r *Registry) ComingSoon() []ComingSoon {
	return append([]ComingSoon(nil), comingSoon...)
}

// CreatePackage instantiates a fresh package of typeID. Documents and
// routing are full clones of the template.
func (r *Registry) CreatePackage(typeID string, info ApplicantInfo, id string, now time.Time) (*tracker.Package, error) {
	t, ok := r.byID[typeID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", typeID, ErrUnknownType)
	}
	now = now.UTC()
	p := &tracker.Package{
		ID:       id,
		Type:     t.ID,
		TypeName: t.Name,
		Applicant: tracker.Applicant{
			Name:  strings.TrimSpace(info.Name),
			Rank:  strings.TrimSpace(info.Rank),
			EDIPI: strings.TrimSpace(info.EDIPI),
			MOS:   strings.TrimSpace(info.MOS),
			Unit:  strings.TrimSpace(info.Unit),
			Sex:   strings.TrimSpace(info.Sex),
		},
		Details:     t.details(info.Details),
		Deadline:    info.Deadline,
		Documents:   make([]tracker.Document, 0, len(t.Documents)),
		Routing:     make([]tracker.RoutingStep, 0, len(t.Routing)),
		Waivers:     []tracker.Waiver{},
		Created:     now,
		LastUpdated: now,
		Status:      tracker.PackageInProgress,
	}
	for _, d := range t.Documents {
		p.Documents = append(p.Documents, tracker.Document{
			ID:                  d.ID,
			Category:            d.Category,
			Name:                d.Name,
			Description:         d.Description,
			Required:            d.Required,
			ConditionalRequired: d.ConditionalRequired,
			Phase:               d.Phase,
			Reference:           d.Reference,
			Status:              tracker.DocIncomplete,
		})
	}
	for i, s := range t.Routing {
		p.Routing = append(p.Routing, tracker.RoutingStep{
			ID:          i + 1,
			Level:       s.Level,
			Description: s.Description,
			Format:      s.Format,
			Required:    s.Required,
			Status:      tracker.StepPending,
		})
	}
	p.CurrentPhase = tracker.InferCurrentPhase(p, t.Phases)
	return p, nil
}

// details keeps only the keys the template declares.
func (t Template) details(in map[string]string) map[string]string {
	if len(t.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		out[f.Key] = strings.TrimSpace(in[f.Key])
	}
	return out
}

// ApplyDetails overwrites the declared detail fields of p from in.
func (t Template) ApplyDetails(p *tracker.Package, in map[string]string) {
	p.Details = t.details(in)
}

// Phases returns the phases for a package type, or nil.
func (r *Registry) Phases(typeID string) []tracker.Phase {
	return r.byID[typeID].Phases
}

// CalculateProgress derives checklist progress for p.
func (r *Registry) CalculateProgress(p *tracker.Package) tracker.Progress {
	return tracker.CalculateProgress(p)
}

// RoutingProgress derives endorsement progress for p.
func (r *Registry) RoutingProgress(p *tracker.Package) tracker.RoutingProgress {
	return tracker.CalculateRoutingProgress(p)
}

// DisplayName is the template name for p, falling back to the stored name.
func (r *Registry) DisplayName(p *tracker.Package) string {
	if t, ok := r.byID[p.Type]; ok {
		return t.Name
	}
	if p.TypeName != "" {
		return p.TypeName
	}
	return p.Type
}
