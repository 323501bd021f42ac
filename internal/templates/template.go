package templates

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jask/packagebuilder/internal/tracker"
)

// ErrUnknownType is returned when no template exists for a package type.
var ErrUnknownType = errors.New("unknown package type")

// ErrInvalidTemplate is returned when a definition fails validation.
var ErrInvalidTemplate = errors.New("invalid template")

// Ranks lists the enlisted grades offered by applicant forms.
var Ranks = []string{
	"Pvt", "PFC", "LCpl", "Cpl", "Sgt", "SSgt", "GySgt", "MSgt", "1stSgt", "MGySgt", "SgtMaj",
}

// Template is the static definition of a package type.
type Template struct {
	ID               string             `yaml:"id"`
	Order            int                `yaml:"order"`
	Name             string             `yaml:"name"`
	ShortName        string             `yaml:"short_name"`
	Icon             string             `yaml:"icon"`
	Description      string             `yaml:"description"`
	Reference        string             `yaml:"reference"`
	ReferenceURL     string             `yaml:"reference_url"`
	Eligibility      []Requirement      `yaml:"eligibility"`
	Fields           []Field            `yaml:"fields"`
	Phases           []tracker.Phase    `yaml:"phases"`
	Routing          []RoutingTemplate  `yaml:"routing"`
	WaiverCategories []WaiverCategory   `yaml:"waiver_categories"`
	Documents        []DocumentTemplate `yaml:"documents"`
}

// Requirement is one eligibility line shown before starting a package.
type Requirement struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Field is a type-specific applicant detail stored in Package.Details.
type Field struct {
	Key         string `yaml:"key"`
	Label       string `yaml:"label"`
	Placeholder string `yaml:"placeholder"`
}

type RoutingTemplate struct {
	Level       string `yaml:"level"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
	Format      string `yaml:"format"`
}

type WaiverCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// FormatSpec describes document formatting rules.
type FormatSpec struct {
	Font    string `yaml:"font"`
	Margins string `yaml:"margins"`
	Spacing string `yaml:"spacing"`
}

// DocumentTemplate is a checklist entry before it is cloned into a package.
// Guidance fields stay on the template and are looked up by document id.
type DocumentTemplate struct {
	ID                  int         `yaml:"id"`
	Category            string      `yaml:"category"`
	Name                string      `yaml:"name"`
	Description         string      `yaml:"description"`
	Required            bool        `yaml:"required"`
	ConditionalRequired string      `yaml:"conditional_required"`
	Phase               int         `yaml:"phase"`
	FormID              string      `yaml:"form_id"`
	FormURL             string      `yaml:"form_url"`
	Reference           string      `yaml:"reference"`
	ReferenceURL        string      `yaml:"reference_url"`
	SystemURL           string      `yaml:"system_url"`
	Instructions        []string    `yaml:"instructions"`
	Format              *FormatSpec `yaml:"format"`
	Tips                []string    `yaml:"tips"`
}

// ComingSoon describes a package type that is listed but not yet buildable.
type ComingSoon struct {
	ID        string
	Name      string
	ShortName string
	Reference string
}

// ParseTemplate decodes and validates one YAML definition.
func ParseTemplate(data []byte) (Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Template{}, fmt.Errorf("templates: definition is empty: %w", ErrInvalidTemplate)
	}
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("templates: decode definition: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

// Validate checks the structural rules every template must satisfy.
func (t Template) Validate() error {
	if t.ID == "" || t.Name == "" {
		return fmt.Errorf("templates: id and name are required: %w", ErrInvalidTemplate)
	}
	if len(t.Routing) == 0 {
		return fmt.Errorf("templates: %s has no routing steps: %w", t.ID, ErrInvalidTemplate)
	}
	seen := make(map[int]bool, len(t.Documents))
	for _, d := range t.Documents {
		if d.Name == "" {
			return fmt.Errorf("templates: %s document %d has no name: %w", t.ID, d.ID, ErrInvalidTemplate)
		}
		if seen[d.ID] {
			return fmt.Errorf("templates: %s duplicate document id %d: %w", t.ID, d.ID, ErrInvalidTemplate)
		}
		seen[d.ID] = true
	}
	phaseIDs := make(map[int]bool, len(t.Phases))
	for _, ph := range t.Phases {
		if phaseIDs[ph.ID] {
			return fmt.Errorf("templates: %s duplicate phase id %d: %w", t.ID, ph.ID, ErrInvalidTemplate)
		}
		phaseIDs[ph.ID] = true
		for _, id := range ph.Documents {
			if !seen[id] {
				return fmt.Errorf("templates: %s phase %d references unknown document %d: %w", t.ID, ph.ID, id, ErrInvalidTemplate)
			}
		}
	}
	fieldKeys := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.Key == "" || fieldKeys[f.Key] {
			return fmt.Errorf("templates: %s field key %q empty or repeated: %w", t.ID, f.Key, ErrInvalidTemplate)
		}
		fieldKeys[f.Key] = true
	}
	return nil
}

// DocumentGuide returns the template entry for a document id.
func (t Template) DocumentGuide(id int) (DocumentTemplate, bool) {
	for _, d := range t.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return DocumentTemplate{}, false
}

// WaiverCategory looks up a waiver category by id.
func (t Template) WaiverCategory(id string) (WaiverCategory, bool) {
	for _, c := range t.WaiverCategories {
		if c.ID == id {
			return c, true
		}
	}
	return WaiverCategory{}, false
}

// Phase returns the phase with id.
func (t Template) Phase(id int) (tracker.Phase, bool) {
	for _, ph := range t.Phases {
		if ph.ID == id {
			return ph, true
		}
	}
	return tracker.Phase{}, false
}
