package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (p *Package) documentIndex(id int) (int, error) {
	for i := range p.Documents {
		if p.Documents[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("document %d: %w", id, ErrDocumentNotFound)
}

func (p *Package) stepIndex(id int) (int, error) {
	for i := range p.Routing {
		if p.Routing[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("step %d: %w", id, ErrStepNotFound)
}

// Document returns a copy of the document with id.
func (p *Package) Document(id int) (Document, error) {
	i, err := p.documentIndex(id)
	if err != nil {
		return Document{}, err
	}
	return p.Documents[i], nil
}

// Step returns a copy of the routing step with id.
func (p *Package) Step(id int) (RoutingStep, error) {
	i, err := p.stepIndex(id)
	if err != nil {
		return RoutingStep{}, err
	}
	return p.Routing[i], nil
}

// DocumentUpdate carries the editable fields of a checklist entry.
type DocumentUpdate struct {
	Status        DocStatus
	Notes         string
	DateCompleted *time.Time
}

// SetDocument applies an edit. Any status may follow any other.
func (p *Package) SetDocument(id int, u DocumentUpdate) error {
	if !u.Status.Valid() {
		return fmt.Errorf("document status %q: %w", u.Status, ErrInvalidStatus)
	}
	i, err := p.documentIndex(id)
	if err != nil {
		return err
	}
	d := &p.Documents[i]
	d.Status = u.Status
	d.Notes = u.Notes
	d.DateCompleted = cloneTime(u.DateCompleted)
	return nil
}

// ToggleDocument flips between complete and incomplete.
func (p *Package) ToggleDocument(id int, now time.Time) error {
	i, err := p.documentIndex(id)
	if err != nil {
		return err
	}
	d := &p.Documents[i]
	if d.Status == DocComplete {
		d.Status = DocIncomplete
		d.DateCompleted = nil
		return nil
	}
	stamp := now.UTC()
	d.Status = DocComplete
	d.DateCompleted = &stamp
	return nil
}

// StepUpdate carries the editable fields of a routing step.
type StepUpdate struct {
	Name       string
	Status     StepStatus
	Date       *time.Time
	Recommends *bool
}

// SetStep applies an edit. Steps are independent of each other.
func (p *Package) SetStep(id int, u StepUpdate) error {
	status := u.Status
	if status == "" {
		status = StepPending
	}
	if !status.Valid() {
		return fmt.Errorf("step status %q: %w", u.Status, ErrInvalidStatus)
	}
	i, err := p.stepIndex(id)
	if err != nil {
		return err
	}
	s := &p.Routing[i]
	s.Name = u.Name
	s.Status = status
	s.Date = cloneTime(u.Date)
	if u.Recommends == nil {
		s.Recommends = nil
	} else {
		v := *u.Recommends
		s.Recommends = &v
	}
	return nil
}

// SignStep marks a step signed today.
func (p *Package) SignStep(id int, now time.Time) error {
	i, err := p.stepIndex(id)
	if err != nil {
		return err
	}
	stamp := now.UTC()
	p.Routing[i].Status = StepSigned
	p.Routing[i].Date = &stamp
	return nil
}

// UnsignStep reverts a step to pending.
func (p *Package) UnsignStep(id int) error {
	i, err := p.stepIndex(id)
	if err != nil {
		return err
	}
	p.Routing[i].Status = StepPending
	p.Routing[i].Date = nil
	return nil
}

// AddWaiver records a new waiver request and returns it.
func (p *Package) AddWaiver(category, typeName, reason string, now time.Time) Waiver {
	w := Waiver{
		ID:        uuid.NewString(),
		Category:  strings.TrimSpace(category),
		Type:      strings.TrimSpace(typeName),
		Reason:    strings.TrimSpace(reason),
		Status:    WaiverRequested,
		Requested: now.UTC(),
	}
	p.Waivers = append(p.Waivers, w)
	return w
}

// RemoveWaiver deletes a waiver by id.
func (p *Package) RemoveWaiver(id string) error {
	for i := range p.Waivers {
		if p.Waivers[i].ID == id {
			p.Waivers = append(p.Waivers[:i], p.Waivers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("waiver %s: %w", id, ErrWaiverNotFound)
}

// SetWaiverStatus updates the decision on a waiver.
func (p *Package) SetWaiverStatus(id string, status WaiverStatus) error {
	if !status.Valid() {
		return fmt.Errorf("waiver status %q: %w", status, ErrInvalidStatus)
	}
	for i := range p.Waivers {
		if p.Waivers[i].ID == id {
			p.Waivers[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("waiver %s: %w", id, ErrWaiverNotFound)
}

// SetStatus moves the package through its lifecycle.
func (p *Package) SetStatus(status PackageStatus) error {
	if !status.Valid() {
		return fmt.Errorf("package status %q: %w", status, ErrInvalidStatus)
	}
	p.Status = status
	return nil
}
