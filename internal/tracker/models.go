package tracker

import (
	"errors"
	"time"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrStepNotFound     = errors.New("routing step not found")
	ErrWaiverNotFound   = errors.New("waiver not found")
	ErrInvalidStatus    = errors.New("invalid status")
)

// PackageStatus is the overall lifecycle state of a package.
type PackageStatus string

const (
	PackageNotStarted  PackageStatus = "not_started"
	PackageInProgress  PackageStatus = "in_progress"
	PackageSubmitted   PackageStatus = "submitted"
	PackageSelected    PackageStatus = "selected"
	PackageNotSelected PackageStatus = "not_selected"
)

// PackageStatuses lists statuses in lifecycle order.
var PackageStatuses = []PackageStatus{
	PackageNotStarted, PackageInProgress, PackageSubmitted, PackageSelected, PackageNotSelected,
}

func (s PackageStatus) Valid() bool {
	for _, v := range PackageStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Finalized reports whether the package has left the applicant's hands.
func (s PackageStatus) Finalized() bool {
	return s == PackageSubmitted || s == PackageSelected || s == PackageNotSelected
}

// DocStatus is the checklist state of one document.
type DocStatus string

const (
	DocIncomplete   DocStatus = "incomplete"
	DocComplete     DocStatus = "complete"
	DocNA           DocStatus = "na"
	DocWaiverNeeded DocStatus = "waiver_needed"
)

// DocStatuses lists document statuses in display order.
var DocStatuses = []DocStatus{DocIncomplete, DocComplete, DocNA, DocWaiverNeeded}

func (s DocStatus) Valid() bool {
	for _, v := range DocStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Done reports whether the status satisfies a requirement.
func (s DocStatus) Done() bool { return s == DocComplete || s == DocNA }

func (s DocStatus) Label() string {
	switch s {
	case DocComplete:
		return "Complete"
	case DocIncomplete:
		return "Incomplete"
	case DocNA:
		return "N/A"
	case DocWaiverNeeded:
		return "Waiver Needed"
	default:
		return "Unknown"
	}
}

// Symbol is the checkbox used on printed checklists.
func (s DocStatus) Symbol() string {
	switch s {
	case DocComplete:
		return "[X]"
	case DocNA:
		return "[--]"
	case DocWaiverNeeded:
		return "[!]"
	default:
		return "[ ]"
	}
}

// StepStatus is the state of one endorsement.
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepSigned   StepStatus = "signed"
	StepReturned StepStatus = "returned"
)

var StepStatuses = []StepStatus{StepPending, StepSigned, StepReturned}

func (s StepStatus) Valid() bool {
	for _, v := range StepStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// WaiverStatus tracks a waiver request.
type WaiverStatus string

const (
	WaiverRequested WaiverStatus = "requested"
	WaiverApproved  WaiverStatus = "approved"
	WaiverDenied    WaiverStatus = "denied"
)

var WaiverStatuses = []WaiverStatus{WaiverRequested, WaiverApproved, WaiverDenied}

func (s WaiverStatus) Valid() bool {
	for _, v := range WaiverStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Applicant holds the person the package is built for.
type Applicant struct {
	Name  string `json:"name"`
	Rank  string `json:"rank"`
	EDIPI string `json:"edipi"`
	MOS   string `json:"mos"`
	Unit  string `json:"unit"`
	Sex   string `json:"sex,omitempty"`
}

// DisplayName is "Rank Name", or "" when no name is set.
func (a Applicant) DisplayName() string {
	if a.Name == "" {
		return ""
	}
	if a.Rank == "" {
		return a.Name
	}
	return a.Rank + " " + a.Name
}

// Package is one applicant's application bundle.
type Package struct {
	ID           string            `json:"id"`
	Type         string            `json:"packageType"`
	TypeName     string            `json:"packageName"`
	Applicant    Applicant         `json:"applicant"`
	Details      map[string]string `json:"details,omitempty"`
	Deadline     *time.Time        `json:"deadline,omitempty"`
	CurrentPhase int               `json:"currentPhase"`
	Documents    []Document        `json:"documents"`
	Routing      []RoutingStep     `json:"routing"`
	Waivers      []Waiver          `json:"waivers"`
	Created      time.Time         `json:"created"`
	LastUpdated  time.Time         `json:"lastUpdated"`
	Status       PackageStatus     `json:"status"`
}

// Document is one checklist entry cloned from a template.
type Document struct {
	ID                  int        `json:"id"`
	Category            string     `json:"category"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Required            bool       `json:"required"`
	ConditionalRequired string     `json:"conditionalRequired,omitempty"`
	Phase               int        `json:"phase,omitempty"`
	Reference           string     `json:"reference,omitempty"`
	Status              DocStatus  `json:"status"`
	Notes               string     `json:"notes"`
	DateCompleted       *time.Time `json:"dateCompleted"`
}

// RoutingStep is one endorsement in the chain.
type RoutingStep struct {
	ID          int        `json:"id"`
	Level       string     `json:"level"`
	Description string     `json:"description,omitempty"`
	Format      string     `json:"format,omitempty"`
	Required    bool       `json:"required"`
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	Date        *time.Time `json:"date"`
	Recommends  *bool      `json:"recommends"`
}

// RecommendsLabel renders the tri-state recommendation.
func (s RoutingStep) RecommendsLabel() string {
	switch {
	case s.Recommends == nil:
		return ""
	case *s.Recommends:
		return "Recommends"
	default:
		return "Does not recommend"
	}
}

// Waiver is a recorded exception request.
type Waiver struct {
	ID        string       `json:"id"`
	Category  string       `json:"category"`
	Type      string       `json:"type"`
	Reason    string       `json:"reason"`
	Status    WaiverStatus `json:"status"`
	Requested time.Time    `json:"requested"`
}

// Detail returns a type-specific field value.
func (p *Package) Detail(key string) string {
	if p == nil || p.Details == nil {
		return ""
	}
	return p.Details[key]
}

// Touch stamps LastUpdated.
func (p *Package) Touch(now time.Time) {
	p.LastUpdated = now.UTC()
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (p *Package) Clone() *Package {
	if p == nil {
		return nil
	}
	out := *p
	if p.Details != nil {
		out.Details = make(map[string]string, len(p.Details))
		for k, v := range p.Details {
			out.Details[k] = v
		}
	}
	out.Deadline = cloneTime(p.Deadline)
	out.Documents = make([]Document, len(p.Documents))
	for i, d := range p.Documents {
		d.DateCompleted = cloneTime(d.DateCompleted)
		out.Documents[i] = d
	}
	out.Routing = make([]RoutingStep, len(p.Routing))
	for i, s := range p.Routing {
		s.Date = cloneTime(s.Date)
		if s.Recommends != nil {
			v := *s.Recommends
			s.Recommends = &v
		}
		out.Routing[i] = s
	}
	out.Waivers = append([]Waiver(nil), p.Waivers...)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
