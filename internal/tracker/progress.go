package tracker

import (
	"math"
	"sort"
	"strings"
)

// Condition keys understood by Document.ConditionalRequired.
const (
	ConditionFemale = "female"
)

// Progress summarizes checklist completion. It is derived, never stored.
type Progress struct {
	Percentage   int
	Complete     int
	Required     int
	Missing      []Document
	WaiverNeeded []Document
}

// RoutingProgress summarizes the endorsement chain.
type RoutingProgress struct {
	Signed  int
	Total   int
	Pending []RoutingStep
}

// Complete reports whether every step is signed.
func (r RoutingProgress) Complete() bool { return r.Total > 0 && r.Signed == r.Total }

// IsRequired reports the effective required-ness of d for applicant a.
func IsRequired(d Document, a Applicant) bool {
	if d.Required {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(d.ConditionalRequired)) {
	case "":
		return false
	case ConditionFemale:
		return strings.EqualFold(strings.TrimSpace(a.Sex), "female") || strings.EqualFold(strings.TrimSpace(a.Sex), "f")
	default:
		return false
	}
}

// CalculateProgress derives completion from the package documents.
func CalculateProgress(p *Package) Progress {
	if p == nil || len(p.Documents) == 0 {
		return Progress{}
	}
	var out Progress
	for _, d := range p.Documents {
		if d.Status == DocWaiverNeeded {
			out.WaiverNeeded = append(out.WaiverNeeded, d)
		}
		if !IsRequired(d, p.Applicant) {
			continue
		}
		out.Required++
		if d.Status.Done() {
			out.Complete++
		}
		if d.Status == DocIncomplete {
			out.Missing = append(out.Missing, d)
		}
	}
	if out.Required > 0 {
		out.Percentage = int(math.Round(float64(out.Complete) / float64(out.Required) * 100))
	}
	return out
}

// CalculateRoutingProgress derives signature counts.
func CalculateRoutingProgress(p *Package) RoutingProgress {
	if p == nil {
		return RoutingProgress{}
	}
	out := RoutingProgress{Total: len(p.Routing)}
	for _, s := range p.Routing {
		if s.Status == StepSigned {
			out.Signed++
			continue
		}
		out.Pending = append(out.Pending, s)
	}
	return out
}

// Enclosures lists documents printed on the cover sheet, ordered by id.
func Enclosures(p *Package) []Document {
	if p == nil {
		return nil
	}
	var out []Document
	for _, d := range p.Documents {
		if d.Status == DocComplete || d.Status == DocWaiverNeeded {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CategoryGroup is a run of documents sharing a category.
type CategoryGroup struct {
	Category  string
	Documents []Document
}

// GroupByCategory groups documents preserving first-appearance order.
func GroupByCategory(docs []Document) []CategoryGroup {
	var groups []CategoryGroup
	index := map[string]int{}
	for _, d := range docs {
		cat := d.Category
		if cat == "" {
			cat = "Other"
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryGroup{Category: cat})
		}
		groups[i].Documents = append(groups[i].Documents, d)
	}
	return groups
}

// Filter selects documents by status. FilterAll keeps everything.
type Filter string

const FilterAll Filter = "all"

// Filters lists the checklist filter cycle.
var Filters = []Filter{FilterAll, Filter(DocIncomplete), Filter(DocComplete), Filter(DocNA), Filter(DocWaiverNeeded)}

func (f Filter) Label() string {
	if f == FilterAll || f == "" {
		return "All"
	}
	return DocStatus(f).Label()
}

// FilterDocuments returns the documents matching f.
func FilterDocuments(docs []Document, f Filter) []Document {
	if f == "" || f == FilterAll {
		return append([]Document(nil), docs...)
	}
	var out []Document
	for _, d := range docs {
		if d.Status == DocStatus(f) {
			out = append(out, d)
		}
	}
	return out
}
