package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jask/packagebuilder/internal/dateutil"
	"github.com/jask/packagebuilder/internal/templates"
	"github.com/jask/packagebuilder/internal/tracker"
)

const (
	checklistLegend = "[X] Complete   [ ] Incomplete   [--] Not Applicable   [!] Waiver Required"
	certification   = "I certify that all documents in this package are complete, accurate, and current to the best of my knowledge."
)

var routingInstructions = []string{
	"Review the package for completeness and accuracy",
	"Indicate recommendation (Yes/No)",
	"Sign and date in the appropriate blocks",
	"Forward to next endorser in the chain",
}

// Builder derives sheets from a package. Progress is always recomputed.
type Builder struct {
	Registry *templates.Registry
	Now      func() time.Time
}

func (b Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b Builder) programName(p *tracker.Package) string {
	if b.Registry != nil {
		return b.Registry.DisplayName(p)
	}
	if p.TypeName != "" {
		return p.TypeName
	}
	return p.Type
}

// Build dispatches on kind.
func (b Builder) Build(kind Kind, p *tracker.Package) (Sheet, error) {
	switch kind {
	case KindChecklist:
		return b.Checklist(p), nil
	case KindCoverSheet:
		return b.CoverSheet(p), nil
	case KindRouting:
		return b.RoutingSheet(p), nil
	default:
		return Sheet{}, fmt.Errorf("render: unknown sheet %q", kind)
	}
}

// Checklist lists every document grouped by category with its checkbox.
func (b Builder) Checklist(p *tracker.Package) Sheet {
	name := b.programName(p)
	progress := tracker.CalculateProgress(p)
	s := Sheet{Kind: KindChecklist, Title: strings.ToUpper(name + " PACKAGE CHECKLIST")}
	s.add(Block{Kind: BlockTitle, Text: s.Title})
	if who := p.Applicant.DisplayName(); who != "" {
		s.add(Block{Kind: BlockText, Text: "Applicant: " + who})
	}
	s.add(Block{Kind: BlockText, Text: "Date: " + dateutil.FormatMilitary(b.now())})
	s.add(Block{Kind: BlockText, Text: fmt.Sprintf("Progress: %d%% Complete (%d/%d required docs)",
		progress.Percentage, progress.Complete, progress.Required)})
	s.add(Block{Kind: BlockRule})

	for _, g := range tracker.GroupByCategory(p.Documents) {
		s.add(Block{Kind: BlockHeading, Text: strings.ToUpper(g.Category)})
		for _, d := range g.Documents {
			item := Block{Kind: BlockItem, Text: fmt.Sprintf("%s %d. %s", d.Status.Symbol(), d.ID, d.Name)}
			if !tracker.IsRequired(d, p.Applicant) {
				item.Badge = "(Optional)"
			}
			s.add(item)
			if d.Description != "" {
				s.add(Block{Kind: BlockText, Text: d.Description, Indent: 1, Muted: true})
			}
			if d.Notes != "" {
				s.add(Block{Kind: BlockNote, Text: "Note: " + d.Notes, Indent: 1})
			}
		}
		s.add(Block{Kind: BlockSpacer})
	}

	s.add(Block{Kind: BlockText, Text: "Legend:", Bold: true})
	s.add(Block{Kind: BlockText, Text: checklistLegend})
	return s
}

// CoverSheet is the applicant summary with the enclosure list.
func (b Builder) CoverSheet(p *tracker.Package) Sheet {
	name := b.programName(p)
	s := Sheet{Kind: KindCoverSheet, Title: strings.ToUpper(name + " APPLICATION")}
	s.add(Block{Kind: BlockTitle, Text: s.Title})
	s.add(Block{Kind: BlockSubtitle, Text: "COVER SHEET"})
	s.add(Block{Kind: BlockRule})

	s.add(Block{Kind: BlockHeading, Text: "APPLICANT INFORMATION"})
	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = Blank
		}
		s.add(Block{Kind: BlockField, Label: label, Text: value})
	}
	field("Rank", p.Applicant.Rank)
	field("Name", p.Applicant.Name)
	field("EDIPI", p.Applicant.EDIPI)
	field("MOS", p.Applicant.MOS)
	field("Unit", p.Applicant.Unit)
	s.add(Block{Kind: BlockSpacer})

	s.add(Block{Kind: BlockHeading, Text: "PACKAGE INFORMATION"})
	field("Program", name)
	if b.Registry != nil {
		if t, ok := b.Registry.Template(p.Type); ok {
			for _, f := range t.Fields {
				if v := p.Detail(f.Key); v != "" {
					field(f.Label, v)
				}
			}
		}
	}
	if p.Deadline != nil {
		field("Deadline", dateutil.FormatMilitary(*p.Deadline))
	}
	field("Date Prepared", dateutil.FormatMilitary(b.now()))
	s.add(Block{Kind: BlockSpacer})

	enclosures := tracker.Enclosures(p)
	s.add(Block{Kind: BlockHeading, Text: fmt.Sprintf("ENCLOSURES (%d)", len(enclosures))})
	anyWaiver := false
	for i, d := range enclosures {
		line := fmt.Sprintf("(%d) %s", i+1, d.Name)
		if d.Status == tracker.DocWaiverNeeded {
			line += " *"
			anyWaiver = true
		}
		s.add(Block{Kind: BlockItem, Text: line})
	}
	if anyWaiver {
		s.add(Block{Kind: BlockNote, Text: "* Waiver required"})
	}

	if len(p.Waivers) > 0 {
		s.add(Block{Kind: BlockSpacer})
		s.add(Block{Kind: BlockHeading, Text: "WAIVERS REQUESTED"})
		for _, w := range p.Waivers {
			s.add(Block{Kind: BlockItem, Text: fmt.Sprintf("[ ] %s: %s", w.Type, w.Reason)})
		}
	}

	s.add(Block{Kind: BlockSpacer})
	s.add(Block{Kind: BlockHeading, Text: "CERTIFICATION"})
	s.add(Block{Kind: BlockText, Text: certification})
	s.add(Block{Kind: BlockSignatures, Lines: []string{"Applicant Signature", "Date"}})
	return s
}

// RoutingSheet is the endorsement table handed along the chain.
func (b Builder) RoutingSheet(p *tracker.Package) Sheet {
	name := b.programName(p)
	s := Sheet{Kind: KindRouting, Title: strings.ToUpper(name + " PACKAGE")}
	s.add(Block{Kind: BlockTitle, Text: s.Title})
	s.add(Block{Kind: BlockSubtitle, Text: "ROUTING SHEET"})
	s.add(Block{Kind: BlockRule})

	rank := p.Applicant.Rank
	if rank == "" {
		rank = "_____"
	}
	who := p.Applicant.Name
	if who == "" {
		who = "_____________________"
	}
	s.add(Block{Kind: BlockText, Text: fmt.Sprintf("Rank: %s    Name: %s    Date: %s", rank, who, dateutil.FormatMilitary(b.now()))})
	s.add(Block{Kind: BlockSpacer})

	table := Block{
		Kind: BlockTable,
		Columns: []Column{
			{Title: "#", Width: 0.05},
			{Title: "Endorser Level", Width: 0.25},
			{Title: "Name/Rank", Width: 0.25},
			{Title: "Recommends", Width: 0.17},
			{Title: "Signature", Width: 0.14},
			{Title: "Date", Width: 0.14},
		},
	}
	for i, st := range p.Routing {
		date := ""
		if st.Date != nil {
			date = dateutil.FormatMilitary(*st.Date)
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1), st.Level, st.Name, recommendsCell(st.Recommends), "", date,
		})
	}
	s.add(table)
	s.add(Block{Kind: BlockSpacer})

	s.add(Block{Kind: BlockHeading, Text: "INSTRUCTIONS"})
	for i, line := range routingInstructions {
		s.add(Block{Kind: BlockItem, Text: fmt.Sprintf("%d. %s", i+1, line)})
	}
	return s
}

func recommendsCell(v *bool) string {
	switch {
	case v == nil:
		return "[ ] Yes [ ] No"
	case *v:
		return "[X] Yes [ ] No"
	default:
		return "[ ] Yes [X] No"
	}
}
