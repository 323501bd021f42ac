// Package render turns a package record into printable sheets.
//
// Builders produce a Sheet, an ordered list of layout-neutral blocks. The
// text backend in this package draws a Sheet for terminal previews; the pdf
// subpackage draws the same Sheet onto Letter pages.
package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/jask/packagebuilder/internal/dateutil"
	"github.com/jask/packagebuilder/internal/tracker"
)

// Kind names a sheet type. The value is also the file name segment.
type Kind string

const (
	KindChecklist  Kind = "checklist"
	KindCoverSheet Kind = "coversheet"
	KindRouting    Kind = "routing"
)

// Kinds lists every sheet in summary order.
var Kinds = []Kind{KindCoverSheet, KindChecklist, KindRouting}

func (k Kind) Label() string {
	switch k {
	case KindChecklist:
		return "Checklist"
	case KindCoverSheet:
		return "Cover Sheet"
	case KindRouting:
		return "Routing Sheet"
	default:
		return string(k)
	}
}

type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockSubtitle
	BlockRule
	BlockHeading
	BlockField
	BlockItem
	BlockText
	BlockNote
	BlockSpacer
	BlockTable
	BlockSignatures
)

// Block is one layout unit. Which fields matter depends on Kind.
type Block struct {
	Kind    BlockKind
	Text    string
	Label   string
	Badge   string
	Indent  int
	Muted   bool
	Bold    bool
	Columns []Column
	Rows    [][]string
	Lines   []string
}

// Column is a table column; Width is a fraction of the content width.
type Column struct {
	Title string
	Width float64
}

// Sheet is a printable document.
type Sheet struct {
	Kind   Kind
	Title  string
	Blocks []Block
}

func (s *Sheet) add(b Block) { s.Blocks = append(s.Blocks, b) }

// Blank is printed in place of empty cover sheet values.
const Blank = "_______________"

var whitespace = regexp.MustCompile(`\s+`)

// Filename is "<applicant|package>_<kind>_<YYYYMMDD>.pdf" with whitespace
// replaced by underscores.
func Filename(p *tracker.Package, kind Kind, now time.Time) string {
	base := "package"
	if p != nil && strings.TrimSpace(p.Applicant.Name) != "" {
		base = strings.TrimSpace(p.Applicant.Name)
	}
	name := base + "_" + string(kind) + "_" + dateutil.FormatNumeric(now) + ".pdf"
	name = whitespace.ReplaceAllString(name, "_")
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}
