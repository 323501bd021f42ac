// Package pdf draws render.Sheet values onto Letter pages with pdfcpu.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jask/packagebuilder/internal/render"
)

// Page geometry in points for US Letter.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	margin     = 56.0
	contentW   = pageWidth - 2*margin
	bottom     = margin
)

const (
	fontRegular = "Helvetica"
	fontBold    = "Helvetica-Bold"
	colorText   = "#000000"
	colorMuted  = "#646464"
	colorNote   = "#006400"
)

// charWidth is the average Helvetica glyph width as a fraction of the font size.
const charWidth = 0.5

var disableConfig sync.Once

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
	Col  string `json:"col,omitempty"`
}

type text struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  font       `json:"font"`
}

type content struct {
	Text []text `json:"text"`
}

type page struct {
	Content content `json:"content"`
}

type document struct {
	Paper string          `json:"paper"`
	Pages map[string]page `json:"pages"`
}

// layout tracks the cursor while blocks are placed.
type layout struct {
	pages []content
	y     float64
}

func newLayout() *layout {
	l := &layout{}
	l.newPage()
	return l
}

func (l *layout) newPage() {
	l.pages = append(l.pages, content{})
	l.y = pageHeight - margin
}

// need breaks the page when fewer than h points remain.
func (l *layout) need(h float64) {
	if l.y-h < bottom {
		l.newPage()
	}
}

func (l *layout) put(x float64, value string, f font) {
	if value == "" {
		return
	}
	cur := &l.pages[len(l.pages)-1]
	cur.Text = append(cur.Text, text{Value: value, Pos: [2]float64{round(x), round(l.y)}, Font: f})
}

func (l *layout) line(x float64, value string, f font) {
	h := lineHeight(f.Size)
	l.need(h)
	l.y -= h
	l.put(x, value, f)
}

func (l *layout) gap(h float64) {
	l.y -= h
	if l.y < bottom {
		l.newPage()
	}
}

func lineHeight(size int) float64 { return float64(size) * 1.35 }

func round(v float64) float64 { return math.Round(v*100) / 100 }

// textWidth estimates the rendered width of s.
func textWidth(s string, size int) float64 {
	return float64(len([]rune(s))) * float64(size) * charWidth
}

// fits returns how many characters fit in width at size.
func fits(width float64, size int) int {
	return int(width / (float64(size) * charWidth))
}

// Layout converts a sheet to the pdfcpu JSON content document.
func Layout(s render.Sheet) ([]byte, error) {
	l := newLayout()
	for _, b := range s.Blocks {
		indent := float64(b.Indent) * 28
		switch b.Kind {
		case render.BlockTitle:
			f := font{Name: fontBold, Size: 16, Col: colorText}
			l.line(centerX(b.Text, f.Size), b.Text, f)
		case render.BlockSubtitle:
			f := font{Name: fontBold, Size: 13, Col: colorText}
			l.line(centerX(b.Text, f.Size), b.Text, f)
		case render.BlockRule:
			f := font{Name: fontRegular, Size: 8, Col: colorText}
			l.line(margin, strings.Repeat("_", fits(contentW, f.Size)), f)
			l.gap(6)
		case render.BlockHeading:
			l.need(lineHeight(11) * 3)
			l.gap(4)
			f := font{Name: fontBold, Size: 11, Col: colorText}
			l.line(margin, b.Text, f)
			l.gap(2)
		case render.BlockField:
			f := font{Name: fontBold, Size: 10, Col: colorText}
			l.line(margin, b.Label+":", f)
			l.put(margin+110, b.Text, font{Name: fontRegular, Size: 10, Col: colorText})
		case render.BlockItem:
			f := font{Name: fontRegular, Size: 9, Col: colorText}
			lines := render.Wrap(b.Text, fits(contentW-indent, f.Size))
			for i, ln := range lines {
				l.line(margin+indent, ln, f)
				if i == len(lines)-1 && b.Badge != "" {
					l.put(margin+indent+textWidth(ln, f.Size)+6, b.Badge, font{Name: fontRegular, Size: 7, Col: colorMuted})
				}
			}
		case render.BlockText:
			f := font{Name: fontRegular, Size: 9, Col: colorText}
			if b.Bold {
				f.Name = fontBold
			}
			if b.Muted {
				f.Size = 8
				f.Col = colorMuted
			}
			for _, ln := range render.Wrap(b.Text, fits(contentW-indent, f.Size)) {
				l.line(margin+indent, ln, f)
			}
		case render.BlockNote:
			f := font{Name: fontRegular, Size: 8, Col: colorNote}
			for _, ln := range render.Wrap(b.Text, fits(contentW-indent, f.Size)) {
				l.line(margin+indent, ln, f)
			}
		case render.BlockSpacer:
			l.gap(8)
		case render.BlockTable:
			drawTable(l, b)
		case render.BlockSignatures:
			drawSignatures(l, b)
		}
	}

	for len(l.pages) > 1 && len(l.pages[len(l.pages)-1].Text) == 0 {
		l.pages = l.pages[:len(l.pages)-1]
	}
	doc := document{Paper: "Letter", Pages: make(map[string]page, len(l.pages))}
	for i, c := range l.pages {
		doc.Pages[strconv.Itoa(i+1)] = page{Content: c}
	}
	return json.Marshal(doc)
}

func centerX(s string, size int) float64 {
	x := (pageWidth - textWidth(s, size)) / 2
	if x < margin {
		return margin
	}
	return x
}

func drawTable(l *layout, b render.Block) {
	head := font{Name: fontBold, Size: 9, Col: colorText}
	body := font{Name: fontRegular, Size: 9, Col: colorText}
	xs := make([]float64, len(b.Columns))
	ws := make([]float64, len(b.Columns))
	x := margin
	for i, c := range b.Columns {
		xs[i] = x
		ws[i] = contentW * c.Width
		x += ws[i]
	}
	rule := font{Name: fontRegular, Size: 8, Col: colorMuted}
	ruleText := strings.Repeat("_", fits(contentW, rule.Size))

	header := func() {
		l.need(lineHeight(head.Size) * 3)
		l.line(xs[0], b.Columns[0].Title, head)
		for i := 1; i < len(b.Columns); i++ {
			l.put(xs[i], b.Columns[i].Title, head)
		}
		l.line(margin, ruleText, rule)
	}
	header()
	for _, row := range b.Rows {
		rowH := lineHeight(body.Size)*2 + lineHeight(rule.Size)
		if l.y-rowH < bottom {
			l.newPage()
			header()
		}
		l.gap(lineHeight(body.Size))
		l.put(xs[0], cell(row, 0, ws[0], body.Size), body)
		for i := 1; i < len(b.Columns); i++ {
			l.put(xs[i], cell(row, i, ws[i], body.Size), body)
		}
		l.line(margin, ruleText, rule)
	}
}

func cell(row []string, i int, width float64, size int) string {
	if i >= len(row) {
		return ""
	}
	n := fits(width-4, size)
	r := []rune(row[i])
	if len(r) <= n {
		return row[i]
	}
	if n <= 1 {
		return ""
	}
	return string(r[:n-1]) + "."
}

func drawSignatures(l *layout, b render.Block) {
	if len(b.Lines) == 0 {
		return
	}
	l.need(60)
	l.gap(30)
	f := font{Name: fontRegular, Size: 9, Col: colorText}
	label := font{Name: fontRegular, Size: 8, Col: colorText}
	col := contentW / float64(len(b.Lines))
	underscores := strings.Repeat("_", fits(col-18, f.Size))
	l.line(margin, underscores, f)
	for i := 1; i < len(b.Lines); i++ {
		l.put(margin+col*float64(i), underscores, f)
	}
	l.line(margin, b.Lines[0], label)
	for i := 1; i < len(b.Lines); i++ {
		l.put(margin+col*float64(i), b.Lines[i], label)
	}
}

// Write renders s as a PDF into w.
func Write(w io.Writer, s render.Sheet) error {
	data, err := Layout(s)
	if err != nil {
		return fmt.Errorf("pdf: layout %s: %w", s.Kind, err)
	}
	disableConfig.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	if err := api.Create(nil, bytes.NewReader(data), w, conf); err != nil {
		return fmt.Errorf("pdf: create %s: %w", s.Kind, err)
	}
	return nil
}
