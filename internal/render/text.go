package render

import (
	"strings"
	"unicode/utf8"
)

// DefaultTextWidth is used when Text is given a non-positive width.
const DefaultTextWidth = 76

const labelWidth = 16

// Text draws a sheet as plain monospace text.
func Text(s Sheet, width int) string {
	if width <= 0 {
		width = DefaultTextWidth
	}
	var b strings.Builder
	line := func(str string) {
		b.WriteString(strings.TrimRight(str, " "))
		b.WriteByte('\n')
	}
	for _, blk := range s.Blocks {
		indent := strings.Repeat("    ", blk.Indent)
		switch blk.Kind {
		case BlockTitle, BlockSubtitle:
			line(center(blk.Text, width))
		case BlockRule:
			line(strings.Repeat("=", width))
		case BlockHeading:
			line("")
			line(blk.Text)
			line(strings.Repeat("-", min(width, utf8.RuneCountInString(blk.Text))))
		case BlockField:
			line(padRight(blk.Label+":", labelWidth) + blk.Text)
		case BlockItem:
			text := blk.Text
			if blk.Badge != "" {
				text += " " + blk.Badge
			}
			for _, l := range Wrap(text, width-len(indent)) {
				line(indent + l)
			}
		case BlockText, BlockNote:
			for _, l := range Wrap(blk.Text, width-len(indent)) {
				line(indent + l)
			}
		case BlockSpacer:
			line("")
		case BlockTable:
			writeTable(&b, blk, width)
		case BlockSignatures:
			line("")
			line("")
			var rules, labels []string
			col := width / max(1, len(blk.Lines))
			for _, l := range blk.Lines {
				rules = append(rules, padRight(strings.Repeat("_", col-4), col))
				labels = append(labels, padRight(l, col))
			}
			line(strings.Join(rules, ""))
			line(strings.Join(labels, ""))
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, blk Block, width int) {
	widths := make([]int, len(blk.Columns))
	for i, c := range blk.Columns {
		widths[i] = max(3, int(float64(width-len(blk.Columns)-1)*c.Width))
	}
	sep := "+"
	for _, w := range widths {
		sep += strings.Repeat("-", w) + "+"
	}
	row := func(cells []string) string {
		out := "|"
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			out += padRight(truncate(cell, w), w) + "|"
		}
		return out
	}
	titles := make([]string, len(blk.Columns))
	for i, c := range blk.Columns {
		titles[i] = c.Title
	}
	b.WriteString(sep + "\n")
	b.WriteString(row(titles) + "\n")
	b.WriteString(sep + "\n")
	for _, r := range blk.Rows {
		b.WriteString(row(r) + "\n")
		b.WriteString(sep + "\n")
	}
}

// Wrap splits text into lines of at most width runes on word boundaries.
// Words longer than width are split.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case cur == "":
			cur = w
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}
