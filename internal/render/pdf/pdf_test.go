package pdf

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/templates"
)

func checklist(t *testing.T) render.Sheet {
	t.Helper()
	reg := templates.MustRegistry()
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	p, err := reg.CreatePackage("warrant_officer", templates.ApplicantInfo{Name: "Doe", Rank: "Sgt"}, "package-pdf", now)
	require.NoError(t, err)
	return render.Builder{Registry: reg, Now: func() time.Time { return now }}.Checklist(p)
}

func TestLayoutPaginates(t *testing.T) {
	s := checklist(t)
	for i := 0; i < 40; i++ {
		s.Blocks = append(s.Blocks, render.Block{Kind: render.BlockItem, Text: "[ ] filler", Badge: "(Optional)"})
	}
	data, err := Layout(s)
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "Letter", doc.Paper)
	require.GreaterOrEqual(t, len(doc.Pages), 2)

	for key, pg := range doc.Pages {
		require.NotEmpty(t, pg.Content.Text, "page %s", key)
		for _, tx := range pg.Content.Text {
			require.GreaterOrEqual(t, tx.Pos[1], bottom-1, "page %s: %q", key, tx.Value)
			require.LessOrEqual(t, tx.Pos[1], pageHeight-margin)
		}
	}
	first := doc.Pages["1"].Content.Text[0]
	require.Equal(t, "WARRANT OFFICER PACKAGE CHECKLIST", first.Value)
	require.Equal(t, fontBold, first.Font.Name)
}

func TestLayoutWrapsLongText(t *testing.T) {
	s := render.Sheet{Kind: render.KindChecklist, Blocks: []render.Block{
		{Kind: render.BlockText, Text: strings.Repeat("word ", 200)},
	}}
	data, err := Layout(s)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	lines := doc.Pages["1"].Content.Text
	require.Greater(t, len(lines), 5)
	for _, l := range lines {
		require.LessOrEqual(t, textWidth(l.Value, l.Font.Size), contentW)
	}
}

func TestWriteProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, checklist(t)))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
