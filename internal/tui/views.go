package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/packagebuilder/internal/dateutil"
	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/service"
	"github.com/jask/packagebuilder/internal/tracker"
)

const (
	barWidth       = 30
	previewWidth   = render.DefaultTextWidth
	sideBySideFrom = 150
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewNew:
		if a.form != nil {
			body = a.form.View(a.styles)
		}
	case viewDashboard:
		body = a.renderDashboard()
	default:
		body = a.renderHome()
	}
	if a.state != viewNew && a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n" + a.styles.muted.Render(a.status)
	}
	return body + "\n" + a.renderFooter(a.bindings())
}

func (a *App) renderHome() string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("USMC Screening Package Builder") + "\n")
	b.WriteString(st.subtitle.Render("Build, track, and export screening packages") + "\n\n")

	idx := 0
	marker := func() string {
		defer func() { idx++ }()
		if idx == a.homeCursor {
			return st.selected.Render("▶")
		}
		return " "
	}

	b.WriteString(st.accent.Render("Start a package") + "\n")
	for _, t := range a.registry.Available() {
		fmt.Fprintf(&b, "%s %s %s\n", marker(), t.Name, st.muted.Render("("+t.Reference+")"))
	}
	for _, cs := range a.registry.ComingSoon() {
		fmt.Fprintf(&b, "  %s\n", st.muted.Render(cs.Name+"  coming soon"))
	}

	b.WriteString("\n" + st.accent.Render("Saved packages") + "\n")
	if len(a.summaries) == 0 {
		b.WriteString(st.muted.Render("  (no saved packages yet)") + "\n")
	}
	for _, s := range a.summaries {
		fmt.Fprintf(&b, "%s %-28s %-18s %3d%%  %s\n",
			marker(),
			truncate(s.Package.Applicant.DisplayName(), 28),
			truncate(a.registry.DisplayName(s.Package), 18),
			s.Progress.Percentage,
			st.muted.Render("updated "+dateutil.FormatMilitary(s.Package.LastUpdated.In(a.loc))),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderDashboard() string {
	st := a.styles
	p := a.pkg
	progress := tracker.CalculateProgress(p)
	stats := service.DashboardStats(p)

	var b strings.Builder
	b.WriteString(st.title.Render(a.registry.DisplayName(p)+" Package: "+p.Applicant.DisplayName()) + "\n")
	sub := fmt.Sprintf("Status: %s", strings.ReplaceAll(string(p.Status), "_", " "))
	if t, ok := a.registry.Template(p.Type); ok && len(t.Phases) > 0 {
		if ph, ok := t.Phase(p.CurrentPhase); ok {
			sub += fmt.Sprintf("  Phase %d/%d: %s", ph.ID, len(t.Phases), ph.Name)
		}
	}
	b.WriteString(st.subtitle.Render(sub) + "\n")

	if banner := a.deadlineBanner(); banner != "" {
		b.WriteString(banner + "\n")
	}
	fmt.Fprintf(&b, "%s %d%% (%d/%d required)\n", progressBar(st, progress.Percentage, barWidth), progress.Percentage, progress.Complete, progress.Required)
	fmt.Fprintf(&b, "Complete: %s  Needed: %s  Waivers: %s  Signatures: %s\n\n",
		st.success.Render(fmt.Sprint(stats.Complete)),
		st.warning.Render(fmt.Sprint(stats.Needed)),
		st.danger.Render(fmt.Sprint(stats.Waivers)),
		st.accent.Render(fmt.Sprint(stats.Signatures)),
	)

	var tabParts []string
	for _, t := range tabs {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == a.tab {
			tabParts = append(tabParts, st.activeTab.Render(label))
		} else {
			tabParts = append(tabParts, st.tab.Render(label))
		}
	}
	b.WriteString(strings.Join(tabParts, " ") + "\n\n")

	var pane string
	switch a.tab {
	case tabCover:
		pane = a.renderCover()
	case tabRouting:
		pane = a.renderRouting()
	case tabWaivers:
		pane = a.renderWaivers()
	default:
		pane = a.renderChecklist()
	}
	if a.preview {
		prev := st.box.Render(a.previewText())
		if a.width >= sideBySideFrom {
			pane = lipgloss.JoinHorizontal(lipgloss.Top, pane, "  ", prev)
		} else {
			pane += "\n\n" + prev
		}
	}
	b.WriteString(pane)
	return b.String()
}

func (a *App) deadlineBanner() string {
	if a.pkg.Deadline == nil {
		return ""
	}
	now := a.now().In(a.loc)
	d := a.pkg.Deadline.In(a.loc)
	text := fmt.Sprintf("Deadline %s: %s", dateutil.FormatMilitary(d), dateutil.RelativeTime(d, now))
	if dateutil.IsUrgent(d, now) {
		return a.styles.urgent.Render(text)
	}
	return a.styles.banner.Render(text)
}

func progressBar(st styles, pct, width int) string {
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return st.barFull.Render(strings.Repeat("█", filled)) + st.barEmpty.Render(strings.Repeat("░", width-filled))
}

func (a *App) previewText() string {
	sheet, err := a.builder.Build(a.tab.kind(), a.pkg)
	if err != nil {
		return err.Error()
	}
	out := render.Text(sheet, previewWidth)
	if a.height > 0 {
		limit := a.height - 14
		if limit < 10 {
			limit = 10
		}
		lines := strings.Split(out, "\n")
		if len(lines) > limit {
			out = strings.Join(lines[:limit], "\n") + "\n..."
		}
	}
	return out
}

func (a *App) docStyle(s tracker.DocStatus) lipgloss.Style {
	switch s {
	case tracker.DocComplete:
		return a.styles.success
	case tracker.DocNA:
		return a.styles.muted
	case tracker.DocWaiverNeeded:
		return a.styles.danger
	default:
		return a.styles.text
	}
}

func (a *App) renderChecklist() string {
	st := a.styles
	docs := a.visibleDocuments()
	var b strings.Builder
	head := "Filter: " + a.filter.Label()
	if q := a.search.Value(); q != "" || a.searching {
		head += "  " + a.search.View()
	}
	b.WriteString(st.muted.Render(head) + "\n")
	if len(docs) == 0 {
		b.WriteString(st.muted.Render("  (no matching documents)"))
		return b.String()
	}

	start, end := window(len(docs), a.docCursor, a.listRows())
	category := ""
	for i := start; i < end; i++ {
		d := docs[i]
		if d.Category != category {
			category = d.Category
			b.WriteString(st.accent.Render(strings.ToUpper(category)) + "\n")
		}
		marker := " "
		if i == a.docCursor {
			marker = st.selected.Render("▶")
		}
		line := fmt.Sprintf("%s %d. %s", d.Status.Symbol(), d.ID, d.Name)
		if !tracker.IsRequired(d, a.pkg.Applicant) {
			line += st.muted.Render("  (Optional)")
		}
		if d.DateCompleted != nil {
			line += st.muted.Render("  " + dateutil.FormatMilitary(d.DateCompleted.In(a.loc)))
		}
		fmt.Fprintf(&b, "%s %s\n", marker, a.docStyle(d.Status).Render(line))
		if i == a.docCursor && d.Notes != "" {
			b.WriteString("    " + st.muted.Render("Note: "+d.Notes) + "\n")
		}
	}
	if d, ok := at(docs, a.docCursor); ok {
		if t, ok := a.registry.Template(a.pkg.Type); ok {
			if g, ok := t.DocumentGuide(d.ID); ok && len(g.Instructions) > 0 {
				b.WriteString("\n" + st.subtitle.Render(truncate(g.Instructions[0], 110)))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) listRows() int {
	if a.height <= 0 {
		return 1 << 30
	}
	rows := a.height - 18
	if rows < 5 {
		rows = 5
	}
	return rows
}

// window returns the [start,end) slice of n rows that keeps cursor visible.
func window(n, cursor, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func (a *App) renderCover() string {
	st := a.styles
	ap := a.pkg.Applicant
	blank := func(s string) string {
		if s == "" {
			return st.muted.Render(render.Blank)
		}
		return s
	}
	var b strings.Builder
	b.WriteString(st.accent.Render("APPLICANT INFORMATION") + "\n")
	fmt.Fprintf(&b, "Name:   %s\nRank:   %s\nEDIPI:  %s\nMOS:    %s\nUnit:   %s\n", blank(ap.Name), blank(ap.Rank), blank(ap.EDIPI), blank(ap.MOS), blank(ap.Unit))
	if ap.Sex != "" {
		fmt.Fprintf(&b, "Sex:    %s\n", ap.Sex)
	}
	if t, ok := a.registry.Template(a.pkg.Type); ok {
		for _, f := range t.Fields {
			fmt.Fprintf(&b, "%s: %s\n", f.Label, blank(a.pkg.Detail(f.Key)))
		}
	}
	if a.pkg.Deadline != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", dateutil.FormatMilitary(a.pkg.Deadline.In(a.loc)))
	}
	encl := tracker.Enclosures(a.pkg)
	fmt.Fprintf(&b, "\n%s\n", st.accent.Render(fmt.Sprintf("ENCLOSURES (%d)", len(encl))))
	for i, d := range encl {
		line := fmt.Sprintf("(%d) %s", i+1, d.Name)
		if d.Status == tracker.DocWaiverNeeded {
			line = st.danger.Render(line + " *")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + st.muted.Render("[enter] Edit applicant and package details"))
	return b.String()
}

func (a *App) renderRouting() string {
	st := a.styles
	var b strings.Builder
	rp := tracker.CalculateRoutingProgress(a.pkg)
	b.WriteString(st.muted.Render(fmt.Sprintf("Signed %d of %d", rp.Signed, rp.Total)) + "\n")
	for i, s := range a.pkg.Routing {
		marker := " "
		if i == a.stepCursor {
			marker = st.selected.Render("▶")
		}
		status := string(s.Status)
		style := st.text
		switch s.Status {
		case tracker.StepSigned:
			style = st.success
		case tracker.StepReturned:
			style = st.danger
		}
		line := fmt.Sprintf("%d. %-28s %-9s", s.ID, s.Level, status)
		if s.Name != "" {
			line += "  " + s.Name
		}
		if s.Date != nil {
			line += "  " + dateutil.FormatMilitary(s.Date.In(a.loc))
		}
		if r := s.RecommendsLabel(); r != "" {
			line += "  " + r
		}
		fmt.Fprintf(&b, "%s %s\n", marker, style.Render(line))
		if i == a.stepCursor && s.Description != "" {
			b.WriteString("    " + st.muted.Render(s.Description) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderWaivers() string {
	st := a.styles
	var b strings.Builder
	if len(a.pkg.Waivers) == 0 {
		b.WriteString(st.muted.Render("No waivers recorded. [a] Add waiver"))
		return b.String()
	}
	for i, w := range a.pkg.Waivers {
		marker := " "
		if i == a.waiverCursor {
			marker = st.selected.Render("▶")
		}
		style := st.warning
		switch w.Status {
		case tracker.WaiverApproved:
			style = st.success
		case tracker.WaiverDenied:
			style = st.danger
		}
		fmt.Fprintf(&b, "%s %s: %s  %s  %s\n", marker, w.Type, w.Reason, style.Render(string(w.Status)),
			st.muted.Render(dateutil.FormatMilitary(w.Requested.In(a.loc))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalForm:
		if a.form != nil {
			return a.form.View(a.styles)
		}
	case modalConfirmDelete:
		name := a.deleteID
		if a.pkg != nil && a.pkg.ID == a.deleteID {
			name = a.pkg.Applicant.DisplayName()
		} else {
			for _, s := range a.summaries {
				if s.Package.ID == a.deleteID {
					name = s.Package.Applicant.DisplayName()
				}
			}
		}
		return a.styles.title.Render("Delete package?") + "\n" + name + " will be removed permanently.\n[y] Yes  [n] No"
	case modalConfirmClear:
		return a.styles.title.Render("Delete all packages?") + "\n" +
			fmt.Sprintf("%d saved packages will be removed permanently. Theme and preview settings are kept.", len(a.summaries)) +
			"\n[y] Yes  [n] No"
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
