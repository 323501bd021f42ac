package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/packagebuilder/internal/config"
	"github.com/jask/packagebuilder/internal/dateutil"
	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/service"
	"github.com/jask/packagebuilder/internal/templates"
	"github.com/jask/packagebuilder/internal/tracker"
)

// App ties together views.
type App struct {
	ctx      context.Context
	services Services
	registry *templates.Registry
	builder  render.Builder
	cfg      config.Config
	loc      *time.Location
	now      func() time.Time
	keys     keyMap

	state  appState
	width  int
	height int
	status string

	summaries  []service.Summary
	homeCursor int

	pkg          *tracker.Package
	tab          tab
	docCursor    int
	stepCursor   int
	waiverCursor int
	filter       tracker.Filter
	search       textinput.Model
	searching    bool
	preview      bool

	theme  string
	styles styles

	modal    modalState
	form     *form
	formKind formKind
	formType string
	targetID int
	deleteID string
}

type Services struct {
	Packages    *service.PackageService
	Export      *service.ExportService
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewHome      appState = "home"
	viewNew       appState = "new"
	viewDashboard appState = "dashboard"
)

type tab int

const (
	tabChecklist tab = iota
	tabCover
	tabRouting
	tabWaivers
)

var tabs = []tab{tabChecklist, tabCover, tabRouting, tabWaivers}

func (t tab) String() string {
	switch t {
	case tabCover:
		return "cover sheet"
	case tabRouting:
		return "routing"
	case tabWaivers:
		return "waivers"
	default:
		return "checklist"
	}
}

// kind is the sheet exported and previewed for the tab.
func (t tab) kind() render.Kind {
	switch t {
	case tabRouting:
		return render.KindRouting
	case tabCover, tabWaivers:
		return render.KindCoverSheet
	default:
		return render.KindChecklist
	}
}

type modalState string

const (
	modalNone          modalState = ""
	modalForm          modalState = "form"
	modalConfirmDelete modalState = "confirmDelete"
	modalConfirmClear  modalState = "confirmClear"
)

type formKind string

const (
	formNewPackage formKind = "newPackage"
	formApplicant  formKind = "applicant"
	formDocument   formKind = "document"
	formStep       formKind = "step"
	formWaiver     formKind = "waiver"
)

const detailPrefix = "detail."

func New(ctx context.Context, cfg config.Config, services Services, loc *time.Location) *App {
	if loc == nil {
		loc = time.Local
	}
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search documents"
	search.Cursor.SetMode(cursor.CursorStatic)

	a := &App{
		ctx:      ctx,
		services: services,
		registry: services.Packages.Registry,
		cfg:      cfg,
		loc:      loc,
		now:      time.Now,
		keys:     newKeyMap(),
		state:    viewHome,
		filter:   tracker.FilterAll,
		search:   search,
		preview:  true,
	}
	a.builder = render.Builder{Registry: a.registry, Now: func() time.Time { return a.now().In(a.loc) }}
	a.applyTheme(cfg.UI.Theme)
	return a
}

func (a *App) applyTheme(name string) {
	a.theme = normalizeTheme(name)
	a.styles = newStyles(a.theme)
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadSummaries(), a.loadPrefs())
}

func (a *App) loadSummaries() tea.Cmd {
	return func() tea.Msg {
		list, err := a.services.Packages.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return summariesMsg(list)
	}
}

func (a *App) loadPrefs() tea.Cmd {
	return func() tea.Msg {
		store := a.services.Packages.Store
		theme, err := store.Theme(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		if theme == "" {
			theme = a.cfg.UI.Theme
		}
		preview, err := store.PreviewEnabled(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return prefsMsg{theme: theme, preview: preview}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.handleFormKey(m)
		}
		if a.modal == modalConfirmDelete || a.modal == modalConfirmClear {
			return a.handleConfirmKey(m)
		}
		if a.searching {
			return a.handleSearchKey(m)
		}
		if a.state == viewDashboard {
			return a.handleDashboardKey(m)
		}
		return a.handleHomeKey(m)
	case summariesMsg:
		a.summaries = []service.Summary(m)
		if a.homeCursor >= len(a.homeItems()) {
			a.homeCursor = 0
		}
	case prefsMsg:
		a.applyTheme(m.theme)
		a.preview = m.preview
	case packageMsg:
		a.pkg = m.pkg
		a.state = viewDashboard
		a.clampCursors()
		if m.status != "" {
			a.status = m.status
		}
	case deletedMsg:
		a.pkg = nil
		a.state = viewHome
		a.status = "package deleted"
		return a, a.loadSummaries()
	case clearedMsg:
		a.pkg = nil
		a.state = viewHome
		a.homeCursor = 0
		a.status = fmt.Sprintf("removed %d packages", int64(m))
		return a, a.loadSummaries()
	case exportedMsg:
		a.status = "exported " + strings.Join(m.paths, ", ")
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

// home

type homeItem struct {
	typeID  string
	summary *service.Summary
}

func (a *App) homeItems() []homeItem {
	var items []homeItem
	for _, t := range a.registry.Available() {
		items = append(items, homeItem{typeID: t.ID})
	}
	for i := range a.summaries {
		items = append(items, homeItem{summary: &a.summaries[i]})
	}
	return items
}

func (a *App) handleHomeKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.homeItems()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.homeCursor > 0 {
			a.homeCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.homeCursor < len(items)-1 {
			a.homeCursor++
		}
	case key.Matches(m, a.keys.Theme):
		return a, a.cycleTheme()
	case key.Matches(m, a.keys.New):
		typeID := ""
		if a.homeCursor < len(items) && items[a.homeCursor].summary == nil {
			typeID = items[a.homeCursor].typeID
		} else if len(items) > 0 {
			typeID = items[0].typeID
		}
		if typeID == "" {
			a.status = "no package types available"
			return a, nil
		}
		a.openNewForm(typeID)
	case key.Matches(m, a.keys.Enter):
		if a.homeCursor >= len(items) {
			return a, nil
		}
		it := items[a.homeCursor]
		if it.summary == nil {
			a.openNewForm(it.typeID)
			return a, nil
		}
		return a, a.openPackageCmd(it.summary.Package.ID)
	case key.Matches(m, a.keys.Delete):
		if a.homeCursor < len(items) && items[a.homeCursor].summary != nil {
			a.deleteID = items[a.homeCursor].summary.Package.ID
			a.modal = modalConfirmDelete
		}
	case key.Matches(m, a.keys.ClearAll):
		if len(a.summaries) > 0 {
			a.modal = modalConfirmClear
		}
	}
	return a, nil
}

func (a *App) openNewForm(typeID string) {
	t, ok := a.registry.Template(typeID)
	if !ok {
		a.status = "unknown package type " + typeID
		return
	}
	fields := []formField{
		textField("name", "Name *", "LAST, First M.", ""),
		rankField(""),
		textField("deadline", "Deadline", "YYYY-MM-DD", ""),
	}
	for _, f := range t.Fields {
		fields = append(fields, textField(detailPrefix+f.Key, f.Label, f.Placeholder, ""))
	}
	a.form = newForm("New "+t.Name+" Package", fields...)
	a.formKind = formNewPackage
	a.formType = typeID
	a.modal = modalForm
	a.state = viewNew
	a.status = ""
}

func rankField(value string) formField {
	opts := []option{{value: "", label: "(none)"}}
	for _, r := range templates.Ranks {
		opts = append(opts, option{value: r, label: r})
	}
	return selectField("rank", "Rank", opts, value)
}

// dashboard

func (a *App) handleDashboardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.pkg == nil {
		a.state = viewHome
		return a, nil
	}
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		a.state = viewHome
		a.pkg = nil
		a.status = ""
		return a, a.loadSummaries()
	case key.Matches(m, a.keys.NextTab):
		a.tab = tabs[(int(a.tab)+1)%len(tabs)]
		return a, nil
	case key.Matches(m, a.keys.PrevTab):
		a.tab = tabs[(int(a.tab)+len(tabs)-1)%len(tabs)]
		return a, nil
	case key.Matches(m, a.keys.Theme):
		return a, a.cycleTheme()
	case key.Matches(m, a.keys.Preview):
		a.preview = !a.preview
		return a, a.savePreviewCmd(a.preview)
	case key.Matches(m, a.keys.Export):
		return a, a.exportCmd(a.tab.kind())
	case key.Matches(m, a.keys.ExportAll):
		return a, a.exportSummaryCmd()
	case key.Matches(m, a.keys.Status):
		return a, a.cycleStatusCmd()
	case key.Matches(m, a.keys.Delete):
		a.deleteID = a.pkg.ID
		a.modal = modalConfirmDelete
		return a, nil
	}
	switch m.String() {
	case "1", "2", "3", "4":
		a.tab = tabs[int(m.String()[0]-'1')]
		return a, nil
	}

	switch a.tab {
	case tabChecklist:
		return a.handleChecklistKey(m)
	case tabCover:
		if key.Matches(m, a.keys.Edit) {
			a.openApplicantForm()
		}
	case tabRouting:
		return a.handleRoutingKey(m)
	case tabWaivers:
		return a.handleWaiverKey(m)
	}
	return a, nil
}

func (a *App) visibleDocuments() []tracker.Document {
	docs := tracker.FilterDocuments(a.pkg.Documents, a.filter)
	return tracker.SearchDocuments(docs, a.search.Value())
}

func (a *App) handleChecklistKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	docs := a.visibleDocuments()
	switch {
	case key.Matches(m, a.keys.Up):
		if a.docCursor > 0 {
			a.docCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.docCursor < len(docs)-1 {
			a.docCursor++
		}
	case key.Matches(m, a.keys.Filter):
		a.filter = nextFilter(a.filter)
		a.docCursor = 0
	case key.Matches(m, a.keys.Search):
		a.searching = true
		a.search.Focus()
	case key.Matches(m, a.keys.Toggle):
		if d, ok := at(docs, a.docCursor); ok {
			return a, a.mutateCmd("toggled "+d.Name, func(s *service.PackageService, id string) (*tracker.Package, error) {
				return s.ToggleDocument(a.ctx, id, d.ID)
			})
		}
	case key.Matches(m, a.keys.Edit):
		if d, ok := at(docs, a.docCursor); ok {
			a.openDocumentForm(d)
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.search.SetValue("")
		fallthrough
	case "enter":
		a.searching = false
		a.search.Blur()
		a.docCursor = 0
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	a.docCursor = 0
	return a, cmd
}

func nextFilter(f tracker.Filter) tracker.Filter {
	for i, v := range tracker.Filters {
		if v == f {
			return tracker.Filters[(i+1)%len(tracker.Filters)]
		}
	}
	return tracker.FilterAll
}

func (a *App) handleRoutingKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	steps := a.pkg.Routing
	switch {
	case key.Matches(m, a.keys.Up):
		if a.stepCursor > 0 {
			a.stepCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.stepCursor < len(steps)-1 {
			a.stepCursor++
		}
	case key.Matches(m, a.keys.Sign):
		if st, ok := at(steps, a.stepCursor); ok {
			return a, a.mutateCmd(st.Level+" signed", func(s *service.PackageService, id string) (*tracker.Package, error) {
				return s.SignStep(a.ctx, id, st.ID)
			})
		}
	case key.Matches(m, a.keys.Unsign):
		if st, ok := at(steps, a.stepCursor); ok {
			return a, a.mutateCmd(st.Level+" reset to pending", func(s *service.PackageService, id string) (*tracker.Package, error) {
				return s.UnsignStep(a.ctx, id, st.ID)
			})
		}
	case key.Matches(m, a.keys.Edit):
		if st, ok := at(steps, a.stepCursor); ok {
			a.openStepForm(st)
		}
	}
	return a, nil
}

func (a *App) handleWaiverKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	waivers := a.pkg.Waivers
	switch {
	case key.Matches(m, a.keys.Up):
		if a.waiverCursor > 0 {
			a.waiverCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.waiverCursor < len(waivers)-1 {
			a.waiverCursor++
		}
	case key.Matches(m, a.keys.Add):
		a.openWaiverForm()
	case key.Matches(m, a.keys.Remove):
		if w, ok := at(waivers, a.waiverCursor); ok {
			return a, a.mutateCmd("waiver removed", func(s *service.PackageService, id string) (*tracker.Package, error) {
				return s.RemoveWaiver(a.ctx, id, w.ID)
			})
		}
	case key.Matches(m, a.keys.Toggle), key.Matches(m, a.keys.Edit):
		if w, ok := at(waivers, a.waiverCursor); ok {
			next := nextWaiverStatus(w.Status)
			return a, a.mutateCmd("waiver "+string(next), func(s *service.PackageService, id string) (*tracker.Package, error) {
				return s.SetWaiverStatus(a.ctx, id, w.ID, next)
			})
		}
	}
	return a, nil
}

func nextWaiverStatus(s tracker.WaiverStatus) tracker.WaiverStatus {
	for i, v := range tracker.WaiverStatuses {
		if v == s {
			return tracker.WaiverStatuses[(i+1)%len(tracker.WaiverStatuses)]
		}
	}
	return tracker.WaiverRequested
}

func at[T any](items []T, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(items) {
		return zero, false
	}
	return items[i], true
}

func (a *App) clampCursors() {
	if a.pkg == nil {
		return
	}
	clamp := func(c *int, n int) {
		if *c >= n {
			*c = n - 1
		}
		if *c < 0 {
			*c = 0
		}
	}
	clamp(&a.docCursor, len(a.visibleDocuments()))
	clamp(&a.stepCursor, len(a.pkg.Routing))
	clamp(&a.waiverCursor, len(a.pkg.Waivers))
}

// modals

func (a *App) openApplicantForm() {
	p := a.pkg
	fields := []formField{
		textField("name", "Name *", "LAST, First M.", p.Applicant.Name),
		rankField(p.Applicant.Rank),
		textField("edipi", "EDIPI", "10 digits", p.Applicant.EDIPI),
		textField("mos", "MOS", "0311", p.Applicant.MOS),
		textField("unit", "Unit", "1st Bn, 5th Marines", p.Applicant.Unit),
		selectField("sex", "Sex", []option{{"", "(not set)"}, {"male", "Male"}, {"female", "Female"}}, strings.ToLower(p.Applicant.Sex)),
		textField("deadline", "Deadline", "YYYY-MM-DD", dateutil.FormatISOPtr(localPtr(p.Deadline, a.loc))),
	}
	if t, ok := a.registry.Template(p.Type); ok {
		for _, f := range t.Fields {
			fields = append(fields, textField(detailPrefix+f.Key, f.Label, f.Placeholder, p.Detail(f.Key)))
		}
	}
	a.openForm(formApplicant, newForm("Applicant Information", fields...))
}

func (a *App) openDocumentForm(d tracker.Document) {
	opts := make([]option, 0, len(tracker.DocStatuses))
	for _, s := range tracker.DocStatuses {
		opts = append(opts, option{value: string(s), label: s.Label()})
	}
	a.targetID = d.ID
	a.openForm(formDocument, newForm(fmt.Sprintf("%d. %s", d.ID, d.Name),
		selectField("status", "Status", opts, string(d.Status)),
		textField("notes", "Notes", "", d.Notes),
		textField("date", "Completed", "YYYY-MM-DD", dateutil.FormatISOPtr(localPtr(d.DateCompleted, a.loc))),
	))
}

func (a *App) openStepForm(st tracker.RoutingStep) {
	opts := make([]option, 0, len(tracker.StepStatuses))
	for _, s := range tracker.StepStatuses {
		opts = append(opts, option{value: string(s), label: string(s)})
	}
	rec := ""
	if st.Recommends != nil {
		rec = "no"
		if *st.Recommends {
			rec = "yes"
		}
	}
	a.targetID = st.ID
	a.openForm(formStep, newForm(st.Level,
		textField("name", "Name/Rank", "Capt J. Smith", st.Name),
		selectField("status", "Status", opts, string(st.Status)),
		textField("date", "Date", "YYYY-MM-DD", dateutil.FormatISOPtr(localPtr(st.Date, a.loc))),
		selectField("recommends", "Recommends", []option{{"", "(not set)"}, {"yes", "Yes"}, {"no", "No"}}, rec),
	))
}

func (a *App) openWaiverForm() {
	t, ok := a.registry.Template(a.pkg.Type)
	if !ok || len(t.WaiverCategories) == 0 {
		a.status = "no waiver categories for this package"
		return
	}
	opts := make([]option, 0, len(t.WaiverCategories))
	for _, c := range t.WaiverCategories {
		opts = append(opts, option{value: c.ID, label: c.Name})
	}
	a.openForm(formWaiver, newForm("Add Waiver",
		selectField("category", "Category", opts, ""),
		textField("reason", "Reason *", "GT 105, waiver to 110", ""),
	))
}

func (a *App) openForm(kind formKind, f *form) {
	a.form = f
	a.formKind = kind
	a.modal = modalForm
}

func (a *App) closeForm() {
	a.form = nil
	a.modal = modalNone
	if a.state == viewNew {
		a.state = viewHome
	}
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.closeForm()
		return a, nil
	case tea.KeyEnter:
		cmd, err := a.submitForm()
		if err != nil {
			a.status = err.Error()
			return a, nil
		}
		a.closeForm()
		return a, cmd
	}
	return a, a.form.Update(m)
}

func (a *App) submitForm() (tea.Cmd, error) {
	f := a.form
	switch a.formKind {
	case formNewPackage, formApplicant:
		if f.Value("name") == "" {
			return nil, fmt.Errorf("name is required")
		}
		deadline, err := dateutil.ParseDate(f.Value("deadline"), a.loc)
		if err != nil {
			return nil, err
		}
		info := templates.ApplicantInfo{
			Name:     f.Value("name"),
			Rank:     f.Value("rank"),
			EDIPI:    f.Value("edipi"),
			MOS:      f.Value("mos"),
			Unit:     f.Value("unit"),
			Sex:      f.Value("sex"),
			Details:  f.Values(detailPrefix),
			Deadline: deadline,
		}
		if a.formKind == formNewPackage {
			return a.createCmd(a.formType, info), nil
		}
		return a.mutateCmd("applicant updated", func(s *service.PackageService, id string) (*tracker.Package, error) {
			return s.UpdateApplicant(a.ctx, id, info)
		}), nil
	case formDocument:
		date, err := dateutil.ParseDate(f.Value("date"), a.loc)
		if err != nil {
			return nil, err
		}
		status := tracker.DocStatus(f.Value("status"))
		if status == tracker.DocComplete && date == nil {
			today := a.now()
			date = &today
		}
		u := tracker.DocumentUpdate{Status: status, Notes: f.Value("notes"), DateCompleted: date}
		docID := a.targetID
		return a.mutateCmd("document updated", func(s *service.PackageService, id string) (*tracker.Package, error) {
			return s.UpdateDocument(a.ctx, id, docID, u)
		}), nil
	case formStep:
		date, err := dateutil.ParseDate(f.Value("date"), a.loc)
		if err != nil {
			return nil, err
		}
		u := tracker.StepUpdate{Name: f.Value("name"), Status: tracker.StepStatus(f.Value("status")), Date: date}
		if u.Status == tracker.StepSigned && date == nil {
			today := a.now()
			u.Date = &today
		}
		switch f.Value("recommends") {
		case "yes":
			v := true
			u.Recommends = &v
		case "no":
			v := false
			u.Recommends = &v
		}
		stepID := a.targetID
		return a.mutateCmd("routing step updated", func(s *service.PackageService, id string) (*tracker.Package, error) {
			return s.UpdateStep(a.ctx, id, stepID, u)
		}), nil
	case formWaiver:
		category, reason := f.Value("category"), f.Value("reason")
		if reason == "" {
			return nil, service.ErrWaiverReasonRequired
		}
		return a.mutateCmd("waiver added", func(s *service.PackageService, id string) (*tracker.Package, error) {
			return s.AddWaiver(a.ctx, id, category, reason)
		}), nil
	}
	return nil, nil
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Confirm):
		if a.modal == modalConfirmClear {
			a.modal = modalNone
			return a, a.clearCmd()
		}
		a.modal = modalNone
		id := a.deleteID
		a.deleteID = ""
		return a, a.deleteCmd(id)
	case key.Matches(m, a.keys.Cancel):
		a.modal = modalNone
		a.deleteID = ""
	}
	return a, nil
}

func localPtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}

// commands

func (a *App) openPackageCmd(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := a.services.Packages.Get(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return packageMsg{pkg: p}
	}
}

func (a *App) createCmd(typeID string, info templates.ApplicantInfo) tea.Cmd {
	return func() tea.Msg {
		p, err := a.services.Packages.Create(a.ctx, typeID, info)
		if err != nil {
			return errMsg{err}
		}
		return packageMsg{pkg: p, status: "package created"}
	}
}

func (a *App) mutateCmd(status string, fn func(s *service.PackageService, id string) (*tracker.Package, error)) tea.Cmd {
	id := a.pkg.ID
	return func() tea.Msg {
		p, err := fn(a.services.Packages, id)
		if err != nil {
			return errMsg{err}
		}
		return packageMsg{pkg: p, status: status}
	}
}

func (a *App) cycleStatusCmd() tea.Cmd {
	next := tracker.PackageStatuses[0]
	for i, s := range tracker.PackageStatuses {
		if s == a.pkg.Status {
			next = tracker.PackageStatuses[(i+1)%len(tracker.PackageStatuses)]
		}
	}
	return a.mutateCmd("status "+string(next), func(s *service.PackageService, id string) (*tracker.Package, error) {
		return s.SetStatus(a.ctx, id, next)
	})
}

func (a *App) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Packages.Delete(a.ctx, id); err != nil {
			return errMsg{err}
		}
		return deletedMsg{id: id}
	}
}

func (a *App) clearCmd() tea.Cmd {
	return func() tea.Msg {
		if a.services.Maintenance == nil {
			return errMsg{fmt.Errorf("maintenance not configured")}
		}
		n, err := a.services.Maintenance.ClearPackages(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return clearedMsg(n)
	}
}

func (a *App) exportCmd(kind render.Kind) tea.Cmd {
	if a.services.Export == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("export not configured")} }
	}
	a.status = "exporting " + kind.Label() + "..."
	p := a.pkg.Clone()
	return func() tea.Msg {
		path, err := a.services.Export.Export(a.ctx, p, kind)
		if err != nil {
			return errMsg{err}
		}
		return exportedMsg{paths: []string{path}}
	}
}

func (a *App) exportSummaryCmd() tea.Cmd {
	if a.services.Export == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("export not configured")} }
	}
	a.status = "exporting package summary..."
	p := a.pkg.Clone()
	return func() tea.Msg {
		paths, err := a.services.Export.Summary(a.ctx, p)
		if err != nil {
			return errMsg{err}
		}
		return exportedMsg{paths: paths}
	}
}

func (a *App) cycleTheme() tea.Cmd {
	a.applyTheme(nextTheme(a.theme))
	theme := a.theme
	return func() tea.Msg {
		if err := a.services.Packages.Store.SetTheme(a.ctx, theme); err != nil {
			return errMsg{err}
		}
		return statusMsg("theme: " + theme)
	}
}

func (a *App) savePreviewCmd(enabled bool) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Packages.Store.SetPreviewEnabled(a.ctx, enabled); err != nil {
			return errMsg{err}
		}
		if enabled {
			return statusMsg("preview on")
		}
		return statusMsg("preview off")
	}
}

// messages
type summariesMsg []service.Summary

type prefsMsg struct {
	theme   string
	preview bool
}

type packageMsg struct {
	pkg    *tracker.Package
	status string
}

type deletedMsg struct{ id string }

type clearedMsg int64

type exportedMsg struct{ paths []string }

type statusMsg string

type errMsg struct{ error }
