package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/packagebuilder/internal/config"
	"github.com/jask/packagebuilder/internal/database"
	"github.com/jask/packagebuilder/internal/database/repository"
	"github.com/jask/packagebuilder/internal/logging"
	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/service"
	"github.com/jask/packagebuilder/internal/storage"
	"github.com/jask/packagebuilder/internal/templates"
	"github.com/jask/packagebuilder/internal/tracker"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, *service.PackageService, string) {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := func() time.Time { return fixedNow }
	reg := templates.MustRegistry()
	store := storage.New(repository.NewEntryRepo(db))
	pkgs := &service.PackageService{
		Store:    store,
		Registry: reg,
		Log:      logging.Discard(),
		Now:      now,
	}
	exportDir := filepath.Join(t.TempDir(), "exports")
	exp := &service.ExportService{
		Builder: render.Builder{Registry: reg, Now: now},
		Dir:     exportDir,
		Log:     logging.Discard(),
		Now:     now,
	}
	cfg := config.Config{UI: config.UIConfig{Theme: "dark"}}
	a := New(context.Background(), cfg, Services{
		Packages:    pkgs,
		Export:      exp,
		Maintenance: &service.MaintenanceService{DB: db, Store: store, Log: logging.Discard()},
	}, time.UTC)
	a.now = now
	drain(t, a, a.Init())
	return a, pkgs, exportDir
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs cmd and feeds every resulting message back into a.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 64, "command chain exceeded max depth")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		drain(t, a, cmd)
	}
}

func typeText(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		press(t, a, string(r))
	}
}

func openPackage(t *testing.T, a *App, svc *service.PackageService, typeID string, info templates.ApplicantInfo) *tracker.Package {
	t.Helper()
	p, err := svc.Create(context.Background(), typeID, info)
	require.NoError(t, err)
	a.Update(packageMsg{pkg: p})
	return p
}

func TestHomeView(t *testing.T) {
	a, _, _ := newTestApp(t)
	view := a.View()
	require.Contains(t, view, "Warrant Officer")
	require.Contains(t, view, "Recruiting Duty")
	require.Contains(t, view, "Drill Instructor  coming soon")
	require.Contains(t, view, "(no saved packages yet)")
	require.Equal(t, viewHome, a.state)
}

func TestNewPackageFlow(t *testing.T) {
	a, svc, _ := newTestApp(t)

	press(t, a, "enter")
	require.Equal(t, viewNew, a.state)
	require.NotNil(t, a.form)

	press(t, a, "enter")
	require.Equal(t, "name is required", a.status)
	require.Equal(t, viewNew, a.state)

	typeText(t, a, "DOE, Jane")
	press(t, a, "tab", "right", "right", "right", "right", "right")
	press(t, a, "tab")
	typeText(t, a, "2026-06-08")
	press(t, a, "tab")
	typeText(t, a, "FY27")
	press(t, a, "enter")

	require.Equal(t, viewDashboard, a.state)
	require.Nil(t, a.form)
	require.Equal(t, "package created", a.status)
	require.Equal(t, "DOE, Jane", a.pkg.Applicant.Name)
	require.Equal(t, "Sgt", a.pkg.Applicant.Rank)
	require.Equal(t, "FY27", a.pkg.Detail("target_board"))
	require.NotNil(t, a.pkg.Deadline)

	view := a.View()
	require.Contains(t, view, "Deadline 08 Jun 2026: 7 days remaining")
	require.Contains(t, view, "WARRANT OFFICER PACKAGE CHECKLIST")

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	press(t, a, "esc")
	require.Equal(t, viewHome, a.state)
	require.Len(t, a.summaries, 1)
	require.Contains(t, a.View(), "Sgt DOE, Jane")
}

func TestNewPackageCancel(t *testing.T) {
	a, _, _ := newTestApp(t)
	press(t, a, "down", "n")
	require.Equal(t, "recruiting", a.formType)
	press(t, a, "esc")
	require.Equal(t, viewHome, a.state)
	require.Nil(t, a.form)
}

func TestChecklistKeys(t *testing.T) {
	a, svc, _ := newTestApp(t)
	p := openPackage(t, a, svc, "warrant_officer", templates.ApplicantInfo{Name: "Doe"})

	press(t, a, " ")
	require.Equal(t, tracker.DocComplete, a.pkg.Documents[0].Status)
	stored, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, tracker.DocComplete, stored.Documents[0].Status)

	press(t, a, "f")
	require.Equal(t, tracker.Filter(tracker.DocIncomplete), a.filter)
	for _, d := range a.visibleDocuments() {
		require.NotEqual(t, 1, d.ID)
	}
	press(t, a, "f", "f", "f", "f")
	require.Equal(t, tracker.FilterAll, a.filter)

	press(t, a, "/")
	require.True(t, a.searching)
	typeText(t, a, "audiogarm")
	press(t, a, "enter")
	require.False(t, a.searching)
	var names []string
	for _, d := range a.visibleDocuments() {
		names = append(names, d.Name)
	}
	require.Contains(t, names, "Audiogram")

	press(t, a, "/", "esc")
	require.Empty(t, a.search.Value())
	require.Len(t, a.visibleDocuments(), 19)

	// Edit modal: status select then notes.
	press(t, a, "down", "enter")
	require.Equal(t, formDocument, a.formKind)
	require.Equal(t, 2, a.targetID)
	press(t, a, "right", "right", "tab")
	typeText(t, a, "not required for me")
	press(t, a, "enter")
	d, err := a.pkg.Document(2)
	require.NoError(t, err)
	require.Equal(t, tracker.DocNA, d.Status)
	require.Equal(t, "not required for me", d.Notes)
}

func TestRoutingKeys(t *testing.T) {
	a, svc, _ := newTestApp(t)
	openPackage(t, a, svc, "recruiting", templates.ApplicantInfo{Name: "Doe"})

	press(t, a, "3")
	require.Equal(t, tabRouting, a.tab)
	press(t, a, "s")
	require.Equal(t, tracker.StepSigned, a.pkg.Routing[0].Status)
	require.NotNil(t, a.pkg.Routing[0].Date)

	press(t, a, "u")
	require.Equal(t, tracker.StepPending, a.pkg.Routing[0].Status)

	press(t, a, "j", "enter")
	require.Equal(t, formStep, a.formKind)
	typeText(t, a, "Maj Reyes")
	press(t, a, "tab", "right", "tab", "tab", "right")
	press(t, a, "enter")
	st := a.pkg.Routing[1]
	require.Equal(t, "Maj Reyes", st.Name)
	require.Equal(t, tracker.StepSigned, st.Status)
	require.NotNil(t, st.Recommends)
	require.True(t, *st.Recommends)
	require.Equal(t, fixedNow, *st.Date)
	require.Contains(t, a.View(), "ROUTING SHEET")
}

func TestCoverSheetEdit(t *testing.T) {
	a, svc, _ := newTestApp(t)
	openPackage(t, a, svc, "warrant_officer", templates.ApplicantInfo{Name: "Doe"})
	require.Equal(t, 16, tracker.CalculateProgress(a.pkg).Required)

	press(t, a, "2", "enter")
	require.Equal(t, formApplicant, a.formKind)
	press(t, a, "tab", "tab", "tab", "tab", "tab", "right", "right", "enter")
	require.Equal(t, "female", a.pkg.Applicant.Sex)
	require.Equal(t, "Doe", a.pkg.Applicant.Name)
	require.Equal(t, 17, tracker.CalculateProgress(a.pkg).Required)
	require.Equal(t, "applicant updated", a.status)
}

func TestWaiverKeys(t *testing.T) {
	a, svc, _ := newTestApp(t)
	openPackage(t, a, svc, "warrant_officer", templates.ApplicantInfo{Name: "Doe"})

	press(t, a, "4", "a")
	require.Equal(t, formWaiver, a.formKind)
	press(t, a, "enter")
	require.Equal(t, service.ErrWaiverReasonRequired.Error(), a.status)

	press(t, a, "tab")
	typeText(t, a, "GT 105")
	press(t, a, "enter")
	require.Len(t, a.pkg.Waivers, 1)
	require.Equal(t, "GT Score", a.pkg.Waivers[0].Type)
	require.Equal(t, tracker.WaiverRequested, a.pkg.Waivers[0].Status)

	press(t, a, " ")
	require.Equal(t, tracker.WaiverApproved, a.pkg.Waivers[0].Status)
	press(t, a, "d")
	require.Empty(t, a.pkg.Waivers)
}

func TestThemeAndPreviewPersist(t *testing.T) {
	a, svc, _ := newTestApp(t)
	ctx := context.Background()
	require.Equal(t, themeDark, a.theme)
	require.True(t, a.preview)

	press(t, a, "T")
	require.Equal(t, themeLight, a.theme)
	theme, err := svc.Store.Theme(ctx)
	require.NoError(t, err)
	require.Equal(t, themeLight, theme)

	openPackage(t, a, svc, "recruiting", templates.ApplicantInfo{Name: "Doe"})
	press(t, a, "T")
	require.Equal(t, themeNight, a.theme)
	press(t, a, "p")
	require.False(t, a.preview)
	require.NotContains(t, a.View(), "PACKAGE CHECKLIST")
	enabled, err := svc.Store.PreviewEnabled(ctx)
	require.NoError(t, err)
	require.False(t, enabled)

	// A fresh app picks the stored preferences up.
	b := New(ctx, config.Config{}, a.services, time.UTC)
	drain(t, b, b.Init())
	require.Equal(t, themeNight, b.theme)
	require.False(t, b.preview)
}

func TestExportKeys(t *testing.T) {
	a, svc, dir := newTestApp(t)
	openPackage(t, a, svc, "recruiting", templates.ApplicantInfo{Name: "Doe"})

	press(t, a, "e")
	want := filepath.Join(dir, "Doe_checklist_20260601.pdf")
	require.Equal(t, "exported "+want, a.status)
	_, err := os.Stat(want)
	require.NoError(t, err)

	press(t, a, "E")
	require.True(t, strings.HasPrefix(a.status, "exported "))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestDeleteWithConfirmation(t *testing.T) {
	a, svc, _ := newTestApp(t)
	p := openPackage(t, a, svc, "recruiting", templates.ApplicantInfo{Name: "Doe"})

	press(t, a, "x")
	require.Equal(t, modalConfirmDelete, a.modal)
	require.Contains(t, a.View(), "Delete package?")
	press(t, a, "n")
	require.Equal(t, modalNone, a.modal)
	require.Equal(t, viewDashboard, a.state)

	press(t, a, "x", "y")
	require.Equal(t, viewHome, a.state)
	require.Equal(t, "package deleted", a.status)
	require.Empty(t, a.summaries)
	_, err := svc.Get(context.Background(), p.ID)
	require.ErrorIs(t, err, service.ErrPackageNotFound)
}

func TestClearAllPackages(t *testing.T) {
	a, svc, _ := newTestApp(t)
	ctx := context.Background()
	for _, name := range []string{"Doe", "Roe"} {
		_, err := svc.Create(ctx, "recruiting", templates.ApplicantInfo{Name: name})
		require.NoError(t, err)
	}
	drain(t, a, a.loadSummaries())
	require.Len(t, a.summaries, 2)

	press(t, a, "T")
	require.Equal(t, "light", a.theme)

	press(t, a, "X")
	require.Equal(t, modalConfirmClear, a.modal)
	require.Contains(t, a.View(), "Delete all packages?")
	press(t, a, "esc")
	require.Equal(t, modalNone, a.modal)
	require.Len(t, a.summaries, 2)

	press(t, a, "X", "y")
	require.Equal(t, "removed 2 packages", a.status)
	require.Empty(t, a.summaries)

	theme, err := svc.Store.Theme(ctx)
	require.NoError(t, err)
	require.Equal(t, "light", theme)
}

func TestStatusCycle(t *testing.T) {
	a, svc, _ := newTestApp(t)
	openPackage(t, a, svc, "recruiting", templates.ApplicantInfo{Name: "Doe"})
	require.Equal(t, tracker.PackageInProgress, a.pkg.Status)
	press(t, a, "S")
	require.Equal(t, tracker.PackageSubmitted, a.pkg.Status)
	require.Contains(t, a.View(), "Status: submitted")
}

func TestWindow(t *testing.T) {
	start, end := window(5, 2, 10)
	require.Equal(t, 0, start)
	require.Equal(t, 5, end)
	start, end = window(20, 19, 6)
	require.Equal(t, 14, start)
	require.Equal(t, 20, end)
	start, end = window(20, 10, 6)
	require.Equal(t, 7, start)
	require.Equal(t, 13, end)
}
