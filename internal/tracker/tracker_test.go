package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixture() *Package {
	return &Package{
		ID:       "package-test",
		Type:     "warrant_officer",
		TypeName: "Warrant Officer",
		Documents: []Document{
			{ID: 1, Category: "Application", Name: "Application Letter", Required: true, Phase: 2, Status: DocIncomplete},
			{ID: 2, Category: "Records", Name: "BIR/BTR Screen", Required: true, Phase: 2, Status: DocIncomplete},
			{ID: 3, Category: "Application", Name: "SAT/ACT Scores", Phase: 2, Status: DocIncomplete},
			{ID: 4, Category: "Medical", Name: "PAP Results", ConditionalRequired: "female", Phase: 3, Status: DocIncomplete},
			{ID: 5, Category: "Medical", Name: "Audiogram", Description: "Hearing test results", Required: true, Phase: 3, Status: DocIncomplete},
		},
		Routing: []RoutingStep{
			{ID: 1, Level: "Company Commander", Required: true, Status: StepPending},
			{ID: 2, Level: "Battalion Commander", Required: true, Status: StepPending},
			{ID: 3, Level: "Submit", Required: true, Status: StepPending},
		},
		Status: PackageInProgress,
	}
}

func TestCalculateProgressCountsRequiredOnly(t *testing.T) {
	t.Parallel()

	p := fixture()
	got := CalculateProgress(p)
	require.Equal(t, 0, got.Percentage)
	require.Equal(t, 3, got.Required)
	require.Len(t, got.Missing, 3)

	require.NoError(t, p.SetDocument(1, DocumentUpdate{Status: DocComplete}))
	require.NoError(t, p.SetDocument(2, DocumentUpdate{Status: DocNA}))
	require.NoError(t, p.SetDocument(3, DocumentUpdate{Status: DocWaiverNeeded}))

	got = CalculateProgress(p)
	require.Equal(t, 2, got.Complete)
	require.Equal(t, 3, got.Required)
	require.Equal(t, 67, got.Percentage)
	require.Len(t, got.Missing, 1)
	require.Equal(t, 5, got.Missing[0].ID)
	require.Len(t, got.WaiverNeeded, 1)
	require.Equal(t, 3, got.WaiverNeeded[0].ID)
}

func TestCalculateProgressWaiverNeededIsNotMissing(t *testing.T) {
	t.Parallel()

	p := fixture()
	require.NoError(t, p.SetDocument(5, DocumentUpdate{Status: DocWaiverNeeded}))
	got := CalculateProgress(p)
	require.Len(t, got.Missing, 2)
	require.Equal(t, 0, got.Complete)
}

func TestCalculateProgressEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, Progress{}, CalculateProgress(nil))
	require.Equal(t, 0, CalculateProgress(&Package{Documents: []Document{{ID: 1, Status: DocComplete}}}).Percentage)
}

func TestConditionalRequired(t *testing.T) {
	t.Parallel()

	p := fixture()
	require.Equal(t, 3, CalculateProgress(p).Required)

	p.Applicant.Sex = "Female"
	require.True(t, IsRequired(p.Documents[3], p.Applicant))
	require.Equal(t, 4, CalculateProgress(p).Required)

	require.False(t, IsRequired(Document{ConditionalRequired: "unknown"}, Applicant{Sex: "female"}))
}

func TestRoutingProgress(t *testing.T) {
	t.Parallel()

	p := fixture()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.SignStep(3, now))

	rp := CalculateRoutingProgress(p)
	require.Equal(t, 1, rp.Signed)
	require.Equal(t, 3, rp.Total)
	require.Len(t, rp.Pending, 2)
	require.False(t, rp.Complete())
	require.Equal(t, now, *p.Routing[2].Date)

	require.NoError(t, p.UnsignStep(3))
	require.Equal(t, StepPending, p.Routing[2].Status)
	require.Nil(t, p.Routing[2].Date)
}

func TestSetStepTriStateRecommendation(t *testing.T) {
	t.Parallel()

	p := fixture()
	yes := true
	require.NoError(t, p.SetStep(1, StepUpdate{Name: "Capt Jones", Status: StepSigned, Recommends: &yes}))
	require.Equal(t, "Recommends", p.Routing[0].RecommendsLabel())

	no := false
	require.NoError(t, p.SetStep(1, StepUpdate{Name: "Capt Jones", Status: StepReturned, Recommends: &no}))
	require.Equal(t, "Does not recommend", p.Routing[0].RecommendsLabel())

	require.NoError(t, p.SetStep(1, StepUpdate{Name: "Capt Jones"}))
	require.Equal(t, StepPending, p.Routing[0].Status)
	require.Nil(t, p.Routing[0].Recommends)

	err := p.SetStep(1, StepUpdate{Status: "lost"})
	require.True(t, errors.Is(err, ErrInvalidStatus))
	err = p.SetStep(99, StepUpdate{})
	require.True(t, errors.Is(err, ErrStepNotFound))
}

func TestToggleDocument(t *testing.T) {
	t.Parallel()

	p := fixture()
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, p.ToggleDocument(2, now))
	require.Equal(t, DocComplete, p.Documents[1].Status)
	require.NotNil(t, p.Documents[1].DateCompleted)

	require.NoError(t, p.ToggleDocument(2, now))
	require.Equal(t, DocIncomplete, p.Documents[1].Status)
	require.Nil(t, p.Documents[1].DateCompleted)

	require.NoError(t, p.SetDocument(2, DocumentUpdate{Status: DocNA}))
	require.NoError(t, p.ToggleDocument(2, now))
	require.Equal(t, DocComplete, p.Documents[1].Status)

	require.ErrorIs(t, p.ToggleDocument(42, now), ErrDocumentNotFound)
}

func TestSetDocumentKeepsListShape(t *testing.T) {
	t.Parallel()

	p := fixture()
	before := len(p.Documents)
	require.ErrorIs(t, p.SetDocument(77, DocumentUpdate{Status: DocComplete}), ErrDocumentNotFound)
	require.ErrorIs(t, p.SetDocument(1, DocumentUpdate{Status: "done"}), ErrInvalidStatus)
	require.Len(t, p.Documents, before)
}

func TestWaivers(t *testing.T) {
	t.Parallel()

	p := fixture()
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	w := p.AddWaiver("gt", "GT Score", " GT 105 ", now)
	require.Equal(t, "GT 105", w.Reason)
	require.Equal(t, WaiverRequested, w.Status)
	require.Len(t, p.Waivers, 1)

	require.NoError(t, p.SetWaiverStatus(w.ID, WaiverApproved))
	require.Equal(t, WaiverApproved, p.Waivers[0].Status)
	require.ErrorIs(t, p.SetWaiverStatus(w.ID, "maybe"), ErrInvalidStatus)

	require.NoError(t, p.RemoveWaiver(w.ID))
	require.Empty(t, p.Waivers)
	require.ErrorIs(t, p.RemoveWaiver(w.ID), ErrWaiverNotFound)
}

func TestEnclosuresAndGrouping(t *testing.T) {
	t.Parallel()

	p := fixture()
	require.NoError(t, p.SetDocument(5, DocumentUpdate{Status: DocComplete}))
	require.NoError(t, p.SetDocument(1, DocumentUpdate{Status: DocWaiverNeeded}))
	require.NoError(t, p.SetDocument(2, DocumentUpdate{Status: DocNA}))

	enc := Enclosures(p)
	require.Len(t, enc, 2)
	require.Equal(t, 1, enc[0].ID)
	require.Equal(t, 5, enc[1].ID)

	groups := GroupByCategory(append(p.Documents, Document{ID: 9, Name: "Loose"}))
	require.Equal(t, []string{"Application", "Records", "Medical", "Other"}, []string{
		groups[0].Category, groups[1].Category, groups[2].Category, groups[3].Category,
	})
	require.Len(t, groups[0].Documents, 2)
}

func TestFilterDocuments(t *testing.T) {
	t.Parallel()

	p := fixture()
	require.NoError(t, p.SetDocument(2, DocumentUpdate{Status: DocComplete}))
	require.Len(t, FilterDocuments(p.Documents, FilterAll), 5)
	done := FilterDocuments(p.Documents, Filter(DocComplete))
	require.Len(t, done, 1)
	require.Equal(t, 2, done[0].ID)
	require.Len(t, FilterDocuments(p.Documents, Filter(DocIncomplete)), 4)
	require.Equal(t, "Waiver Needed", Filter(DocWaiverNeeded).Label())
}

func TestSearchDocuments(t *testing.T) {
	t.Parallel()

	docs := fixture().Documents
	require.Len(t, SearchDocuments(docs, ""), 5)

	byName := SearchDocuments(docs, "bir")
	require.Len(t, byName, 1)
	require.Equal(t, 2, byName[0].ID)

	fuzzy := SearchDocuments(docs, "audiogarm")
	require.Len(t, fuzzy, 1)
	require.Equal(t, 5, fuzzy[0].ID)

	byCategory := SearchDocuments(docs, "medical")
	require.Len(t, byCategory, 2)

	require.Empty(t, SearchDocuments(docs, "zzz"))
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	p := fixture()
	yes := true
	p.Routing[0].Recommends = &yes
	p.Details = map[string]string{"target_board": "FY27"}

	c := p.Clone()
	c.Details["target_board"] = "FY28"
	*c.Routing[0].Recommends = false
	c.Documents[0].Status = DocComplete

	require.Equal(t, "FY27", p.Details["target_board"])
	require.True(t, *p.Routing[0].Recommends)
	require.Equal(t, DocIncomplete, p.Documents[0].Status)
}
