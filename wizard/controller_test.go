package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumify/backend/labels"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/normalize"
)

type fakeResolver struct {
	mu    sync.Mutex
	calls []string
	sets  map[string]labels.Set
	err   error
	// gate, when set per language, blocks Resolve until closed
	gate map[string]chan struct{}
}

func (f *fakeResolver) Resolve(ctx context.Context, code string) (labels.Set, error) {
	f.mu.Lock()
	f.calls = append(f.calls, code)
	gate := f.gate[code]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.sets[code], nil
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeTranslator struct {
	calls []string
	err   error
	fn    func(*models.Resume) *models.Resume
}

func (f *fakeTranslator) Translate(ctx context.Context, r *models.Resume, lang string) (*models.Resume, error) {
	f.calls = append(f.calls, lang)
	if f.err != nil {
		return nil, f.err
	}
	if f.fn != nil {
		return f.fn(r), nil
	}
	return r, nil
}

type fakeGateway struct {
	creates []*models.Resume
	updates []*models.Resume
	err     error
	order   *[]string
}

func (f *fakeGateway) CreateResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	if f.order != nil {
		*f.order = append(*f.order, "create")
	}
	f.creates = append(f.creates, r.Clone())
	if f.err != nil {
		return nil, f.err
	}
	out := r.Clone()
	out.ID = "new-id"
	return out, nil
}

func (f *fakeGateway) UpdateResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	if f.order != nil {
		*f.order = append(*f.order, "update")
	}
	f.updates = append(f.updates, r.Clone())
	if f.err != nil {
		return nil, f.err
	}
	return r.Clone(), nil
}

func completeDraft() *models.Resume {
	return &models.Resume{
		FullName:   "Jane Doe",
		Email:      "jane@x.com",
		Phone:      "123",
		Summary:    "...",
		Skills:     models.Text("JS, Go"),
		Experience: models.Text("5 years"),
		Education:  models.Text("BSc"),
		Language:   "en",
	}
}

func TestAdvanceValidatesEachStep(t *testing.T) {
	c := New("u1", &fakeResolver{}, &fakeTranslator{}, &fakeGateway{})

	err := c.Advance()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "contact", verr.Step)
	assert.Equal(t, []string{models.KeyFullName, models.KeyEmail, models.KeyPhone}, verr.Missing)
	assert.Equal(t, 0, c.State().Step)

	require.NoError(t, c.SetField(models.KeyFullName, models.Text("Jane")))
	require.NoError(t, c.SetField(models.KeyEmail, models.Text("j@x.com")))
	require.NoError(t, c.SetField(models.KeyPhone, models.Text("   ")))
	require.Error(t, c.Advance(), "whitespace is blank")

	require.NoError(t, c.SetField(models.KeyPhone, models.Text("1")))
	require.NoError(t, c.Advance())
	assert.Equal(t, 1, c.State().Step)
}

func TestRequiredFieldTable(t *testing.T) {
	cases := []struct {
		step  string
		set   map[string]models.FlexField
		valid bool
	}{
		{"summary", nil, false},
		{"summary", map[string]models.FlexField{models.KeySummary: models.Text("x")}, true},
		{"skills", map[string]models.FlexField{models.KeySkills: models.Strings("Go")}, true},
		{"skills", map[string]models.FlexField{models.KeySkills: models.List()}, false},
		{"experience", map[string]models.FlexField{models.KeyExperience: models.Text(" ")}, false},
		{"education", map[string]models.FlexField{models.KeyEducation: models.Text("BSc")}, true},
		{"projects", nil, false},
		{"projects", map[string]models.FlexField{models.KeyProjects: models.Text("API")}, true},
		{"projects", map[string]models.FlexField{models.KeyInternship: models.Text("Acme")}, true},
		{"projects", map[string]models.FlexField{models.KeyProjects: models.Text("a"), models.KeyInternship: models.Text("b")}, true},
		{"certifications", nil, true},
		{"achievements", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.step, func(t *testing.T) {
			c := New("u1", &fakeResolver{}, nil, &fakeGateway{}, WithStartStep(StepIndex(tc.step)))
			for k, v := range tc.set {
				require.NoError(t, c.SetField(k, v))
			}
			err := c.Advance()
			if tc.valid {
				assert.NoError(t, err)
				assert.Equal(t, StepIndex(tc.step)+1, c.State().Step)
			} else {
				assert.Error(t, err)
				assert.Equal(t, StepIndex(tc.step), c.State().Step)
			}
		})
	}
}

func TestRetreatNeverValidates(t *testing.T) {
	c := New("u1", &fakeResolver{}, nil, &fakeGateway{})
	require.NoError(t, c.Retreat())
	assert.Equal(t, 0, c.State().Step)

	c = New("u1", &fakeResolver{}, nil, &fakeGateway{}, WithStartStep(4))
	require.NoError(t, c.Retreat())
	assert.Equal(t, 3, c.State().Step)
	st := c.State()
	assert.Empty(t, st.Notices)
}

func TestAdvanceStopsAtLastStep(t *testing.T) {
	c := New("u1", &fakeResolver{}, nil, &fakeGateway{}, WithStartStep(LastStep))
	require.NoError(t, c.Advance())
	st := c.State()
	assert.Equal(t, LastStep, st.Step)
	assert.True(t, st.IsLastStep)
	assert.Equal(t, 100, st.Progress)
}

func TestSubmitCreatesWithOwner(t *testing.T) {
	tr := &fakeTranslator{}
	gw := &fakeGateway{}
	fixed := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := New("uid-1", &fakeResolver{}, tr, gw,
		WithResume(completeDraft()), WithStartStep(LastStep), WithClock(func() time.Time { return fixed }))

	res, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, gw.creates, 1)
	assert.Empty(t, gw.updates)
	assert.Empty(t, tr.calls)

	saved := gw.creates[0]
	assert.Equal(t, "uid-1", saved.OwnerID)
	require.NotNil(t, saved.CreatedAt)
	assert.Equal(t, fixed, *saved.CreatedAt)
	assert.Nil(t, saved.UpdatedAt)
	assert.Equal(t, labels.DefaultTranslated(), labels.Set(saved.TranslatedLabels))

	assert.True(t, res.Created)
	assert.Equal(t, "/my-resumes", res.RedirectTo)
	assert.Equal(t, int64(2000), res.RedirectAfter)
	assert.Equal(t, "new-id", c.Draft().ID)
}

func TestSubmitTranslatesThenUpdates(t *testing.T) {
	var order []string
	tr := &fakeTranslator{fn: func(r *models.Resume) *models.Resume {
		order = append(order, "translate")
		out := r.Clone()
		out.Summary = "Résumé"
		out.OwnerID = "someone-else"
		return out
	}}
	gw := &fakeGateway{order: &order}
	draft := completeDraft()
	draft.ID = "abc123"
	draft.OwnerID = "uid-1"
	draft.Language = "fr"

	c := New("uid-1", &fakeResolver{}, tr, gw, WithResume(draft), WithStartStep(LastStep))
	res, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"fr"}, tr.calls)
	assert.Equal(t, []string{"translate", "update"}, order)
	require.Len(t, gw.updates, 1)
	assert.Empty(t, gw.creates)
	assert.Equal(t, "abc123", gw.updates[0].ID)
	assert.Equal(t, "Résumé", gw.updates[0].Summary)
	assert.Equal(t, "uid-1", gw.updates[0].OwnerID)
	assert.NotNil(t, gw.updates[0].UpdatedAt)
	assert.True(t, res.Translated)
	assert.False(t, res.Created)
}

func TestSubmitTranslationFailureStillSaves(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("boom")}
	gw := &fakeGateway{}
	draft := completeDraft()
	draft.ID = "abc123"
	draft.Language = "fr"

	c := New("uid-1", &fakeResolver{}, tr, gw, WithResume(draft), WithStartStep(LastStep))
	res, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Len(t, tr.calls, 1)
	require.Len(t, gw.updates, 1)
	assert.Equal(t, "...", gw.updates[0].Summary)
	assert.Equal(t, "fr", gw.updates[0].Language)
	assert.False(t, res.Translated)

	var levels []string
	for _, n := range c.State().Notices {
		levels = append(levels, n.Level)
	}
	assert.Contains(t, levels, NoticeError)
	assert.Contains(t, levels, NoticeSuccess)
}

func TestSubmitPersistFailureKeepsDraft(t *testing.T) {
	gw := &fakeGateway{err: errors.New("unavailable")}
	c := New("uid-1", &fakeResolver{}, nil, gw, WithResume(completeDraft()), WithStartStep(LastStep))

	_, err := c.Submit(context.Background())
	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create", perr.Op)

	st := c.State()
	assert.Equal(t, LastStep, st.Step)
	assert.False(t, st.Saving)
	assert.Equal(t, "Jane Doe", st.Draft.FullName)
	assert.Empty(t, st.Draft.ID)

	gw.err = nil
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, gw.creates, 2)
}

func TestSubmitOnlyFromLastStep(t *testing.T) {
	gw := &fakeGateway{}
	c := New("uid-1", &fakeResolver{}, nil, gw, WithResume(completeDraft()))
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotLastStep)
	assert.Empty(t, gw.creates)
}

type blockingGateway struct {
	fakeGateway
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGateway) CreateResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	close(b.entered)
	<-b.release
	return b.fakeGateway.CreateResume(ctx, r)
}

func TestBusyWhileSaving(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	c := New("uid-1", &fakeResolver{}, nil, gw, WithResume(completeDraft()), WithStartStep(LastStep))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-gw.entered

	assert.True(t, c.State().Saving)
	assert.ErrorIs(t, c.Retreat(), ErrBusy)
	assert.ErrorIs(t, c.Advance(), ErrBusy)
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.ChangeLanguage(context.Background(), "fr"), ErrBusy)

	close(gw.release)
	require.NoError(t, <-done)
	assert.False(t, c.State().Saving)
	assert.Len(t, gw.creates, 1)
}

func TestChangeLanguageSameCodeIsNoop(t *testing.T) {
	res := &fakeResolver{}
	c := New("u1", res, nil, &fakeGateway{})
	require.NoError(t, c.ChangeLanguage(context.Background(), "en"))
	assert.Equal(t, 0, res.callCount())
}

func TestChangeLanguageAppliesLabels(t *testing.T) {
	res := &fakeResolver{sets: map[string]labels.Set{"fr": {"skills": "Compétences", "next": "Suivant"}}}
	c := New("u1", res, nil, &fakeGateway{})

	require.NoError(t, c.ChangeLanguage(context.Background(), "fr"))
	require.NoError(t, c.ChangeLanguage(context.Background(), "fr"))
	assert.Equal(t, 1, res.callCount())

	st := c.State()
	assert.Equal(t, "fr", st.Language)
	assert.Equal(t, "Compétences", st.Labels["skills"])
	assert.Equal(t, "Professional Title", st.Labels["title"])
	assert.False(t, st.LanguageLoading)
}

func TestChangeLanguageFailureKeepsLabels(t *testing.T) {
	res := &fakeResolver{err: errors.New("502")}
	c := New("u1", res, nil, &fakeGateway{})

	err := c.ChangeLanguage(context.Background(), "de")
	assert.ErrorIs(t, err, ErrLabelsUnavailable)

	st := c.State()
	assert.Equal(t, "Key Skills (separate by commas)", st.Labels["skills"])
	assert.False(t, st.LanguageLoading)
	assert.Equal(t, NoticeError, st.Notices[len(st.Notices)-1].Level)
}

func TestChangeLanguageRejectsUnknownCode(t *testing.T) {
	c := New("u1", &fakeResolver{}, nil, &fakeGateway{})
	assert.ErrorIs(t, c.ChangeLanguage(context.Background(), "xx"), ErrUnsupportedLanguage)
}

func TestStaleLabelResponseIsDiscarded(t *testing.T) {
	frGate := make(chan struct{})
	res := &fakeResolver{
		sets: map[string]labels.Set{
			"fr": {"skills": "Compétences"},
			"de": {"skills": "Fähigkeiten"},
		},
		gate: map[string]chan struct{}{"fr": frGate},
	}
	c := New("u1", res, nil, &fakeGateway{})

	frDone := make(chan error, 1)
	go func() { frDone <- c.ChangeLanguage(context.Background(), "fr") }()
	require.Eventually(t, func() bool { return res.callCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, c.State().LanguageLoading)

	require.NoError(t, c.ChangeLanguage(context.Background(), "de"))
	close(frGate)
	require.NoError(t, <-frDone)

	st := c.State()
	assert.Equal(t, "de", st.Language)
	assert.Equal(t, "Fähigkeiten", st.Labels["skills"])
	assert.False(t, st.LanguageLoading)
}

func TestSubmitKeepsTranslatedHeadings(t *testing.T) {
	res := &fakeResolver{sets: map[string]labels.Set{"es": {"skills": "Habilidades clave (separadas por comas)"}}}
	tr := &fakeTranslator{fn: func(r *models.Resume) *models.Resume {
		out := r.Clone()
		out.TranslatedLabels = map[string]string{"skills": "Habilidades", "summary": "", "next": "Siguiente"}
		return out
	}}
	gw := &fakeGateway{}
	c := New("u1", res, tr, gw, WithResume(completeDraft()), WithStartStep(LastStep))
	require.NoError(t, c.ChangeLanguage(context.Background(), "es"))

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, gw.creates, 1)
	saved := gw.creates[0].TranslatedLabels
	assert.Equal(t, "Habilidades", saved["skills"])
	assert.Equal(t, "Summary", saved["summary"])
	assert.Equal(t, "Education", saved["education"])
	assert.NotContains(t, saved, "next")
	assert.Equal(t, "es", gw.creates[0].Language)
}

func TestSubmitAfterLabelFailureSavesEnglishHeadings(t *testing.T) {
	res := &fakeResolver{err: errors.New("offline")}
	tr := &fakeTranslator{err: errors.New("offline")}
	gw := &fakeGateway{}
	c := New("u1", res, tr, gw, WithResume(completeDraft()), WithStartStep(LastStep))
	assert.ErrorIs(t, c.ChangeLanguage(context.Background(), "fr"), ErrLabelsUnavailable)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, gw.creates, 1)
	saved := gw.creates[0]
	assert.Equal(t, "fr", saved.Language)
	assert.Equal(t, labels.DefaultTranslated(), labels.Set(saved.TranslatedLabels))
	assert.Equal(t, "Skills", saved.TranslatedLabels["skills"])
	assert.Equal(t, "Summary", saved.TranslatedLabels["summary"])
}

func TestSetFieldsIsAllOrNothing(t *testing.T) {
	c := New("u1", &fakeResolver{}, nil, &fakeGateway{})

	err := c.SetFields(map[string]models.FlexField{
		models.KeyFullName: models.Text("Jane"),
		models.KeySummary:  models.Strings("not", "text"),
	})
	assert.ErrorIs(t, err, models.ErrFieldShape)
	assert.Empty(t, c.Draft().FullName)
	assert.Empty(t, c.Draft().Summary)

	err = c.SetFields(map[string]models.FlexField{
		models.KeyFullName: models.Text("Jane"),
		"nickname":         models.Text("J"),
	})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Empty(t, c.Draft().FullName)

	require.NoError(t, c.SetFields(map[string]models.FlexField{
		models.KeyFullName: models.Text("Jane"),
		models.KeySkills:   models.Strings("Go"),
	}))
	assert.Equal(t, "Jane", c.Draft().FullName)
	assert.Equal(t, 1, c.Draft().Skills.Len())
}

func TestEntryEditing(t *testing.T) {
	c := New("u1", &fakeResolver{}, nil, &fakeGateway{})
	require.NoError(t, c.AppendEntry(models.KeyExperience, models.RecordItem(map[string]string{"title": ""})))
	err := c.AppendEntry(models.KeyExperience, models.RecordItem(map[string]string{"title": "Dev"}))
	assert.ErrorIs(t, err, normalize.ErrEmptyEntry)

	require.NoError(t, c.RemoveEntry(models.KeyExperience, 0))
	assert.Equal(t, 0, c.Draft().Experience.Len())

	assert.ErrorIs(t, c.AppendEntry(models.KeyEmail, models.TextItem("x")), ErrUnknownField)
	assert.ErrorIs(t, c.SetField("bogus", models.Text("x")), ErrUnknownField)
}

func TestStateDrainsNotices(t *testing.T) {
	c := New("u1", &fakeResolver{}, nil, &fakeGateway{})
	_ = c.Advance()
	assert.Len(t, c.State().Notices, 1)
	assert.Empty(t, c.State().Notices)
}
