// Package wizard drives the multi-step resume form: step sequencing,
// per-step validation, language selection and the translate-then-save
// submit pipeline.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumify/backend/labels"
	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/normalize"
)

// Redirect after a successful submit
const (
	RedirectTo    = "/my-resumes"
	RedirectAfter = 2 * time.Second
)

// LabelResolver loads the form labels of a language
type LabelResolver interface {
	Resolve(ctx context.Context, code string) (labels.Set, error)
}

// Translator translates the free-text content of a resume
type Translator interface {
	Translate(ctx context.Context, r *models.Resume, targetLang string) (*models.Resume, error)
}

// Gateway persists submitted resumes
type Gateway interface {
	CreateResume(ctx context.Context, r *models.Resume) (*models.Resume, error)
	UpdateResume(ctx context.Context, r *models.Resume) (*models.Resume, error)
}

// Notice is a user-visible message produced by a draft operation
type Notice struct {
	Level   string `json:"level"` // info, success, warning, error
	Message string `json:"message"`
}

// Notice levels
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// State is a point-in-time view of a draft
type State struct {
	ID              string            `json:"id"`
	Step            int               `json:"step"`
	StepInfo        Step              `json:"stepInfo"`
	TotalSteps      int               `json:"totalSteps"`
	Progress        int               `json:"progress"`
	IsLastStep      bool              `json:"isLastStep"`
	Editing         bool              `json:"editing"`
	Language        string            `json:"language"`
	Labels          labels.Set        `json:"labels"`
	Saving          bool              `json:"saving"`
	Translating     bool              `json:"translating"`
	LanguageLoading bool              `json:"languageLoading"`
	Draft           *models.Resume    `json:"draft"`
	Notices         []Notice          `json:"notices,omitempty"`
	Languages       []labels.Language `json:"languages"`
}

// SubmitResult describes a successful submit
type SubmitResult struct {
	Resume        *models.Resume `json:"resume"`
	Created       bool           `json:"created"`
	Translated    bool           `json:"translated"`
	RedirectTo    string         `json:"redirectTo"`
	RedirectAfter int64          `json:"redirectAfterMs" example:"2000"`
}

// Controller holds one draft and its form state. All methods are safe for
// concurrent use; remote calls run without holding the lock.
type Controller struct {
	mu sync.Mutex

	id        string
	ownerID   string
	sessionID string
	step    int
	draft   *models.Resume

	language string
	labels   labels.Set

	saving      bool
	translating bool
	labelSeq    uint64 // newest label request
	loadingSeq  uint64 // label request in flight, 0 when idle

	notices []Notice
	touched time.Time

	resolver   LabelResolver
	translator Translator
	gateway    Gateway
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithID sets the draft id
func WithID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// WithSession ties the draft to the sign-in session that opened it
func WithSession(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// WithResume starts from an existing resume (the edit flow)
func WithResume(r *models.Resume) Option {
	return func(c *Controller) {
		if r == nil {
			return
		}
		c.draft = r.Clone()
		if r.Language != "" {
			c.language = r.Language
		}
	}
}

// WithStartStep starts the form at step index n
func WithStartStep(n int) Option {
	return func(c *Controller) {
		if n >= 0 && n <= LastStep {
			c.step = n
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller for a draft owned by ownerID
func New(ownerID string, resolver LabelResolver, translator Translator, gateway Gateway, opts ...Option) *Controller {
	c := &Controller{
		ownerID:    ownerID,
		draft:      &models.Resume{Language: models.DefaultLanguage},
		language:   models.DefaultLanguage,
		labels:     labels.EnglishForm(),
		resolver:   resolver,
		translator: translator,
		gateway:    gateway,
		now:        time.Now,
		log:        logger.With("wizard"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.draft.Language = c.language
	if c.draft.TranslatedLabels == nil {
		c.draft.TranslatedLabels = labels.DefaultTranslated()
	}
	c.touched = c.now()
	c.log = c.log.With().Str("draft", c.id).Logger()
	return c
}

// ID returns the draft id
func (c *Controller) ID() string {
	return c.id
}

// SessionID returns the id of the session that opened the draft
func (c *Controller) SessionID() string {
	return c.sessionID
}

// OwnerID returns the uid of the draft owner
func (c *Controller) OwnerID() string {
	return c.ownerID
}

// LastTouched returns the time of the last operation on the draft
func (c *Controller) LastTouched() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

func (c *Controller) busy() bool {
	return c.saving || c.translating
}

func (c *Controller) notify(level, msg string) {
	c.notices = append(c.notices, Notice{Level: level, Message: msg})
}

func (c *Controller) touch() {
	c.touched = c.now()
}

// Advance validates the active step and moves forward on success
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.busy() {
		return ErrBusy
	}
	step := Steps[c.step]
	if missing := step.Missing(c.draft); len(missing) > 0 {
		c.notify(NoticeWarning, "Please fill all required fields before proceeding.")
		return &ValidationError{Step: step.ID, Missing: missing}
	}
	if c.step < LastStep {
		c.step++
	}
	return nil
}

// Retreat moves back one step without validation; no-op at the first step
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.busy() {
		return ErrBusy
	}
	if c.step > 0 {
		c.step--
	}
	return nil
}

// SetField replaces one draft field
func (c *Controller) SetField(key string, value models.FlexField) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if !models.IsScalarKey(key) && !models.IsListKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return c.draft.SetField(key, value)
}

// SetFields replaces several fields at once. Either every field is applied
// or, on the first unknown key or shape mismatch, none is.
func (c *Controller) SetFields(fields map[string]models.FlexField) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	next := c.draft.Clone()
	for key, value := range fields {
		if !models.IsScalarKey(key) && !models.IsListKey(key) {
			return fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		if err := next.SetField(key, value); err != nil {
			return err
		}
	}
	c.draft = next
	return nil
}

// AppendEntry adds an entry to a list field, refusing while the last entry is empty
func (c *Controller) AppendEntry(key string, item models.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if !models.IsListKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	f, err := normalize.AppendEntry(c.draft.Field(key), item)
	if err != nil {
		return err
	}
	return c.draft.SetField(key, f)
}

// RemoveEntry drops the entry at index from a list field
func (c *Controller) RemoveEntry(key string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if !models.IsListKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	f, err := normalize.RemoveEntry(c.draft.Field(key), index)
	if err != nil {
		return err
	}
	return c.draft.SetField(key, f)
}

// ChangeLanguage switches the draft language and loads its labels. Choosing
// the active language does nothing. When requests overlap, only the newest
// response is applied. A failed load keeps the previous labels and returns
// ErrLabelsUnavailable; it never blocks submit.
func (c *Controller) ChangeLanguage(ctx context.Context, code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	lang, ok := labels.Lookup(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	c.mu.Lock()
	c.touch()
	if c.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	if code == c.language {
		c.mu.Unlock()
		return nil
	}
	c.language = code
	c.draft.Language = code
	c.labelSeq++
	seq := c.labelSeq
	c.loadingSeq = seq
	c.notify(NoticeInfo, fmt.Sprintf("Loading %s translations...", lang.Name))
	c.mu.Unlock()

	set, err := c.resolver.Resolve(ctx, code)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.labelSeq {
		c.log.Debug().Str("language", code).Uint64("seq", seq).Msg("discarding stale label response")
		return nil
	}
	c.loadingSeq = 0
	if err != nil {
		c.log.Warn().Err(err).Str("language", code).Msg("label resolution failed")
		c.notify(NoticeError, "Failed to load translations. Using English as fallback.")
		return fmt.Errorf("%w: %v", ErrLabelsUnavailable, err)
	}
	merged := labels.EnglishForm()
	for k, v := range set {
		if strings.TrimSpace(v) != "" {
			merged[k] = v
		}
	}
	c.labels = merged
	c.notify(NoticeSuccess, fmt.Sprintf("Language changed to %s!", lang.Name))
	return nil
}

// Submit runs the save pipeline from the last step: validate, translate when
// the language is not English, then create or update. Translation failure
// falls back to the untranslated draft. Persistence failure returns a
// *PersistError and leaves step and draft untouched for retry.
func (c *Controller) Submit(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	c.touch()
	if c.busy() {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if c.step != LastStep {
		c.mu.Unlock()
		return nil, ErrNotLastStep
	}
	step := Steps[c.step]
	if missing := step.Missing(c.draft); len(missing) > 0 {
		c.notify(NoticeWarning, "Please fill all required fields before proceeding.")
		c.mu.Unlock()
		return nil, &ValidationError{Step: step.ID, Missing: missing}
	}

	draft := c.draft.Clone()
	lang := c.language
	c.saving = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.saving = false
		c.translating = false
		c.mu.Unlock()
	}()

	record, translated := c.translate(ctx, draft, lang)
	record.Language = lang
	if translated {
		record.TranslatedLabels = labels.Snapshot(record.TranslatedLabels)
	} else {
		record.TranslatedLabels = labels.DefaultTranslated()
	}

	now := c.now()
	var (
		saved *models.Resume
		err   error
		op    string
	)
	created := record.ID == ""
	if created {
		op = "create"
		record.OwnerID = c.ownerID
		record.CreatedAt = &now
		record.UpdatedAt = nil
		saved, err = c.gateway.CreateResume(ctx, record)
	} else {
		op = "update"
		record.UpdatedAt = &now
		saved, err = c.gateway.UpdateResume(ctx, record)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("failed to save resume")
		c.notify(NoticeError, "Failed to save resume. Please try again.")
		return nil, &PersistError{Op: op, Err: err}
	}

	c.draft.ID = saved.ID
	if created {
		c.draft.OwnerID = saved.OwnerID
		c.notify(NoticeSuccess, "Resume created successfully!")
	} else {
		c.notify(NoticeSuccess, "Resume updated successfully!")
	}
	c.log.Info().Str("resume", saved.ID).Str("op", op).Bool("translated", translated).Msg("resume saved")

	return &SubmitResult{
		Resume:        saved,
		Created:       created,
		Translated:    translated,
		RedirectTo:    RedirectTo,
		RedirectAfter: RedirectAfter.Milliseconds(),
	}, nil
}

// translate returns the record to persist and whether it was translated
func (c *Controller) translate(ctx context.Context, draft *models.Resume, lang string) (*models.Resume, bool) {
	if lang == "" || lang == models.DefaultLanguage || c.translator == nil {
		return draft, false
	}

	c.mu.Lock()
	c.translating = true
	c.notify(NoticeInfo, "Translating your resume content...")
	c.mu.Unlock()

	out, err := c.translator.Translate(ctx, draft, lang)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.translating = false
	if err != nil || out == nil {
		if err == nil {
			err = errors.New("empty translation")
		}
		c.log.Warn().Err(err).Str("language", lang).Msg("translation failed, saving original content")
		c.notify(NoticeError, "Translation failed. Saving in original language.")
		return draft, false
	}
	c.notify(NoticeSuccess, "Resume content translated successfully!")
	return mergeTranslation(draft, out), true
}

// mergeTranslation copies translated content and section headings over the
// draft, keeping identity and ownership from the draft and the draft's value
// for any field the translation left out
func mergeTranslation(draft, translated *models.Resume) *models.Resume {
	out := draft.Clone()
	out.TranslatedLabels = translated.TranslatedLabels
	for _, key := range append(append([]string{}, models.ScalarKeys...), models.ListKeys...) {
		if f := translated.Field(key); !f.IsAbsent() {
			_ = out.SetField(key, f)
		}
	}
	return out
}

// State returns a snapshot of the draft and drains pending notices
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	notices := c.notices
	c.notices = nil

	return State{
		ID:              c.id,
		Step:            c.step,
		StepInfo:        Steps[c.step],
		TotalSteps:      len(Steps),
		Progress:        int(math.Round(float64(c.step+1) * 100 / float64(len(Steps)))),
		IsLastStep:      c.step == LastStep,
		Editing:         c.draft.ID != "",
		Language:        c.language,
		Labels:          c.labels.Clone(),
		Saving:          c.saving,
		Translating:     c.translating,
		LanguageLoading: c.loadingSeq != 0,
		Draft:           c.draft.Clone(),
		Notices:         notices,
		Languages:       labels.Languages,
	}
}

// Draft returns a copy of the current draft record
func (c *Controller) Draft() *models.Resume {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}
