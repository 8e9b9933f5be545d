package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/normalize"
	"github.com/resumify/backend/storage"
	"github.com/resumify/backend/wizard"
)

// DraftHandler drives the create and edit forms
type DraftHandler struct {
	drafts  *wizard.Registry
	resumes storage.ResumeGateway
	log     zerolog.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(drafts *wizard.Registry, resumes storage.ResumeGateway) *DraftHandler {
	return &DraftHandler{
		drafts:  drafts,
		resumes: resumes,
		log:     logger.With("drafts"),
	}
}

// CreateDraft opens a form, empty or from a saved resume
// @Summary Open a draft
// @Description Start the create form, or the edit form when resumeId is given. Edits start at the first step.
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateDraftRequest false "Draft options"
// @Success 201 {object} wizard.State "Draft state"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 404 {object} models.ErrorResponse "Resume not found"
// @Router /drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var req models.CreateDraftRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err)
			return
		}
	}

	uid := currentUID(c)
	opts := []wizard.Option{wizard.WithSession(currentSessionID(c))}
	if req.ResumeID != "" {
		r, err := h.resumes.GetResume(c.Request.Context(), req.ResumeID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				resumeNotFound(c)
				return
			}
			h.log.Error().Err(err).Str("resume", req.ResumeID).Msg("failed to load resume")
			respondError(c, http.StatusInternalServerError, "Failed to load resume", err)
			return
		}
		if r.OwnerID != uid {
			resumeNotFound(c)
			return
		}
		opts = append(opts, wizard.WithResume(r))
	}

	draft := h.drafts.Create(uid, opts...)
	if req.Language != "" {
		if err := draft.ChangeLanguage(c.Request.Context(), req.Language); err != nil && !errors.Is(err, wizard.ErrLabelsUnavailable) {
			_ = h.drafts.Delete(uid, draft.ID())
			respondDraftError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, draft.State())
}

// GetDraft returns the draft state
// @Summary Get draft
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} wizard.State "Draft state"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Router /drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, draft.State())
}

// DiscardDraft closes a draft without saving
// @Summary Discard draft
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} models.MessageResponse "Draft discarded"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Router /drafts/{id} [delete]
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	if err := h.drafts.Delete(currentUID(c), c.Param("id")); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Draft discarded"})
}

// PatchDraft sets draft fields
// @Summary Update draft fields
// @Description Set one or more fields. Values may be a string, an array of strings or an array of records; null clears a field.
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body models.PatchDraftRequest true "Fields"
// @Success 200 {object} wizard.State "Draft state"
// @Failure 400 {object} models.ErrorResponse "Invalid field"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Router /drafts/{id} [patch]
func (h *DraftHandler) PatchDraft(c *gin.Context) {
	var req models.PatchDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	draft, ok := h.load(c)
	if !ok {
		return
	}

	// Decode everything first so a bad value leaves the draft untouched.
	fields := make(map[string]models.FlexField, len(req))
	for key, raw := range req {
		f, err := normalize.FromInput(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid value for "+key, err)
			return
		}
		fields[key] = f
	}
	if err := draft.SetFields(fields); err != nil {
		respondDraftError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft.State())
}

// NextStep validates the active step and moves forward
// @Summary Next step
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} wizard.State "Draft state"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Failure 409 {object} models.ErrorResponse "Draft busy"
// @Failure 422 {object} models.ErrorResponse "Required fields missing"
// @Router /drafts/{id}/next [post]
func (h *DraftHandler) NextStep(c *gin.Context) {
	h.step(c, (*wizard.Controller).Advance)
}

// PreviousStep moves back one step
// @Summary Previous step
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} wizard.State "Draft state"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Failure 409 {object} models.ErrorResponse "Draft busy"
// @Router /drafts/{id}/back [post]
func (h *DraftHandler) PreviousStep(c *gin.Context) {
	h.step(c, (*wizard.Controller).Retreat)
}

func (h *DraftHandler) step(c *gin.Context, move func(*wizard.Controller) error) {
	draft, ok := h.load(c)
	if !ok {
		return
	}
	if err := move(draft); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.State())
}

// ChangeLanguage selects the form language and loads its labels
// @Summary Change language
// @Description Load the labels of a language. On failure the previous labels stay active and the draft can still be saved.
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body models.ChangeLanguageRequest true "Language"
// @Success 200 {object} wizard.State "Draft state"
// @Failure 400 {object} models.ErrorResponse "Unsupported language"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Failure 409 {object} models.ErrorResponse "Draft busy"
// @Failure 502 {object} models.ErrorResponse "Labels unavailable"
// @Router /drafts/{id}/language [post]
func (h *DraftHandler) ChangeLanguage(c *gin.Context) {
	var req models.ChangeLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	draft, ok := h.load(c)
	if !ok {
		return
	}

	if err := draft.ChangeLanguage(c.Request.Context(), req.Language); err != nil {
		if errors.Is(err, wizard.ErrLabelsUnavailable) {
			// The language stays selected; the state carries the error notice.
			c.JSON(http.StatusOK, draft.State())
			return
		}
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.State())
}

// SubmitDraft translates and saves the draft
// @Summary Save resume
// @Description From the last step: validate, translate when the language is not English, then create or update the resume.
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} wizard.SubmitResult "Resume saved"
// @Failure 400 {object} models.ErrorResponse "Not on the last step"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Failure 409 {object} models.ErrorResponse "Draft busy"
// @Failure 422 {object} models.ErrorResponse "Required fields missing"
// @Failure 502 {object} models.ErrorResponse "Save failed, draft kept"
// @Router /drafts/{id}/submit [post]
func (h *DraftHandler) SubmitDraft(c *gin.Context) {
	draft, ok := h.load(c)
	if !ok {
		return
	}

	result, err := draft.Submit(c.Request.Context())
	if err != nil {
		respondDraftError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	_ = h.drafts.Delete(draft.OwnerID(), draft.ID())
	c.JSON(status, result)
}

// AddEntry appends an entry to a list field of the draft
// @Summary Add draft entry
// @Description Append a structured entry (or {"text": "..."}). Refused while the last entry is blank.
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param field path string true "List field, such as experience"
// @Param request body models.EntryRequest false "Entry"
// @Success 200 {object} wizard.State "Draft state"
// @Failure 400 {object} models.ErrorResponse "Invalid entry"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Router /drafts/{id}/entries/{field} [post]
func (h *DraftHandler) AddEntry(c *gin.Context) {
	req := models.EntryRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err)
			return
		}
	}

	draft, ok := h.load(c)
	if !ok {
		return
	}
	if err := draft.AppendEntry(c.Param("field"), entryItem(req)); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.State())
}

// RemoveEntry drops an entry from a list field of the draft
// @Summary Remove draft entry
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param field path string true "List field"
// @Param index path int true "Entry index"
// @Success 200 {object} wizard.State "Draft state"
// @Failure 400 {object} models.ErrorResponse "Invalid index"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Router /drafts/{id}/entries/{field}/{index} [delete]
func (h *DraftHandler) RemoveEntry(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid entry index", err)
		return
	}

	draft, ok := h.load(c)
	if !ok {
		return
	}
	if err := draft.RemoveEntry(c.Param("field"), index); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.State())
}

// PreviewDraft renders the draft as it would be saved
// @Summary Preview draft
// @Tags Drafts
// @Produce html
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} models.ErrorResponse "Draft not found"
// @Router /drafts/{id}/preview [get]
func (h *DraftHandler) PreviewDraft(c *gin.Context) {
	draft, ok := h.load(c)
	if !ok {
		return
	}
	writeHTML(c, draft.Draft(), "")
}

func (h *DraftHandler) load(c *gin.Context) (*wizard.Controller, bool) {
	draft, err := h.drafts.Get(currentUID(c), c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return nil, false
	}
	return draft, true
}
