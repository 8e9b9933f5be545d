package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/normalize"
	"github.com/resumify/backend/render"
	"github.com/resumify/backend/storage"
	"github.com/resumify/backend/wizard"
)

// ResumeHandler serves saved resumes: listing, editing, preview and export
type ResumeHandler struct {
	resumes storage.ResumeGateway
	pdf     render.PDFRenderer
	log     zerolog.Logger
}

// NewResumeHandler creates a new resume handler; pdf may be nil to disable export
func NewResumeHandler(resumes storage.ResumeGateway, pdf render.PDFRenderer) *ResumeHandler {
	return &ResumeHandler{
		resumes: resumes,
		pdf:     pdf,
		log:     logger.With("resumes"),
	}
}

// ListResumes returns the resumes of the current user
// @Summary List my resumes
// @Description Resumes owned by the current user, newest first
// @Tags Resumes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Resume "Resumes"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /resumes [get]
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	resumes, err := h.resumes.ListResumesByOwner(c.Request.Context(), currentUID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list resumes")
		respondError(c, http.StatusInternalServerError, "Failed to load resumes", err)
		return
	}
	if resumes == nil {
		resumes = []*models.Resume{}
	}
	c.JSON(http.StatusOK, resumes)
}

// GetResume returns one resume of the current user
// @Summary Get resume
// @Tags Resumes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resume ID"
// @Success 200 {object} models.Resume "Resume"
// @Failure 404 {object} models.ErrorResponse "Resume not found"
// @Router /resumes/{id} [get]
func (h *ResumeHandler) GetResume(c *gin.Context) {
	r, ok := h.loadOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateResume replaces the content of a resume
// @Summary Update resume
// @Description Replace every field of a resume. Owner and creation time are kept.
// @Tags Resumes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resume ID"
// @Param request body models.Resume true "Resume record"
// @Success 200 {object} models.Resume "Updated resume"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 404 {object} models.ErrorResponse "Resume not found"
// @Failure 422 {object} models.ErrorResponse "Required fields missing"
// @Failure 502 {object} models.ErrorResponse "Save failed"
// @Router /resumes/{id} [put]
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	var body models.Resume
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidBody(c, err)
		return
	}

	existing, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var missing []string
	for _, step := range wizard.Steps {
		missing = append(missing, step.Missing(&body)...)
	}
	if len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "Please fill all required fields before proceeding.",
			Code:    http.StatusUnprocessableEntity,
			Missing: missing,
		})
		return
	}

	now := time.Now()
	body.ID = existing.ID
	body.OwnerID = existing.OwnerID
	body.CreatedAt = existing.CreatedAt
	body.UpdatedAt = &now
	if body.Language == "" {
		body.Language = existing.Language
	}
	if body.TranslatedLabels == nil {
		body.TranslatedLabels = existing.TranslatedLabels
	}

	h.save(c, &body)
}

// DeleteResume removes a resume for good
// @Summary Delete resume
// @Tags Resumes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resume ID"
// @Success 200 {object} models.MessageResponse "Resume deleted"
// @Failure 404 {object} models.ErrorResponse "Resume not found"
// @Router /resumes/{id} [delete]
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	r, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if err := h.resumes.DeleteResume(c.Request.Context(), r.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			resumeNotFound(c)
			return
		}
		h.log.Error().Err(err).Str("resume", r.ID).Msg("failed to delete resume")
		respondError(c, http.StatusInternalServerError, "Failed to delete resume", err)
		return
	}

	h.log.Info().Str("resume", r.ID).Msg("resume deleted")
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Resume deleted"})
}

// AddEntry appends one entry to a list field of a saved resume
// @Summary Add entry
// @Description Append a structured entry (or {"text": "..."}) to a list field. Refused while the last entry is blank.
// @Tags Resumes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resume ID"
// @Param field path string true "List field, such as experience"
// @Param request body models.EntryRequest true "Entry"
// @Success 200 {object} models.Resume "Updated resume"
// @Failure 400 {object} models.ErrorResponse "Invalid entry"
// @Failure 404 {object} models.ErrorResponse "Resume not found"
// @Router /resumes/{id}/entries/{field} [post]
func (h *ResumeHandler) AddEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	r, ok := h.loadOwned(c)
	if !ok {
		return
	}

	field := c.Param("field")
	if !models.IsListKey(field) {
		respondDraftError(c, fmt.Errorf("%w: %s", wizard.ErrUnknownField, field))
		return
	}
	updated, err := normalize.AppendEntry(r.Field(field), entryItem(req))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	if err := r.SetField(field, updated); err != nil {
		respondDraftError(c, err)
		return
	}

	now := time.Now()
	r.UpdatedAt = &now
	h.save(c, r)
}

// PreviewResume renders the resume as an HTML page
// @Summary Preview resume
// @Description Render the resume with its saved section labels
// @Tags Resumes
// @Produce html
// @Security BearerAuth
// @Param id path string true "Resume ID"
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} models.ErrorResponse "Resume not found"
// @Router /resumes/{id}/preview [get]
func (h *ResumeHandler) PreviewResume(c *gin.Context) {
	r, ok := h.loadOwned(c)
	if !ok {
		return
	}

	downloadURL := ""
	if h.pdf != nil {
		downloadURL = "/api/resumes/" + r.ID + "/export"
	}
	writeHTML(c, r, downloadURL)
}

// ExportResume renders the resume as an A4 PDF
// @Summary Export resume PDF
// @Tags Resumes
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Resume ID"
// @Success 200 {file} file "PDF document"
// @Failure 404 {object} models.ErrorResponse "Resume not found"
// @Failure 503 {object} models.ErrorResponse "Export unavailable"
// @Router /resumes/{id}/export [get]
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	r, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if h.pdf == nil {
		respondError(c, http.StatusServiceUnavailable, "PDF export is not available", nil)
		return
	}

	data, err := h.pdf.RenderPDF(c.Request.Context(), r)
	if err != nil {
		h.log.Error().Err(err).Str("resume", r.ID).Msg("failed to render pdf")
		respondError(c, http.StatusInternalServerError, "Failed to export resume", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(r)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// loadOwned loads :id and answers 404 with a redirect when it is missing
// or belongs to someone else
func (h *ResumeHandler) loadOwned(c *gin.Context) (*models.Resume, bool) {
	r, err := h.resumes.GetResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			resumeNotFound(c)
		} else {
			h.log.Error().Err(err).Str("resume", c.Param("id")).Msg("failed to load resume")
			respondError(c, http.StatusInternalServerError, "Failed to load resume", err)
		}
		return nil, false
	}
	if r.OwnerID != currentUID(c) {
		resumeNotFound(c)
		return nil, false
	}
	return r, true
}

func (h *ResumeHandler) save(c *gin.Context, r *models.Resume) {
	saved, err := h.resumes.UpdateResume(c.Request.Context(), r)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			resumeNotFound(c)
			return
		}
		h.log.Error().Err(err).Str("resume", r.ID).Msg("failed to update resume")
		respondError(c, http.StatusBadGateway, "Failed to save resume. Please try again.", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// entryItem turns a request body into a list entry: {"text": "..."} alone
// is a text entry, anything else a record
func entryItem(req models.EntryRequest) models.Item {
	if text, ok := req["text"]; ok && len(req) == 1 {
		return models.TextItem(text)
	}
	return models.RecordItem(req)
}

func writeHTML(c *gin.Context, r *models.Resume, downloadURL string) {
	var buf bytes.Buffer
	if err := render.WritePreview(&buf, r, downloadURL); err != nil {
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to render preview")
		respondError(c, http.StatusInternalServerError, "Failed to render preview", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func pdfFilename(r *models.Resume) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r), r == '-', r == '_':
			return '_'
		}
		return -1
	}, strings.TrimSpace(r.FullName))
	if name == "" {
		return "resume.pdf"
	}
	return name + "_Resume.pdf"
}
