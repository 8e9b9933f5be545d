package handlers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/analysis"
	"github.com/resumify/backend/labels"
	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/utils"
)

// ResumeTranslator translates a resume record into another language
type ResumeTranslator interface {
	TranslateResume(ctx context.Context, r *models.Resume, targetLang string) (*models.Resume, error)
}

// AIHandler serves the label, translation and analysis endpoints
type AIHandler struct {
	labels     *labels.Provider
	translator ResumeTranslator
	analyzer   *analysis.Analyzer
	extractor  *utils.DocumentExtractor
	log        zerolog.Logger
}

// NewAIHandler creates a new AI handler; translator may be nil when no model is configured
func NewAIHandler(provider *labels.Provider, translator ResumeTranslator, analyzer *analysis.Analyzer) *AIHandler {
	return &AIHandler{
		labels:     provider,
		translator: translator,
		analyzer:   analyzer,
		extractor:  utils.NewDocumentExtractor(),
		log:        logger.With("ai"),
	}
}

// GetLabels returns the form labels of a language
// @Summary Form labels
// @Description Label map of a supported language. English is served locally, others are translated once and cached.
// @Tags AI
// @Produce json
// @Param lang path string true "Language code" example(fr)
// @Success 200 {object} models.LabelsResponse "Labels"
// @Failure 400 {object} models.ErrorResponse "Unsupported language"
// @Failure 502 {object} models.ErrorResponse "Translation failed"
// @Router /labels/{lang} [get]
func (h *AIHandler) GetLabels(c *gin.Context) {
	set, err := h.labels.Labels(c.Request.Context(), c.Param("lang"))
	if err != nil {
		if errors.Is(err, labels.ErrUnsupportedLanguage) {
			respondError(c, http.StatusBadRequest, "Unsupported language", err)
			return
		}
		h.log.Error().Err(err).Str("language", c.Param("lang")).Msg("failed to load labels")
		respondError(c, http.StatusBadGateway, "Failed to load translations", err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// TranslateResume translates the content of a resume
// @Summary Translate resume
// @Description Translate free-text fields of a resume record into targetLang
// @Tags AI
// @Accept json
// @Produce json
// @Param request body models.TranslateResumeRequest true "Resume and target language"
// @Success 200 {object} models.Resume "Translated resume"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 502 {object} models.ErrorResponse "Translation failed"
// @Failure 503 {object} models.ErrorResponse "Translation not configured"
// @Router /translateResume [post]
func (h *AIHandler) TranslateResume(c *gin.Context) {
	var req models.TranslateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	if _, ok := labels.Lookup(req.TargetLang); !ok {
		respondError(c, http.StatusBadRequest, "Unsupported language", nil)
		return
	}
	if h.translator == nil {
		respondError(c, http.StatusServiceUnavailable, "Translation is not configured", nil)
		return
	}

	translated, err := h.translator.TranslateResume(c.Request.Context(), req.ResumeData, req.TargetLang)
	if err != nil {
		h.log.Error().Err(err).Str("language", req.TargetLang).Msg("failed to translate resume")
		respondError(c, http.StatusBadGateway, "Failed to translate resume", err)
		return
	}
	c.JSON(http.StatusOK, translated)
}

// AnalyzeResume scores resume text
// @Summary Analyze resume text
// @Tags AI
// @Accept json
// @Produce json
// @Param request body models.AnalyzeRequest true "Resume text"
// @Success 200 {object} models.AnalyzeResponse "Analysis"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Router /analyzeResume [post]
func (h *AIHandler) AnalyzeResume(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	h.analyze(c, req.ResumeText)
}

// AnalyzeResumeFile scores an uploaded resume file
// @Summary Analyze resume file
// @Description Extract text from a PDF, DOCX or TXT file and score it
// @Tags AI
// @Accept multipart/form-data
// @Produce json
// @Param resumeFile formData file true "Resume file (PDF, DOCX, TXT)"
// @Success 200 {object} models.AnalyzeResponse "Analysis"
// @Failure 400 {object} models.ErrorResponse "Invalid file"
// @Router /analyzeResumeFile [post]
func (h *AIHandler) AnalyzeResumeFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("resumeFile")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Resume file is required", err)
		return
	}
	defer file.Close()

	text, err := h.extractor.ExtractText(file, filepath.Base(header.Filename))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read resume file", err)
		return
	}
	h.analyze(c, text)
}

func (h *AIHandler) analyze(c *gin.Context, text string) {
	result, err := h.analyzer.Analyze(c.Request.Context(), text)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyResume) {
			respondError(c, http.StatusBadRequest, "Resume text is required", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to analyze resume", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
