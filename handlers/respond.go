package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resumify/backend/auth"
	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/normalize"
	"github.com/resumify/backend/storage"
	"github.com/resumify/backend/wizard"
)

func respondError(c *gin.Context, status int, message string, err error) {
	resp := models.ErrorResponse{
		Error: message,
		Code:  status,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

func invalidBody(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "Invalid request body", err)
}

// resumeNotFound answers a missing or foreign resume and sends the client
// back to its list
func resumeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:    "Resume not found",
		Code:     http.StatusNotFound,
		Redirect: wizard.RedirectTo,
	})
}

func currentUID(c *gin.Context) string {
	if session := auth.GetSession(c); session != nil {
		return session.UID()
	}
	return ""
}

func currentSessionID(c *gin.Context) string {
	if session := auth.GetSession(c); session != nil {
		return session.ID()
	}
	return ""
}

// respondDraftError maps draft and persistence errors onto HTTP statuses
func respondDraftError(c *gin.Context, err error) {
	var validation *wizard.ValidationError
	var persist *wizard.PersistError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "Please fill all required fields before proceeding.",
			Code:    http.StatusUnprocessableEntity,
			Details: err.Error(),
			Missing: validation.Missing,
		})
	case errors.As(err, &persist):
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("resume save failed")
		respondError(c, http.StatusBadGateway, "Failed to save resume. Please try again.", err)
	case errors.Is(err, wizard.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:    "Draft not found",
			Code:     http.StatusNotFound,
			Redirect: wizard.RedirectTo,
		})
	case errors.Is(err, storage.ErrNotFound):
		resumeNotFound(c)
	case errors.Is(err, wizard.ErrBusy):
		respondError(c, http.StatusConflict, "A save or translation is in progress", err)
	case errors.Is(err, wizard.ErrLabelsUnavailable):
		respondError(c, http.StatusBadGateway, "Failed to load translations", err)
	case errors.Is(err, wizard.ErrNotLastStep),
		errors.Is(err, wizard.ErrUnsupportedLanguage),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, models.ErrFieldShape),
		errors.Is(err, normalize.ErrEmptyEntry),
		errors.Is(err, normalize.ErrEntryIndex):
		respondError(c, http.StatusBadRequest, "Invalid draft operation", err)
	default:
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("draft operation failed")
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
