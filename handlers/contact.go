package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/storage"
)

// ContactHandler stores contact form messages
type ContactHandler struct {
	messages storage.ContactStore
}

// NewContactHandler creates a new contact handler
func NewContactHandler(messages storage.ContactStore) *ContactHandler {
	return &ContactHandler{messages: messages}
}

// SubmitContact stores a contact form message
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body models.ContactRequest true "Contact form"
// @Success 201 {object} models.MessageResponse "Message sent"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Message == "" {
		respondError(c, http.StatusBadRequest, "Name and message must not be blank", nil)
		return
	}
	if err := h.messages.CreateContactMessage(c.Request.Context(), msg); err != nil {
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to store contact message")
		respondError(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Message sent successfully!"})
}
