package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/storage"
)

// MaxPhotoSize caps profile photo uploads
const MaxPhotoSize = 5 << 20

// ProfileHandler serves the dashboard and profile pages
type ProfileHandler struct {
	users   storage.UserStore
	resumes storage.ResumeGateway
	photos  storage.PhotoStore
	log     zerolog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(users storage.UserStore, resumes storage.ResumeGateway, photos storage.PhotoStore) *ProfileHandler {
	return &ProfileHandler{
		users:   users,
		resumes: resumes,
		photos:  photos,
		log:     logger.With("profile"),
	}
}

// GetProfile retrieves the current user's profile
// @Summary Get user profile
// @Description Get the profile with resume count and completion percentage
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileResponse "User profile"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	h.respondProfile(c, user)
}

// UpdateProfile updates the current user's profile
// @Summary Update user profile
// @Description Update display name, phone, LinkedIn, GitHub and bio
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProfileUpdateRequest true "Profile fields"
// @Success 200 {object} models.ProfileResponse "Profile updated"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	req.Apply(user)
	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		h.log.Error().Err(err).Str("uid", user.UID).Msg("failed to update profile")
		respondError(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}

	h.log.Info().Str("uid", user.UID).Msg("profile updated")
	h.respondProfile(c, user)
}

// UploadPhoto replaces the profile photo
// @Summary Upload profile photo
// @Description Upload a JPG, PNG, GIF or WEBP image up to 5MB
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Profile photo"
// @Success 200 {object} models.ProfileResponse "Photo updated"
// @Failure 400 {object} models.ErrorResponse "Invalid file"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /profile/photo [post]
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Photo file is required", err)
		return
	}
	defer file.Close()

	if !storage.IsImage(header.Filename) {
		respondError(c, http.StatusBadRequest, "Unsupported image format", nil)
		return
	}
	if header.Size > MaxPhotoSize {
		respondError(c, http.StatusBadRequest, "Photo must be 5MB or smaller", nil)
		return
	}

	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	url, err := h.photos.UploadPhoto(ctx, user.UID, file, filepath.Base(header.Filename), header.Header.Get("Content-Type"))
	if err != nil {
		h.log.Error().Err(err).Str("uid", user.UID).Msg("failed to upload photo")
		respondError(c, http.StatusInternalServerError, "Failed to upload photo", err)
		return
	}

	previous := user.Photo
	user.Photo = url
	if err := h.users.UpdateUser(ctx, user); err != nil {
		h.log.Error().Err(err).Str("uid", user.UID).Msg("failed to save photo reference")
		respondError(c, http.StatusInternalServerError, "Failed to save photo", err)
		return
	}

	if previous != "" {
		if err := h.photos.DeletePhoto(ctx, previous); err != nil && !errors.Is(err, storage.ErrNotFound) {
			h.log.Warn().Err(err).Str("uid", user.UID).Msg("failed to delete previous photo")
		}
	}

	h.respondProfile(c, user)
}

func (h *ProfileHandler) loadUser(c *gin.Context) (*models.User, bool) {
	user, err := h.users.GetUser(c.Request.Context(), currentUID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User not found", nil)
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to load profile", err)
		}
		return nil, false
	}
	return user, true
}

func (h *ProfileHandler) respondProfile(c *gin.Context, user *models.User) {
	stats := models.ProfileStats{Completion: models.ProfileCompletion(user)}
	if resumes, err := h.resumes.ListResumesByOwner(c.Request.Context(), user.UID); err == nil {
		stats.ResumeCount = len(resumes)
	} else {
		h.log.Warn().Err(err).Str("uid", user.UID).Msg("failed to count resumes")
	}

	c.JSON(http.StatusOK, models.ProfileResponse{User: user, Stats: stats})
}
