package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/auth"
	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/storage"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	users      storage.UserStore
	sessions   *auth.SessionManager
	googleAuth auth.GoogleVerifier
	log        zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	users storage.UserStore,
	sessions *auth.SessionManager,
	googleAuth auth.GoogleVerifier,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		googleAuth: googleAuth,
		log:        logger.With("auth"),
	}
}

// Register handles user registration with email/password
// @Summary Register a new user
// @Description Register a new user with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.AuthResponse "Registration successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 409 {object} models.ErrorResponse "User already exists"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		invalidBody(c, err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to process registration", nil)
		return
	}

	user := &models.User{
		UID:          uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hashedPassword,
		Provider:     models.ProviderEmail,
	}

	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respondError(c, http.StatusConflict, "An account with this email already exists", nil)
			return
		}
		h.log.Error().Err(err).Msg("failed to create user")
		respondError(c, http.StatusInternalServerError, "Registration failed", err)
		return
	}

	h.signIn(c, http.StatusCreated, user, req.Remember, "Registration successful")
}

// Login handles user login with email/password
// @Summary Login user
// @Description Login with email and password to get JWT token. remember=true issues a durable token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.AuthResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.log.Error().Err(err).Msg("failed to look up user")
		}
		respondError(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	if user.Provider == models.ProviderGoogle && user.PasswordHash == "" {
		respondError(c, http.StatusUnauthorized, "This account uses Google Sign-In. Please login with Google.", nil)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	h.signIn(c, http.StatusOK, user, req.Remember, "Login successful")
}

// GoogleLogin handles Google SSO authentication
// @Summary Login with Google
// @Description Login or register using Google SSO ID token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.GoogleAuthRequest true "Google auth request"
// @Success 200 {object} models.AuthResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Invalid Google token"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	ctx := c.Request.Context()
	googleUser, err := h.googleAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to verify Google token")
		respondError(c, http.StatusUnauthorized, "Invalid Google token", err)
		return
	}

	user, err := h.users.GetUserByGoogleID(ctx, googleUser.GoogleID)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = h.users.GetUserByEmail(ctx, googleUser.Email)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		user = &models.User{
			UID:         uuid.NewString(),
			Email:       strings.ToLower(googleUser.Email),
			DisplayName: googleUser.Name,
			Photo:       googleUser.Picture,
			Provider:    models.ProviderGoogle,
			GoogleID:    googleUser.GoogleID,
		}
		if err := h.users.CreateUser(ctx, user); err != nil {
			h.log.Error().Err(err).Msg("failed to create Google user")
			respondError(c, http.StatusInternalServerError, "Failed to create account", err)
			return
		}
		h.log.Info().Str("uid", user.UID).Msg("new Google user created")
	case err != nil:
		h.log.Error().Err(err).Msg("failed to look up Google user")
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	case user.GoogleID == "":
		// Existing email account signs in with Google for the first time.
		user.GoogleID = googleUser.GoogleID
		if user.Photo == "" {
			user.Photo = googleUser.Picture
		}
		if err := h.users.UpdateUser(ctx, user); err != nil {
			h.log.Warn().Err(err).Str("uid", user.UID).Msg("failed to link Google account")
		}
	}

	h.signIn(c, http.StatusOK, user, req.Remember, "Login successful")
}

// Logout signs the current token out
// @Summary Logout
// @Description Revoke the current token and discard open drafts
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse "Logged out"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session := auth.GetSession(c)
	if session == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	if err := session.Logout(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Str("uid", session.UID()).Msg("failed to revoke token")
		respondError(c, http.StatusInternalServerError, "Failed to logout", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// Me returns the signed-in user
// @Summary Current user
// @Description Get the account of the token holder
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "Current user"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), currentUID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) signIn(c *gin.Context, status int, user *models.User, remember bool, message string) {
	token, expiresAt, err := h.sessions.SignIn(c.Request.Context(), user, remember)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to generate token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	c.JSON(status, models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Message:   message,
	})
}
