package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumify/backend/cache"
	"github.com/resumify/backend/config"
	"github.com/resumify/backend/models"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiryHours: 1, JWTRememberHours: 48}
}

func TestGenerateTokenLifetimes(t *testing.T) {
	svc := NewJWTService(testConfig(), cache.NewMemoryCache())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	user := &models.User{UID: "u1", Email: "jane@x.com", DisplayName: "Jane"}

	_, short, err := svc.GenerateToken(user, false)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), short)

	token, long, err := svc.GenerateToken(user, true)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(48*time.Hour), long)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "Jane", claims.DisplayName)
	assert.True(t, claims.Remember)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := NewJWTService(testConfig(), nil)
	token, _, err := svc.GenerateToken(&models.User{UID: "u1"}, false)
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "other"
	_, err = NewJWTService(other, nil).ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := NewJWTService(testConfig(), nil)
	start := time.Now()
	svc.now = func() time.Time { return start }
	token, _, err := svc.GenerateToken(&models.User{UID: "u1"}, false)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestSignOutRevokesAndNotifies(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionManager(NewJWTService(testConfig(), cache.NewMemoryCache()))

	var (
		events     []string
		sessionIDs []string
	)
	sessions.Observe(func(uid, sessionID string, user *models.User) {
		sessionIDs = append(sessionIDs, sessionID)
		if user == nil {
			events = append(events, "out:"+uid)
			return
		}
		events = append(events, "in:"+uid)
	})

	token, _, err := sessions.SignIn(ctx, &models.User{UID: "u1"}, false)
	require.NoError(t, err)

	session, err := sessions.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UID())

	require.NoError(t, session.Logout(ctx))
	_, err = sessions.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrRevoked)

	assert.Equal(t, []string{"in:u1", "out:u1"}, events)
	require.Len(t, sessionIDs, 2)
	assert.NotEmpty(t, sessionIDs[0])
	assert.Equal(t, session.ID(), sessionIDs[0])
	assert.Equal(t, sessionIDs[0], sessionIDs[1])
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPassword("secret1", hash))
	assert.False(t, CheckPassword("secret2", hash))
	assert.False(t, CheckPassword("secret1", ""))

	assert.ErrorIs(t, ValidatePassword("abc"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("abcdef"))
}

func TestGoogleVerifierRequiresClientID(t *testing.T) {
	_, err := NewGoogleAuthService(&config.Config{}).VerifyIDToken(context.Background(), "token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := NewSessionManager(NewJWTService(testConfig(), cache.NewMemoryCache()))
	token, _, err := sessions.SignIn(context.Background(), &models.User{UID: "u1"}, false)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", AuthMiddleware(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, GetSession(c).UID())
	})
	router.GET("/public", OptionalAuthMiddleware(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, "%v", IsAuthenticated(c))
	})

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing header", "/private", "", http.StatusUnauthorized, ""},
		{"bad scheme", "/private", "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", "/private", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "/private", "Bearer " + token, http.StatusOK, "u1"},
		{"optional without token", "/public", "", http.StatusOK, "false"},
		{"optional with token", "/public", "Bearer " + token, http.StatusOK, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
