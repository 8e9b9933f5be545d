package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
)

// Observer receives the current user on every sign-in and nil on sign-out.
// sessionID is the id of the token being issued or revoked.
type Observer func(uid, sessionID string, user *models.User)

// SessionManager issues and revokes tokens and tells observers about it
type SessionManager struct {
	jwt *JWTService
	log zerolog.Logger

	mu        sync.RWMutex
	observers []Observer
}

// Session is the narrow per-request view of the signed-in user
type Session struct {
	Claims  *Claims
	manager *SessionManager
}

// NewSessionManager creates a session manager on top of a JWT service
func NewSessionManager(jwtService *JWTService) *SessionManager {
	return &SessionManager{
		jwt: jwtService,
		log: logger.With("auth"),
	}
}

// Observe registers fn for sign-in/sign-out notifications
func (m *SessionManager) Observe(fn Observer) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// SignIn issues a token for user and notifies observers
func (m *SessionManager) SignIn(ctx context.Context, user *models.User, remember bool) (string, time.Time, error) {
	token, claims, err := m.jwt.issue(user, remember)
	if err != nil {
		return "", time.Time{}, err
	}
	m.log.Info().Str("uid", user.UID).Bool("remember", remember).Msg("user signed in")
	m.emit(user.UID, claims.ID, user)
	return token, claims.ExpiresAt.Time, nil
}

// SignOut revokes the token behind claims and notifies observers with nil
func (m *SessionManager) SignOut(ctx context.Context, claims *Claims) error {
	if err := m.jwt.Revoke(ctx, claims); err != nil {
		return err
	}
	m.log.Info().Str("uid", claims.UID).Msg("user signed out")
	m.emit(claims.UID, claims.ID, nil)
	return nil
}

// Authenticate validates a bearer token and returns its session
func (m *SessionManager) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := m.jwt.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Session{Claims: claims, manager: m}, nil
}

func (m *SessionManager) emit(uid, sessionID string, user *models.User) {
	m.mu.RLock()
	observers := append([]Observer(nil), m.observers...)
	m.mu.RUnlock()

	for _, fn := range observers {
		fn(uid, sessionID, user)
	}
}

// UID returns the signed-in user's id
func (s *Session) UID() string {
	return s.Claims.UID
}

// ID returns the id of the session's token
func (s *Session) ID() string {
	return s.Claims.ID
}

// Logout signs the session's token out
func (s *Session) Logout(ctx context.Context) error {
	return s.manager.SignOut(ctx, s.Claims)
}
