package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resumify/backend/models"
)

// MemoryStore keeps everything in process memory. It backs tests and
// STORAGE_BACKEND=memory.
type MemoryStore struct {
	mu       sync.RWMutex
	resumes  map[string]*models.Resume
	users    map[string]*models.User
	contacts []*models.ContactMessage
	now      func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resumes: make(map[string]*models.Resume),
		users:   make(map[string]*models.User),
		now:     time.Now,
	}
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

// CreateResume stores a new resume under a generated id
func (m *MemoryStore) CreateResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	out := r.Clone()
	out.ID = uuid.NewString()
	if out.CreatedAt == nil {
		now := m.now()
		out.CreatedAt = &now
	}
	out.UpdatedAt = nil

	m.mu.Lock()
	m.resumes[out.ID] = out.Clone()
	m.mu.Unlock()
	return out, nil
}

// UpdateResume replaces the content of an existing resume, keeping its
// owner and creation time
func (m *MemoryStore) UpdateResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.resumes[r.ID]
	if !ok {
		return nil, ErrNotFound
	}
	out := r.Clone()
	out.OwnerID = existing.OwnerID
	out.CreatedAt = existing.CreatedAt
	if out.UpdatedAt == nil {
		now := m.now()
		out.UpdatedAt = &now
	}
	m.resumes[r.ID] = out.Clone()
	return out, nil
}

// GetResume retrieves a resume by id
func (m *MemoryStore) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resumes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

// ListResumesByOwner returns the resumes of one user, newest first
func (m *MemoryStore) ListResumesByOwner(ctx context.Context, ownerID string) ([]*models.Resume, error) {
	m.mu.RLock()
	var out []*models.Resume
	for _, r := range m.resumes {
		if r.OwnerID == ownerID {
			out = append(out, r.Clone())
		}
	}
	m.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// DeleteResume removes a resume permanently
func (m *MemoryStore) DeleteResume(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[id]; !ok {
		return ErrNotFound
	}
	delete(m.resumes, id)
	return nil
}

// CreateUser stores a new user; emails are unique
func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrAlreadyExists
		}
	}
	if _, ok := m.users[user.UID]; ok {
		return ErrAlreadyExists
	}

	now := m.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.users[user.UID] = &stored
	return nil
}

// GetUser retrieves a user by uid
func (m *MemoryStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[uid]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

// GetUserByEmail retrieves a user by email
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return m.findUser(func(u *models.User) bool { return u.Email == email })
}

// GetUserByGoogleID retrieves a user by Google ID
func (m *MemoryStore) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return googleID != "" && u.GoogleID == googleID })
}

func (m *MemoryStore) findUser(match func(*models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateUser writes the profile fields of an existing user
func (m *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.UID]
	if !ok {
		return ErrNotFound
	}
	user.UpdatedAt = m.now()
	existing.DisplayName = user.DisplayName
	existing.Phone = user.Phone
	existing.LinkedIn = user.LinkedIn
	existing.GitHub = user.GitHub
	existing.Bio = user.Bio
	existing.Photo = user.Photo
	existing.GoogleID = user.GoogleID
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

// CreateContactMessage appends a contact form message
func (m *MemoryStore) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = m.now()
	}
	msg.ID = uuid.NewString()

	m.mu.Lock()
	stored := *msg
	m.contacts = append(m.contacts, &stored)
	m.mu.Unlock()
	return nil
}

// ContactMessages returns the stored contact messages in arrival order
func (m *MemoryStore) ContactMessages() []models.ContactMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ContactMessage, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, *c)
	}
	return out
}
