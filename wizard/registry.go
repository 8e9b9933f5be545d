package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/logger"
)

// ErrDraftNotFound is returned for unknown, expired or foreign drafts
var ErrDraftNotFound = errors.New("draft not found")

// Registry keeps the open drafts of all users in memory. Drafts idle for
// longer than the ttl are dropped.
type Registry struct {
	mu     sync.Mutex
	drafts map[string]*Controller

	ttl        time.Duration
	now        func() time.Time
	resolver   LabelResolver
	translator Translator
	gateway    Gateway
	log        zerolog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(resolver LabelResolver, translator Translator, gateway Gateway, ttl time.Duration) *Registry {
	return &Registry{
		drafts:     make(map[string]*Controller),
		ttl:        ttl,
		now:        time.Now,
		resolver:   resolver,
		translator: translator,
		gateway:    gateway,
		log:        logger.With("drafts"),
	}
}

// Create opens a new draft for ownerID
func (r *Registry) Create(ownerID string, opts ...Option) *Controller {
	id := uuid.NewString()
	opts = append([]Option{WithClock(r.now)}, opts...)
	opts = append(opts, WithID(id))
	c := New(ownerID, r.resolver, r.translator, r.gateway, opts...)

	r.mu.Lock()
	r.drafts[id] = c
	r.mu.Unlock()

	r.log.Debug().Str("draft", id).Str("owner", ownerID).Msg("draft opened")
	return c
}

// Get returns the draft id when it belongs to ownerID and has not expired
func (r *Registry) Get(ownerID, id string) (*Controller, error) {
	r.mu.Lock()
	c, ok := r.drafts[id]
	r.mu.Unlock()

	if !ok || c.OwnerID() != ownerID {
		return nil, ErrDraftNotFound
	}
	if r.expired(c) {
		r.mu.Lock()
		delete(r.drafts, id)
		r.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	return c, nil
}

// Delete discards a draft of ownerID
func (r *Registry) Delete(ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.drafts[id]
	if !ok || c.OwnerID() != ownerID {
		return ErrDraftNotFound
	}
	delete(r.drafts, id)
	return nil
}

// DropSession discards the drafts ownerID opened in sessionID, used on
// sign-out. Drafts opened in the user's other sessions stay open.
func (r *Registry) DropSession(ownerID, sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, c := range r.drafts {
		if c.OwnerID() == ownerID && c.SessionID() == sessionID {
			delete(r.drafts, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of open drafts
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

func (r *Registry) expired(c *Controller) bool {
	return r.ttl > 0 && r.now().Sub(c.LastTouched()) > r.ttl
}

// Sweep drops expired drafts and returns how many were removed
func (r *Registry) Sweep() int {
	r.mu.Lock()
	candidates := make(map[string]*Controller, len(r.drafts))
	for id, c := range r.drafts {
		candidates[id] = c
	}
	r.mu.Unlock()

	removed := 0
	for id, c := range candidates {
		if !r.expired(c) {
			continue
		}
		r.mu.Lock()
		if r.drafts[id] == c {
			delete(r.drafts, id)
			removed++
		}
		r.mu.Unlock()
	}
	if removed > 0 {
		r.log.Info().Int("removed", removed).Msg("expired drafts swept")
	}
	return removed
}

// Run sweeps expired drafts every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
