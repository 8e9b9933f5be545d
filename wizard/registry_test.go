package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOwnerScoping(t *testing.T) {
	reg := NewRegistry(&fakeResolver{}, nil, &fakeGateway{}, time.Hour)
	c := reg.Create("alice")

	got, err := reg.Get("alice", c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = reg.Get("bob", c.ID())
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, reg.Delete("bob", c.ID()), ErrDraftNotFound)

	require.NoError(t, reg.Delete("alice", c.ID()))
	_, err = reg.Get("alice", c.ID())
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestRegistryExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry(&fakeResolver{}, nil, &fakeGateway{}, 10*time.Minute)
	reg.now = func() time.Time { return now }

	stale := reg.Create("alice")
	now = now.Add(5 * time.Minute)
	fresh := reg.Create("alice")

	now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	_, err := reg.Get("alice", stale.ID())
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = reg.Get("alice", fresh.ID())
	assert.NoError(t, err)
}

func TestRegistryDropSession(t *testing.T) {
	reg := NewRegistry(&fakeResolver{}, nil, &fakeGateway{}, time.Hour)
	reg.Create("alice", WithSession("phone"))
	reg.Create("alice", WithSession("phone"))
	laptop := reg.Create("alice", WithSession("laptop"))
	reg.Create("bob", WithSession("phone"))

	assert.Equal(t, 2, reg.DropSession("alice", "phone"))
	assert.Equal(t, 2, reg.Len())

	c, err := reg.Get("alice", laptop.ID())
	require.NoError(t, err)
	assert.Equal(t, "laptop", c.SessionID())
}
