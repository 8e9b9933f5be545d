package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumify/backend/models"
)

func TestDeleteRemovesFromOwnerListing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a, err := s.CreateResume(ctx, &models.Resume{OwnerID: "u1", FullName: "A"})
	require.NoError(t, err)
	b, err := s.CreateResume(ctx, &models.Resume{OwnerID: "u1", FullName: "B"})
	require.NoError(t, err)
	_, err = s.CreateResume(ctx, &models.Resume{OwnerID: "u2", FullName: "C"})
	require.NoError(t, err)

	list, err := s.ListResumesByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.DeleteResume(ctx, a.ID))

	list, err = s.ListResumesByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	_, err = s.GetResume(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteResume(ctx, a.ID), ErrNotFound)
}

func TestUpdateKeepsOwnerAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created, err := s.CreateResume(ctx, &models.Resume{OwnerID: "u1", FullName: "A", Skills: models.Text("Go")})
	require.NoError(t, err)
	require.NotNil(t, created.CreatedAt)

	edit := created.Clone()
	edit.OwnerID = "intruder"
	edit.FullName = "A2"
	edit.Skills = models.Strings("Go", "SQL")
	edit.CreatedAt = nil

	updated, err := s.UpdateResume(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.OwnerID)
	assert.Equal(t, *created.CreatedAt, *updated.CreatedAt)
	assert.NotNil(t, updated.UpdatedAt)

	got, err := s.GetResume(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.FullName)
	assert.Equal(t, models.FieldList, got.Skills.Kind())

	_, err = s.UpdateResume(ctx, &models.Resume{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "new", "mid"} {
		at := base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		_, err := s.CreateResume(ctx, &models.Resume{OwnerID: "u1", FullName: name, CreatedAt: &at})
		require.NoError(t, err)
	}

	list, err := s.ListResumesByOwner(ctx, "u1")
	require.NoError(t, err)
	var names []string
	for _, r := range list {
		names = append(names, r.FullName)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, names)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created, err := s.CreateResume(ctx, &models.Resume{OwnerID: "u1", FullName: "A"})
	require.NoError(t, err)

	created.FullName = "mutated"
	got, err := s.GetResume(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.FullName)
}

func TestUsersAreUniqueByEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateUser(ctx, &models.User{UID: "1", Email: "Jane@X.com"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{UID: "2", Email: "jane@x.com "}), ErrAlreadyExists)

	u, err := s.GetUserByEmail(ctx, "JANE@x.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.UID)

	u.Bio = "hello"
	require.NoError(t, s.UpdateUser(ctx, u))
	got, err := s.GetUser(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)

	_, err = s.GetUserByGoogleID(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactMessagesAppend(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.CreateContactMessage(context.Background(), &models.ContactMessage{Name: "J", Email: "j@x.com", Message: "hi"}))
	msgs := s.ContactMessages()
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].CreatedAt.IsZero())
}

func TestMemoryPhotoStore(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPhotoStore()
	url, err := p.UploadPhoto(ctx, "u1", strings.NewReader("img"), "me.PNG", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memory://photos/u1/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	require.NoError(t, p.DeletePhoto(ctx, url))
	assert.ErrorIs(t, p.DeletePhoto(ctx, url), ErrNotFound)
	assert.True(t, IsImage("a.jpeg"))
	assert.False(t, IsImage("a.exe"))
}
