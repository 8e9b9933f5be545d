package storage

import (
	"context"
	"errors"
	"io"

	"github.com/resumify/backend/models"
)

var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a user whose email is taken
	ErrAlreadyExists = errors.New("already exists")
)

// Collection names
const (
	resumesCollection  = "resumes"
	usersCollection    = "users"
	contactsCollection = "contactMessages"
)

// ResumeGateway persists resume records. Update replaces the content of an
// existing record but never its owner or creation time; Delete is a hard
// delete.
type ResumeGateway interface {
	CreateResume(ctx context.Context, r *models.Resume) (*models.Resume, error)
	UpdateResume(ctx context.Context, r *models.Resume) (*models.Resume, error)
	GetResume(ctx context.Context, id string) (*models.Resume, error)
	ListResumesByOwner(ctx context.Context, ownerID string) ([]*models.Resume, error)
	DeleteResume(ctx context.Context, id string) error
}

// UserStore persists accounts and profile overrides, one document per uid
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// ContactStore appends contact form messages
type ContactStore interface {
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

// Store is the full document database surface
type Store interface {
	ResumeGateway
	UserStore
	ContactStore
	Close() error
}

// PhotoStore keeps profile photos and returns their public URL
type PhotoStore interface {
	UploadPhoto(ctx context.Context, uid string, content io.Reader, filename, contentType string) (string, error)
	DeletePhoto(ctx context.Context, url string) error
}
