package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/resumify/backend/config"
	"github.com/resumify/backend/models"
)

// FirestoreClient wraps Firestore operations
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient creates a new Firestore client
func NewFirestoreClient(ctx context.Context, cfg *config.Config) (*FirestoreClient, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreClient{client: client}, nil
}

// Close closes the Firestore client
func (f *FirestoreClient) Close() error {
	return f.client.Close()
}

// CreateResume stores a new resume under a generated id
func (f *FirestoreClient) CreateResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	docRef := f.client.Collection(resumesCollection).NewDoc()

	out := r.Clone()
	if out.CreatedAt == nil {
		now := time.Now()
		out.CreatedAt = &now
	}
	out.UpdatedAt = nil

	if _, err := docRef.Create(ctx, out.ToDocument()); err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	out.ID = docRef.ID
	return out, nil
}

// UpdateResume replaces the content fields of an existing resume. ownerId
// and createdAt are left as stored; list fields absent from r are removed.
func (f *FirestoreClient) UpdateResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	if r.ID == "" {
		return nil, ErrNotFound
	}

	doc := r.ToDocument()
	delete(doc, "ownerId")
	delete(doc, "createdAt")
	if _, ok := doc["updatedAt"]; !ok {
		doc["updatedAt"] = time.Now()
	}

	updates := make([]firestore.Update, 0, len(doc)+len(models.ListKeys))
	for key, value := range doc {
		updates = append(updates, firestore.Update{Path: key, Value: value})
	}
	for _, key := range models.ListKeys {
		if _, ok := doc[key]; !ok {
			updates = append(updates, firestore.Update{Path: key, Value: firestore.Delete})
		}
	}

	docRef := f.client.Collection(resumesCollection).Doc(r.ID)
	if _, err := docRef.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}

	return f.GetResume(ctx, r.ID)
}

// GetResume retrieves a resume by id
func (f *FirestoreClient) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	doc, err := f.client.Collection(resumesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	return models.ResumeFromDocument(doc.Ref.ID, doc.Data()), nil
}

// ListResumesByOwner returns the resumes of one user, newest first
func (f *FirestoreClient) ListResumesByOwner(ctx context.Context, ownerID string) ([]*models.Resume, error) {
	iter := f.client.Collection(resumesCollection).Where("ownerId", "==", ownerID).Documents(ctx)
	defer iter.Stop()

	var resumes []*models.Resume
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query resumes: %w", err)
		}
		resumes = append(resumes, models.ResumeFromDocument(doc.Ref.ID, doc.Data()))
	}

	sortNewestFirst(resumes)
	return resumes, nil
}

// DeleteResume removes a resume permanently
func (f *FirestoreClient) DeleteResume(ctx context.Context, id string) error {
	_, err := f.client.Collection(resumesCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}

// CreateUser creates a user document keyed by uid. The email must not be
// used by another account.
func (f *FirestoreClient) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	users := f.client.Collection(usersCollection)
	docRef := users.Doc(user.UID)

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(users.Where("email", "==", user.Email).Limit(1)).GetAll()
		if err != nil {
			return fmt.Errorf("failed to check user existence: %w", err)
		}
		if len(existing) > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(docRef, user)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) || status.Code(err) == codes.AlreadyExists {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by uid
func (f *FirestoreClient) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := f.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return userFromDoc(doc)
}

// GetUserByEmail retrieves a user by email
func (f *FirestoreClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return f.queryUser(ctx, "email", email)
}

// GetUserByGoogleID retrieves a user by Google ID
func (f *FirestoreClient) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return f.queryUser(ctx, "googleId", googleID)
}

func (f *FirestoreClient) queryUser(ctx context.Context, field, value string) (*models.User, error) {
	iter := f.client.Collection(usersCollection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return userFromDoc(doc)
}

// UpdateUser writes the profile fields of an existing user
func (f *FirestoreClient) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	docRef := f.client.Collection(usersCollection).Doc(user.UID)
	_, err := docRef.Set(ctx, map[string]interface{}{
		"displayName": user.DisplayName,
		"phone":       user.Phone,
		"linkedin":    user.LinkedIn,
		"github":      user.GitHub,
		"bio":         user.Bio,
		"photo":       user.Photo,
		"googleId":    user.GoogleID,
		"updatedAt":   user.UpdatedAt,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// CreateContactMessage appends a contact form message
func (f *FirestoreClient) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	docRef, _, err := f.client.Collection(contactsCollection).Add(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to store contact message: %w", err)
	}

	msg.ID = docRef.ID
	return nil
}

func userFromDoc(doc *firestore.DocumentSnapshot) (*models.User, error) {
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user data: %w", err)
	}

	user.UID = doc.Ref.ID
	return &user, nil
}

func sortNewestFirst(resumes []*models.Resume) {
	sort.SliceStable(resumes, func(i, j int) bool {
		a, b := resumes[i].CreatedAt, resumes[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
