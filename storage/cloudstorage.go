package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
)

// CloudStorageClient keeps profile photos in a Google Cloud Storage bucket
type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

// NewCloudStorageClient creates a new Cloud Storage client
func NewCloudStorageClient(ctx context.Context, bucketName string) (*CloudStorageClient, error) {
	if bucketName == "" {
		return nil, errors.New("photo bucket name is empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud Storage client: %w", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Close closes the Cloud Storage client
func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

// UploadPhoto stores a profile photo and returns its public URL
func (c *CloudStorageClient) UploadPhoto(ctx context.Context, uid string, content io.Reader, filename, contentType string) (string, error) {
	objectName := photoObjectName(uid, filename)

	wc := c.client.Bucket(c.bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if wc.ContentType == "" {
		wc.ContentType = getContentType(filepath.Ext(filename))
	}
	wc.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(wc, content); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return c.publicURL(objectName), nil
}

// DeletePhoto removes a photo previously returned by UploadPhoto
func (c *CloudStorageClient) DeletePhoto(ctx context.Context, url string) error {
	prefix := c.publicURL("")
	if !strings.HasPrefix(url, prefix) {
		return fmt.Errorf("invalid photo URL format")
	}

	obj := c.client.Bucket(c.bucketName).Object(strings.TrimPrefix(url, prefix))
	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}

func (c *CloudStorageClient) publicURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName)
}

func photoObjectName(uid, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("photos/%s/%d%s", uid, time.Now().UnixNano(), ext)
}

// MemoryPhotoStore keeps photos in memory for local runs without a bucket
type MemoryPhotoStore struct {
	mu     sync.Mutex
	photos map[string][]byte
}

// NewMemoryPhotoStore creates an empty photo store
func NewMemoryPhotoStore() *MemoryPhotoStore {
	return &MemoryPhotoStore{photos: make(map[string][]byte)}
}

// UploadPhoto stores a photo and returns a memory:// URL
func (m *MemoryPhotoStore) UploadPhoto(ctx context.Context, uid string, content io.Reader, filename, contentType string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	url := "memory://" + photoObjectName(uid, filename)

	m.mu.Lock()
	m.photos[url] = data
	m.mu.Unlock()
	return url, nil
}

// DeletePhoto removes a stored photo
func (m *MemoryPhotoStore) DeletePhoto(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.photos[url]; !ok {
		return ErrNotFound
	}
	delete(m.photos, url)
	return nil
}

// IsImage reports whether a file extension is an accepted photo format
func IsImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
