// Package media stores uploaded files in the configured object store.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorage is the blob store behind uploads
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// UploadType selects the destination directory and the accepted content types
type UploadType string

const (
	UploadProducts   UploadType = "products"
	UploadAvatars    UploadType = "avatars"
	UploadDeliveries UploadType = "deliveries"
	UploadMessages   UploadType = "messages"
	UploadGeneral    UploadType = "general"
)

// sniffLen matches mimetype's default read limit
const sniffLen = 3072

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var documentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"application/zip": ".zip",
}

var allowedTypes = map[UploadType]map[string]string{
	UploadProducts:   imageTypes,
	UploadAvatars:    imageTypes,
	UploadDeliveries: documentTypes,
	UploadMessages:   documentTypes,
	UploadGeneral:    documentTypes,
}

// RequiresAdmin reports whether only admins may upload this type
func (t UploadType) RequiresAdmin() bool {
	return t == UploadProducts || t == UploadDeliveries
}

// IsValid reports whether t is a known upload type
func (t UploadType) IsValid() bool {
	_, ok := allowedTypes[t]
	return ok
}

// File is one part of a multipart upload
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadedFile describes a stored object
type UploadedFile struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Limits bounds a single upload request
type Limits struct {
	MaxFileSize int64
	MaxFiles    int
}

// DefaultLimits is 10 MB per file and 10 files per request
func DefaultLimits() Limits {
	return Limits{MaxFileSize: 10 << 20, MaxFiles: 10}
}

// Service validates and stores uploads
type Service struct {
	store  ObjectStorage
	limits Limits
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates the upload service. Zero limits take the defaults.
func NewService(store ObjectStorage, limits Limits, logger *zap.Logger) *Service {
	def := DefaultLimits()
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = def.MaxFileSize
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = def.MaxFiles
	}
	return &Service{store: store, limits: limits, now: time.Now, logger: logger}
}

// Upload stores every file or none: objects written before a failure are
// removed again.
func (s *Service) Upload(ctx context.Context, uploadType UploadType, isAdmin bool, files []File) ([]UploadedFile, error) {
	if !uploadType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UPLOAD_TYPE", fmt.Sprintf("Unknown upload type %q", uploadType))
	}
	if uploadType.RequiresAdmin() && !isAdmin {
		return nil, shared.ErrForbidden
	}
	if len(files) == 0 {
		return nil, shared.NewDomainError("NO_FILES", "No files were uploaded")
	}
	if len(files) > s.limits.MaxFiles {
		return nil, shared.NewDomainError("TOO_MANY_FILES", fmt.Sprintf("At most %d files per request", s.limits.MaxFiles))
	}
	for _, f := range files {
		if f.Size > s.limits.MaxFileSize {
			return nil, shared.NewDomainError("FILE_TOO_LARGE",
				fmt.Sprintf("%s exceeds the %d MB limit", f.Name, s.limits.MaxFileSize>>20))
		}
	}

	stored := make([]UploadedFile, 0, len(files))
	for _, f := range files {
		out, err := s.put(ctx, uploadType, f)
		if err != nil {
			s.rollback(ctx, stored)
			return nil, err
		}
		stored = append(stored, out)
	}

	s.logger.Info("Files uploaded",
		zap.String("type", string(uploadType)),
		zap.Int("count", len(stored)))
	return stored, nil
}

func (s *Service) put(ctx context.Context, uploadType UploadType, f File) (UploadedFile, error) {
	rc, err := f.Open()
	if err != nil {
		return UploadedFile{}, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return UploadedFile{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	head = head[:n]

	contentType := mimetype.Detect(head).String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowedTypes[uploadType][contentType]
	if !ok {
		return UploadedFile{}, shared.NewDomainError("UNSUPPORTED_FILE_TYPE",
			fmt.Sprintf("%s: %s is not allowed for %s uploads", f.Name, contentType, uploadType))
	}

	key := s.objectKey(uploadType, ext)
	body := io.MultiReader(bytes.NewReader(head), rc)
	if err := s.store.Put(ctx, key, contentType, body, f.Size); err != nil {
		return UploadedFile{}, err
	}

	return UploadedFile{
		Name:        path.Base(f.Name),
		Key:         key,
		URL:         s.store.URL(key),
		Size:        f.Size,
		ContentType: contentType,
	}, nil
}

// objectKey builds <type>/<yyyy>/<mm>/<uuid><ext>
func (s *Service) objectKey(uploadType UploadType, ext string) string {
	now := s.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s%s", uploadType, now.Year(), int(now.Month()), uuid.NewString(), ext)
}

func (s *Service) rollback(ctx context.Context, stored []UploadedFile) {
	for _, f := range stored {
		if err := s.store.Delete(ctx, f.Key); err != nil {
			s.logger.Warn("Failed to remove partial upload", zap.String("key", f.Key), zap.Error(err))
		}
	}
}

// Delete removes an object by key. Only keys inside a known upload
// directory are accepted.
func (s *Service) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	clean := path.Clean(key)
	if key == "" || clean != key || strings.HasPrefix(clean, "..") {
		return shared.NewDomainError("INVALID_KEY", "Invalid object key")
	}
	dir, _, found := strings.Cut(clean, "/")
	if !found || !UploadType(dir).IsValid() {
		return shared.NewDomainError("INVALID_KEY", "Invalid object key")
	}

	if err := s.store.Delete(ctx, clean); err != nil {
		return err
	}
	s.logger.Info("File deleted", zap.String("key", clean))
	return nil
}
