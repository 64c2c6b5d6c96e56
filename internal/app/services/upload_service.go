package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

// MaxUploadSize bounds a single image upload
const MaxUploadSize = 5 << 20

// UploadService stores user images under the owner's prefix
type UploadService interface {
	Upload(ctx context.Context, viewer models.Viewer, kind filestorage.UploadKind, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type uploadServiceImpl struct {
	storage filestorage.FileStorage
	now     func() time.Time
	logger  zerolog.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(storage filestorage.FileStorage, logger zerolog.Logger) UploadService {
	return &uploadServiceImpl{storage: storage, now: time.Now, logger: logger}
}

func (s *uploadServiceImpl) Upload(ctx context.Context, viewer models.Viewer, kind filestorage.UploadKind, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperrors.NewBadRequestError("file is required")
	}
	if file.Size > MaxUploadSize {
		return nil, apperrors.NewBadRequestError("file is larger than 5MB")
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	// Sniff the real type rather than trusting the client header.
	head := make([]byte, 512)
	n, _ := f.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.NewBadRequestError("only image uploads are allowed")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	key := filestorage.ObjectKey(viewer.ID, kind, file.Filename, s.now())
	url, err := s.storage.Save(ctx, filestorage.Object{
		Key:         key,
		Body:        f,
		Size:        file.Size,
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to store upload")
		return nil, err
	}

	s.logger.Info().Str("key", key).Str("kind", string(kind)).Msg("Upload stored")
	return &dto.UploadResponse{URL: url, Path: key}, nil
}
