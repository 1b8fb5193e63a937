package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/events"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/messaging"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/storage"
)

// allowedMimeTypes are the attachment content types accepted for upload
var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// FileService manages versioned certificate file attachments. Blobs live in
// the storage backend, version metadata in the database. Uploads never
// overwrite: each upload becomes a new version and the previous latest is
// kept retrievable.
type FileService struct {
	files       *repository.FileVersionRepository
	employees   *repository.EmployeeRepository
	types       *repository.TrainingTypeRepository
	store       storage.Store
	emitter     *events.Emitter
	logger      *logger.Logger
	maxFileSize int64
}

// NewFileService creates a new file service
func NewFileService(
	files *repository.FileVersionRepository,
	employees *repository.EmployeeRepository,
	types *repository.TrainingTypeRepository,
	store storage.Store,
	emitter *events.Emitter,
	maxFileSize int64,
	log *logger.Logger,
) *FileService {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20 // 10 MiB
	}
	return &FileService{
		files:       files,
		employees:   employees,
		types:       types,
		store:       store,
		emitter:     emitter,
		logger:      log.WithComponent("file-service"),
		maxFileSize: maxFileSize,
	}
}

// Upload stores a new version of the attachment for the
// (employee, certificate type) pair.
func (s *FileService) Upload(ctx context.Context, employeeID, certificateTypeID, originalName, mimeType string, data []byte) (*domain.FileVersion, error) {
	if len(data) == 0 {
		return nil, errors.BadRequest("file is empty")
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, errors.BadRequest(fmt.Sprintf("file exceeds the maximum size of %d bytes", s.maxFileSize))
	}
	if !allowedMimeTypes[strings.ToLower(mimeType)] {
		return nil, errors.BadRequest("unsupported file type, expected pdf, jpeg or png")
	}

	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	if _, err := s.types.GetByID(ctx, certificateTypeID); err != nil {
		return nil, err
	}

	hash := storage.HashBytes(data)

	actorID := httputil.GetActorID(ctx)
	var uploadedBy *string
	if actorID != "" {
		uploadedBy = &actorID
	}

	fv := &domain.FileVersion{
		EmployeeID:        employeeID,
		CertificateTypeID: certificateTypeID,
		Hash:              hash,
		MimeType:          mimeType,
		SizeBytes:         int64(len(data)),
		OriginalName:      path.Base(originalName),
		UploadedBy:        uploadedBy,
	}
	// Content-addressed key: re-uploading identical bytes reuses the blob
	// while still recording a new version row.
	fv.Path = fmt.Sprintf("certificates/%s/%s/%s", employeeID, certificateTypeID, hash)

	if err := s.store.Put(ctx, fv.Path, data); err != nil {
		return nil, err
	}

	if err := s.files.CreateVersion(ctx, fv); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("employee_id", employeeID).
		Str("certificate_type_id", certificateTypeID).
		Int("version", fv.Version).
		Msg("file version uploaded")

	s.emitter.Emit(ctx, messaging.EventFileUploaded, messaging.FileEvent{
		EmployeeID:        employeeID,
		CertificateTypeID: certificateTypeID,
		Version:           fv.Version,
		Path:              fv.Path,
		ActorID:           actorID,
	})

	return fv, nil
}

// Download returns the requested version's metadata and content. Version
// zero means latest.
func (s *FileService) Download(ctx context.Context, employeeID, certificateTypeID string, version int) (*domain.FileVersion, []byte, error) {
	var fv *domain.FileVersion
	var err error
	if version <= 0 {
		fv, err = s.files.GetLatest(ctx, employeeID, certificateTypeID)
	} else {
		fv, err = s.files.GetVersion(ctx, employeeID, certificateTypeID, version)
	}
	if err != nil {
		return nil, nil, err
	}

	data, err := s.store.Get(ctx, fv.Path)
	if err != nil {
		return nil, nil, err
	}

	if storage.HashBytes(data) != fv.Hash {
		return nil, nil, errors.Internal("stored file content does not match its recorded hash")
	}

	return fv, data, nil
}

// ListVersions returns the version history for the pair, newest first
func (s *FileService) ListVersions(ctx context.Context, employeeID, certificateTypeID string) ([]*domain.FileVersion, error) {
	return s.files.ListVersions(ctx, employeeID, certificateTypeID)
}

// Delete removes all versions for the pair, metadata first, then blobs.
// Blob deletion failures are logged and skipped; identical content may be
// shared across version rows.
func (s *FileService) Delete(ctx context.Context, employeeID, certificateTypeID string) error {
	paths, err := s.files.DeleteAll(ctx, employeeID, certificateTypeID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := s.store.Delete(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("path", p).Msg("failed to delete stored file")
		}
	}

	s.emitter.Emit(ctx, messaging.EventFileDeleted, messaging.FileEvent{
		EmployeeID:        employeeID,
		CertificateTypeID: certificateTypeID,
		ActorID:           httputil.GetActorID(ctx),
	})

	return nil
}
