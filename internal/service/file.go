package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/openvault/filevault/internal/model"
	"github.com/openvault/filevault/internal/repository"
	"github.com/openvault/filevault/internal/storage"
)

var (
	ErrMissingName     = errors.New("missing name")
	ErrMissingType     = errors.New("missing or invalid type")
	ErrMissingData     = errors.New("missing data")
	ErrInvalidPayload  = errors.New("invalid payload encoding")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrFileNotFound    = errors.New("file not found")
	ErrFolderNoContent = errors.New("folder has no content")
)

type FileService struct {
	fileRepository repository.FileRepository
	storage        storage.Storage
}

func NewFileService(fileRepository repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepository: fileRepository,
		storage:        storage,
	}
}

// CreateInput carries an upload request. Data is the base64 payload and is
// required for everything but folders. ParentID empty means root.
type CreateInput struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

// Create validates the entry in a fixed order (the first failing check
// wins), ingests the payload for non-folders, and persists the entry.
func (s *FileService) Create(userID string, in CreateInput) (*model.File, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !model.ValidFileType(in.Type) {
		return nil, ErrMissingType
	}
	if in.Type != model.FileTypeFolder && in.Data == "" {
		return nil, ErrMissingData
	}
	if in.ParentID != model.RootParentID {
		parent, err := s.fileRepository.ByID(in.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrFileNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to get parent: %w", err)
		}
		if !parent.IsFolder() {
			return nil, ErrParentNotFolder
		}
	}

	file := &model.File{
		UserID:   userID,
		Name:     in.Name,
		Type:     in.Type,
		ParentID: in.ParentID,
		IsPublic: in.IsPublic,
	}

	if in.Type != model.FileTypeFolder {
		ref, err := s.ingest(in.Data)
		if err != nil {
			return nil, err
		}
		file.LocalPath = ref
	}

	err := s.fileRepository.Create(file)
	if err != nil {
		// If the insert fails, try to clean up the stored blob
		if file.LocalPath != "" {
			delErr := s.storage.Delete(file.LocalPath)
			if delErr != nil {
				slog.Error("failed to delete blob during cleanup", "error", delErr, "ref", file.LocalPath)
			}
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return file, nil
}

// ingest decodes the transport-encoded payload and writes it under a fresh
// unique name. Write failures are terminal for the request; nothing retries.
func (s *FileService) ingest(data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", ErrInvalidPayload
	}

	ref := uuid.New().String()
	err = s.storage.Save(ref, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to store payload: %w", err)
	}

	return ref, nil
}

// Get returns an entry scoped to its owner. A foreign or unknown id is
// indistinguishable from absence.
func (s *FileService) Get(userID, fileID string) (*model.File, error) {
	file, err := s.fileRepository.ByID(fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file.UserID != userID {
		return nil, ErrFileNotFound
	}
	return file, nil
}

// List returns one zero-based page (20 entries) of the owner's children of
// parentID, in insertion order.
func (s *FileService) List(userID, parentID string, page int) ([]*model.File, error) {
	return s.fileRepository.ByOwnerAndParent(userID, parentID, page, repository.DefaultPageSize)
}

// SetVisibility flips isPublic and returns the updated entry. Setting the
// current value again is legal.
func (s *FileService) SetVisibility(userID, fileID string, public bool) (*model.File, error) {
	_, err := s.Get(userID, fileID)
	if err != nil {
		return nil, err
	}

	file, err := s.fileRepository.SetPublic(fileID, public)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to update file: %w", err)
	}
	return file, nil
}

// Data streams the stored bytes of an entry. Public entries are readable
// without identity; private ones only by their owner. Folders carry no
// bytes and a missing blob reads as absence.
func (s *FileService) Data(userID, fileID string) (io.ReadCloser, *model.File, error) {
	file, err := s.fileRepository.ByID(fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}

	if !file.IsPublic && file.UserID != userID {
		return nil, nil, ErrFileNotFound
	}
	if file.IsFolder() {
		return nil, nil, ErrFolderNoContent
	}

	r, err := s.storage.Open(file.LocalPath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return r, file, nil
}
