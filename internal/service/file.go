package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/repository"
	"github.com/templui/tagbox/internal/search"
	"github.com/templui/tagbox/internal/storage"
	"github.com/templui/tagbox/internal/validation"
)

// FileUpdate holds the fields to change; nil fields are left as they are
type FileUpdate struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

// FileContent is a file record together with its stored bytes.
// Content is encoded as base64 in JSON.
type FileContent struct {
	*model.File
	Content []byte `json:"content"`
}

type FileService struct {
	repos    *repository.Repositories
	txRunner *repository.TxRunner
	storage  storage.Storage
}

func NewFileService(repos *repository.Repositories, txRunner *repository.TxRunner, storage storage.Storage) *FileService {
	return &FileService{
		repos:    repos,
		txRunner: txRunner,
		storage:  storage,
	}
}

func (s *FileService) ByID(ctx context.Context, ownerID, fileID int64) (*model.File, error) {
	return ownedFile(ctx, s.repos.Files, ownerID, fileID)
}

// Files lists the owner's files, newest first
func (s *FileService) Files(ctx context.Context, ownerID int64) ([]*model.File, error) {
	files, err := s.repos.Files.Files(ctx, ownerID)
	if err != nil {
		return nil, persistence("list files", err)
	}
	return files, nil
}

// Search ranks the owner's files whose name contains query (ignoring case)
// by similarity to query, best match first.
func (s *FileService) Search(ctx context.Context, ownerID int64, query string) ([]search.Match[*model.File], error) {
	query = validation.NormalizeQuery(query)
	if query == "" {
		return nil, invalidf("search query is required")
	}

	candidates, err := s.repos.Files.SearchByName(ctx, ownerID, query)
	if err != nil {
		return nil, persistence("search files", err)
	}

	searchesTotal.WithLabelValues("file").Inc()
	searchCandidates.WithLabelValues("file").Observe(float64(len(candidates)))

	return search.Rank(query, candidates, func(f *model.File) string { return f.Name }), nil
}

// ByType lists the owner's files of one category (IMAGE, VIDEO, DOCUMENT, ZIP, OTHER)
func (s *FileService) ByType(ctx context.Context, ownerID int64, fileType string) ([]*model.File, error) {
	fileType = strings.ToUpper(strings.TrimSpace(fileType))
	if !model.IsValidFileType(fileType) {
		return nil, invalidf("unknown file type %q", fileType)
	}

	files, err := s.repos.Files.FilesByType(ctx, ownerID, fileType)
	if err != nil {
		return nil, persistence("list files by type", err)
	}
	return files, nil
}

// Update renames or reclassifies a file. Owner and storage path never change.
func (s *FileService) Update(ctx context.Context, ownerID, fileID int64, update FileUpdate) (*model.File, error) {
	if update.Name == nil && update.Type == nil {
		return nil, invalidf("no update data provided")
	}

	file, err := ownedFile(ctx, s.repos.Files, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		file.Name, err = validation.NormalizeName(*update.Name)
		if err != nil {
			return nil, invalid(err)
		}
	}

	if update.Type != nil {
		fileType := strings.ToUpper(strings.TrimSpace(*update.Type))
		if !model.IsValidFileType(fileType) {
			return nil, invalidf("unknown file type %q", *update.Type)
		}
		file.Type = fileType
	}

	file.UpdatedAt = time.Now().UTC()

	err = s.repos.Files.Update(ctx, file)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("update file", err)
	}

	return file, nil
}

// Delete removes the file record together with its tag associations, then
// the stored content. A failed content delete only leaves an orphaned blob.
func (s *FileService) Delete(ctx context.Context, ownerID, fileID int64) error {
	var path string

	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		repos := repository.NewRepositories(tx)

		file, err := ownedFile(ctx, repos.Files, ownerID, fileID)
		if err != nil {
			return err
		}
		path = file.Path

		links, err := repos.FileTags.DeleteByFile(ctx, fileID)
		if err != nil {
			return persistence("delete file associations", err)
		}

		err = repos.Files.Delete(ctx, ownerID, fileID)
		if err != nil {
			return persistence("delete file", err)
		}

		slog.Info("file deleted", "file_id", fileID, "owner_id", ownerID, "associations", links)
		return nil
	})
	if err != nil {
		return err
	}

	err = s.storage.Delete(context.WithoutCancel(ctx), path)
	if err != nil {
		slog.Warn("failed to delete file content", "error", err, "file_id", fileID, "path", path)
	}

	return nil
}

// Content returns a file with all of its bytes, for inline (base64) delivery
func (s *FileService) Content(ctx context.Context, ownerID, fileID int64) (*FileContent, error) {
	file, err := ownedFile(ctx, s.repos.Files, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	data, err := s.readAll(ctx, file)
	if err != nil {
		return nil, err
	}

	return &FileContent{File: file, Content: data}, nil
}

// Contents returns every file of the owner with its bytes. Files whose
// content is missing from storage are skipped and logged.
func (s *FileService) Contents(ctx context.Context, ownerID int64) ([]*FileContent, error) {
	files, err := s.Files(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	contents := make([]*FileContent, 0, len(files))
	for _, file := range files {
		data, err := s.readAll(ctx, file)
		if errors.Is(err, ErrNotFound) {
			slog.Warn("file content missing", "file_id", file.ID, "path", file.Path)
			continue
		}
		if err != nil {
			return nil, err
		}
		contents = append(contents, &FileContent{File: file, Content: data})
	}

	return contents, nil
}

// Open streams a file's content for download. The caller closes the reader.
func (s *FileService) Open(ctx context.Context, ownerID, fileID int64) (*model.File, io.ReadCloser, error) {
	file, err := ownedFile(ctx, s.repos.Files, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Open(ctx, file.Path)
	if errors.Is(err, storage.ErrBlobNotFound) {
		slog.Warn("file content missing", "file_id", file.ID, "path", file.Path)
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, persistence("open file content", err)
	}

	return file, rc, nil
}

func (s *FileService) readAll(ctx context.Context, file *model.File) ([]byte, error) {
	rc, err := s.storage.Open(ctx, file.Path)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("open file content", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, persistence("read file content", err)
	}
	return data, nil
}
