package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/repository"
)

// FileTagService manages file/tag links. A link belongs to the owner of its
// file; both the file and the tag must belong to the caller to create one.
type FileTagService struct {
	repos *repository.Repositories
}

func NewFileTagService(repos *repository.Repositories) *FileTagService {
	return &FileTagService{repos: repos}
}

// Link associates a file with a tag. Linking an already linked pair returns
// the existing association.
func (s *FileTagService) Link(ctx context.Context, ownerID, fileID, tagID int64) (*model.FileTag, error) {
	if fileID <= 0 || tagID <= 0 {
		return nil, invalidf("file_id and tag_id are required")
	}

	_, err := ownedFile(ctx, s.repos.Files, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	_, err = ownedTag(ctx, s.repos.Tags, ownerID, tagID)
	if err != nil {
		return nil, err
	}

	fileTag := &model.FileTag{FileID: fileID, TagID: tagID, CreatedAt: time.Now().UTC()}
	created, err := s.repos.FileTags.CreateOrReuse(ctx, fileTag)
	if err != nil {
		slog.Error("failed to link tag", "error", err, "file_id", fileID, "tag_id", tagID)
		return nil, persistence("link tag", err)
	}

	if created {
		slog.Debug("tag linked", "file_tag_id", fileTag.ID, "file_id", fileID, "tag_id", tagID)
	}
	return fileTag, nil
}

func (s *FileTagService) ByID(ctx context.Context, ownerID, id int64) (*model.FileTag, error) {
	fileTag, err := s.repos.FileTags.ByID(ctx, id)
	if errors.Is(err, repository.ErrFileTagNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("load file tag", err)
	}

	_, err = ownedFile(ctx, s.repos.Files, ownerID, fileTag.FileID)
	if err != nil {
		return nil, err
	}

	return fileTag, nil
}

func (s *FileTagService) ByFile(ctx context.Context, ownerID, fileID int64) ([]*model.FileTag, error) {
	_, err := ownedFile(ctx, s.repos.Files, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	fileTags, err := s.repos.FileTags.ByFile(ctx, fileID)
	if err != nil {
		return nil, persistence("list file tags", err)
	}
	return fileTags, nil
}

func (s *FileTagService) ByTag(ctx context.Context, ownerID, tagID int64) ([]*model.FileTag, error) {
	_, err := ownedTag(ctx, s.repos.Tags, ownerID, tagID)
	if err != nil {
		return nil, err
	}

	fileTags, err := s.repos.FileTags.ByTag(ctx, tagID)
	if err != nil {
		return nil, persistence("list tag files", err)
	}
	return fileTags, nil
}

func (s *FileTagService) Delete(ctx context.Context, ownerID, id int64) error {
	_, err := s.ByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	err = s.repos.FileTags.Delete(ctx, ownerID, id)
	if errors.Is(err, repository.ErrFileTagNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistence("delete file tag", err)
	}
	return nil
}

// DeleteByFile removes every tag from a file and reports how many links went away
func (s *FileTagService) DeleteByFile(ctx context.Context, ownerID, fileID int64) (int64, error) {
	_, err := ownedFile(ctx, s.repos.Files, ownerID, fileID)
	if err != nil {
		return 0, err
	}

	n, err := s.repos.FileTags.DeleteByFile(ctx, fileID)
	if err != nil {
		return 0, persistence("delete file tags", err)
	}
	return n, nil
}

// DeleteByTag removes a tag from every file and reports how many links went away
func (s *FileTagService) DeleteByTag(ctx context.Context, ownerID, tagID int64) (int64, error) {
	_, err := ownedTag(ctx, s.repos.Tags, ownerID, tagID)
	if err != nil {
		return 0, err
	}

	n, err := s.repos.FileTags.DeleteByTag(ctx, tagID)
	if err != nil {
		return 0, persistence("delete tag files", err)
	}
	return n, nil
}
