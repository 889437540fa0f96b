package service

import (
	"context"
	"errors"

	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/repository"
)

// ownedFile loads a file and verifies that ownerID owns it
func ownedFile(ctx context.Context, files repository.FileRepository, ownerID, fileID int64) (*model.File, error) {
	file, err := files.ByID(ctx, fileID)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("load file", err)
	}

	if file.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	return file, nil
}

// ownedTag loads a tag and verifies that ownerID owns it
func ownedTag(ctx context.Context, tags repository.TagRepository, ownerID, tagID int64) (*model.Tag, error) {
	tag, err := tags.ByID(ctx, tagID)
	if errors.Is(err, repository.ErrTagNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("load tag", err)
	}

	if tag.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	return tag, nil
}
