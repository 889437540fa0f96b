package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/model"
)

var (
	ErrFileTagNotFound = errors.New("file tag not found")
)

type FileTagRepository interface {
	// CreateOrReuse links a file and a tag once. An existing link is
	// returned unchanged with created == false.
	CreateOrReuse(ctx context.Context, fileTag *model.FileTag) (created bool, err error)
	ByID(ctx context.Context, id int64) (*model.FileTag, error)
	ByPair(ctx context.Context, fileID, tagID int64) (*model.FileTag, error)
	ByFile(ctx context.Context, fileID int64) ([]*model.FileTag, error)
	ByTag(ctx context.Context, tagID int64) ([]*model.FileTag, error)
	Delete(ctx context.Context, ownerID, id int64) error
	DeleteByFile(ctx context.Context, fileID int64) (int64, error)
	DeleteByTag(ctx context.Context, tagID int64) (int64, error)
}

type fileTagRepository struct {
	db DBTX
}

func NewFileTagRepository(db DBTX) FileTagRepository {
	return &fileTagRepository{db: db}
}

func (r *fileTagRepository) CreateOrReuse(ctx context.Context, fileTag *model.FileTag) (bool, error) {
	existing, err := r.ByPair(ctx, fileTag.FileID, fileTag.TagID)
	if err == nil {
		*fileTag = *existing
		return false, nil
	}
	if !errors.Is(err, ErrFileTagNotFound) {
		return false, err
	}

	query := `INSERT INTO file_tags (id_file, id_tag, created_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (id_file, id_tag) DO NOTHING
	          RETURNING id`

	err = sqlx.GetContext(ctx, r.db, &fileTag.ID, query, fileTag.FileID, fileTag.TagID, fileTag.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	existing, err = r.ByPair(ctx, fileTag.FileID, fileTag.TagID)
	if err != nil {
		return false, err
	}
	*fileTag = *existing
	return false, nil
}

func (r *fileTagRepository) ByID(ctx context.Context, id int64) (*model.FileTag, error) {
	fileTag := &model.FileTag{}
	query := `SELECT * FROM file_tags WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, fileTag, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return fileTag, nil
}

func (r *fileTagRepository) ByPair(ctx context.Context, fileID, tagID int64) (*model.FileTag, error) {
	fileTag := &model.FileTag{}
	query := `SELECT * FROM file_tags WHERE id_file = $1 AND id_tag = $2`

	err := sqlx.GetContext(ctx, r.db, fileTag, query, fileID, tagID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return fileTag, nil
}

func (r *fileTagRepository) ByFile(ctx context.Context, fileID int64) ([]*model.FileTag, error) {
	fileTags := []*model.FileTag{}
	query := `SELECT * FROM file_tags WHERE id_file = $1 ORDER BY id`

	err := sqlx.SelectContext(ctx, r.db, &fileTags, query, fileID)
	if err != nil {
		return nil, err
	}

	return fileTags, nil
}

func (r *fileTagRepository) ByTag(ctx context.Context, tagID int64) ([]*model.FileTag, error) {
	fileTags := []*model.FileTag{}
	query := `SELECT * FROM file_tags WHERE id_tag = $1 ORDER BY id`

	err := sqlx.SelectContext(ctx, r.db, &fileTags, query, tagID)
	if err != nil {
		return nil, err
	}

	return fileTags, nil
}

// Delete removes one link, provided its file belongs to ownerID
func (r *fileTagRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM file_tags
	          WHERE id = $1 AND id_file IN (SELECT id FROM files WHERE id_owner = $2)`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFileTagNotFound)
}

func (r *fileTagRepository) DeleteByFile(ctx context.Context, fileID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM file_tags WHERE id_file = $1`, fileID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *fileTagRepository) DeleteByTag(ctx context.Context, tagID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM file_tags WHERE id_tag = $1`, tagID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
