package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/search"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidFile  = errors.New("file requires owner, name, type and path")
)

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	ByID(ctx context.Context, id int64) (*model.File, error)
	Files(ctx context.Context, ownerID int64) ([]*model.File, error)
	FilesByType(ctx context.Context, ownerID int64, fileType string) ([]*model.File, error)
	SearchByName(ctx context.Context, ownerID int64, query string) ([]*model.File, error)
	Update(ctx context.Context, file *model.File) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type fileRepository struct {
	db DBTX
}

func NewFileRepository(db DBTX) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	if file.OwnerID <= 0 || file.Name == "" || file.Type == "" || file.Path == "" {
		return ErrInvalidFile
	}

	query := `INSERT INTO files (id_owner, name, type, path, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	return sqlx.GetContext(ctx, r.db, &file.ID, query,
		file.OwnerID,
		file.Name,
		file.Type,
		file.Path,
		file.IsDeleted,
		file.CreatedAt,
		file.UpdatedAt,
	)
}

func (r *fileRepository) ByID(ctx context.Context, id int64) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, file, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

// Files lists the owner's files, newest first
func (r *fileRepository) Files(ctx context.Context, ownerID int64) ([]*model.File, error) {
	files := []*model.File{}
	query := `SELECT * FROM files WHERE id_owner = $1 ORDER BY created_at DESC, id DESC`

	err := sqlx.SelectContext(ctx, r.db, &files, query, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) FilesByType(ctx context.Context, ownerID int64, fileType string) ([]*model.File, error) {
	files := []*model.File{}
	query := `SELECT * FROM files WHERE id_owner = $1 AND type = $2 ORDER BY created_at DESC, id DESC`

	err := sqlx.SelectContext(ctx, r.db, &files, query, ownerID, fileType)
	if err != nil {
		return nil, err
	}

	return files, nil
}

// SearchByName returns the owner's files whose name contains query, ignoring
// case. Matching happens in Go because SQLite's LOWER and LIKE fold ASCII only.
func (r *fileRepository) SearchByName(ctx context.Context, ownerID int64, query string) ([]*model.File, error) {
	files := []*model.File{}
	stmt := `SELECT * FROM files WHERE id_owner = $1 ORDER BY id`

	err := sqlx.SelectContext(ctx, r.db, &files, stmt, ownerID)
	if err != nil {
		return nil, err
	}

	return search.Filter(query, files, func(f *model.File) string { return f.Name }), nil
}

// Update changes name and type only
func (r *fileRepository) Update(ctx context.Context, file *model.File) error {
	query := `UPDATE files SET name = $1, type = $2, updated_at = $3 WHERE id = $4 AND id_owner = $5`

	result, err := r.db.ExecContext(ctx, query, file.Name, file.Type, file.UpdatedAt, file.ID, file.OwnerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFileNotFound)
}

func (r *fileRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM files WHERE id = $1 AND id_owner = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFileNotFound)
}
