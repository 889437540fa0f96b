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
	ErrTagNotFound  = errors.New("tag not found")
	ErrDuplicateTag = errors.New("tag name already exists")
)

type TagRepository interface {
	// CreateOrReuse inserts tag unless the owner already has a tag with the
	// same name. Either way tag is filled from the stored row. created
	// reports whether a new row was inserted.
	CreateOrReuse(ctx context.Context, tag *model.Tag) (created bool, err error)
	ByID(ctx context.Context, id int64) (*model.Tag, error)
	ByName(ctx context.Context, ownerID int64, name string) (*model.Tag, error)
	Tags(ctx context.Context, ownerID int64) ([]*model.Tag, error)
	SearchByName(ctx context.Context, ownerID int64, query string) ([]*model.Tag, error)
	Update(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type tagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) CreateOrReuse(ctx context.Context, tag *model.Tag) (bool, error) {
	existing, err := r.ByName(ctx, tag.OwnerID, tag.Name)
	if err == nil {
		*tag = *existing
		return false, nil
	}
	if !errors.Is(err, ErrTagNotFound) {
		return false, err
	}

	// A concurrent insert between the lookup and here hits the unique key
	query := `INSERT INTO tags (id_owner, name, description, color, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (name, id_owner) DO NOTHING
	          RETURNING id`

	err = sqlx.GetContext(ctx, r.db, &tag.ID, query,
		tag.OwnerID,
		tag.Name,
		tag.Description,
		tag.Color,
		tag.CreatedAt,
		tag.UpdatedAt,
	)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	existing, err = r.ByName(ctx, tag.OwnerID, tag.Name)
	if err != nil {
		return false, err
	}
	*tag = *existing
	return false, nil
}

func (r *tagRepository) ByID(ctx context.Context, id int64) (*model.Tag, error) {
	tag := &model.Tag{}
	query := `SELECT * FROM tags WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, tag, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return tag, nil
}

func (r *tagRepository) ByName(ctx context.Context, ownerID int64, name string) (*model.Tag, error) {
	tag := &model.Tag{}
	query := `SELECT * FROM tags WHERE id_owner = $1 AND name = $2`

	err := sqlx.GetContext(ctx, r.db, tag, query, ownerID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return tag, nil
}

func (r *tagRepository) Tags(ctx context.Context, ownerID int64) ([]*model.Tag, error) {
	tags := []*model.Tag{}
	query := `SELECT * FROM tags WHERE id_owner = $1 ORDER BY id`

	err := sqlx.SelectContext(ctx, r.db, &tags, query, ownerID)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// SearchByName returns the owner's tags whose name contains query, ignoring
// case. Matching happens in Go because SQLite's LOWER and LIKE fold ASCII only.
func (r *tagRepository) SearchByName(ctx context.Context, ownerID int64, query string) ([]*model.Tag, error) {
	tags := []*model.Tag{}
	stmt := `SELECT * FROM tags WHERE id_owner = $1 ORDER BY id`

	err := sqlx.SelectContext(ctx, r.db, &tags, stmt, ownerID)
	if err != nil {
		return nil, err
	}

	return search.Filter(query, tags, func(t *model.Tag) string { return t.Name }), nil
}

// Update changes name, description and color. The owner never changes.
func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	query := `UPDATE tags SET name = $1, description = $2, color = $3, updated_at = $4
	          WHERE id = $5 AND id_owner = $6`

	result, err := r.db.ExecContext(ctx, query, tag.Name, tag.Description, tag.Color, tag.UpdatedAt, tag.ID, tag.OwnerID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTag
		}
		return err
	}

	return expectRows(result, ErrTagNotFound)
}

func (r *tagRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM tags WHERE id = $1 AND id_owner = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrTagNotFound)
}
