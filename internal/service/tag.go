package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/repository"
	"github.com/templui/tagbox/internal/search"
	"github.com/templui/tagbox/internal/validation"
)

// TagUpdate holds the fields to change; nil fields are left as they are
type TagUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type TagService struct {
	repos        *repository.Repositories
	txRunner     *repository.TxRunner
	defaultColor string
}

func NewTagService(repos *repository.Repositories, txRunner *repository.TxRunner, defaultColor string) *TagService {
	if defaultColor == "" {
		defaultColor = model.DefaultTagColor
	}
	return &TagService{
		repos:        repos,
		txRunner:     txRunner,
		defaultColor: defaultColor,
	}
}

// CreateOrReuse returns the owner's tag with spec.Name, creating it when it
// does not exist yet. An existing tag is returned unchanged.
func (s *TagService) CreateOrReuse(ctx context.Context, ownerID int64, spec model.TagSpec) (*model.Tag, error) {
	return s.createOrReuse(ctx, s.repos.Tags, ownerID, spec)
}

func (s *TagService) createOrReuse(ctx context.Context, tags repository.TagRepository, ownerID int64, spec model.TagSpec) (*model.Tag, error) {
	tag, err := s.newTag(ownerID, spec)
	if err != nil {
		return nil, err
	}

	created, err := tags.CreateOrReuse(ctx, tag)
	if err != nil {
		slog.Error("failed to create tag", "error", err, "owner_id", ownerID, "name", tag.Name)
		return nil, persistence("create tag", err)
	}

	if created {
		slog.Debug("tag created", "tag_id", tag.ID, "owner_id", ownerID)
	}
	return tag, nil
}

func (s *TagService) newTag(ownerID int64, spec model.TagSpec) (*model.Tag, error) {
	if ownerID <= 0 {
		return nil, invalidf("owner is required")
	}

	name, err := validation.NormalizeName(spec.Name)
	if err != nil {
		return nil, invalid(err)
	}

	err = validation.ValidateDescription(spec.Description)
	if err != nil {
		return nil, invalid(err)
	}

	color, err := validation.NormalizeColor(spec.Color, s.defaultColor)
	if err != nil {
		return nil, invalid(err)
	}

	now := time.Now().UTC()
	return &model.Tag{
		OwnerID:     ownerID,
		Name:        name,
		Description: spec.Description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *TagService) ByID(ctx context.Context, ownerID, tagID int64) (*model.Tag, error) {
	return ownedTag(ctx, s.repos.Tags, ownerID, tagID)
}

func (s *TagService) Tags(ctx context.Context, ownerID int64) ([]*model.Tag, error) {
	tags, err := s.repos.Tags.Tags(ctx, ownerID)
	if err != nil {
		return nil, persistence("list tags", err)
	}
	return tags, nil
}

// Search ranks the owner's tags whose name contains query (ignoring case)
// by similarity to query, best match first.
func (s *TagService) Search(ctx context.Context, ownerID int64, query string) ([]search.Match[*model.Tag], error) {
	query = validation.NormalizeQuery(query)
	if query == "" {
		return nil, invalidf("search query is required")
	}

	candidates, err := s.repos.Tags.SearchByName(ctx, ownerID, query)
	if err != nil {
		return nil, persistence("search tags", err)
	}

	searchesTotal.WithLabelValues("tag").Inc()
	searchCandidates.WithLabelValues("tag").Observe(float64(len(candidates)))

	return search.Rank(query, candidates, func(t *model.Tag) string { return t.Name }), nil
}

func (s *TagService) Update(ctx context.Context, ownerID, tagID int64, update TagUpdate) (*model.Tag, error) {
	if update.Name == nil && update.Description == nil && update.Color == nil {
		return nil, invalidf("no update data provided")
	}

	tag, err := ownedTag(ctx, s.repos.Tags, ownerID, tagID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		tag.Name, err = validation.NormalizeName(*update.Name)
		if err != nil {
			return nil, invalid(err)
		}
	}

	if update.Description != nil {
		err = validation.ValidateDescription(*update.Description)
		if err != nil {
			return nil, invalid(err)
		}
		tag.Description = *update.Description
	}

	if update.Color != nil {
		tag.Color, err = validation.NormalizeColor(*update.Color, s.defaultColor)
		if err != nil {
			return nil, invalid(err)
		}
	}

	tag.UpdatedAt = time.Now().UTC()

	err = s.repos.Tags.Update(ctx, tag)
	switch {
	case errors.Is(err, repository.ErrDuplicateTag):
		return nil, ErrConflict
	case errors.Is(err, repository.ErrTagNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, persistence("update tag", err)
	}

	return tag, nil
}

// Delete removes the tag and every file association that references it.
// Files stay untouched.
func (s *TagService) Delete(ctx context.Context, ownerID, tagID int64) error {
	return s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		repos := repository.NewRepositories(tx)

		_, err := ownedTag(ctx, repos.Tags, ownerID, tagID)
		if err != nil {
			return err
		}

		links, err := repos.FileTags.DeleteByTag(ctx, tagID)
		if err != nil {
			return persistence("delete tag associations", err)
		}

		err = repos.Tags.Delete(ctx, ownerID, tagID)
		if err != nil {
			return persistence("delete tag", err)
		}

		slog.Info("tag deleted", "tag_id", tagID, "owner_id", ownerID, "associations", links)
		return nil
	})
}
