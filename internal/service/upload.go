package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/repository"
	"github.com/templui/tagbox/internal/storage"
	"github.com/templui/tagbox/internal/validation"
)

// UploadService stores new files and tags them in one step
type UploadService struct {
	txRunner   *repository.TxRunner
	storage    storage.Storage
	tagService *TagService

	// bind builds the repositories used inside the upload transaction
	bind func(repository.DBTX) *repository.Repositories
}

func NewUploadService(txRunner *repository.TxRunner, storage storage.Storage, tagService *TagService) *UploadService {
	return &UploadService{
		txRunner:   txRunner,
		storage:    storage,
		tagService: tagService,
		bind:       repository.NewRepositories,
	}
}

// UploadWithTags stores content, records the file and links every requested
// tag, creating tags the owner does not have yet.
//
// Storing the content or the file record are the only fatal steps. A tag that
// cannot be created or linked is rolled back on its own and skipped, so the
// upload still succeeds with the remaining tags. If the file record cannot be
// saved the stored content is removed again.
func (s *UploadService) UploadWithTags(ctx context.Context, ownerID int64, filename string, content io.Reader, specs []model.TagSpec) (*model.File, error) {
	if ownerID <= 0 {
		return nil, invalidf("owner is required")
	}
	if content == nil {
		return nil, invalidf("file is required")
	}

	name, err := validation.NormalizeName(filename)
	if err != nil {
		return nil, invalid(fmt.Errorf("file name: %w", err))
	}

	key := storage.NewKey(name)
	err = s.storage.Save(ctx, key, content)
	if err != nil {
		uploadsTotal.WithLabelValues("storage_error").Inc()
		slog.Error("failed to store upload", "error", err, "owner_id", ownerID, "path", key)
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	now := time.Now().UTC()
	file := &model.File{
		OwnerID:   ownerID,
		Name:      name,
		Type:      model.FileTypeFromName(name),
		Path:      key,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var linked int
	err = s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		repos := s.bind(tx)

		err := repos.Files.Create(ctx, file)
		if err != nil {
			return persistence("create file record", err)
		}

		for _, spec := range specs {
			if strings.TrimSpace(spec.Name) == "" {
				continue
			}

			err := repository.Savepoint(ctx, tx, "upload_tag", func() error {
				return s.tag(ctx, repos, file, spec)
			})
			if err != nil {
				uploadTagFailuresTotal.Inc()
				slog.Warn("skipping tag on upload", "error", err, "file_id", file.ID, "tag", spec.Name)
				continue
			}
			linked++
		}

		return nil
	})
	if err != nil {
		uploadsTotal.WithLabelValues("db_error").Inc()
		slog.Error("failed to record upload", "error", err, "owner_id", ownerID, "path", key)

		delErr := s.storage.Delete(context.WithoutCancel(ctx), key)
		if delErr != nil {
			slog.Warn("failed to remove content of failed upload", "error", delErr, "path", key)
		}

		if !errors.Is(err, ErrPersistence) {
			err = persistence("record upload", err)
		}
		return nil, err
	}

	uploadsTotal.WithLabelValues("success").Inc()
	slog.Info("file uploaded", "file_id", file.ID, "owner_id", ownerID, "type", file.Type, "tags", linked)
	return file, nil
}

// tag creates or reuses one tag and links it to file
func (s *UploadService) tag(ctx context.Context, repos *repository.Repositories, file *model.File, spec model.TagSpec) error {
	tag, err := s.tagService.createOrReuse(ctx, repos.Tags, file.OwnerID, spec)
	if err != nil {
		return err
	}

	fileTag := &model.FileTag{FileID: file.ID, TagID: tag.ID, CreatedAt: time.Now().UTC()}
	_, err = repos.FileTags.CreateOrReuse(ctx, fileTag)
	if err != nil {
		return persistence("link tag", err)
	}
	return nil
}
