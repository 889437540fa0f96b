package service

import (
	"context"
	"errors"
	"testing"

	"github.com/templui/tagbox/internal/model"
)

func TestLinkIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	file := env.upload(t, 1, "a.pdf")
	tag, err := env.tags.CreateOrReuse(ctx, 1, model.TagSpec{Name: "work"})
	if err != nil {
		t.Fatal(err)
	}

	first, err := env.fileTags.Link(ctx, 1, file.ID, tag.ID)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	second, err := env.fileTags.Link(ctx, 1, file.ID, tag.ID)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("second Link() id = %d, want %d", second.ID, first.ID)
	}
}

func TestLinkChecksOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine := env.upload(t, 1, "mine.pdf")
	theirs := env.upload(t, 2, "theirs.pdf")
	myTag, err := env.tags.CreateOrReuse(ctx, 1, model.TagSpec{Name: "work"})
	if err != nil {
		t.Fatal(err)
	}
	theirTag, err := env.tags.CreateOrReuse(ctx, 2, model.TagSpec{Name: "work"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		fileID int64
		tagID  int64
		want   error
	}{
		{"foreign file", theirs.ID, myTag.ID, ErrForbidden},
		{"foreign tag", mine.ID, theirTag.ID, ErrForbidden},
		{"missing file", 9999, myTag.ID, ErrNotFound},
		{"invalid ids", 0, 0, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.fileTags.Link(ctx, 1, tt.fileID, tt.tagID); !errors.Is(err, tt.want) {
				t.Errorf("Link() error = %v, want %v", err, tt.want)
			}
		})
	}

	if n := env.count(t, "SELECT COUNT(*) FROM file_tags"); n != 0 {
		t.Errorf("file_tags = %d, want 0", n)
	}
}

func TestFileTagLookupsAndDeletes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.upload(t, 1, "a.pdf", "work", "urgent")
	env.upload(t, 1, "b.pdf", "work")

	work, err := env.repos.Tags.ByName(ctx, 1, "work")
	if err != nil {
		t.Fatal(err)
	}

	byTag, err := env.fileTags.ByTag(ctx, 1, work.ID)
	if err != nil {
		t.Fatalf("ByTag() error = %v", err)
	}
	if len(byTag) != 2 {
		t.Errorf("ByTag() = %d links, want 2", len(byTag))
	}
	if _, err := env.fileTags.ByTag(ctx, 2, work.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("ByTag() by another owner error = %v, want ErrForbidden", err)
	}

	if _, err := env.fileTags.ByID(ctx, 2, byTag[0].ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("ByID() by another owner error = %v, want ErrForbidden", err)
	}
	if err := env.fileTags.Delete(ctx, 2, byTag[0].ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() by another owner error = %v, want ErrForbidden", err)
	}
	if err := env.fileTags.Delete(ctx, 1, byTag[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	n, err := env.fileTags.DeleteByFile(ctx, 1, a.ID)
	if err != nil {
		t.Fatalf("DeleteByFile() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteByFile() removed %d, want 1", n)
	}

	n, err = env.fileTags.DeleteByTag(ctx, 1, work.ID)
	if err != nil {
		t.Fatalf("DeleteByTag() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteByTag() removed %d, want 1", n)
	}

	if rows := env.count(t, "SELECT COUNT(*) FROM file_tags"); rows != 0 {
		t.Errorf("file_tags = %d, want 0", rows)
	}
}
