package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/db"
	"github.com/templui/tagbox/internal/model"
)

// newTestDB opens a migrated SQLite database that lives for the duration of the test
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Init("sqlite", db.SQLiteDSN(filepath.Join(t.TempDir(), "tagbox.db")))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close(conn) })

	if err := db.RunMigrations(conn.DB, "sqlite"); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return conn
}

var pathSeq atomic.Int64

func createFile(t *testing.T, dbtx DBTX, ownerID int64, name string) *model.File {
	t.Helper()

	now := time.Now().UTC()
	file := &model.File{
		OwnerID:   ownerID,
		Name:      name,
		Type:      model.FileTypeFromName(name),
		Path:      fmt.Sprintf("%d-%s", pathSeq.Add(1), name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := NewFileRepository(dbtx).Create(context.Background(), file); err != nil {
		t.Fatalf("failed to create file %q: %v", name, err)
	}
	return file
}

func createTag(t *testing.T, dbtx DBTX, ownerID int64, name string) *model.Tag {
	t.Helper()

	now := time.Now().UTC()
	tag := &model.Tag{
		OwnerID:   ownerID,
		Name:      name,
		Color:     model.DefaultTagColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := NewTagRepository(dbtx).CreateOrReuse(context.Background(), tag); err != nil {
		t.Fatalf("failed to create tag %q: %v", name, err)
	}
	return tag
}

func link(t *testing.T, dbtx DBTX, fileID, tagID int64) *model.FileTag {
	t.Helper()

	fileTag := &model.FileTag{FileID: fileID, TagID: tagID, CreatedAt: time.Now().UTC()}
	if _, err := NewFileTagRepository(dbtx).CreateOrReuse(context.Background(), fileTag); err != nil {
		t.Fatalf("failed to link file %d and tag %d: %v", fileID, tagID, err)
	}
	return fileTag
}
