package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/templui/tagbox/internal/model"
)

func TestFileCreateValidation(t *testing.T) {
	conn := newTestDB(t)
	repo := NewFileRepository(conn)

	tests := []struct {
		name string
		file model.File
	}{
		{"missing owner", model.File{Name: "a.pdf", Type: model.FileTypeDocument, Path: "p1"}},
		{"missing name", model.File{OwnerID: 1, Type: model.FileTypeDocument, Path: "p2"}},
		{"missing type", model.File{OwnerID: 1, Name: "a.pdf", Path: "p3"}},
		{"missing path", model.File{OwnerID: 1, Name: "a.pdf", Type: model.FileTypeDocument}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := tt.file
			if err := repo.Create(context.Background(), &file); !errors.Is(err, ErrInvalidFile) {
				t.Errorf("Create() error = %v, want ErrInvalidFile", err)
			}
		})
	}

	var count int
	if err := conn.Get(&count, "SELECT COUNT(*) FROM files"); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("files = %d, want 0", count)
	}
}

func TestFilesNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewFileRepository(conn)
	ctx := context.Background()

	older := createFile(t, conn, 1, "older.txt")
	newer := createFile(t, conn, 1, "newer.txt")
	createFile(t, conn, 2, "foreign.txt")

	files, err := repo.Files(ctx, 1)
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Files() returned %d files, want 2", len(files))
	}
	if files[0].ID != newer.ID || files[1].ID != older.ID {
		t.Errorf("Files() order = [%d %d], want [%d %d]", files[0].ID, files[1].ID, newer.ID, older.ID)
	}
}

func TestFilesByTypeAndSearch(t *testing.T) {
	conn := newTestDB(t)
	repo := NewFileRepository(conn)
	ctx := context.Background()

	createFile(t, conn, 1, "Report.pdf")
	createFile(t, conn, 1, "holiday.png")
	createFile(t, conn, 1, "report-final.docx")
	createFile(t, conn, 2, "report.pdf")

	docs, err := repo.FilesByType(ctx, 1, model.FileTypeDocument)
	if err != nil {
		t.Fatalf("FilesByType() error = %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("FilesByType(DOCUMENT) returned %d files, want 2", len(docs))
	}

	found, err := repo.SearchByName(ctx, 1, "report")
	if err != nil {
		t.Fatalf("SearchByName() error = %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("SearchByName(report) returned %d files, want 2", len(found))
	}
	for _, f := range found {
		if f.OwnerID != 1 {
			t.Errorf("SearchByName returned a file of owner %d", f.OwnerID)
		}
	}
}

func TestFileUpdateKeepsOwnerAndPath(t *testing.T) {
	conn := newTestDB(t)
	repo := NewFileRepository(conn)
	ctx := context.Background()

	file := createFile(t, conn, 1, "draft.txt")
	path := file.Path

	update := *file
	update.Name = "final.zip"
	update.Type = model.FileTypeZip
	update.Path = "ignored"
	update.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, &update); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.ByID(ctx, file.ID)
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if got.Name != "final.zip" || got.Type != model.FileTypeZip {
		t.Errorf("ByID() after update = %+v", got)
	}
	if got.Path != path {
		t.Errorf("path changed to %q, want %q", got.Path, path)
	}

	update.OwnerID = 2
	if err := repo.Update(ctx, &update); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("update by another owner: error = %v, want ErrFileNotFound", err)
	}
}

func TestFileDeleteChecksOwner(t *testing.T) {
	conn := newTestDB(t)
	repo := NewFileRepository(conn)
	ctx := context.Background()

	file := createFile(t, conn, 1, "a.txt")

	if err := repo.Delete(ctx, 2, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Delete() by another owner error = %v, want ErrFileNotFound", err)
	}
	if _, err := repo.ByID(ctx, file.ID); err != nil {
		t.Fatalf("file gone after foreign delete: %v", err)
	}
	if err := repo.Delete(ctx, 1, file.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.ByID(ctx, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ByID() after delete error = %v, want ErrFileNotFound", err)
	}
}
