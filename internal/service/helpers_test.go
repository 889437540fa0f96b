package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/db"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/repository"
	"github.com/templui/tagbox/internal/storage"
)

type testEnv struct {
	db        *sqlx.DB
	uploadDir string
	repos     *repository.Repositories
	tags      *TagService
	files     *FileService
	fileTags  *FileTagService
	uploads   *UploadService
	auth      *AuthService
	users     *UserService
}

// newTestEnv wires all services against a migrated SQLite database and a
// local upload directory, both removed after the test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	conn, err := db.Init("sqlite", db.SQLiteDSN(filepath.Join(dir, "tagbox.db")))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close(conn) })

	if err := db.RunMigrations(conn.DB, "sqlite"); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	uploadDir := filepath.Join(dir, "uploads")
	store, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	repos := repository.NewRepositories(conn)
	txRunner := repository.NewTxRunner(conn)
	tags := NewTagService(repos, txRunner, model.DefaultTagColor)
	auth := NewAuthService(repos.Users, "test-secret-test-secret-test-secret", time.Hour)

	return &testEnv{
		db:        conn,
		uploadDir: uploadDir,
		repos:     repos,
		tags:      tags,
		files:     NewFileService(repos, txRunner, store),
		fileTags:  NewFileTagService(repos),
		uploads:   NewUploadService(txRunner, store, tags),
		auth:      auth,
		users:     NewUserService(repos.Users, auth),
	}
}

func (e *testEnv) upload(t *testing.T, ownerID int64, name string, tags ...string) *model.File {
	t.Helper()

	specs := make([]model.TagSpec, 0, len(tags))
	for _, tag := range tags {
		specs = append(specs, model.TagSpec{Name: tag})
	}

	file, err := e.uploads.UploadWithTags(context.Background(), ownerID, name, strings.NewReader("content of "+name), specs)
	if err != nil {
		t.Fatalf("UploadWithTags(%q) error = %v", name, err)
	}
	return file
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()

	var n int
	if err := e.db.Get(&n, query, args...); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func (e *testEnv) blobs(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(e.uploadDir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

var errInjected = errors.New("injected failure")

// failingTags writes the tag and then fails for one name, so the caller has
// to undo a real write.
type failingTags struct {
	repository.TagRepository
	failName string
}

func (f failingTags) CreateOrReuse(ctx context.Context, tag *model.Tag) (bool, error) {
	created, err := f.TagRepository.CreateOrReuse(ctx, tag)
	if err == nil && tag.Name == f.failName {
		return false, errInjected
	}
	return created, err
}

type failingFiles struct {
	repository.FileRepository
}

func (failingFiles) Create(context.Context, *model.File) error {
	return errInjected
}

type failingStorage struct {
	storage.Storage
}

func (failingStorage) Save(context.Context, string, io.Reader) error {
	return errInjected
}
