package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/templui/tagbox/internal/model"
)

func newUser(email string) *model.User {
	now := time.Now().UTC()
	return &model.User{Email: email, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
}

func TestUserCreateAndSoftDelete(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	user := newUser("ada@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}

	if err := repo.Create(ctx, newUser("ada@example.com")); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate Create() error = %v, want ErrDuplicateEmail", err)
	}

	got, err := repo.ByEmail(ctx, "ada@example.com")
	if err != nil || got.ID != user.ID {
		t.Fatalf("ByEmail() = %+v, %v", got, err)
	}

	if err := repo.SoftDelete(ctx, user.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := repo.ByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("ByID() after soft delete error = %v, want ErrUserNotFound", err)
	}
	if err := repo.SoftDelete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second SoftDelete() error = %v, want ErrUserNotFound", err)
	}

	var rows int
	if err := conn.Get(&rows, "SELECT COUNT(*) FROM users"); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("users rows = %d, want 1 (soft delete keeps the row)", rows)
	}

	// The email is free again once the old account is deleted
	if err := repo.Create(ctx, newUser("ada@example.com")); err != nil {
		t.Errorf("re-register after soft delete error = %v", err)
	}
}

func TestUserUpdate(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	ada := newUser("ada@example.com")
	bob := newUser("bob@example.com")
	for _, u := range []*model.User{ada, bob} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	ada.Email = "countess@example.com"
	if err := repo.Update(ctx, ada); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := repo.ByEmail(ctx, "countess@example.com"); err != nil {
		t.Errorf("ByEmail() after update error = %v", err)
	}

	bob.Email = "countess@example.com"
	if err := repo.Update(ctx, bob); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Update() to taken email error = %v, want ErrDuplicateEmail", err)
	}
}
