package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/repository"
	"github.com/templui/tagbox/internal/validation"
)

// UserUpdate holds the account fields to change; nil fields are left as they are
type UserUpdate struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UserService struct {
	userRepository repository.UserRepository
	authService    *AuthService
}

func NewUserService(userRepository repository.UserRepository, authService *AuthService) *UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
	}
}

// ByID returns an active user. Soft-deleted accounts are reported as ErrNotFound.
func (s *UserService) ByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("load user", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, userID int64, update UserUpdate) (*model.User, error) {
	if update.Email == nil && update.Password == nil {
		return nil, invalidf("no update data provided")
	}

	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		email := validation.NormalizeEmail(*update.Email)
		err = validation.ValidateEmail(email)
		if err != nil {
			return nil, invalid(err)
		}
		user.Email = email
	}

	if update.Password != nil {
		err = validation.ValidatePassword(*update.Password)
		if err != nil {
			return nil, invalid(err)
		}

		user.PasswordHash, err = s.authService.HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	user.UpdatedAt = time.Now().UTC()

	err = s.userRepository.Update(ctx, user)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, ErrEmailAlreadyExists
	case errors.Is(err, repository.ErrUserNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, persistence("update user", err)
	}

	return user, nil
}

// Delete soft-deletes the account. Files and tags are kept.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	err := s.userRepository.SoftDelete(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistence("delete user", err)
	}

	slog.Info("user deleted", "user_id", userID)
	return nil
}
