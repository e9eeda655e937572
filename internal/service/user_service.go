// Package service composes the calculator and the storage layer into the
// operations the request boundary calls. Storage sentinel errors are mapped
// onto client-facing error kinds here; the calculator's own failures pass
// through unchanged.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mkhare/splitledger/internal/errdefs"
	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/storage"
)

// UserService creates user records.
type UserService struct {
	store storage.Store
}

// NewUserService creates a UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// CreateUser registers a new user and returns its id. The email must be
// unique across all users.
func (s *UserService) CreateUser(ctx context.Context, name, email string) (int64, error) {
	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return 0, errdefs.Conflict("There is a unique constraint violation, a new user cannot be created with this email")
		}
		slog.Error("CreateUser failed", "email", email, "error", err)
		return 0, err
	}

	slog.Info("User created", "user_id", user.ID)
	return user.ID, nil
}
