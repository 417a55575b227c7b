// Package user registers the shoppers that checkout resolves.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

type Service struct {
	users ports.UserRepository
	now   func() time.Time
}

func NewService(users ports.UserRepository) *Service {
	return &Service{users: users, now: time.Now}
}

// Register creates a user. Duplicate usernames or emails fail with
// entity.ErrConflict.
func (s *Service) Register(ctx context.Context, username, email string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", entity.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", entity.ErrValidation, email)
	}

	u := &entity.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     strings.ToLower(email),
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("user: register: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user: get: %w", err)
	}
	return u, nil
}
