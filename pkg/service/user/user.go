// Package user provides business logic for user management operations.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/domain/user"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/pkg/repository"
	userrepo "github.com/payollar/payollar/pkg/repository/user"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:    uow,
		logger: logger,
	}
}

// CreateUser creates a new user with the given role in a transaction.
// The role string is parsed strictly; unknown roles are rejected.
func (s *Service) CreateUser(
	ctx context.Context,
	username, email, password, role string,
) (u *user.User, err error) {
	log := s.logger.With("username", username, "role", role)
	r, ok := user.ParseRole(role)
	if !ok {
		log.Error("CreateUser failed", "error", user.ErrInvalidRole)
		return nil, user.ErrInvalidRole
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		u, err = user.New(username, email, password, r)
		if err != nil {
			return err
		}
		return repo.Create(ctx, &dto.UserCreate{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Role:     string(u.Role),
		})
	})
	if err != nil {
		log.Error("CreateUser failed", "error", err)
		return nil, err
	}
	log.Info("CreateUser successful", "userID", u.ID)
	return
}

// GetUser retrieves a user by ID. It returns user.ErrUserNotFound when no
// such user exists.
func (s *Service) GetUser(
	ctx context.Context,
	userID string,
) (u *dto.UserRead, err error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, user.ErrUserNotFound
	}
	repo, err := repository.Get[userrepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	u, err = repo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}
