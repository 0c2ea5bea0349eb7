package admin

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/domain/user"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/pkg/repository"
	userrepo "github.com/payollar/payollar/pkg/repository/user"
)

// Gate answers whether a principal currently holds the ADMIN role. The role
// is read from the user store on every call, so a demoted admin loses
// access immediately.
type Gate struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewGate creates a Gate reading roles through uow.
func NewGate(uow repository.UnitOfWork, logger *slog.Logger) *Gate {
	return &Gate{uow: uow, logger: logger}
}

// IsAdmin never fails: an absent principal, a failed lookup, a missing user
// and any role other than ADMIN all yield false.
func (g *Gate) IsAdmin(ctx context.Context, principalID uuid.UUID) bool {
	_, ok := g.authorize(ctx, principalID)
	return ok
}

// authorize is IsAdmin that also hands back the stored principal, which is
// nil whenever the lookup did not produce one.
func (g *Gate) authorize(ctx context.Context, principalID uuid.UUID) (*dto.UserRead, bool) {
	u := g.lookup(ctx, principalID)
	if u == nil {
		return nil, false
	}
	role, ok := user.ParseRole(u.Role)
	if !ok {
		g.logger.Warn("Stored role not recognised", "principalID", principalID, "role", u.Role)
		return u, false
	}
	return u, role.IsAdmin()
}

// lookup returns the stored principal or nil.
func (g *Gate) lookup(ctx context.Context, principalID uuid.UUID) *dto.UserRead {
	if principalID == uuid.Nil {
		return nil
	}
	repo, err := repository.Get[userrepo.Repository](g.uow)
	if err != nil {
		g.logger.Error("Principal lookup failed", "principalID", principalID, "error", err)
		return nil
	}
	u, err := repo.Get(ctx, principalID)
	if err != nil {
		g.logger.Error("Principal lookup failed", "principalID", principalID, "error", err)
		return nil
	}
	return u
}
