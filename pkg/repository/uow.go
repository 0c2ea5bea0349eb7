package repository

import (
	"context"
	"fmt"
)

// UnitOfWork defines the contract for transactional work and repository access.
//
// Do runs fn inside one transaction boundary: the transaction commits when fn
// returns nil and rolls back when it returns an error. Repositories obtained
// from the UnitOfWork handed to fn share that transaction.
//
//	repoAny, err := uow.GetRepository((*user.Repository)(nil))
//	repo := repoAny.(user.Repository)
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns the repository whose interface type is pointed to
	// by repoType, bound to the current transaction/session.
	GetRepository(repoType any) (any, error)
}

// Get resolves the repository of interface type T from uow.
func Get[T any](uow UnitOfWork) (T, error) {
	var zero T
	repoAny, err := uow.GetRepository((*T)(nil))
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}
