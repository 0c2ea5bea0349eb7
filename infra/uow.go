package infra

import (
	"context"
	"fmt"
	"reflect"

	ledgerinfra "github.com/payollar/payollar/infra/repository/ledger"
	payoutinfra "github.com/payollar/payollar/infra/repository/payout"
	userinfra "github.com/payollar/payollar/infra/repository/user"
	"github.com/payollar/payollar/pkg/repository"
	ledgerrepo "github.com/payollar/payollar/pkg/repository/ledger"
	payoutrepo "github.com/payollar/payollar/pkg/repository/payout"
	userrepo "github.com/payollar/payollar/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do share its transaction.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*userrepo.Repository)(nil)).Elem():   func(db *gorm.DB) any { return userinfra.New(db) },
			reflect.TypeOf((*payoutrepo.Repository)(nil)).Elem(): func(db *gorm.DB) any { return payoutinfra.New(db) },
			reflect.TypeOf((*ledgerrepo.Repository)(nil)).Elem(): func(db *gorm.DB) any { return ledgerinfra.New(db) },
		},
	}
}

// Do runs fn in a transaction: it commits when fn returns nil and rolls
// back otherwise. A Do on the UoW handed to fn joins the running
// transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns the repository for the interface repoType points
// to, e.g. (*user.Repository)(nil). Outside Do it is bound to the plain
// connection pool.
func (u *UoW) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("unsupported repository type: %T", repoType)
	}
	constructor, ok := u.repoRegistry[t.Elem()]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", t.Elem())
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
