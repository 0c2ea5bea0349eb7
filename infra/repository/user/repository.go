package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/payollar/payollar/infra/repository"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/pkg/repository/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New returns a user.Repository backed by db.
func New(db *gorm.DB) user.Repository {
	return &repo{db: db}
}

func (r *repo) Create(
	ctx context.Context,
	create *dto.UserCreate,
) error {
	now := time.Now().UTC()
	u := &User{
		ID:        create.ID,
		Username:  create.Username,
		Email:     create.Email,
		Password:  create.Password,
		Role:      create.Role,
		Credits:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return repository.WrapError(func() error {
		return r.db.WithContext(ctx).Create(u).Error
	})
}

func (r *repo) first(query *gorm.DB) (*dto.UserRead, error) {
	var u User
	if err := query.First(&u).Error; err != nil {
		return nil, repository.NotFoundAsNil(err)
	}
	return mapModelToDTO(&u), nil
}

func (r *repo) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.UserRead, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *repo) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*dto.UserRead, error) {
	return r.first(r.db.WithContext(ctx).Clauses(repository.ForUpdate).Where("id = ?", id))
}

func (r *repo) GetByEmail(
	ctx context.Context,
	email string,
) (*dto.UserRead, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *repo) GetByUsername(
	ctx context.Context,
	username string,
) (*dto.UserRead, error) {
	return r.first(r.db.WithContext(ctx).Where("username = ?", username))
}

// DecrementCredits subtracts in SQL; the credits >= amount predicate keeps
// the balance non-negative under concurrent debits.
func (r *repo) DecrementCredits(
	ctx context.Context,
	id uuid.UUID,
	amount decimal.Decimal,
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND credits >= ?", id, amount).
		Updates(map[string]any{
			"credits":    gorm.Expr("credits - ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, repository.MapGormErrorToDomain(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func mapModelToDTO(u *User) *dto.UserRead {
	return &dto.UserRead{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.Password,
		Role:           u.Role,
		Credits:        u.Credits,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
