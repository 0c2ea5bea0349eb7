package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/payollar/payollar/infra/repository"
	"github.com/payollar/payollar/pkg/dto"
	ledgerrepo "github.com/payollar/payollar/pkg/repository/ledger"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New returns a ledger.Repository backed by db.
func New(db *gorm.DB) ledgerrepo.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, create dto.CreditTransactionCreate) error {
	row := &CreditTransaction{
		ID:        create.ID,
		UserID:    create.UserID,
		Amount:    create.Amount,
		Type:      create.Type,
		CreatedAt: create.CreatedAt,
	}
	return repository.WrapError(func() error {
		return r.db.WithContext(ctx).Create(row).Error
	})
}

func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CreditTransactionRead, error) {
	var rows []CreditTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, repository.MapGormErrorToDomain(err)
	}
	result := make([]*dto.CreditTransactionRead, 0, len(rows))
	for _, row := range rows {
		result = append(result, &dto.CreditTransactionRead{
			ID:        row.ID,
			UserID:    row.UserID,
			Amount:    row.Amount,
			Type:      row.Type,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}
