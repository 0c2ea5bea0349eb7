package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/payollar/payollar/infra/repository"
	"github.com/payollar/payollar/pkg/domain/payout"
	"github.com/payollar/payollar/pkg/dto"
	payoutrepo "github.com/payollar/payollar/pkg/repository/payout"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New returns a payout.Repository backed by db.
func New(db *gorm.DB) payoutrepo.Repository {
	return &repo{db: db}
}

func (r *repo) first(query *gorm.DB) (*dto.PayoutRead, error) {
	var p PayoutRequest
	if err := query.First(&p).Error; err != nil {
		return nil, repository.NotFoundAsNil(err)
	}
	return mapModelToDTO(&p), nil
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*dto.PayoutRead, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *repo) GetProcessingForUpdate(ctx context.Context, id uuid.UUID) (*dto.PayoutRead, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(repository.ForUpdate).
		Where("id = ? AND status = ?", id, string(payout.StatusProcessing)))
}

// MarkProcessed is conditional on the stored status, so of two racing
// approvals at most one changes a row.
func (r *repo) MarkProcessed(
	ctx context.Context,
	id uuid.UUID,
	processed dto.PayoutProcessed,
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&PayoutRequest{}).
		Where("id = ? AND status = ?", id, string(payout.StatusProcessing)).
		Updates(map[string]any{
			"status":       string(payout.StatusProcessed),
			"processed_at": processed.ProcessedAt,
			"processed_by": processed.ProcessedBy,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, repository.MapGormErrorToDomain(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) ListByStatus(ctx context.Context, status string) ([]*dto.PayoutRead, error) {
	var rows []PayoutRequest
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, repository.MapGormErrorToDomain(err)
	}
	result := make([]*dto.PayoutRead, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDTO(&rows[i]))
	}
	return result, nil
}

func mapModelToDTO(p *PayoutRequest) *dto.PayoutRead {
	return &dto.PayoutRead{
		ID:          p.ID,
		CreatorID:   p.CreatorID,
		Credits:     p.Credits,
		Status:      p.Status,
		ProcessedAt: p.ProcessedAt,
		ProcessedBy: p.ProcessedBy,
		CreatedAt:   p.CreatedAt,
	}
}
