package funding

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
)

// Repository encapsulates pledge persistence. Pledge rows are append or
// soft-delete only; monetary aggregates live on the campaign row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, pledge *models.Pledge) error {
	return r.db.WithContext(ctx).Create(pledge).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pledge, error) {
	var pledge models.Pledge
	if err := r.db.WithContext(ctx).First(&pledge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pledge, nil
}

// FindLive returns the backer's live pledge on a campaign, or
// gorm.ErrRecordNotFound when none exists.
func (r *Repository) FindLive(ctx context.Context, campaignID, backerID uuid.UUID) (*models.Pledge, error) {
	var pledge models.Pledge
	if err := r.db.WithContext(ctx).
		First(&pledge, "campaign_id = ? AND backer_id = ?", campaignID, backerID).Error; err != nil {
		return nil, err
	}
	return &pledge, nil
}

// SoftDelete removes a live pledge and reports whether a row was affected.
// The soft-delete scope skips pledges already retracted.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Pledge{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByBacker pages the backer's live pledges newest first, each with its
// campaign snapshot preloaded.
func (r *Repository) ListByBacker(ctx context.Context, backerID uuid.UUID, offset, limit int) ([]models.Pledge, error) {
	var pledges []models.Pledge
	if err := r.db.WithContext(ctx).
		Preload("Campaign", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Where("backer_id = ?", backerID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&pledges).Error; err != nil {
		return nil, err
	}
	return pledges, nil
}
