package campaigns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	"github.com/sooyeonjun/giftpool-backend/pkg/pagination"
)

// Repository encapsulates campaign persistence. Aggregate columns (money,
// complete) are only written through SaveAggregate inside a funding
// transaction.
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

// Create persists the campaign together with its gallery images.
func (r *Repository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// FindByID loads a live campaign with its images.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindByIDForUpdate locks the campaign row for the duration of the enclosing
// transaction. Concurrent pledges against the same campaign serialize here.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// SaveAggregate writes the funding aggregates for a campaign. Callers hold the
// row lock taken by FindByIDForUpdate.
func (r *Repository) SaveAggregate(ctx context.Context, id uuid.UUID, money int, complete bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{"money": money, "complete": complete}).Error
}

// ListByOwners pages campaigns owned by any of the given users, newest first.
func (r *Repository) ListByOwners(ctx context.Context, ownerIDs []uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Campaign, *pagination.Cursor, error) {
	if len(ownerIDs) == 0 {
		return nil, nil, nil
	}

	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)
	query := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("owner_id IN ?", ownerIDs)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var campaigns []models.Campaign
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&campaigns).Error; err != nil {
		return nil, nil, err
	}

	if len(campaigns) > normalized {
		next := campaigns[normalized]
		campaigns = campaigns[:normalized]
		return campaigns, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return campaigns, nil, nil
}

// Update persists editable campaign fields.
func (r *Repository) Update(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Omit("Images").Save(campaign).Error
}

// ReplaceImages swaps the campaign gallery for the provided set.
func (r *Repository) ReplaceImages(ctx context.Context, campaignID uuid.UUID, images []models.CampaignImage) error {
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Delete(&models.CampaignImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

// SoftDelete marks the campaign deleted. Pledge rows keep their history.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Campaign{}, "id = ?", id).Error
}
