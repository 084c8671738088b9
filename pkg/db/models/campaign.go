package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign is a gift-funding post: a wished-for product with a monetary goal
// and a deadline. Money and Complete are aggregates over live pledges and are
// written only by the funding engine.
type Campaign struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID        uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index"`
	Name           string         `gorm:"type:varchar(30);not null"`
	ProductLink    string         `gorm:"column:product_link;type:text;not null"`
	Goal           int            `gorm:"not null"`
	Money          int            `gorm:"not null;default:0"`
	Complete       bool           `gorm:"not null;default:false"`
	Deadline       time.Time      `gorm:"type:timestamptz;not null"`
	RepresentImage *string        `gorm:"column:represent_image;type:text"`
	ShortComment   string         `gorm:"column:short_comment;type:text"`
	LongComment    string         `gorm:"column:long_comment;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Images []CampaignImage `gorm:"foreignKey:CampaignID"`
}

// CampaignImage stores one gallery image URL attached to a campaign.
type CampaignImage struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID uuid.UUID `gorm:"column:campaign_id;type:uuid;not null;index"`
	URL        string    `gorm:"type:text;not null"`
	Position   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
