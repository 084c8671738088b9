package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pledge records one backer's contribution toward a campaign. Rows are append
// or soft-delete only; a live (campaign, backer) pair is unique, enforced by a
// partial unique index in the schema and re-checked inside the funding
// transaction.
type Pledge struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID    uuid.UUID      `gorm:"column:campaign_id;type:uuid;not null;index"`
	BackerID      uuid.UUID      `gorm:"column:backer_id;type:uuid;not null;index"`
	BeneficiaryID uuid.UUID      `gorm:"column:beneficiary_id;type:uuid;not null;index"`
	Amount        int            `gorm:"not null"`
	Note          string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID"`
}
