package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow links a follower to the user they follow.
type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FollowerID uuid.UUID `gorm:"column:follower_id;type:uuid;not null;index:follows_follower_id_idx;uniqueIndex:follows_follower_followee_key"`
	FolloweeID uuid.UUID `gorm:"column:followee_id;type:uuid;not null;index:follows_followee_id_idx;uniqueIndex:follows_follower_followee_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
