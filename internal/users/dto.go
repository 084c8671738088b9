package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
)

// ProfileDTO is the public projection of a user.
type ProfileDTO struct {
	ID           uuid.UUID `json:"id"`
	Nickname     string    `json:"nickname"`
	Birthday     string    `json:"birthday"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	Alarm        bool      `json:"alarm"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	Nickname     *string `json:"nickname" validate:"omitempty,min=1,max=30"`
	Birthday     *string `json:"birthday" validate:"omitempty,len=5"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

func toProfileDTO(user *models.User) ProfileDTO {
	return ProfileDTO{
		ID:           user.ID,
		Nickname:     user.Nickname,
		Birthday:     user.Birthday,
		ProfileImage: user.ProfileImage,
		Alarm:        user.Alarm,
		CreatedAt:    user.CreatedAt,
	}
}
