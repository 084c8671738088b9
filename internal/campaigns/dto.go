package campaigns

import (
	"time"

	"github.com/google/uuid"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
)

// CreateCampaignInput carries the fields for opening a new campaign.
type CreateCampaignInput struct {
	Name           string   `json:"name" validate:"required,min=1,max=30"`
	ProductLink    string   `json:"product_link" validate:"required,url"`
	Goal           int      `json:"goal" validate:"required,gt=0"`
	Deadline       string   `json:"deadline" validate:"required"`
	RepresentImage *string  `json:"represent_image" validate:"omitempty,url"`
	ShortComment   string   `json:"short_comment" validate:"max=200"`
	LongComment    string   `json:"long_comment"`
	Images         []string `json:"images" validate:"max=10,dive,url"`
}

// UpdateCampaignInput carries the editable campaign fields. Goal and deadline
// may only change while no money has come in.
type UpdateCampaignInput struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=30"`
	ProductLink    *string  `json:"product_link" validate:"omitempty,url"`
	Goal           *int     `json:"goal" validate:"omitempty,gt=0"`
	Deadline       *string  `json:"deadline"`
	RepresentImage *string  `json:"represent_image" validate:"omitempty,url"`
	ShortComment   *string  `json:"short_comment" validate:"omitempty,max=200"`
	LongComment    *string  `json:"long_comment"`
	Images         []string `json:"images" validate:"omitempty,max=10,dive,url"`
}

// CampaignDTO is the public projection of a campaign.
type CampaignDTO struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	ProductLink    string    `json:"product_link"`
	Goal           int       `json:"goal"`
	Money          int       `json:"money"`
	Complete       bool      `json:"complete"`
	Progress       int       `json:"progress"`
	DDay           int       `json:"d_day"`
	Deadline       time.Time `json:"deadline"`
	RepresentImage *string   `json:"represent_image,omitempty"`
	ShortComment   string    `json:"short_comment"`
	LongComment    string    `json:"long_comment"`
	Images         []string  `json:"images"`
	CreatedAt      time.Time `json:"created_at"`
}

// FeedPage bundles a page of campaigns with the next-page cursor.
type FeedPage struct {
	Items      []CampaignDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func (s *service) toCampaignDTO(campaign *models.Campaign, now time.Time) CampaignDTO {
	images := make([]string, 0, len(campaign.Images))
	for _, image := range campaign.Images {
		images = append(images, image.URL)
	}

	progress := 0
	if campaign.Goal > 0 {
		progress = campaign.Money * 100 / campaign.Goal
	}

	return CampaignDTO{
		ID:             campaign.ID,
		OwnerID:        campaign.OwnerID,
		Name:           campaign.Name,
		ProductLink:    campaign.ProductLink,
		Goal:           campaign.Goal,
		Money:          campaign.Money,
		Complete:       campaign.Complete,
		Progress:       progress,
		DDay:           s.daysUntilDeadline(campaign.Deadline, now),
		Deadline:       campaign.Deadline,
		RepresentImage: campaign.RepresentImage,
		ShortComment:   campaign.ShortComment,
		LongComment:    campaign.LongComment,
		Images:         images,
		CreatedAt:      campaign.CreatedAt,
	}
}

// daysUntilDeadline counts whole calendar days left in the service timezone.
// Zero means the deadline is today; negative values mean the campaign closed.
func (s *service) daysUntilDeadline(deadline, now time.Time) int {
	local := now.In(s.location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	end := deadline.In(s.location)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.location)
	return int(endDay.Sub(today).Hours() / 24)
}
