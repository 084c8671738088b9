package campaigns

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
	"github.com/sooyeonjun/giftpool-backend/pkg/pagination"
)

// deadlineLayout is the wire format for campaign deadlines, interpreted in the
// service timezone.
const deadlineLayout = "2006-01-02"

type followingsSource interface {
	FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

// Service exposes campaign CRUD and the follow feed.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateCampaignInput) (CampaignDTO, error)
	Get(ctx context.Context, id uuid.UUID) (CampaignDTO, error)
	Feed(ctx context.Context, viewerID uuid.UUID, limit int, cursor string) (FeedPage, error)
	Update(ctx context.Context, ownerID, campaignID uuid.UUID, input UpdateCampaignInput) (CampaignDTO, error)
	Delete(ctx context.Context, ownerID, campaignID uuid.UUID) error
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo       *Repository
	Followings followingsSource
	Funding    config.FundingConfig
}

type service struct {
	repo       *Repository
	followings followingsSource
	location   *time.Location
}

// NewService builds a campaigns service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "campaigns repository required")
	}
	if params.Followings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "followings source required")
	}
	location, err := time.LoadLocation(params.Funding.Timezone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service timezone")
	}
	return &service{
		repo:       params.Repo,
		followings: params.Followings,
		location:   location,
	}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateCampaignInput) (CampaignDTO, error) {
	deadline, err := s.parseDeadline(input.Deadline, time.Now())
	if err != nil {
		return CampaignDTO{}, err
	}

	campaignID := uuid.New()
	campaign := &models.Campaign{
		ID:             campaignID,
		OwnerID:        ownerID,
		Name:           input.Name,
		ProductLink:    input.ProductLink,
		Goal:           input.Goal,
		Deadline:       deadline,
		RepresentImage: input.RepresentImage,
		ShortComment:   input.ShortComment,
		LongComment:    input.LongComment,
		Images:         buildImages(campaignID, input.Images),
	}

	if err := s.repo.Create(ctx, campaign); err != nil {
		return CampaignDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create campaign")
	}
	return s.toCampaignDTO(campaign, time.Now()), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (CampaignDTO, error) {
	campaign, err := s.loadCampaign(ctx, id)
	if err != nil {
		return CampaignDTO{}, err
	}
	return s.toCampaignDTO(campaign, time.Now()), nil
}

func (s *service) Feed(ctx context.Context, viewerID uuid.UUID, limit int, cursor string) (FeedPage, error) {
	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return FeedPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	followees, err := s.followings.FolloweeIDs(ctx, viewerID)
	if err != nil {
		return FeedPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load followings")
	}
	if len(followees) == 0 {
		return FeedPage{Items: []CampaignDTO{}}, nil
	}

	rows, next, err := s.repo.ListByOwners(ctx, followees, limit, parsed)
	if err != nil {
		return FeedPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feed campaigns")
	}

	now := time.Now()
	page := FeedPage{Items: make([]CampaignDTO, 0, len(rows))}
	for i := range rows {
		page.Items = append(page.Items, s.toCampaignDTO(&rows[i], now))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, ownerID, campaignID uuid.UUID, input UpdateCampaignInput) (CampaignDTO, error) {
	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return CampaignDTO{}, err
	}
	if campaign.OwnerID != ownerID {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "not the campaign owner")
	}

	funded := campaign.Money > 0
	if input.Goal != nil {
		if funded {
			return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "goal is fixed once funding has started")
		}
		campaign.Goal = *input.Goal
	}
	if input.Deadline != nil {
		if funded {
			return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "deadline is fixed once funding has started")
		}
		deadline, err := s.parseDeadline(*input.Deadline, time.Now())
		if err != nil {
			return CampaignDTO{}, err
		}
		campaign.Deadline = deadline
	}
	if input.Name != nil {
		campaign.Name = *input.Name
	}
	if input.ProductLink != nil {
		campaign.ProductLink = *input.ProductLink
	}
	if input.RepresentImage != nil {
		campaign.RepresentImage = input.RepresentImage
	}
	if input.ShortComment != nil {
		campaign.ShortComment = *input.ShortComment
	}
	if input.LongComment != nil {
		campaign.LongComment = *input.LongComment
	}

	if err := s.repo.Update(ctx, campaign); err != nil {
		return CampaignDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update campaign")
	}

	if input.Images != nil {
		images := buildImages(campaign.ID, input.Images)
		if err := s.repo.ReplaceImages(ctx, campaign.ID, images); err != nil {
			return CampaignDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace campaign images")
		}
		campaign.Images = images
	}
	return s.toCampaignDTO(campaign, time.Now()), nil
}

func (s *service) Delete(ctx context.Context, ownerID, campaignID uuid.UUID) error {
	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.OwnerID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not the campaign owner")
	}
	if err := s.repo.SoftDelete(ctx, campaignID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete campaign")
	}
	return nil
}

func (s *service) loadCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	return campaign, nil
}

// parseDeadline interprets a date string as midnight in the service timezone
// and requires it to fall after today. Pledges on the deadline date itself are
// rejected by the funding engine, so the earliest useful deadline is tomorrow.
func (s *service) parseDeadline(value string, now time.Time) (time.Time, error) {
	deadline, err := time.ParseInLocation(deadlineLayout, value, s.location)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid deadline date")
	}
	local := now.In(s.location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	if !deadline.After(today) {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "deadline must be after today")
	}
	return deadline, nil
}

func buildImages(campaignID uuid.UUID, urls []string) []models.CampaignImage {
	images := make([]models.CampaignImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, models.CampaignImage{
			ID:         uuid.New(),
			CampaignID: campaignID,
			URL:        url,
			Position:   i,
		})
	}
	return images
}
