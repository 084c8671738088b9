package follows

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/internal/notifications"
	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
)

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// UserSummary is the follow-list projection of a user.
type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Nickname     string    `json:"nickname"`
	ProfileImage *string   `json:"profile_image,omitempty"`
}

// Service maintains the follow graph.
type Service interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID) ([]UserSummary, error)
	Followings(ctx context.Context, userID uuid.UUID) ([]UserSummary, error)
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo       *Repository
	Users      userLookup
	Dispatcher notifications.Dispatcher
}

type service struct {
	repo       *Repository
	users      userLookup
	dispatcher notifications.Dispatcher
}

// NewService builds a follows service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "follows repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user lookup required")
	}
	if params.Dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification dispatcher required")
	}
	return &service{
		repo:       params.Repo,
		users:      params.Users,
		dispatcher: params.Dispatcher,
	}, nil
}

func (s *service) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot follow yourself")
	}

	follower, err := s.loadUser(ctx, followerID)
	if err != nil {
		return err
	}
	if _, err := s.loadUser(ctx, followeeID); err != nil {
		return err
	}

	created, err := s.repo.Create(ctx, &models.Follow{
		ID:         uuid.New(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create follow")
	}
	if created {
		s.dispatcher.NewFollower(ctx, followeeID, follower.Nickname)
	}
	return nil
}

func (s *service) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, followerID, followeeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete follow")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "follow not found")
	}
	return nil
}

func (s *service) Followers(ctx context.Context, userID uuid.UUID) ([]UserSummary, error) {
	users, err := s.repo.Followers(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followers")
	}
	return toSummaries(users), nil
}

func (s *service) Followings(ctx context.Context, userID uuid.UUID) ([]UserSummary, error) {
	users, err := s.repo.Followings(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followings")
	}
	return toSummaries(users), nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func toSummaries(users []models.User) []UserSummary {
	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, UserSummary{
			ID:           users[i].ID,
			Nickname:     users[i].Nickname,
			ProfileImage: users[i].ProfileImage,
		})
	}
	return summaries
}
