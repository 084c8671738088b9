package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
)

type tokenStore interface {
	SetDeviceToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error
	DeleteDeviceToken(ctx context.Context, userID uuid.UUID) error
}

// Service exposes profile management for signed-in users.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error)
	SearchByNickname(ctx context.Context, prefix string, limit int) ([]ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error)
	SetAlarm(ctx context.Context, userID uuid.UUID, enabled bool) error
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo   *Repository
	tokens tokenStore
}

// NewService builds a users service with the required dependencies.
func NewService(repo *Repository, tokens tokenStore) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "token store required")
	}
	return &service{repo: repo, tokens: tokens}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}
	return toProfileDTO(user), nil
}

func (s *service) SearchByNickname(ctx context.Context, prefix string, limit int) ([]ProfileDTO, error) {
	if prefix == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nickname prefix is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	users, err := s.repo.SearchByNickname(ctx, prefix, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search users")
	}
	result := make([]ProfileDTO, 0, len(users))
	for i := range users {
		result = append(result, toProfileDTO(&users[i]))
	}
	return result, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}

	if input.Nickname != nil && *input.Nickname != user.Nickname {
		if _, err := s.repo.FindByNickname(ctx, *input.Nickname); err == nil {
			return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "nickname already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check nickname")
		}
		user.Nickname = *input.Nickname
	}
	if input.Birthday != nil {
		user.Birthday = *input.Birthday
	}
	if input.ProfileImage != nil {
		user.ProfileImage = input.ProfileImage
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return toProfileDTO(user), nil
}

func (s *service) SetAlarm(ctx context.Context, userID uuid.UUID, enabled bool) error {
	affected, err := s.repo.SetAlarm(ctx, userID, enabled)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update alarm flag")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "device token is required")
	}
	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}
	if err := s.tokens.SetDeviceToken(ctx, userID, token, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store device token")
	}
	return nil
}

func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete account")
	}
	// Token removal is best-effort; a stale token only produces dropped pushes.
	_ = s.tokens.DeleteDeviceToken(ctx, userID)
	return nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
