package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/internal/users"
	pkgauth "github.com/sooyeonjun/giftpool-backend/pkg/auth"
	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
	"github.com/sooyeonjun/giftpool-backend/pkg/security"
)

// Service issues sessions for the API.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (SessionDTO, error)
	Signin(ctx context.Context, input SigninInput) (SessionDTO, error)
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Users    *users.Repository
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

type service struct {
	users    *users.Repository
	jwt      config.JWTConfig
	password config.PasswordConfig
}

// NewService builds an auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "jwt secret required")
	}
	return &service{
		users:    params.Users,
		jwt:      params.JWT,
		password: params.Password,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (SessionDTO, error) {
	if err := s.ensureAvailable(ctx, input.Email, input.Nickname); err != nil {
		return SessionDTO{}, err
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hash,
		Nickname:     input.Nickname,
		Birthday:     input.Birthday,
		Alarm:        true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return s.session(user)
}

func (s *service) Signin(ctx context.Context, input SigninInput) (SessionDTO, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	return s.session(user)
}

func (s *service) ensureAvailable(ctx context.Context, email, nickname string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if _, err := s.users.FindByNickname(ctx, nickname); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "nickname already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check nickname")
	}
	return nil
}

func (s *service) session(user *models.User) (SessionDTO, error) {
	token, err := pkgauth.MintAccessToken(s.jwt, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Nickname: user.Nickname,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return SessionDTO{
		UserID:      user.ID,
		Nickname:    user.Nickname,
		AccessToken: token,
	}, nil
}
