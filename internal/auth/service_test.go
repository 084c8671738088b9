package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/internal/users"
	pkgauth "github.com/sooyeonjun/giftpool-backend/pkg/auth"
	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:auth_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  nickname TEXT NOT NULL UNIQUE,
  birthday TEXT NOT NULL,
  profile_image TEXT,
  alarm INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "giftpool",
		ExpirationMinutes: 60,
	}
}

func newAuthService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Users: users.NewRepository(db),
		JWT:   testJWTConfig(),
		// low-cost argon parameters keep the test fast
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	})
	require.NoError(t, err)
	return svc
}

func TestSignupAndSignin(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	session, err := svc.Signup(ctx, SignupInput{
		Email:    "soo@example.com",
		Password: "correct-horse",
		Nickname: "소연",
		Birthday: "03-14",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "소연", session.Nickname)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, claims.UserID)
	assert.Equal(t, "소연", claims.Nickname)

	again, err := svc.Signin(ctx, SigninInput{Email: "soo@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, session.UserID, again.UserID)
}

func TestSignup_Duplicates(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{
		Email:    "soo@example.com",
		Password: "correct-horse",
		Nickname: "소연",
		Birthday: "03-14",
	})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{
		Email:    "soo@example.com",
		Password: "other-password",
		Nickname: "다른닉",
		Birthday: "05-05",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	_, err = svc.Signup(ctx, SignupInput{
		Email:    "other@example.com",
		Password: "other-password",
		Nickname: "소연",
		Birthday: "05-05",
	})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestSignin_BadCredentials(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{
		Email:    "soo@example.com",
		Password: "correct-horse",
		Nickname: "소연",
		Birthday: "03-14",
	})
	require.NoError(t, err)

	_, err = svc.Signin(ctx, SigninInput{Email: "soo@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())

	_, err = svc.Signin(ctx, SigninInput{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}
