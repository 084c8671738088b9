package follows

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
)

func setupFollowsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:follows_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
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
	followsDDL := `
CREATE TABLE IF NOT EXISTS follows (
  id TEXT PRIMARY KEY,
  follower_id TEXT NOT NULL,
  followee_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (follower_id, followee_id)
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(followsDDL).Error)
	return db
}

type dbUserLookup struct {
	db *gorm.DB
}

func (l *dbUserLookup) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := l.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type recordingDispatcher struct {
	followed []uuid.UUID
}

func (r *recordingDispatcher) NewPledge(ctx context.Context, beneficiaryID uuid.UUID, backerNickname string, amount int) {
}

func (r *recordingDispatcher) CampaignComplete(ctx context.Context, beneficiaryID uuid.UUID) {}

func (r *recordingDispatcher) NewFollower(ctx context.Context, userID uuid.UUID, followerNickname string) {
	r.followed = append(r.followed, userID)
}

func seedFollowUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        nickname + "@example.com",
		PasswordHash: "hash",
		Nickname:     nickname,
		Birthday:     "01-01",
		Alarm:        true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newFollowsService(t *testing.T, db *gorm.DB, dispatcher *recordingDispatcher) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(db),
		Users:      &dbUserLookup{db: db},
		Dispatcher: dispatcher,
	})
	require.NoError(t, err)
	return svc
}

func TestFollow_CreatesEdgeAndNotifiesOnce(t *testing.T) {
	db := setupFollowsTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := newFollowsService(t, db, dispatcher)
	ctx := context.Background()

	follower := seedFollowUser(t, db, "민지")
	followee := seedFollowUser(t, db, "하늘")

	require.NoError(t, svc.Follow(ctx, follower.ID, followee.ID))
	require.Len(t, dispatcher.followed, 1)
	assert.Equal(t, followee.ID, dispatcher.followed[0])

	// following again is a no-op and must not re-notify
	require.NoError(t, svc.Follow(ctx, follower.ID, followee.ID))
	assert.Len(t, dispatcher.followed, 1)
}

func TestFollow_Guards(t *testing.T) {
	db := setupFollowsTestDB(t)
	svc := newFollowsService(t, db, &recordingDispatcher{})
	ctx := context.Background()
	user := seedFollowUser(t, db, "민지")

	err := svc.Follow(ctx, user.ID, user.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	err = svc.Follow(ctx, user.ID, uuid.New())
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUnfollow(t *testing.T) {
	db := setupFollowsTestDB(t)
	svc := newFollowsService(t, db, &recordingDispatcher{})
	ctx := context.Background()

	follower := seedFollowUser(t, db, "민지")
	followee := seedFollowUser(t, db, "하늘")
	require.NoError(t, svc.Follow(ctx, follower.ID, followee.ID))

	require.NoError(t, svc.Unfollow(ctx, follower.ID, followee.ID))

	err := svc.Unfollow(ctx, follower.ID, followee.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestFollowerAndFollowingLists(t *testing.T) {
	db := setupFollowsTestDB(t)
	svc := newFollowsService(t, db, &recordingDispatcher{})
	ctx := context.Background()

	a := seedFollowUser(t, db, "a-user")
	b := seedFollowUser(t, db, "b-user")
	c := seedFollowUser(t, db, "c-user")

	require.NoError(t, svc.Follow(ctx, a.ID, b.ID))
	require.NoError(t, svc.Follow(ctx, c.ID, b.ID))
	require.NoError(t, svc.Follow(ctx, a.ID, c.ID))

	followers, err := svc.Followers(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	followings, err := svc.Followings(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, followings, 2)

	// soft-deleted users drop out of the lists
	require.NoError(t, db.Delete(&models.User{}, "id = ?", c.ID).Error)
	followers, err = svc.Followers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, a.Nickname, followers[0].Nickname)
}
