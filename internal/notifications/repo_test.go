package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	"github.com/sooyeonjun/giftpool-backend/pkg/enums"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:notifications_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, created time.Time) *models.Notification {
	t.Helper()

	row := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      enums.NotificationTypeFundingReceived,
		Title:     "펀딩 도착 알림",
		Message:   "test",
		CreatedAt: created,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestNotificationsList_PagesNewestFirst(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedNotification(t, db, userID, base.Add(time.Duration(i)*time.Minute))
	}
	seedNotification(t, db, uuid.New(), base)

	rows, next, err := repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.NotNil(t, next)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	rest, final, err := repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 3, Cursor: next})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
	assert.Nil(t, final)
}

func TestNotificationsList_UnreadOnly(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	read := seedNotification(t, db, userID, time.Now().UTC().Add(-time.Hour))
	unread := seedNotification(t, db, userID, time.Now().UTC())
	now := time.Now().UTC()
	require.NoError(t, db.Model(&models.Notification{}).Where("id = ?", read.ID).UpdateColumn("read_at", now).Error)

	rows, _, err := repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 10, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, unread.ID, rows[0].ID)
}

func TestNotificationsMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	row := seedNotification(t, db, userID, time.Now().UTC())

	mark, err := repo.MarkRead(ctx, userID, row.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.True(t, mark.Updated)

	// second call finds the row but has nothing left to update
	mark, err = repo.MarkRead(ctx, userID, row.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.False(t, mark.Updated)

	mark, err = repo.MarkRead(ctx, uuid.New(), row.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, mark.Found)
}

func TestNotificationsMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	seedNotification(t, db, userID, time.Now().UTC())
	seedNotification(t, db, userID, time.Now().UTC())
	seedNotification(t, db, uuid.New(), time.Now().UTC())

	updated, err := repo.MarkAllRead(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = repo.MarkAllRead(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, updated)
}
