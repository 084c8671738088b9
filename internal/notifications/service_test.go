package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
)

func TestNotificationsService_ListRejectsBadCursor(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), uuid.New(), 10, "not-base64!!", false)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestNotificationsService_ListReturnsCursorForNextPage(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	userID := uuid.New()

	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedNotification(t, db, userID, base.Add(time.Duration(i)*time.Second))
	}

	page, err := svc.List(context.Background(), userID, 2, "", false)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	next, err := svc.List(context.Background(), userID, 2, page.NextCursor, false)
	require.NoError(t, err)
	assert.Len(t, next.Items, 1)
	assert.Empty(t, next.NextCursor)
}

func TestNotificationsService_MarkReadNotFound(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
