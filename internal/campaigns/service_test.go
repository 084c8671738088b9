package campaigns

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
)

func setupCampaignsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:campaigns_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	campaigns := `
CREATE TABLE IF NOT EXISTS campaigns (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  product_link TEXT NOT NULL,
  goal INTEGER NOT NULL,
  money INTEGER NOT NULL DEFAULT 0,
  complete INTEGER NOT NULL DEFAULT 0,
  deadline DATETIME NOT NULL,
  represent_image TEXT,
  short_comment TEXT,
  long_comment TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	images := `
CREATE TABLE IF NOT EXISTS campaign_images (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  url TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(campaigns).Error)
	require.NoError(t, db.Exec(images).Error)
	return db
}

type fakeFollowings struct {
	followees map[uuid.UUID][]uuid.UUID
}

func (f *fakeFollowings) FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	return f.followees[followerID], nil
}

func newCampaignsService(t *testing.T, db *gorm.DB, followings followingsSource) Service {
	t.Helper()

	if followings == nil {
		followings = &fakeFollowings{}
	}
	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(db),
		Followings: followings,
		Funding:    config.FundingConfig{MinPledgeAmount: 100, Timezone: "Asia/Seoul", HistoryPageSize: 10},
	})
	require.NoError(t, err)
	return svc
}

func tomorrowInSeoul(t *testing.T) string {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return time.Now().In(loc).AddDate(0, 0, 1).Format(deadlineLayout)
}

func TestCreateCampaign(t *testing.T) {
	db := setupCampaignsTestDB(t)
	svc := newCampaignsService(t, db, nil)
	ownerID := uuid.New()

	dto, err := svc.Create(context.Background(), ownerID, CreateCampaignInput{
		Name:        "새 키보드",
		ProductLink: "https://shop.example.com/keyboard",
		Goal:        150000,
		Deadline:    tomorrowInSeoul(t),
		Images:      []string{"https://cdn.example.com/1.png", "https://cdn.example.com/2.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, ownerID, dto.OwnerID)
	assert.Zero(t, dto.Money)
	assert.False(t, dto.Complete)
	assert.Len(t, dto.Images, 2)

	var imageCount int64
	require.NoError(t, db.Model(&models.CampaignImage{}).Where("campaign_id = ?", dto.ID).Count(&imageCount).Error)
	assert.Equal(t, int64(2), imageCount)
}

func TestCreateCampaign_DeadlineMustBeAfterToday(t *testing.T) {
	db := setupCampaignsTestDB(t)
	svc := newCampaignsService(t, db, nil)

	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	today := time.Now().In(loc).Format(deadlineLayout)

	_, err = svc.Create(context.Background(), uuid.New(), CreateCampaignInput{
		Name:        "늦은 캠페인",
		ProductLink: "https://shop.example.com/item",
		Goal:        1000,
		Deadline:    today,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestGetCampaign_NotFound(t *testing.T) {
	db := setupCampaignsTestDB(t)
	svc := newCampaignsService(t, db, nil)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateCampaign_OwnershipAndFundedGuards(t *testing.T) {
	db := setupCampaignsTestDB(t)
	svc := newCampaignsService(t, db, nil)
	ownerID := uuid.New()

	dto, err := svc.Create(context.Background(), ownerID, CreateCampaignInput{
		Name:        "텀블러",
		ProductLink: "https://shop.example.com/tumbler",
		Goal:        30000,
		Deadline:    tomorrowInSeoul(t),
	})
	require.NoError(t, err)

	name := "바뀐 이름"
	_, err = svc.Update(context.Background(), uuid.New(), dto.ID, UpdateCampaignInput{Name: &name})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	updated, err := svc.Update(context.Background(), ownerID, dto.ID, UpdateCampaignInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "바뀐 이름", updated.Name)

	// once money has come in, goal and deadline are frozen
	require.NoError(t, db.Model(&models.Campaign{}).Where("id = ?", dto.ID).UpdateColumn("money", 500).Error)
	goal := 99999
	_, err = svc.Update(context.Background(), ownerID, dto.ID, UpdateCampaignInput{Goal: &goal})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestFeed_PagesFolloweeCampaigns(t *testing.T) {
	db := setupCampaignsTestDB(t)
	viewerID := uuid.New()
	followeeA := uuid.New()
	followeeB := uuid.New()
	stranger := uuid.New()

	followings := &fakeFollowings{followees: map[uuid.UUID][]uuid.UUID{
		viewerID: {followeeA, followeeB},
	}}
	svc := newCampaignsService(t, db, followings)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seed := func(ownerID uuid.UUID, created time.Time) {
		campaign := &models.Campaign{
			ID:          uuid.New(),
			OwnerID:     ownerID,
			Name:        "item",
			ProductLink: "https://shop.example.com/item",
			Goal:        1000,
			Deadline:    base.AddDate(0, 1, 0),
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		require.NoError(t, db.Create(campaign).Error)
	}
	seed(followeeA, base)
	seed(followeeA, base.Add(time.Minute))
	seed(followeeB, base.Add(2*time.Minute))
	seed(stranger, base.Add(3*time.Minute))

	page, err := svc.Feed(context.Background(), viewerID, 2, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.Equal(t, followeeB, page.Items[0].OwnerID)

	rest, err := svc.Feed(context.Background(), viewerID, 2, page.NextCursor)
	require.NoError(t, err)
	assert.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)

	// no followings means an empty feed, not an error
	empty, err := svc.Feed(context.Background(), uuid.New(), 2, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestDeleteCampaign(t *testing.T) {
	db := setupCampaignsTestDB(t)
	svc := newCampaignsService(t, db, nil)
	ownerID := uuid.New()

	dto, err := svc.Create(context.Background(), ownerID, CreateCampaignInput{
		Name:        "지울 캠페인",
		ProductLink: "https://shop.example.com/item",
		Goal:        1000,
		Deadline:    tomorrowInSeoul(t),
	})
	require.NoError(t, err)

	require.Error(t, svc.Delete(context.Background(), uuid.New(), dto.ID))
	require.NoError(t, svc.Delete(context.Background(), ownerID, dto.ID))

	_, err = svc.Get(context.Background(), dto.ID)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Campaign{}).Where("id = ?", dto.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
