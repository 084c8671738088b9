package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "github.com/sooyeonjun/giftpool-backend/internal/auth"
	"github.com/sooyeonjun/giftpool-backend/internal/campaigns"
	"github.com/sooyeonjun/giftpool-backend/internal/follows"
	"github.com/sooyeonjun/giftpool-backend/internal/funding"
	"github.com/sooyeonjun/giftpool-backend/internal/notifications"
	"github.com/sooyeonjun/giftpool-backend/internal/users"
	pkgAuth "github.com/sooyeonjun/giftpool-backend/pkg/auth"
	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Signup(ctx context.Context, input authsvc.SignupInput) (authsvc.SessionDTO, error) {
	return authsvc.SessionDTO{}, nil
}

func (stubAuthService) Signin(ctx context.Context, input authsvc.SigninInput) (authsvc.SessionDTO, error) {
	return authsvc.SessionDTO{}, nil
}

type stubFundingService struct{}

func (stubFundingService) Pledge(ctx context.Context, campaignID, backerID uuid.UUID, input funding.PledgeInput) (funding.PledgeDTO, error) {
	return funding.PledgeDTO{}, nil
}

func (stubFundingService) Retract(ctx context.Context, campaignID, pledgeID, requesterID uuid.UUID) error {
	return nil
}

func (stubFundingService) History(ctx context.Context, backerID uuid.UUID, page int) (funding.HistoryPage, error) {
	return funding.HistoryPage{Items: []funding.HistoryItem{}, PageSize: 10}, nil
}

type stubUsersService struct{}

func (stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (users.ProfileDTO, error) {
	return users.ProfileDTO{ID: userID}, nil
}

func (stubUsersService) SearchByNickname(ctx context.Context, prefix string, limit int) ([]users.ProfileDTO, error) {
	return nil, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input users.UpdateProfileInput) (users.ProfileDTO, error) {
	return users.ProfileDTO{}, nil
}

func (stubUsersService) SetAlarm(ctx context.Context, userID uuid.UUID, enabled bool) error {
	return nil
}

func (stubUsersService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return nil
}

func (stubUsersService) DeleteAccount(ctx context.Context, userID uuid.UUID) error { return nil }

type stubCampaignsService struct{}

func (stubCampaignsService) Create(ctx context.Context, ownerID uuid.UUID, input campaigns.CreateCampaignInput) (campaigns.CampaignDTO, error) {
	return campaigns.CampaignDTO{}, nil
}

func (stubCampaignsService) Get(ctx context.Context, id uuid.UUID) (campaigns.CampaignDTO, error) {
	return campaigns.CampaignDTO{ID: id}, nil
}

func (stubCampaignsService) Feed(ctx context.Context, viewerID uuid.UUID, limit int, cursor string) (campaigns.FeedPage, error) {
	return campaigns.FeedPage{Items: []campaigns.CampaignDTO{}}, nil
}

func (stubCampaignsService) Update(ctx context.Context, ownerID, campaignID uuid.UUID, input campaigns.UpdateCampaignInput) (campaigns.CampaignDTO, error) {
	return campaigns.CampaignDTO{}, nil
}

func (stubCampaignsService) Delete(ctx context.Context, ownerID, campaignID uuid.UUID) error {
	return nil
}

type stubFollowsService struct{}

func (stubFollowsService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return nil
}

func (stubFollowsService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return nil
}

func (stubFollowsService) Followers(ctx context.Context, userID uuid.UUID) ([]follows.UserSummary, error) {
	return nil, nil
}

func (stubFollowsService) Followings(ctx context.Context, userID uuid.UUID) ([]follows.UserSummary, error) {
	return nil, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, userID uuid.UUID, limit int, cursor string, unreadOnly bool) (notifications.ListPage, error) {
	return notifications.ListPage{Items: []notifications.NotificationDTO{}}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "giftpool", ExpirationMinutes: 5},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	return NewRouter(RouterParams{
		Config:        testRouterConfig(),
		Logger:        logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:            stubPinger{},
		Auth:          stubAuthService{},
		Users:         stubUsersService{},
		Campaigns:     stubCampaignsService{},
		Funding:       stubFundingService{},
		Follows:       stubFollowsService{},
		Notifications: stubNotificationsService{},
	})
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/campaigns/"},
		{http.MethodGet, "/api/v1/funding/history"},
		{http.MethodGet, "/api/v1/notifications/"},
	}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p.path)
	}
}

func TestRouter_AcceptsBearerToken(t *testing.T) {
	router := newTestRouter(t)
	cfg := testRouterConfig()

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Nickname: "tester",
		JTI:      uuid.NewString(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/funding/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
