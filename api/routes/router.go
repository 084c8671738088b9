package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sooyeonjun/giftpool-backend/api/controllers"
	"github.com/sooyeonjun/giftpool-backend/api/middleware"
	"github.com/sooyeonjun/giftpool-backend/internal/auth"
	"github.com/sooyeonjun/giftpool-backend/internal/campaigns"
	"github.com/sooyeonjun/giftpool-backend/internal/follows"
	"github.com/sooyeonjun/giftpool-backend/internal/funding"
	"github.com/sooyeonjun/giftpool-backend/internal/notifications"
	"github.com/sooyeonjun/giftpool-backend/internal/users"
	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/db"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
)

// RouterParams collects everything NewRouter wires into the HTTP surface.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Registry      *prometheus.Registry
	Auth          auth.Service
	Users         users.Service
	Campaigns     campaigns.Service
	Funding       funding.Service
	Follows       follows.Service
	Notifications notifications.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DB, logg))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", controllers.Signup(params.Auth, logg))
		r.Post("/signin", controllers.Signin(params.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.MyProfile(params.Users, logg))
			r.Patch("/me", controllers.UpdateMyProfile(params.Users, logg))
			r.Delete("/me", controllers.DeleteMyAccount(params.Users, logg))
			r.Post("/me/alarm", controllers.SetAlarm(params.Users, logg))
			r.Post("/me/device-token", controllers.RegisterDeviceToken(params.Users, logg))
			r.Get("/search", controllers.SearchUsers(params.Users, logg))
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", controllers.CreateCampaign(params.Campaigns, logg))
			r.Get("/", controllers.CampaignFeed(params.Campaigns, logg))
			r.Route("/{campaignID}", func(r chi.Router) {
				r.Get("/", controllers.GetCampaign(params.Campaigns, logg))
				r.Patch("/", controllers.UpdateCampaign(params.Campaigns, logg))
				r.Delete("/", controllers.DeleteCampaign(params.Campaigns, logg))
				r.Post("/funding", controllers.PledgeCampaign(params.Funding, logg))
				r.Delete("/funding/{pledgeID}", controllers.RetractPledge(params.Funding, logg))
			})
		})

		r.Get("/funding/history", controllers.FundingHistory(params.Funding, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(params.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(params.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(params.Notifications, logg))
		})

		r.Route("/follows", func(r chi.Router) {
			r.Get("/followers", controllers.MyFollowers(params.Follows, logg))
			r.Get("/followings", controllers.MyFollowings(params.Follows, logg))
			r.Post("/{userID}", controllers.FollowUser(params.Follows, logg))
			r.Delete("/{userID}", controllers.UnfollowUser(params.Follows, logg))
		})
	})

	return r
}
