package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hydrationdev/hydration-os/api/controllers"
	"github.com/hydrationdev/hydration-os/api/middleware"
	"github.com/hydrationdev/hydration-os/internal/account"
	"github.com/hydrationdev/hydration-os/internal/catalog"
	"github.com/hydrationdev/hydration-os/internal/content"
	"github.com/hydrationdev/hydration-os/internal/events"
	"github.com/hydrationdev/hydration-os/internal/identity"
	"github.com/hydrationdev/hydration-os/internal/profiles"
	"github.com/hydrationdev/hydration-os/internal/subscriptions"
	"github.com/hydrationdev/hydration-os/pkg/auth"
	"github.com/hydrationdev/hydration-os/pkg/config"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/metrics"
	"github.com/hydrationdev/hydration-os/pkg/redis"
)

// RedisClient is the Redis surface the router needs: readiness pings and
// fixed-window rate limiting.
type RedisClient interface {
	redis.Pinger
	redis.RateLimiter
}

type Params struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Redis         RedisClient
	Verifier      auth.Verifier
	Bridge        *identity.Bridge
	Profiles      *profiles.Service
	Subscriptions *subscriptions.Service
	Catalog       *catalog.Service
	Events        *events.Service
	Content       *content.Service
	Account       *account.Service
	HTTPMetrics   *metrics.HTTPMetrics
	Gatherer      prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	writePolicy := middleware.NewRateLimitPolicy(
		"write",
		cfg.RateLimit.Window,
		cfg.RateLimit.WriteLimit,
		cfg.RateLimit.WriteIPLimit,
	)
	writeLimit := middleware.RateLimit(writePolicy, p.Redis, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
		}))
	})

	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", controllers.ListPlans(p.Catalog, logg))
		r.Get("/events", controllers.ListUpcomingEvents(p.Catalog, logg))
		r.Get("/events/{eventId}", controllers.GetEvent(p.Events, logg))
		r.Get("/content", controllers.ListRecentContent(p.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(p.Verifier, p.Bridge, cfg.Identity.SessionCookie, logg))

			r.Get("/ping", controllers.PrivatePing())

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.MeProfile(logg))
				r.With(writeLimit).Put("/", controllers.MeUpdate(p.Profiles, logg))
				r.Get("/subscription", controllers.MeSubscription(p.Subscriptions, logg))
				r.Get("/account", controllers.MeAccount(p.Account, logg))
				r.Get("/rsvps", controllers.MeRSVPs(p.Events, logg))
			})

			r.With(writeLimit).Post("/events/{eventId}/rsvp", controllers.RespondRSVP(p.Events, logg))
			r.With(writeLimit).Post("/content/{contentId}/engagement", controllers.EngageContent(p.Content, logg))
			r.Delete("/content/{contentId}/engagement/like", controllers.UnlikeContent(p.Content, logg))

			r.With(middleware.RequireStaff(logg)).Get("/members", controllers.ListMembers(p.Profiles, logg))
		})
	})

	return r
}
