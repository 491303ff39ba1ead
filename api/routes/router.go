package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcortinas/fablink-backend/api/controllers"
	"github.com/dcortinas/fablink-backend/api/middleware"
	"github.com/dcortinas/fablink-backend/internal/changerequests"
	"github.com/dcortinas/fablink-backend/internal/coverage"
	"github.com/dcortinas/fablink-backend/internal/kickoff"
	"github.com/dcortinas/fablink-backend/internal/messages"
	"github.com/dcortinas/fablink-backend/internal/offers"
	"github.com/dcortinas/fablink-backend/internal/providers"
	"github.com/dcortinas/fablink-backend/internal/quotes"
	"github.com/dcortinas/fablink-backend/internal/savedsearches"
	"github.com/dcortinas/fablink-backend/pkg/config"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/redis"
)

// Services bundles the wired domain services the router exposes.
type Services struct {
	Quotes         quotes.Service
	Offers         offers.Service
	Kickoff        kickoff.Service
	Coverage       coverage.Service
	SavedSearches  savedsearches.Service
	Messages       messages.Service
	Providers      providers.Service
	ChangeRequests changerequests.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	codePolicy := middleware.NewCodeRateLimitPolicy(cfg.CodeRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/coverage/estimate", controllers.CoverageEstimate(svcs.Coverage, logg))
		r.With(middleware.CodeRateLimit(codePolicy, redisClient, logg)).
			Post("/login-codes", controllers.LoginCodeRequest(logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/v1/quotes", func(r chi.Router) {
			r.Get("/", controllers.QuoteList(svcs.Quotes, logg))
			r.Post("/", controllers.QuoteCreate(svcs.Quotes, logg))
			r.Route("/{quoteId}", func(r chi.Router) {
				r.Get("/", controllers.QuoteDetail(svcs.Quotes, logg))
				r.Post("/archive", controllers.QuoteArchive(svcs.Quotes, logg))
				r.Post("/reopen", controllers.QuoteReopen(svcs.Quotes, logg))
				r.Get("/offers", controllers.OffersCompare(svcs.Offers, logg))
				r.Get("/kickoff", controllers.KickoffChecklist(svcs.Kickoff, logg))
				r.Post("/kickoff/{taskKey}", controllers.KickoffTaskUpdate(svcs.Kickoff, logg))
				r.Get("/messages", controllers.MessageList(svcs.Messages, logg))
				r.Post("/messages", controllers.MessagePost(svcs.Messages, logg))
				r.Post("/change-requests", controllers.ChangeRequestSubmit(svcs.ChangeRequests, logg))
			})
		})

		r.Route("/v1/saved-searches", func(r chi.Router) {
			r.Get("/", controllers.SavedSearchList(svcs.SavedSearches, logg))
			r.Post("/", controllers.SavedSearchCreate(svcs.SavedSearches, logg))
			r.Patch("/{searchId}", controllers.SavedSearchRename(svcs.SavedSearches, logg))
			r.Delete("/{searchId}", controllers.SavedSearchDelete(svcs.SavedSearches, logg))
			r.Post("/{searchId}/viewed", controllers.SavedSearchMarkViewed(svcs.SavedSearches, logg))
		})

		r.Get("/v1/providers", controllers.ProviderDirectory(svcs.Providers, logg))

		r.Route("/v1/supplier", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.ActorRoleSupplier), logg))
			r.Get("/quotes", controllers.SupplierQuoteList(svcs.Quotes, logg))
			r.Post("/quotes/{quoteId}/offers", controllers.SupplierOfferSubmit(svcs.Offers, logg))
			r.Patch("/offers/{offerId}", controllers.SupplierOfferUpdate(svcs.Offers, logg))
			r.Get("/quotes/{quoteId}/kickoff", controllers.SupplierKickoffChecklist(svcs.Kickoff, logg))
			r.Post("/quotes/{quoteId}/kickoff/{taskKey}", controllers.KickoffTaskUpdate(svcs.Kickoff, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.ActorRoleAdmin), logg))

		r.Route("/v1/quotes", func(r chi.Router) {
			r.Get("/", controllers.AdminQuotePipeline(svcs.Quotes, logg))
			r.Post("/{quoteId}/award", controllers.AdminQuoteAward(svcs.Quotes, logg))
			r.Post("/{quoteId}/kickoff-complete", controllers.AdminKickoffComplete(svcs.Quotes, logg))
			r.Post("/{quoteId}/kickoff/seed", controllers.AdminKickoffSeed(svcs.Kickoff, logg))
		})
		r.Route("/v1/providers", func(r chi.Router) {
			r.Get("/", controllers.ProviderDirectory(svcs.Providers, logg))
			r.Patch("/{providerId}", controllers.AdminProviderPatch(svcs.Providers, logg))
		})
		r.Post("/v1/coverage/estimate", controllers.AdminCoverageEstimate(svcs.Coverage, logg))
	})

	return r
}
