package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/codegate/gate-server-go/internal/handler"
	"github.com/codegate/gate-server-go/internal/jobs"
	"github.com/codegate/gate-server-go/internal/middleware"
	"github.com/codegate/gate-server-go/internal/repository"
	"github.com/codegate/gate-server-go/internal/service"
)

// Deps carries everything the HTTP surface needs. Store, Scheduler and Site
// are shared with the caller so tests can observe them. A zero
// RequestTimeout leaves request contexts without a deadline.
type Deps struct {
	Store          repository.AccessCodeRepository
	Scheduler      *jobs.ExpiryScheduler
	Site           *handler.ProtectedSite
	Reputation     *service.ReputationGuard
	FallbackURL    string
	CodeExpiry     time.Duration
	TrustProxy     bool
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	gate := service.NewGate(d.Store)
	issuer := service.NewCodeIssuer(d.Store)

	corsMiddleware := middleware.NewCORSMiddleware()
	gateMiddleware := middleware.NewGateMiddleware(gate, d.FallbackURL)
	reputationMiddleware := middleware.NewReputationMiddleware(d.Reputation, d.FallbackURL)

	accessHandler := handler.NewAccessHandler(issuer, d.FallbackURL)
	siteHandler := handler.NewSiteHandler(d.Site, d.Scheduler, d.CodeExpiry, d.FallbackURL)
	fallback := handler.Fallback(d.FallbackURL)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if d.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(d.RequestTimeout))
	}
	r.Use(corsMiddleware.Handler)

	r.NotFound(fallback)
	r.MethodNotAllowed(fallback)

	r.Get("/health", handler.Health(d.Store))

	r.With(reputationMiddleware.Handler).Get("/generateLink", accessHandler.GenerateLink)

	r.Route("/{code}/{domain}", func(r chi.Router) {
		r.Use(gateMiddleware.Handler)
		r.Use(middleware.NoStore)
		r.NotFound(fallback)
		r.MethodNotAllowed(fallback)
		r.Mount("/", siteHandler.Routes())
	})

	return r
}
