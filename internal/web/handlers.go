// internal/web/handlers.go
//
// HTTP surface.
//
// Context
// -------
// Two route families share one chi router:
//
//   - Public, anonymous:  GET /s/{slug} renders the published page,
//     POST /s/{slug}/lead captures a form submission, and small track
//     endpoints feed the property counters.
//   - Back office, under /api:  site-configuration load/preview/publish,
//     the property catalog, the lead funnel, visit scheduling, the
//     messaging gateway, and assisted copywriting.
//
// The back office sits behind an authenticating proxy that injects the
// operator id as X-Owner-Id; requireOwner rejects requests without it.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brokerkit/brokerkit/internal/ai"
	"github.com/brokerkit/brokerkit/internal/config"
	"github.com/brokerkit/brokerkit/internal/middleware"
	"github.com/brokerkit/brokerkit/internal/requestinfo"
	"github.com/brokerkit/brokerkit/internal/sitecache"
	"github.com/brokerkit/brokerkit/internal/theme"
	"github.com/brokerkit/brokerkit/internal/webhook"
)

// Server aggregates the dependencies the handlers need.
type Server struct {
	db     *sqlx.DB
	cache  *sitecache.Cache
	themes *theme.Manager
	notify *webhook.Notifier
	ai     *ai.Client
	cfg    *config.Config
}

// NewServer wires the handler set.
func NewServer(db *sqlx.DB, cache *sitecache.Cache, themes *theme.Manager,
	notify *webhook.Notifier, aiClient *ai.Client, cfg *config.Config) *Server {
	return &Server{
		db:     db,
		cache:  cache,
		themes: themes,
		notify: notify,
		ai:     aiClient,
		cfg:    cfg,
	}
}

// Router builds the full route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public site.
	r.Route("/s/{slug}", func(r chi.Router) {
		r.Get("/", s.publicPage)
		r.Post("/lead", s.publicLead)
		r.Get("/p/{code}", s.publicProperty)
		r.Post("/p/{code}/click", s.trackClick)
	})

	// Back office.
	r.Route("/api", func(r chi.Router) {
		r.Use(requireOwner)

		r.Get("/site", s.siteLoad)
		r.Post("/site/publish", s.sitePublish)
		r.Post("/site/preview", s.sitePreview)
		r.Post("/site/logo", s.siteLogo)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.propertyList)
			r.Post("/", s.propertyCreate)
			r.Get("/{code}", s.propertyGet)
			r.Put("/{code}", s.propertyUpdate)
			r.Delete("/{code}", s.propertyDelete)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.leadList)
			r.Post("/{code}/status", s.leadSetStatus)
		})

		r.Route("/visits", func(r chi.Router) {
			r.Get("/", s.visitList)
			r.Post("/", s.visitCreate)
			r.Post("/{code}/status", s.visitSetStatus)
		})

		r.Route("/gateway", func(r chi.Router) {
			r.Get("/", s.gatewayGet)
			r.Put("/", s.gatewayPut)
			r.Post("/test", s.gatewayTest)
			r.Post("/send", s.gatewaySend)
		})

		r.Post("/ai/text", s.aiText)
		r.Post("/ai/image", s.aiImage)
	})

	return r
}

type ownerKey struct{}

func contextWithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// ownerFrom returns the operator id stored by requireOwner.
func ownerFrom(ctx context.Context) string {
	v, _ := ctx.Value(ownerKey{}).(string)
	return v
}

// requireOwner pulls the operator id set by the auth proxy.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get("X-Owner-Id")
		if owner == "" {
			httpError(w, http.StatusUnauthorized, "missing operator identity")
			return
		}
		ctx := contextWithOwner(r.Context(), owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newDetachedContext backs fire-and-forget work that must outlive the
// request that triggered it.
func newDetachedContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

// writeJSON encodes v with the right content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// httpError writes a compact JSON error body.
func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
