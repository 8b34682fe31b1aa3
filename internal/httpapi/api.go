// Package httpapi mounts the HTTP surface: public reads, role-gated writes
// and the audit listing. Authorization itself lives in the domain services;
// this layer authenticates, decodes and maps errors to status codes.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/content"
	"newsdesk.org/internal/donations"
	"newsdesk.org/internal/media"
	"newsdesk.org/internal/obs"
)

// ReadyProbe reports storage readiness for /readyz.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Config wires the API's collaborators.
type Config struct {
	Content   *content.Service
	Activity  *activity.Service
	Donations *donations.Service
	Media     *media.Service
	Resolver  *auth.Resolver
	Users     auth.UserStore
	Audit     *activity.Recorder
	Ready     ReadyProbe
	Version   string

	// RateBurst/RatePerSecond tune the per-IP token bucket. Zero values
	// fall back to the defaults.
	RateBurst     int
	RatePerSecond int
}

// API is the HTTP layer.
type API struct {
	router    *httprouter.Router
	content   *content.Service
	activity  *activity.Service
	donations *donations.Service
	media     *media.Service
	resolver  *auth.Resolver
	users     auth.UserStore
	audit     *activity.Recorder
	ready     ReadyProbe
	version   string

	rateBurst     int
	ratePerSecond int
}

// New builds the router. All application routes live under /v1.
func New(cfg Config) *API {
	a := &API{
		router:        httprouter.New(),
		content:       cfg.Content,
		activity:      cfg.Activity,
		donations:     cfg.Donations,
		media:         cfg.Media,
		resolver:      cfg.Resolver,
		users:         cfg.Users,
		audit:         cfg.Audit,
		ready:         cfg.Ready,
		version:       cfg.Version,
		rateBurst:     cfg.RateBurst,
		ratePerSecond: cfg.RatePerSecond,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 50
	}
	if a.ratePerSecond <= 0 {
		a.ratePerSecond = 25
	}

	r := a.router
	r.HandlerFunc(http.MethodGet, "/healthz", a.healthz)
	r.HandlerFunc(http.MethodGet, "/readyz", a.readyz)
	r.HandlerFunc(http.MethodGet, "/v1/info", a.info)
	r.Handler(http.MethodGet, "/metrics", obs.Handler())

	r.HandlerFunc(http.MethodPost, "/v1/auth/login", a.handleLogin)

	r.HandlerFunc(http.MethodGet, "/v1/articles", a.listArticles)
	r.HandlerFunc(http.MethodPost, "/v1/articles", a.createArticle)
	r.GET("/v1/articles/:slug", a.getArticle)
	r.GET("/v1/articles/:slug/comments", a.listComments)
	r.POST("/v1/articles/:slug/comments", a.createComment)
	r.POST("/v1/articles/:slug/publish", a.publishArticle)
	r.POST("/v1/articles/:slug/archive", a.archiveArticle)
	r.PUT("/v1/articles/:slug", a.updateArticle)
	r.DELETE("/v1/articles/:slug", a.deleteArticle)

	r.HandlerFunc(http.MethodGet, "/v1/activity-logs", a.listActivityLogs)

	r.HandlerFunc(http.MethodGet, "/v1/categories", a.listCategories)
	r.HandlerFunc(http.MethodPost, "/v1/categories", a.createCategory)
	r.PUT("/v1/categories/:id", a.updateCategory)
	r.DELETE("/v1/categories/:id", a.deleteCategory)

	r.HandlerFunc(http.MethodPost, "/v1/donations", a.createDonation)
	r.HandlerFunc(http.MethodGet, "/v1/donations", a.listDonations)

	r.HandlerFunc(http.MethodGet, "/v1/media", a.listMedia)
	r.HandlerFunc(http.MethodPost, "/v1/media", a.createMedia)
	r.DELETE("/v1/media/:id", a.deleteMedia)

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.router
	h = a.withAuth(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSecond)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "newsdesk-api",
		"version": a.version,
	})
}

func (a *API) readyz(w http.ResponseWriter, r *http.Request) {
	if err := a.ready.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "newsdesk-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
