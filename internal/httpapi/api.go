package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"reeflog.org/internal/auth"
	"reeflog.org/internal/conditions"
	"reeflog.org/internal/divelog"
	"reeflog.org/internal/mpa"
	"reeflog.org/internal/obs"
)

// ReadyProbe reports whether the API can serve traffic (e.g. DB ping).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	auth       *auth.Service
	dives      divelog.Store
	conditions *conditions.Client
	mpa        *mpa.Dataset

	cookies        CookiePolicy
	allowedOrigins []string
}

// Option configures optional API collaborators.
type Option func(*API)

// WithCookiePolicy sets the session cookie attributes.
func WithCookiePolicy(p CookiePolicy) Option {
	return func(a *API) { a.cookies = p }
}

// WithAllowedOrigins sets the origins allowed to make credentialed requests.
func WithAllowedOrigins(origins []string) Option {
	return func(a *API) { a.allowedOrigins = origins }
}

// WithConditionsClient enables the geocoding and conditions proxy endpoints.
func WithConditionsClient(c *conditions.Client) Option {
	return func(a *API) { a.conditions = c }
}

// WithMPADataset enables the protected-area lookup endpoint.
func WithMPADataset(ds *mpa.Dataset) Option {
	return func(a *API) { a.mpa = ds }
}

func New(rp ReadyProbe, version string, authSvc *auth.Service, dives divelog.Store, opts ...Option) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		auth:       authSvc,
		dives:      dives,
	}
	for _, opt := range opts {
		opt(a)
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// session lifecycle
	a.mux.HandleFunc("/auth/register", a.handleRegister)
	a.mux.HandleFunc("/auth/login", a.handleLogin)
	a.mux.HandleFunc("/auth/refresh", a.handleRefresh)
	a.mux.HandleFunc("/auth/logout", a.handleLogout)
	a.mux.Handle("/auth/me", a.requireUser(http.HandlerFunc(a.handleMe)))

	// dive records (authenticated)
	a.mux.Handle("/dives", a.requireUser(http.HandlerFunc(a.handleDives)))
	a.mux.Handle("/dives/", a.requireUser(http.HandlerFunc(a.handleDiveByID)))

	// external lookups (authenticated)
	a.mux.Handle("/api/geocode", a.requireUser(http.HandlerFunc(a.handleGeocode)))
	a.mux.Handle("/api/conditions", a.requireUser(http.HandlerFunc(a.handleConditions)))
	a.mux.Handle("/api/mpa-alert", a.requireUser(http.HandlerFunc(a.handleMPAAlert)))

	// everything else is a 404
	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, 1<<20)
	h = CORSWithCredentials(h, a.allowedOrigins)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "reeflog-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "reeflog-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
