package app

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omniorder/omniorder/internal/datastore"
	"github.com/omniorder/omniorder/internal/observability"
	"github.com/omniorder/omniorder/internal/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger     *slog.Logger
	Config     *Config
	Store      *datastore.Store
	APIHandler *web.Handler
	Metrics    *observability.Metrics
}

// NewRouter constructs the chi.Router with OmniOrder defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		if params.Store != nil {
			snap := params.Store.Snapshot()
			body["loading"] = params.Store.Loading()
			body["version"] = snap.Version
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	})

	if params.APIHandler != nil {
		r.Route("/api", params.APIHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
