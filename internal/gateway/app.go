// Package gateway assembles the local shopper API: list, catalog and profile
// routes plus health, readiness and metrics.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"BriteShop/internal/catalog"
	"BriteShop/internal/kv"
	"BriteShop/internal/profile"
	"BriteShop/internal/shoppinglist"
	"BriteShop/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Lists   *shoppinglist.Store
	Catalog *catalog.Client
	Storage kv.Store
	Profile *profile.Identity
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	},
}

type profileResp struct {
	ProfileID string `json:"profileId"`
	Durable   bool   `json:"durable"`
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	if deps.Lists == nil || deps.Catalog == nil || deps.Storage == nil || deps.Profile == nil {
		return nil, fmt.Errorf("gateway: incomplete deps")
	}
	if httpDeps.Log == nil {
		httpDeps.Log = zap.NewNop()
	}

	lists := &shoppinglist.Server{Store: deps.Lists, Catalog: deps.Catalog, Log: httpDeps.Log}
	products := &catalog.Server{Client: deps.Catalog, Log: httpDeps.Log}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))
	r.Get("/profile", profileHandler(deps.Profile))

	r.Mount("/list", lists.Routes())
	r.Mount("/", products.Routes())

	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func profileHandler(p *profile.Identity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := p.ProfileID(r.Context())
		kit.WriteJSON(w, http.StatusOK, profileResp{ProfileID: id, Durable: p.Durable()})
	}
}

// readyz reports 200 only when storage answers a ping and the catalog is
// reachable. Both probes run concurrently and one failing does not cancel
// the other.
func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		var storageErr, catalogErr error
		var g errgroup.Group
		g.Go(func() error {
			storageErr = deps.Storage.Ping(ctx)
			return storageErr
		})
		g.Go(func() error {
			catalogErr = checkReachable(ctx, deps.Catalog.BaseURL+"/categories")
			return catalogErr
		})
		_ = g.Wait()

		if storageErr != nil {
			log.Warn("readyz failed: storage", zap.Error(storageErr))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "storage not ready", nil)
			return
		}
		if catalogErr != nil {
			log.Warn("readyz failed: catalog", zap.Error(catalogErr))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// checkReachable treats any response below 500 as a live upstream.
func checkReachable(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
