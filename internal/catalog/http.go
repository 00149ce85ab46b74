package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"BriteShop/pkg/kit"
)

const (
	submitLimit  = 10
	submitWindow = time.Minute
)

// Server exposes the remote catalog through the local API so a UI shell has
// a single origin to talk to.
type Server struct {
	Client *Client
	Log    *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	limiter := kit.NewIPRateLimiter(submitLimit, submitWindow)

	r.Get("/products", s.search)
	r.With(limiter.Middleware).Post("/products", s.submit)
	r.Get("/products/{id}", s.get)
	r.Get("/products/{id}/prices", s.prices)
	r.Get("/categories", s.categories)
	r.Get("/stores", s.stores)

	return r
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad limit", map[string]any{"limit": raw})
			return
		}
		limit = n
	}

	products, err := s.Client.Search(r.Context(), q.Get("q"), Filters{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		StoreID:  q.Get("store_id"),
		Limit:    limit,
	})
	if err != nil {
		s.writeUpstreamError(w, r, "search products", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.Client.GetProduct(r.Context(), id)
	if err != nil {
		s.writeUpstreamError(w, r, "get product", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) prices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	prices, err := s.Client.ProductPrices(r.Context(), id)
	if err != nil {
		s.writeUpstreamError(w, r, "get product prices", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, prices)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	out, err := s.Client.Categories(r.Context())
	if err != nil {
		s.writeUpstreamError(w, r, "list categories", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) stores(w http.ResponseWriter, r *http.Request) {
	out, err := s.Client.Stores(r.Context())
	if err != nil {
		s.writeUpstreamError(w, r, "list stores", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var sub ProductSubmission
	if err := kit.DecodeJSON(w, r, &sub); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	payload, err := sub.Payload()
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			kit.WriteError(w, r, http.StatusBadRequest, ve.Message, map[string]any{"field": ve.Field})
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	resp, err := s.Client.AddProduct(r.Context(), payload)
	if err != nil {
		s.writeUpstreamError(w, r, "add product", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, resp)
}

func (s *Server) writeUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		kit.WriteError(w, r, http.StatusNotFound, apiErr.Message, nil)
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		kit.WriteError(w, r, apiErr.Status, apiErr.Message, nil)
	case errors.As(err, &apiErr):
		s.logWarn(op, err)
		kit.WriteError(w, r, http.StatusBadGateway, apiErr.Message, nil)
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		s.logWarn(op, err)
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	default:
		s.logWarn(op, err)
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	}
}

func (s *Server) logWarn(op string, err error) {
	if s.Log != nil {
		s.Log.Warn("catalog upstream failed", zap.String("op", op), zap.Error(err))
	}
}
