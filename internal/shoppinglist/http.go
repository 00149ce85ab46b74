package shoppinglist

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"BriteShop/internal/catalog"
	"BriteShop/pkg/kit"
)

// ProductSource resolves a product snapshot when a caller adds by id only.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

type Server struct {
	Store   *Store
	Catalog ProductSource
	Log     *zap.Logger
}

type listResp struct {
	Items List    `json:"items"`
	Count int     `json:"count"`
	Units int     `json:"units"`
	Total float64 `json:"total"`
}

type quantityReq struct {
	Quantity *int `json:"quantity"`
}

type containsResp struct {
	ProductID string `json:"productId"`
	InList    bool   `json:"inList"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Delete("/", s.clear)
	r.Post("/items", s.add)
	r.Get("/items/{productId}", s.contains)
	r.Put("/items/{productId}", s.setQuantity)
	r.Delete("/items/{productId}", s.remove)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	writeList(w, http.StatusOK, s.Store.List(r.Context()))
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	writeList(w, http.StatusOK, s.Store.Clear(r.Context()))
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var meta ItemMeta
	if err := kit.DecodeJSON(w, r, &meta); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if meta.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "productId required", nil)
		return
	}

	if meta.Name == "" && !s.Store.Contains(r.Context(), meta.ProductID) {
		resolved, ok := s.resolve(w, r, meta.ProductID)
		if !ok {
			return
		}
		meta = resolved
	}

	writeList(w, http.StatusOK, s.Store.Add(r.Context(), meta))
}

// resolve fetches the catalog snapshot for a bare product id. It writes the
// error response itself and reports false on failure.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request, productID string) (ItemMeta, bool) {
	if s.Catalog == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return ItemMeta{}, false
	}

	p, err := s.Catalog.GetProduct(r.Context(), productID)
	switch {
	case err == nil:
		return MetaFromProduct(p), true
	case errors.Is(err, catalog.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"productId": productID})
	case errors.Is(err, catalog.ErrUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	default:
		if s.Log != nil {
			s.Log.Warn("resolve product failed", zap.Error(err), zap.String("product_id", productID))
		}
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	}
	return ItemMeta{}, false
}

func (s *Server) contains(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	kit.WriteJSON(w, http.StatusOK, containsResp{
		ProductID: id,
		InList:    s.Store.Contains(r.Context(), id),
	})
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Quantity == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity required", nil)
		return
	}

	id := chi.URLParam(r, "productId")
	writeList(w, http.StatusOK, s.Store.SetQuantity(r.Context(), id, *req.Quantity))
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	writeList(w, http.StatusOK, s.Store.Remove(r.Context(), id))
}

func writeList(w http.ResponseWriter, status int, l List) {
	kit.WriteJSON(w, status, listResp{
		Items: l,
		Count: len(l),
		Units: l.Units(),
		Total: Total(l),
	})
}
