package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/carlosxfelipe/my-food/internal/cart"
	"github.com/carlosxfelipe/my-food/internal/catalog"
	"github.com/carlosxfelipe/my-food/internal/money"
	"github.com/carlosxfelipe/my-food/internal/search"
)

type productView struct {
	catalog.Product
	PriceText string `json:"priceText"`
	Favorite  bool   `json:"favorite"`
}

type listResponse struct {
	Products []productView `json:"products"`
	Tags     []string      `json:"tags"`
	Query    search.Query  `json:"query"`
}

type cartItemView struct {
	Product   productView `json:"product"`
	Quantity  int32       `json:"quantity"`
	Total     money.Money `json:"total"`
	TotalText string      `json:"totalText"`
}

type cartResponse struct {
	Items        []cartItemView `json:"items"`
	Count        int32          `json:"count"`
	Subtotal     money.Money    `json:"subtotal"`
	SubtotalText string         `json:"subtotalText"`
}

type productRequest struct {
	ProductID string `json:"productId"`
}

type queryRequest struct {
	Q string `json:"q"`
}

type tagRequest struct {
	Tag string `json:"tag"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if !s.carts.Ping(r.Context()) {
		s.writeError(w, r, http.StatusServiceUnavailable, errors.New("cart store not reachable"))
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "SERVING"})
}

func (s *Server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	st := s.session(sessionID(r))
	q := st.search.Snapshot()
	products := catalog.Filter(s.catalog.List(), q.Tag, q.Effective)

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, s.productView(p, st))
	}
	s.writeJSON(w, r, http.StatusOK, listResponse{
		Products: views,
		Tags:     s.catalog.Tags(),
		Query:    q,
	})
}

func (s *Server) productHandler(w http.ResponseWriter, r *http.Request) {
	st := s.session(sessionID(r))
	id := mux.Vars(r)["id"]
	p, ok := s.catalog.Get(id)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, errors.Errorf("product %s not found", id))
		return
	}
	related := s.catalog.Related(id, 4)
	relatedViews := make([]productView, 0, len(related))
	for _, rp := range related {
		relatedViews = append(relatedViews, s.productView(rp, st))
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"product": s.productView(p, st),
		"related": relatedViews,
	})
}

func (s *Server) searchKeystrokeHandler(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}
	st := s.session(sessionID(r))
	st.search.Type(req.Q)
	s.writeJSON(w, r, http.StatusOK, st.search.Snapshot())
}

func (s *Server) searchSubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}
	st := s.session(sessionID(r))
	// the header ignores empty submits rather than clearing the filter
	if req.Q != "" {
		st.search.Submit(req.Q)
	}
	s.writeJSON(w, r, http.StatusOK, st.search.Snapshot())
}

func (s *Server) pickTagHandler(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Tag == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("tag is required"))
		return
	}
	st := s.session(sessionID(r))
	st.search.PickTag(req.Tag)
	s.writeJSON(w, r, http.StatusOK, st.search.Snapshot())
}

func (s *Server) clearTagHandler(w http.ResponseWriter, r *http.Request) {
	st := s.session(sessionID(r))
	st.search.ClearTag()
	s.writeJSON(w, r, http.StatusOK, st.search.Snapshot())
}

func (s *Server) viewCartHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := s.cartView(r)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateCart(w, r, func(id string, max int32) error {
		return s.carts.AddItem(r.Context(), sessionID(r), id, max)
	})
}

func (s *Server) increaseCartHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateCart(w, r, func(id string, max int32) error {
		return s.carts.IncreaseItem(r.Context(), sessionID(r), id, max)
	})
}

func (s *Server) decreaseCartHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateCart(w, r, func(id string, _ int32) error {
		return s.carts.DecreaseItem(r.Context(), sessionID(r), id)
	})
}

// mutateCart decodes the product id, resolves the stock ceiling, applies the
// mutation, and answers with the refreshed cart. Ids outside the catalog are
// accepted with no ceiling.
func (s *Server) mutateCart(w http.ResponseWriter, r *http.Request, fn func(id string, max int32) error) {
	var req productRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("productId is required"))
		return
	}
	max := cart.Unbounded
	if p, ok := s.catalog.Get(req.ProductID); ok {
		max = p.Stock
	}
	if err := fn(req.ProductID, max); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, errors.Wrap(err, "cart mutation failed"))
		return
	}
	resp, err := s.cartView(r)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) emptyCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.carts.EmptyCart(r.Context(), sessionID(r)); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, errors.Wrap(err, "failed to empty cart"))
		return
	}
	s.writeJSON(w, r, http.StatusOK, cartResponse{
		Items:        []cartItemView{},
		Subtotal:     money.BRL(0, 0),
		SubtotalText: money.FormatBRL(money.BRL(0, 0)),
	})
}

func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := s.cartView(r)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if resp.Count == 0 {
		s.writeError(w, r, http.StatusBadRequest, errors.New("cart is empty"))
		return
	}
	if err := s.carts.EmptyCart(r.Context(), sessionID(r)); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, errors.Wrap(err, "failed to empty cart"))
		return
	}
	orderID := uuid.New().String()
	requestLogger(r, s.log).WithField("order", orderID).Info("order placed")
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"orderId":   orderID,
		"total":     resp.Subtotal,
		"totalText": resp.SubtotalText,
	})
}

func (s *Server) listFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	st := s.session(sessionID(r))
	ids := st.favs.IDs()
	views := make([]productView, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.catalog.Get(id); ok {
			views = append(views, s.productView(p, st))
		}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"ids":      ids,
		"count":    st.favs.Count(),
		"products": views,
	})
}

func (s *Server) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateFavorites(w, r, func(st *sessionState, id string) { st.favs.Add(id) })
}

func (s *Server) toggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateFavorites(w, r, func(st *sessionState, id string) { st.favs.Toggle(id) })
}

func (s *Server) removeFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	st := s.session(sessionID(r))
	st.favs.Remove(mux.Vars(r)["id"])
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"ids":   st.favs.IDs(),
		"count": st.favs.Count(),
	})
}

func (s *Server) clearFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	st := s.session(sessionID(r))
	st.favs.Clear()
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"ids":   []string{},
		"count": 0,
	})
}

func (s *Server) mutateFavorites(w http.ResponseWriter, r *http.Request, fn func(*sessionState, string)) {
	var req productRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("productId is required"))
		return
	}
	st := s.session(sessionID(r))
	fn(st, req.ProductID)
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"ids":   st.favs.IDs(),
		"count": st.favs.Count(),
	})
}

// cartView renders the whole cart. The subtotal covers every entry in the
// quantity map, independent of the listing filter; entries whose id is not
// in the catalog carry no price and are skipped, like the mobile screen did.
func (s *Server) cartView(r *http.Request) (cartResponse, error) {
	st := s.session(sessionID(r))
	m, err := s.carts.GetCart(r.Context(), sessionID(r))
	if err != nil {
		return cartResponse{}, errors.Wrap(err, "failed to load cart")
	}

	subtotal := money.BRL(0, 0)
	items := make([]cartItemView, 0, len(m))
	for _, p := range s.catalog.List() {
		qty, ok := m[p.ID]
		if !ok {
			continue
		}
		line := money.Multiply(p.Price, qty)
		if subtotal, err = money.Sum(subtotal, line); err != nil {
			return cartResponse{}, errors.Wrap(err, "failed to total cart")
		}
		items = append(items, cartItemView{
			Product:   s.productView(p, st),
			Quantity:  qty,
			Total:     line,
			TotalText: money.FormatBRL(line),
		})
	}
	return cartResponse{
		Items:        items,
		Count:        m.Count(),
		Subtotal:     subtotal,
		SubtotalText: money.FormatBRL(subtotal),
	}, nil
}

func (s *Server) productView(p catalog.Product, st *sessionState) productView {
	return productView{
		Product:   p,
		PriceText: money.FormatBRL(p.Price),
		Favorite:  st.favs.Has(p.ID),
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLogger(r, s.log).WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		requestLogger(r, s.log).WithError(err).Error("request failed")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
