// Package web exposes the storefront over HTTP/JSON: the filtered product
// listing, the per-session cart and favorites, and the debounced search
// state the mobile header drives.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/carlosxfelipe/my-food/internal/cart"
	"github.com/carlosxfelipe/my-food/internal/catalog"
	"github.com/carlosxfelipe/my-food/internal/favorites"
	"github.com/carlosxfelipe/my-food/internal/search"
)

// FavoritesStorageFunc builds the persistence collaborator for one session.
// A nil func (or a nil return) leaves that session's favorites in memory
// only.
type FavoritesStorageFunc func(sessionID string) favorites.Storage

// Server wires the catalog, cart store, favorites, and search sessions into
// HTTP handlers. All dependencies are passed in explicitly; there is no
// ambient lookup to misconfigure.
type Server struct {
	catalog    *catalog.Catalog
	carts      cart.Store
	favStorage FavoritesStorageFunc
	window     time.Duration
	log        *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	search *search.Session
	favs   *favorites.Set
}

// NewServer builds the HTTP layer. window is the search debounce window
// (search.DefaultWindow when zero).
func NewServer(c *catalog.Catalog, carts cart.Store, favStorage FavoritesStorageFunc, window time.Duration, log *logrus.Logger) *Server {
	return &Server{
		catalog:    c,
		carts:      carts,
		favStorage: favStorage,
		window:     window,
		log:        log,
		sessions:   make(map[string]*sessionState),
	}
}

// Handler returns the routed handler with session and logging middleware
// applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)

	r.HandleFunc("/products", s.listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", s.productHandler).Methods(http.MethodGet)

	r.HandleFunc("/search/keystroke", s.searchKeystrokeHandler).Methods(http.MethodPost)
	r.HandleFunc("/search/submit", s.searchSubmitHandler).Methods(http.MethodPost)
	r.HandleFunc("/search/tag", s.pickTagHandler).Methods(http.MethodPost)
	r.HandleFunc("/search/tag", s.clearTagHandler).Methods(http.MethodDelete)

	r.HandleFunc("/cart", s.viewCartHandler).Methods(http.MethodGet)
	r.HandleFunc("/cart", s.addToCartHandler).Methods(http.MethodPost)
	r.HandleFunc("/cart/increase", s.increaseCartHandler).Methods(http.MethodPost)
	r.HandleFunc("/cart/decrease", s.decreaseCartHandler).Methods(http.MethodPost)
	r.HandleFunc("/cart/empty", s.emptyCartHandler).Methods(http.MethodPost)
	r.HandleFunc("/checkout", s.checkoutHandler).Methods(http.MethodPost)

	r.HandleFunc("/favorites", s.listFavoritesHandler).Methods(http.MethodGet)
	r.HandleFunc("/favorites", s.addFavoriteHandler).Methods(http.MethodPost)
	r.HandleFunc("/favorites/{id}", s.removeFavoriteHandler).Methods(http.MethodDelete)
	r.HandleFunc("/favorites/toggle", s.toggleFavoriteHandler).Methods(http.MethodPost)
	r.HandleFunc("/favorites/clear", s.clearFavoritesHandler).Methods(http.MethodPost)

	var handler http.Handler = r
	handler = &logHandler{log: s.log, next: handler}
	handler = ensureSessionID(handler)
	return handler
}

// Close tears down all session state: pending debounce timers and favorites
// writers.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.sessions {
		st.search.Close()
		st.favs.Close()
	}
	s.sessions = make(map[string]*sessionState)
}

// session returns the state for sessionID, creating it on first use. The
// favorites load kicks off in the background on creation.
func (s *Server) session(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		return st
	}
	var storage favorites.Storage
	if s.favStorage != nil {
		storage = s.favStorage(sessionID)
	}
	st := &sessionState{
		search: search.NewSession(s.window),
		favs:   favorites.New(context.Background(), storage, s.log),
	}
	s.sessions[sessionID] = st
	return st
}
