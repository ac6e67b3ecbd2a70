// Package stubapi serves a local fake of the storefront backend. It exists so
// the CLI and the client packages can run end to end without a deployed
// server: seeded catalog, orders, customers, and budgets behind the same
// routes and payload shapes the real API exposes.
package stubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cetrics/nexdawn-storefront/pkg/config"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/logger"
)

// ServerParams groups dependencies for the stub server.
type ServerParams struct {
	Config config.StubConfig
	Logger *logger.Logger
	// Now overrides the clock for token expiry and seeded timestamps.
	Now func() time.Time
}

// Server is the stub backend. Build one with NewServer and mount Handler.
type Server struct {
	cfg   config.StubConfig
	logg  *logger.Logger
	now   func() time.Time
	store *memStore
}

// NewServer seeds the in-memory dataset and returns the server.
func NewServer(params ServerParams) (*Server, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		cfg:   params.Config,
		logg:  params.Logger,
		now:   now,
		store: newMemStore(now().UTC()),
	}, nil
}

// Handler builds the chi router with all stub routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer, s.requestLogging)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.Post("/contact", s.handleContact)

		r.Get("/products", s.handleListProducts)
		r.Get("/categories", s.handleListCategories)
		r.Get("/colors", s.handleListColors)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/user-info", s.handleUserInfo)
			r.Get("/orders", s.handleUserOrders)
			r.Post("/orders", s.handleCreateOrder)
			r.Get("/budgets", s.handleListBudgets)
			r.Post("/budgets", s.handleCreateBudget)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth, s.requireAdmin)
			r.Post("/products", s.handleCreateProduct)
			r.Put("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)
			r.Post("/categories", s.handleCreateCategory)
			r.Post("/colors", s.handleCreateColor)
			r.Get("/admin/orders", s.handleAdminOrders)
			r.Put("/admin/orders/{orderNumber}/status", s.handleUpdateOrderStatus)
			r.Get("/admin/customers", s.handleAdminCustomers)
			r.Get("/admin/contact-messages", s.handleAdminMessages)
		})
	})

	return r
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logg.Error(ctx, "write response", err)
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	message := meta.PublicMessage
	if m := typed.Message(); m != "" && typed.Code() != pkgerrors.CodeInternal {
		message = m
	}
	s.writeJSON(ctx, w, meta.HTTPStatus, map[string]string{"error": message})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logg.Error(r.Context(), "panic in stub handler", pkgerrors.New(pkgerrors.CodeInternal, "panic"))
				s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		next.ServeHTTP(w, r)
		ctx := s.logg.WithFields(r.Context(), map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		s.logg.Debug(ctx, "stub request")
	})
}
