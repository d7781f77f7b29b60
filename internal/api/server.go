package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/edvin/customerapi/internal/api/docs"
	"github.com/edvin/customerapi/internal/api/handler"
	mw "github.com/edvin/customerapi/internal/api/middleware"
	"github.com/edvin/customerapi/internal/api/response"
)

// Provider is the database dependency of the server.
type Provider interface {
	handler.ConnProvider
	Ping(ctx context.Context) error
}

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	provider Provider
}

func NewServer(logger zerolog.Logger, provider Provider) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		provider: provider,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(mw.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Hello, customers!"))
	})

	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// API documentation
	s.router.Get("/docs/openapi.json", s.handleOpenAPI)
	s.router.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(scalarHTML))
	})

	customer := handler.NewCustomer(s.provider)
	s.router.Route("/customers", func(r chi.Router) {
		r.Get("/", customer.List)
		r.Post("/", customer.Create)
		r.Put("/{id:[0-9]+}", customer.Update)
		r.Delete("/{id:[0-9]+}", customer.Delete)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	status := http.StatusOK

	if err := s.provider.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["db"] = "ok"
	}

	response.WriteJSON(w, status, checks)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

const scalarHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Customer API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/docs/openapi.json"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
