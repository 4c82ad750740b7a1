// pkg/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/config"
	"github.com/Femvrich001/customer-churn-project/pkg/connector"
	"github.com/Femvrich001/customer-churn-project/pkg/report"
)

// Server exposes the churn dashboard API: filterable KPIs and
// breakdowns, filter options, a raw-data table and a CSV export. All
// report surfaces read from the shared snapshot provider.
type Server struct {
	cfg       *config.Config
	conn      *connector.PostgresConnector
	snapshots *report.SnapshotProvider
	logger    *zap.Logger
	router    *mux.Router
	http      *http.Server
}

// NewServer creates the dashboard server and registers its routes.
func NewServer(cfg *config.Config, conn *connector.PostgresConnector, snapshots *report.SnapshotProvider) *Server {
	s := &Server{
		cfg:       cfg,
		conn:      conn,
		snapshots: snapshots,
		logger:    zap.L().Named("server"),
		router:    mux.NewRouter(),
	}
	s.routes()

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      c.Handler(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/filters", s.handleFilterOptions).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/customers", s.handleCustomers).Methods(http.MethodGet)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/snapshot/refresh", s.handleRefresh).Methods(http.MethodPost)
}

// Handler returns the fully wrapped HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe starts serving and blocks until shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting dashboard server", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down dashboard server")
	return s.http.Shutdown(ctx)
}
