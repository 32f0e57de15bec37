// Package server exposes the REST API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/interfaces"
)

// Server wraps the HTTP server and its service dependencies.
type Server struct {
	config       *common.Config
	logger       *common.Logger
	models       interfaces.ModelService
	rebalance    interfaces.RebalanceService
	brokerage    interfaces.BrokerageClient
	server       *http.Server
	shutdownChan chan struct{}
}

// SetShutdownChannel sets the channel signaled when HTTP shutdown is requested.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

// NewServer creates a new HTTP REST API server.
func NewServer(config *common.Config, logger *common.Logger, modelSvc interfaces.ModelService, rebalanceSvc interfaces.RebalanceService, brokerage interfaces.BrokerageClient) *Server {
	s := &Server{
		config:    config,
		logger:    logger,
		models:    modelSvc,
		rebalance: rebalanceSvc,
		brokerage: brokerage,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, logger, config)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
