// Package main serves the signal pipeline over HTTP. Callers post a price
// series plus a run configuration and get the merged strategy table and
// ledger back as JSON.
package main

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/signalcraft-lab/signalcraft/internal/logger"
	"github.com/signalcraft-lab/signalcraft/internal/pipeline"
	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/internal/version"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// SignalRequest is the POST body for a pipeline run.
type SignalRequest struct {
	Config pipeline.Config   `json:"config"`
	Prices types.PriceSeries `json:"prices"`
	Prior  types.LedgerTable `json:"prior,omitempty"`
}

// SignalResponse carries the pipeline output tables.
type SignalResponse struct {
	Comparison types.ComparisonResult `json:"comparison"`
	Ledger     types.LedgerTable      `json:"ledger"`
}

// HealthResponse is the healthz payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// SignalServer hosts the pipeline behind an HTTP API.
type SignalServer struct {
	log        *logger.Logger
	pipe       *pipeline.Pipeline
	httpServer *http.Server
	listener   net.Listener
}

// NewSignalServer creates a server with its own pipeline instance.
func NewSignalServer(log *logger.Logger) *SignalServer {
	return &SignalServer{
		log:  log,
		pipe: pipeline.New(log),
	}
}

// Router builds the HTTP route table.
func (s *SignalServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/signals", s.handleSignals).Methods("POST")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	return router
}

// Start starts the server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *SignalServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "failed to create listener", err)
	}

	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.log.Error("HTTP server error", zap.Error(err))
		}
	}()

	s.log.Info("signal server listening", zap.String("address", s.Address()))

	return nil
}

// Address returns the bound listen address.
func (s *SignalServer) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Stop shuts the server down.
func (s *SignalServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Close()
}

func (s *SignalServer) handleSignals(w http.ResponseWriter, r *http.Request) {
	var req SignalRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.pipe.Run(req.Config, pipeline.Input{
		Prices:   req.Prices,
		Prior:    req.Prior,
		Tracking: req.Prices,
	})
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, SignalResponse{
		Comparison: result.Comparison,
		Ledger:     result.Ledger,
	})
}

func (s *SignalServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.GetVersion(),
	})
}

// statusForError maps pipeline failures to HTTP status codes. Bad input is
// the caller's fault; everything else is ours.
func statusForError(err error) int {
	switch {
	case errors.IsInvalidParameter(err):
		return http.StatusBadRequest
	case errors.IsInsufficientDataError(err):
		return http.StatusUnprocessableEntity
	case errors.IsAlignmentError(err):
		return http.StatusUnprocessableEntity
	case errors.HasCode(err, errors.ErrCodeUnorderedSeries),
		errors.HasCode(err, errors.ErrCodeEmptySeries):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *SignalServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *SignalServer) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Warn("request failed", zap.Int("status", status), zap.Error(err))

	s.writeJSON(w, status, ErrorResponse{
		Error: err.Error(),
		Code:  int(errors.GetCode(err)),
	})
}
