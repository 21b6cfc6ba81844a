package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ============================================================================
// HTTP Server
// ============================================================================
// One server carries every HTTP surface of the daemon:
//   GET  /ws      - state mirror WebSocket (state_ws.go)
//   GET  /metrics - Prometheus exposition
//   GET  /healthz - liveness probe
//   POST /event   - inject one input event (same envelope as the IPC socket)
// ============================================================================

// runHTTPServer starts the HTTP server on the specified port and shuts it
// down gracefully when ctx is canceled.
func runHTTPServer(ctx context.Context, port int, state *StateServer, events chan<- Event, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", state.handleStateWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/event", func(w http.ResponseWriter, r *http.Request) {
		handleInjectEvent(w, r, events, logger)
	})

	listenAddr := fmt.Sprintf(":%d", port)
	logger.Info("http server listening", "port", port)

	srv := &http.Server{
		Addr:    listenAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)

	go func() {
		// ListenAndServe returns http.ErrServerClosed on Shutdown; treat that as clean exit.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		// Graceful shutdown with a timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		// Wait for the ListenAndServe goroutine to return.
		_ = <-errCh
		return nil

	case err := <-errCh:
		return err
	}
}

const maxEventBody = 4 << 10

// handleInjectEvent accepts one wire envelope per request body and feeds it
// to the daemon, mirroring the IPC socket protocol over HTTP.
func handleInjectEvent(w http.ResponseWriter, r *http.Request, events chan<- Event, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(IPCResponse{Status: "error", Error: "POST only"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(IPCResponse{Status: "error", Error: fmt.Sprintf("read body: %v", err)})
		return
	}

	ev, err := UnmarshalEvent(body)
	if err != nil {
		logger.Debug("http event rejected", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(IPCResponse{Status: "error", Error: fmt.Sprintf("parse event: %v", err)})
		return
	}

	select {
	case events <- ev:
		observeInput("http", envelopeType(ev))
		_ = json.NewEncoder(w).Encode(IPCResponse{Status: "ok"})
	default:
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(IPCResponse{Status: "error", Error: "event queue full"})
	}
}
