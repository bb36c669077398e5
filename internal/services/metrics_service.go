package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// MetricsService serves Prometheus metrics and a health check over HTTP.
type MetricsService struct {
	addr     string
	gatherer prometheus.Gatherer
	logger   zerolog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// NewMetricsService creates a MetricsService listening on addr.
func NewMetricsService(addr string, gatherer prometheus.Gatherer, logger zerolog.Logger) *MetricsService {
	return &MetricsService{addr: addr, gatherer: gatherer, logger: logger}
}

// Start binds the listen address and serves in the background.
func (m *MetricsService) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		return errors.New("metrics service is already running")
	}

	listener, err := net.Listen("tcp", m.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", m.addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			m.logger.Error().Err(err).Msg("Failed to write health reply")
		}
	})

	m.listener = listener
	m.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	m.wg.Add(1)
	go func(server *http.Server) {
		defer m.wg.Done()
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Msg("Metrics server failed")
		}
	}(m.server)

	m.logger.Info().Str("addr", listener.Addr().String()).Msg("MetricsService started")
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (m *MetricsService) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listener != nil {
		return m.listener.Addr().String()
	}
	return m.addr
}

// Stop shuts the server down and waits for the serve goroutine.
func (m *MetricsService) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return errors.New("metrics service is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := m.server.Shutdown(ctx)
	m.wg.Wait()
	m.server = nil
	m.listener = nil

	if err != nil {
		return fmt.Errorf("failed to shut down metrics server: %w", err)
	}
	m.logger.Info().Msg("MetricsService stopped")
	return nil
}
