package stt_streaming

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxpipe/stt_streaming/metrics"
	"github.com/voxpipe/stt_streaming/providers"
	"github.com/voxpipe/stt_streaming/vad"
)

// Server hosts the streaming transcription endpoint plus the health and
// metrics surfaces. The recognition pipelines are attached after startup via
// SetPipelines; until then sessions are accepted but audio is only buffered.
type Server struct {
	srv      *http.Server
	log      *log.Logger
	cfg      Config
	registry *SessionRegistry
	gate     *ReadyGate
	metrics  *metrics.Metrics

	// Written once before gate fires; the gate's channel close is the
	// happens-before edge for readers.
	detector   vad.Detector
	recognizer providers.Recognizer
}

// New creates a Server for the given configuration.
func New(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	reg := prometheus.NewRegistry()
	mux := http.NewServeMux()

	server := &Server{
		srv: &http.Server{
			Addr:         cfg.Server.Addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			Handler:      mux,
		},
		log:      logger,
		cfg:      cfg,
		registry: NewSessionRegistry(cfg.Server.MaxSessions),
		gate:     NewReadyGate(),
		metrics:  metrics.New(reg),
	}

	mux.HandleFunc(cfg.Server.WSPath, server.handleWebSocket)
	mux.HandleFunc("/health", server.handleHealth)
	mux.HandleFunc("/", server.handleRoot)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return server
}

// SetPipelines attaches the shared activity detector and recognizer and
// fires the readiness gate. Sessions admitted earlier receive their ready
// notification at this point; later ones receive it immediately.
func (s *Server) SetPipelines(detector vad.Detector, recognizer providers.Recognizer) {
	s.detector = detector
	s.recognizer = recognizer
	s.gate.Set()
	s.log.Info("recognition subsystem ready", "provider", recognizer.Name())
}

// Start runs the HTTP listener until Stop is called.
func (s *Server) Start() error {
	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.log.Info("starting server", "addr", s.srv.Addr, "path", s.cfg.Server.WSPath)
		errChan <- s.srv.ListenAndServe()
	}()

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	return nil
}

// Stop shuts the server down, closing every active session first.
func (s *Server) Stop() error {
	s.log.Info("shutting down server")

	s.registry.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.srv.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"message": "STT Streaming API",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	ready := "not_ready"
	if s.gate.Fired() {
		ready = "ready"
	}
	writeJSON(w, map[string]any{
		"status":            "healthy",
		"connected_clients": s.registry.Count(),
		"vad_pipeline":      ready,
		"asr_pipeline":      ready,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
