package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/MeKo-Tech/qrnode/internal/barcode"
	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultMaxUploadMB = 20
	defaultTimeoutSec  = 30
)

// Server exposes the node registry over HTTP and WebSocket.
type Server struct {
	addr        string
	registry    *node.Registry
	corsOrigin  string
	maxUploadMB int64
	timeout     time.Duration
	router      *mux.Router
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int
	// Decode and Library configure the default read node when Registry is nil.
	// Library is the decoder used when a request does not name one.
	Decode  barcode.Options
	Library string
	// Registry overrides the default node set.
	Registry *node.Registry
}

// NewServer builds a server and its routes.
func NewServer(cfg Config) (*Server, error) {
	if cfg.MaxUploadMB < 0 || cfg.TimeoutSec < 0 {
		return nil, errors.New("server: upload size and timeout must not be negative")
	}
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = defaultMaxUploadMB
	}
	if cfg.TimeoutSec == 0 {
		cfg.TimeoutSec = defaultTimeoutSec
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}

	reg := cfg.Registry
	if reg == nil {
		if _, err := barcode.NewDecoder(cfg.Library); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		reg = node.NewDefaultRegistry(cfg.Decode, cfg.Library)
	}

	s := &Server{
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		registry:    reg,
		corsOrigin:  cfg.CORSOrigin,
		maxUploadMB: cfg.MaxUploadMB,
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
	}
	s.router = s.routes()
	return s, nil
}

// Addr returns the host:port the server is configured to listen on.
func (s *Server) Addr() string { return s.addr }

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.corsMiddleware)

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/nodes", s.nodesHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/nodes/{id}", s.runNodeHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/ws", s.nodeWebSocketHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}
