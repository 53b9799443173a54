// Package server exposes the engine over JSON-RPC 2.0. Calls arrive as HTTP
// POSTs on /jsonrpc or over a WebSocket on /jsonrpc/ws; WebSocket clients
// also receive push notifications.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/gorilla/mux"
	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/api"
	"github.com/habitflash/habitflash/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the control plane.
type Server struct {
	log      logger.Logger
	api      *api.Api
	secret   string
	methods  handler.Map
	bridge   jhttp.Bridge
	notifier *RPCNotifier

	mu   sync.Mutex
	srv  *http.Server
	stop context.CancelFunc
}

// New creates a Server and subscribes it to the engine's pushes. It must be
// called before the event loop starts. An empty secret rejects every RPC
// request.
func New(l logger.Logger, a *api.Api, secret string) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	s := &Server{
		log:      l,
		api:      a,
		secret:   secret,
		notifier: NewRPCNotifier(l),
	}
	s.methods = s.methodMap()
	s.bridge = jhttp.NewBridge(s.methods, nil)
	a.Events(s.notifier.Publish)
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(common.RouteHealth, s.health).Methods(http.MethodGet)
	r.Handle(common.RouteMetrics, promhttp.Handler()).Methods(http.MethodGet)
	r.Handle(common.RouteRPC, s.requireToken(s.bridge)).Methods(http.MethodPost)
	r.Handle(common.RouteRPCWS, s.requireToken(http.HandlerFunc(s.handleWS)))
	return r
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.stop = cancel
	srv := s.srv
	s.mu.Unlock()

	go s.notifier.Run(ctx)
	s.log.Info("server: listening on %s", ln.Addr())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, drops WebSocket clients and waits for
// in-flight HTTP calls until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	s.stop()
	s.notifier.Close()
	err := s.srv.Shutdown(ctx)
	s.bridge.Close()
	s.srv = nil
	return err
}

type healthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Clients int    `json:"clients"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResult{
		Status:  "ok",
		Version: s.api.Version().Version,
		Clients: s.notifier.Count(),
	})
}
