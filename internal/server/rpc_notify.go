package server

import (
	"context"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/habitflash/habitflash/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pushQueueDepth = 256
	pushTimeout    = 5 * time.Second
)

var pushesDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "habitflash_rpc_pushes_dropped_total",
	Help: "Push notifications dropped because the queue was full.",
})

type push struct {
	method string
	params any
}

// RPCNotifier fans push notifications out to every connected WebSocket
// client. Publish never blocks, so it is safe to call from the event loop.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	queue   chan push
	log     logger.Logger
}

func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		queue:   make(chan push, pushQueueDepth),
		log:     l,
	}
}

func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Count returns the number of connected clients.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

// Publish queues a notification for Run to broadcast. It drops the
// notification when the queue is full.
func (n *RPCNotifier) Publish(method string, params any) {
	select {
	case n.queue <- push{method, params}:
	default:
		pushesDropped.Inc()
		n.log.Warning("server: push queue full, dropped %s", method)
	}
}

// Run broadcasts queued notifications in order until ctx is done.
func (n *RPCNotifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-n.queue:
			n.Broadcast(p.method, p.params)
		}
	}
}

// Broadcast sends a notification to every client now. Clients that fail to
// receive it are dropped.
func (n *RPCNotifier) Broadcast(method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	var failed []*jrpc2.Server
	for _, srv := range servers {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		err := srv.Notify(ctx, method, params)
		cancel()
		if err != nil {
			n.log.Warning("server: push %s failed: %v", method, err)
			failed = append(failed, srv)
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

// Close disconnects every client.
func (n *RPCNotifier) Close() {
	n.mu.Lock()
	servers := n.servers
	n.servers = make(map[*jrpc2.Server]struct{})
	n.mu.Unlock()
	for srv := range servers {
		srv.Stop()
	}
}
