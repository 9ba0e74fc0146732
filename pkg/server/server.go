package server

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	internalserver "github.com/SmitUplenchwar2687/Stash/internal/server"
	"github.com/SmitUplenchwar2687/Stash/internal/stash"
)

// Server is the Stash HTTP API.
type Server = internalserver.Server

// Options configures optional server features.
type Options = internalserver.Options

// Hub manages WebSocket clients and broadcasts change events.
type Hub = internalserver.Hub

// Item is the JSON shape of a stored entry.
type Item = internalserver.Item

// RequestIDHeader carries the per-request id.
const RequestIDHeader = internalserver.RequestIDHeader

// New creates a new Stash server.
func New(addr string, st *stash.Stash, opts Options) *Server {
	return internalserver.New(addr, st, opts)
}

// NewHub creates a new WebSocket hub.
func NewHub(log logrus.FieldLogger) *Hub {
	return internalserver.NewHub(log)
}

// RequestLogger wraps an http.Handler with request ids and access logging.
func RequestLogger(next http.Handler, log logrus.FieldLogger) http.Handler {
	return internalserver.RequestLogger(next, log)
}

// RequestID returns the request id attached by RequestLogger.
func RequestID(ctx context.Context) string {
	return internalserver.RequestID(ctx)
}
