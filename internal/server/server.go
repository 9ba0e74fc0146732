package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Stash/internal/stash"
)

const maxValueBytes = 1 << 20

// Server is the Stash HTTP API.
type Server struct {
	httpServer *http.Server
	stash      *stash.Stash
	hub        *Hub
	log        logrus.FieldLogger
	mux        *http.ServeMux
}

// Options holds optional server dependencies.
type Options struct {
	Hub    *Hub // streams change events over /ws; nil disables the endpoint
	Logger logrus.FieldLogger
}

// New creates a new Stash server.
func New(addr string, st *stash.Stash, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		stash: st,
		hub:   opts.Hub,
		log:   logger,
		mux:   http.NewServeMux(),
	}
	if s.hub != nil {
		st.OnChange(s.hub.Broadcast)
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           RequestLogger(s.mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/keys", s.handleKeys)
	s.mux.HandleFunc("GET /api/items/{key...}", s.handleGet)
	s.mux.HandleFunc("HEAD /api/items/{key...}", s.handleHead)
	s.mux.HandleFunc("PUT /api/items/{key...}", s.handlePut)
	s.mux.HandleFunc("DELETE /api/items/{key...}", s.handleDelete)
	s.mux.HandleFunc("DELETE /api/items", s.handleClear)
	if s.hub != nil {
		s.mux.HandleFunc("GET /ws", s.hub.HandleWebSocket)
	}
}

// handleRoot serves a welcome message.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "stash",
		"status":  "running",
		"time":    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := s.stash.Keys(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sort.Strings(keys)
	writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

// Item is the JSON shape of a stored entry.
type Item struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	v, ok, err := s.stash.Get(r.Context(), key)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}
	writeJSON(w, http.StatusOK, Item{Key: key, Value: v})
}

func (s *Server) handleHead(w http.ResponseWriter, r *http.Request) {
	ok, err := s.stash.Has(r.Context(), r.PathValue("key"))
	if err != nil {
		s.log.WithError(err).Error("exists check failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	var body struct {
		Value *string `json:"value"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxValueBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	if err := s.stash.Set(r.Context(), key, *body.Value); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}
	if err := s.stash.Remove(r.Context(), key); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.stash.Clear(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithFields(logrus.Fields{
		"request_id": RequestID(r.Context()),
		"path":       r.URL.Path,
	}).WithError(err).Error("storage operation failed")

	status := http.StatusInternalServerError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, "storage error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Handler returns the server's root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.log.WithField("addr", ln.Addr().String()).Info("stash server listening")
	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server and disconnects WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	return s.httpServer.Shutdown(ctx)
}
