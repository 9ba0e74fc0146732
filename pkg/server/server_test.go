package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/SmitUplenchwar2687/Stash/pkg/stash"
	"github.com/SmitUplenchwar2687/Stash/pkg/storage"
)

func TestNewPublicAPI(t *testing.T) {
	logger, _ := test.NewNullLogger()
	st := stash.New(storage.NewMemoryStorage(), stash.Options{})
	srv := New(":0", st, Options{Hub: NewHub(logger), Logger: logger})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}
