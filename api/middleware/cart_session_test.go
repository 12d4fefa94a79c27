package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCartSessionMintsWhenAbsent(t *testing.T) {
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if seen == "" {
		t.Fatal("expected a minted session id")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted session id is not a uuid: %v", err)
	}
	if got := w.Header().Get("X-Cart-Session"); got != seen {
		t.Fatalf("expected header echo %q, got %q", seen, got)
	}
}

func TestCartSessionReusesHeader(t *testing.T) {
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Cart-Session", "sess-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if seen != "sess-42" {
		t.Fatalf("expected reuse of provided session, got %q", seen)
	}
}
