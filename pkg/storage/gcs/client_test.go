package gcs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func swapStorageBase(t *testing.T, base string) func() {
	t.Helper()
	prev := storageBaseURL
	storageBaseURL = base
	return func() { storageBaseURL = prev }
}

func newTestClient(server *httptest.Server, token string) *Client {
	return &Client{
		httpClient:    server.Client(),
		defaultBucket: "bucket",
		tokenSource: &tokenSource{
			token:  token,
			expiry: time.Now().Add(time.Hour),
		},
	}
}

func TestPublicURL(t *testing.T) {
	client := &Client{defaultBucket: "ve-media"}

	got := client.PublicURL("", "products/abc 1.png")
	want := "https://storage.googleapis.com/ve-media/products/abc%201.png"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	got = client.PublicURL("other", "vendors/logo.jpg")
	if !strings.Contains(got, "/other/vendors/logo.jpg") {
		t.Fatalf("bucket override not applied: %q", got)
	}
}

func TestUploadObjectErrors(t *testing.T) {
	client := &Client{tokenSource: &tokenSource{token: "t", expiry: time.Now().Add(time.Hour)}, defaultBucket: "bucket", httpClient: http.DefaultClient}

	if _, err := client.UploadObject(context.Background(), "bucket", "", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error on empty object key")
	}

	var empty *Client
	if _, err := empty.UploadObject(context.Background(), "bucket", "key", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected uninitialized client error")
	}
}

func TestDeleteObjectTreatsMissingAsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("unexpected auth header %q", got)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server, "token")
	restore := swapStorageBase(t, server.URL)
	defer restore()

	if err := client.DeleteObject(context.Background(), "", "products/missing.png"); err != nil {
		t.Fatalf("expected missing object to be tolerated: %v", err)
	}
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "fresh", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if token != "fresh" {
			t.Fatalf("unexpected token %q", token)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single fetch, got %d", calls)
	}
}
