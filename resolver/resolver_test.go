package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResolveReturnsJSONDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/did/5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"did:sense:5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"}`))
	}))
	defer srv.Close()

	r := NewHTTP(srv.URL+"/did/", Options{Client: srv.Client()})
	doc, err := r.Resolve(context.Background(), "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("expected a document body")
	}
}

func TestResolveMapsFailuresToNoDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/did/missing":
			http.NotFound(w, r)
		case "/did/broken":
			w.Write([]byte("<html>not json</html>"))
		}
	}))
	defer srv.Close()

	r := NewHTTP(srv.URL+"/did/", Options{Client: srv.Client()})
	if _, err := r.Resolve(context.Background(), "missing"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("404: expected ErrNoDocument, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "broken"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("non-JSON: expected ErrNoDocument, got %v", err)
	}
}

func TestResolveNetworkErrorIsNoDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	r := NewHTTP(srv.URL+"/did/", Options{})
	if _, err := r.Resolve(context.Background(), "anyone"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestResolveRateLimitsPerSubject(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewHTTP(srv.URL+"/did/", Options{
		Client:   srv.Client(),
		FetchRPS: 1,
		Burst:    1,
		Now:      func() time.Time { return now },
	})
	if _, err := r.Resolve(context.Background(), "subject"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := r.Resolve(context.Background(), "subject"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("second fetch should be limited, got %v", err)
	}
	if hits != 1 {
		t.Fatalf("limited fetch must not reach the server, hits=%d", hits)
	}
}
