package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdullahNavin/bookHuntBD-server/models"
)

type stubSearcher struct {
	listings []models.Listing
	err      error
}

func (s stubSearcher) Search(ctx context.Context, query string) ([]models.Listing, error) {
	return s.listings, s.err
}

func doRequest(t *testing.T, searcher Searcher, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(searcher, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSearchMissingQuery(t *testing.T) {
	rec := doRequest(t, stubSearcher{}, http.MethodGet, "/api/search")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "Missing query" {
		t.Fatalf("error = %q, want %q", payload["error"], "Missing query")
	}
}

func TestSearchReturnsListings(t *testing.T) {
	searcher := stubSearcher{
		listings: []models.Listing{
			{Site: "BoiBazar", Title: "Pather Panchali", Price: "৳ 350"},
			{Site: "DheeBooks", Title: "Feluda Somogro", Price: "N/A"},
		},
	}
	rec := doRequest(t, searcher, http.MethodGet, "/api/search?query=pather")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("cors header = %q, want *", got)
	}

	var listings []models.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &listings); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	if listings[0].Site != "BoiBazar" || listings[1].Site != "DheeBooks" {
		t.Fatalf("order not preserved: %+v", listings)
	}
}

func TestSearchEmptyResultIsJSONArray(t *testing.T) {
	rec := doRequest(t, stubSearcher{}, http.MethodGet, "/api/search?query=nothing")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("body = %q, want []", body)
	}
}

func TestSearchAggregationFailure(t *testing.T) {
	rec := doRequest(t, stubSearcher{err: errors.New("extractor X panicked")}, http.MethodGet, "/api/search?query=pather")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "Failed to fetch book data" {
		t.Fatalf("error = %q, want %q", payload["error"], "Failed to fetch book data")
	}
}

func TestLiveness(t *testing.T) {
	rec := doRequest(t, stubSearcher{}, http.MethodGet, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "running") {
		t.Fatalf("body = %q, want liveness message", rec.Body.String())
	}
}

func TestUnknownPath(t *testing.T) {
	rec := doRequest(t, stubSearcher{}, http.MethodGet, "/api/unknown")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPreflightRequest(t *testing.T) {
	rec := doRequest(t, stubSearcher{}, http.MethodOptions, "/api/search")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "GET") {
		t.Fatalf("allow methods = %q", got)
	}
}
