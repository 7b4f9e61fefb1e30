package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeAPI serves the auth and export endpoints from one httptest server.
//
//	GET /auth                -> AuthStatus, AuthBody
//	GET /v3/incidents/export -> ExportStatus, ExportBody (if the bearer matches)
//
// Every request is recorded.
type FakeAPI struct {
	*httptest.Server

	AuthStatus   int
	AuthBody     string
	ExportStatus int
	ExportBody   []byte

	// AccessToken is the bearer the export endpoint accepts.
	AccessToken string

	mu       sync.Mutex
	requests []*http.Request
}

// NewFakeAPI starts a FakeAPI that issues AccessToken "access-abc" and
// returns an empty JSON export. The server is closed on test cleanup.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		AuthStatus:   http.StatusOK,
		AuthBody:     `{"data":{"access_token":"access-abc"}}`,
		ExportStatus: http.StatusOK,
		ExportBody:   []byte(`{"incidents":[]}`),
		AccessToken:  "access-abc",
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// AuthURL is the auth endpoint URL.
func (f *FakeAPI) AuthURL() string {
	return f.Server.URL + "/auth"
}

// BaseAPI is the base API URL.
func (f *FakeAPI) BaseAPI() string {
	return f.Server.URL + "/v3"
}

// Requests returns the requests received so far.
func (f *FakeAPI) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*http.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	f.mu.Unlock()

	switch r.URL.Path {
	case "/auth":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.AuthStatus)
		w.Write([]byte(f.AuthBody))
	case "/v3/incidents/export":
		if r.Header.Get("Authorization") != "Bearer "+f.AccessToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid bearer"}`))
			return
		}
		w.WriteHeader(f.ExportStatus)
		w.Write(f.ExportBody)
	default:
		http.NotFound(w, r)
	}
}
