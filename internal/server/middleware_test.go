package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeWhoIs struct {
	login   string
	display string
}

func (f fakeWhoIs) WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error) {
	return &apitype.WhoIsResponse{
		UserProfile: &tailcfg.UserProfile{LoginName: f.login, DisplayName: f.display},
	}, nil
}

type fakeDirectory struct {
	id    int
	login string
}

func (f *fakeDirectory) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	f.login = login
	return f.id, nil
}

// TestIdentityDevDefault verifies that without a Tailscale client every
// request resolves to the local dev user with ID 1.
func TestIdentityDevDefault(t *testing.T) {
	s := &Server{log: discardLogger()}
	var gotID int
	var gotInfo UserInfo
	handler := s.Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = userIDFrom(r)
		gotInfo = userInfoFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != 1 {
		t.Errorf("userID = %d, want 1", gotID)
	}
	if gotInfo.Login != "local" {
		t.Errorf("login = %q, want %q", gotInfo.Login, "local")
	}
}

// TestIdentityTailscale verifies that a WhoIs response maps to a directory
// user ID and the Tailscale identity lands in context.
func TestIdentityTailscale(t *testing.T) {
	dir := &fakeDirectory{id: 42}
	s := &Server{log: discardLogger(), users: dir, whois: fakeWhoIs{login: "alice@example.com", display: "Alice"}}

	var gotID int
	var gotInfo UserInfo
	handler := s.Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = userIDFrom(r)
		gotInfo = userInfoFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != 42 {
		t.Errorf("userID = %d, want 42", gotID)
	}
	if gotInfo.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", gotInfo.Login, "alice@example.com")
	}
	if dir.login != "alice@example.com" {
		t.Errorf("directory saw login %q, want %q", dir.login, "alice@example.com")
	}
}

// TestUserIDFromDefault verifies the fallback user ID when no identity
// middleware has run.
func TestUserIDFromDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := userIDFrom(req); id != 1 {
		t.Errorf("userIDFrom without context value = %d, want 1", id)
	}
}

// TestAPIKeyAuth verifies the missing, wrong, and correct key paths.
func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("correct key: status = %d, want 200", rec.Code)
	}
}

// TestRequestLogging verifies the logging middleware passes the response
// through and records the handler's status.
func TestRequestLogging(t *testing.T) {
	handler := RequestLogging(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies that CORS headers are set on responses.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that OPTIONS requests short-circuit with 204.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
