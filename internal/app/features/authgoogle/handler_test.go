package authgoogle_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/features/authgoogle"
	sessionstore "github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"github.com/orkestra-ventures/orkestra/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// fakeGoogle serves the token and userinfo endpoints.
type fakeGoogle struct {
	srv      *httptest.Server
	user     map[string]any
	verifier string
}

func newFakeGoogle(t *testing.T, sub, email string) *fakeGoogle {
	t.Helper()
	g := &fakeGoogle{user: map[string]any{"id": sub, "email": email, "verified_email": true, "name": "Google Admin"}}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		g.verifier = r.PostForm.Get("code_verifier")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-access","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-access" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g.user)
	})
	g.srv = httptest.NewServer(mux)
	t.Cleanup(g.srv.Close)
	return g
}

func newTestHandler(t *testing.T, g *fakeGoogle) (*authgoogle.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	h := authgoogle.NewHandler(db, nil, nil, "test-client-id", "test-client-secret", "http://localhost:8080", logger)
	sm, err := auth.NewSessionManager(auth.Config{
		SessionKey:  "test-session-key-must-be-32-chars-long",
		SessionName: "test-session",
		TokenSecret: "test-token-secret-must-be-32-chars-long",
		TokenTTL:    time.Hour,
	}, sessionstore.New(db), h.Admins, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	h.SessionMgr = sm
	if g != nil {
		h.OAuth.Endpoint = oauth2.Endpoint{AuthURL: g.srv.URL + "/auth", TokenURL: g.srv.URL + "/token"}
		h.UserInfoURL = g.srv.URL + "/userinfo"
	}
	return h, testutil.NewFixtures(t, db)
}

// startFlow runs ServeLogin and returns the state Google would echo back.
func startFlow(t *testing.T, h *authgoogle.Handler, ret string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google?return="+url.QueryEscape(ret), nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("login: got %d, want 307", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	q := loc.Query()
	if q.Get("code_challenge") == "" || q.Get("code_challenge_method") != "S256" {
		t.Errorf("expected a PKCE challenge, got %v", q)
	}
	return q.Get("state")
}

func callback(h *authgoogle.Handler, state, code string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?state="+url.QueryEscape(state)+"&code="+code, nil))
	return rec
}

func TestIsConfigured(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	if !h.IsConfigured() {
		t.Error("IsConfigured() should return true with client ID and secret")
	}
	h.OAuth.ClientSecret = ""
	if h.IsConfigured() {
		t.Error("IsConfigured() should return false without a secret")
	}

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=google_not_configured") {
		t.Errorf("Location: got %q", loc)
	}
}

func TestCallback_LinksExistingAdminByEmail(t *testing.T) {
	g := newFakeGoogle(t, "google-sub-1", "admin@example.com")
	h, fx := newTestHandler(t, g)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fx.CreateAdmin(ctx, "admin@example.com")

	state := startFlow(t, h, "/admin/contacts")
	rec := callback(h, state, "auth-code")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("callback: got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/contacts" {
		t.Errorf("Location: got %q, want /admin/contacts", loc)
	}
	if g.verifier == "" {
		t.Error("token exchange should carry the PKCE verifier")
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}

	linked, err := h.Admins.GetByGoogleID(ctx, "google-sub-1")
	if err != nil {
		t.Fatalf("GetByGoogleID failed: %v", err)
	}
	if linked.ID != admin.ID {
		t.Errorf("linked admin: got %d, want %d", linked.ID, admin.ID)
	}
}

func TestCallback_NoAccount(t *testing.T) {
	g := newFakeGoogle(t, "google-sub-2", "stranger@example.com")
	h, _ := newTestHandler(t, g)

	rec := callback(h, startFlow(t, h, ""), "auth-code")
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=no_account") {
		t.Errorf("Location: got %q", loc)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no session cookie expected")
	}
}

func TestCallback_DisabledAdmin(t *testing.T) {
	g := newFakeGoogle(t, "google-sub-3", "admin@example.com")
	h, fx := newTestHandler(t, g)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fx.CreateAdmin(ctx, "admin@example.com")
	if err := h.Admins.SetStatus(ctx, admin.ID, models.AdminDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	rec := callback(h, startFlow(t, h, ""), "auth-code")
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=account_disabled") {
		t.Errorf("Location: got %q", loc)
	}
}

func TestCallback_UnverifiedEmail(t *testing.T) {
	g := newFakeGoogle(t, "google-sub-4", "admin@example.com")
	g.user["verified_email"] = false
	h, fx := newTestHandler(t, g)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")

	rec := callback(h, startFlow(t, h, ""), "auth-code")
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=email_unverified") {
		t.Errorf("Location: got %q", loc)
	}
}

func TestCallback_StateIsSingleUse(t *testing.T) {
	g := newFakeGoogle(t, "google-sub-5", "admin@example.com")
	h, fx := newTestHandler(t, g)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")

	state := startFlow(t, h, "")
	if rec := callback(h, state, "auth-code"); strings.Contains(rec.Header().Get("Location"), "error=") {
		t.Fatalf("first callback failed: %q", rec.Header().Get("Location"))
	}
	rec := callback(h, state, "auth-code")
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("replayed state: got %q", loc)
	}

	rec = callback(h, "never-issued", "auth-code")
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("unknown state: got %q", loc)
	}
}

func TestCallback_GoogleDenied(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil))
	if loc := rec.Header().Get("Location"); loc != auth.DefaultLoginPath+"?error=google_denied" {
		t.Errorf("Location: got %q", loc)
	}
}
