package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
)

// guarded wraps a handler that records whether it ran.
func guarded(sm *auth.SessionManager) (http.Handler, *bool) {
	reached := false
	h := sm.LoadSessionUser(sm.ProtectCSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})))
	return h, &reached
}

func formPost(origin string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/rpc/employees.delete", strings.NewReader("id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// fetchCSRF performs a safe request and returns the issued token and cookie.
func fetchCSRF(t *testing.T, h http.Handler, session *http.Cookie) (string, *http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/rpc/auth.me", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	tok := rec.Header().Get(auth.CSRFHeader)
	if tok == "" {
		t.Fatal("expected a CSRF token on a safe request")
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "orkestra-csrf" {
			return tok, c
		}
	}
	t.Fatal("expected a CSRF cookie")
	return "", nil
}

func TestSessionCookie_IsSameSiteLax(t *testing.T) {
	sm, _, _ := newSessionManager(t, true)
	_, cookie := login(t, sm)

	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite: got %v, want Lax", cookie.SameSite)
	}
	if !cookie.Secure || !cookie.HttpOnly {
		t.Errorf("cookie should be Secure and HttpOnly: %+v", cookie)
	}
}

func TestProtectCSRF_RejectsCrossSiteFormPost(t *testing.T) {
	sm, _, _ := newSessionManager(t, true)
	_, session := login(t, sm)
	h, reached := guarded(sm)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, formPost("https://evil.example", session))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
	if *reached {
		t.Error("a cross-site form post must not reach the procedure")
	}
	if !strings.Contains(rec.Body.String(), `"FORBIDDEN"`) {
		t.Errorf("body: got %s", rec.Body.String())
	}
}

func TestProtectCSRF_RequiresToken(t *testing.T) {
	sm, _, _ := newSessionManager(t, true)
	_, session := login(t, sm)
	h, reached := guarded(sm)
	_, csrfCookie := fetchCSRF(t, h, session)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, formPost("https://example.com", session, csrfCookie))

	if rec.Code != http.StatusForbidden || *reached {
		t.Errorf("same-origin post without a token: got %d, reached=%v", rec.Code, *reached)
	}
}

func TestProtectCSRF_AcceptsSameOriginWithToken(t *testing.T) {
	sm, _, _ := newSessionManager(t, true)
	_, session := login(t, sm)
	h, reached := guarded(sm)
	tok, csrfCookie := fetchCSRF(t, h, session)

	req := formPost("https://example.com", session, csrfCookie)
	req.Header.Set(auth.CSRFHeader, tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !*reached {
		t.Errorf("same-origin post with token: got %d, reached=%v", rec.Code, *reached)
	}
}

func TestProtectCSRF_TokenFromOtherOriginRejected(t *testing.T) {
	sm, _, _ := newSessionManager(t, true)
	_, session := login(t, sm)
	h, reached := guarded(sm)
	tok, csrfCookie := fetchCSRF(t, h, session)

	req := formPost("https://evil.example", session, csrfCookie)
	req.Header.Set(auth.CSRFHeader, tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden || *reached {
		t.Errorf("foreign origin: got %d, reached=%v", rec.Code, *reached)
	}
}

func TestProtectCSRF_BearerSkipsCheck(t *testing.T) {
	sm, _, _ := newSessionManager(t, true)
	iss, _ := login(t, sm)
	h, reached := guarded(sm)

	req := formPost("https://tools.example")
	req.Header.Set("Authorization", "Bearer "+iss.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !*reached {
		t.Errorf("bearer call: got %d, reached=%v", rec.Code, *reached)
	}
}

func TestProtectCSRF_AnonymousSkipsCheck(t *testing.T) {
	sm, _, _ := newSessionManager(t, true)
	h, reached := guarded(sm)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, formPost("https://visitor.example"))

	if rec.Code != http.StatusOK || !*reached {
		t.Errorf("anonymous submit: got %d, reached=%v", rec.Code, *reached)
	}
}

func TestProtectCSRF_PlainHTTPNeedsNoReferer(t *testing.T) {
	sm, _, _ := newSessionManager(t, false)
	_, session := login(t, sm)
	h, reached := guarded(sm)
	tok, csrfCookie := fetchCSRF(t, h, session)

	req := formPost("", session, csrfCookie)
	req.Header.Set(auth.CSRFHeader, tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !*reached {
		t.Errorf("dev post with token: got %d, reached=%v", rec.Code, *reached)
	}
}
