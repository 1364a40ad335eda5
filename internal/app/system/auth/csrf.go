// internal/app/system/auth/csrf.go
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// CSRFHeader carries the masked token. The server sets it on responses and
// cookie-authenticated browsers send it back on every mutation.
const CSRFHeader = "X-CSRF-Token"

const csrfCookieName = "orkestra-csrf"

func newCSRF(cfg Config, reject http.Handler) func(http.Handler) http.Handler {
	return csrf.Protect([]byte(cfg.SessionKey),
		csrf.CookieName(csrfCookieName),
		csrf.Path("/"),
		csrf.Domain(cfg.Domain),
		csrf.Secure(cfg.Secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeader),
		csrf.TrustedOrigins(cfg.TrustedOrigins),
		csrf.ErrorHandler(reject),
	)
}

// ProtectCSRF guards requests whose credentials ride on the session cookie.
// An unsafe request carrying that cookie needs a matching X-CSRF-Token and,
// over TLS, a same-origin (or trusted) Origin or Referer. Bearer-token and
// anonymous calls carry no ambient credential and pass unchecked.
//
// Safe requests always pass and receive the current token in the
// X-CSRF-Token response header.
func (sm *SessionManager) ProtectCSRF(next http.Handler) http.Handler {
	protected := sm.csrf(exposeCSRFToken(next))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sm.secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		if !safeMethod(r.Method) && !sm.cookieAuthenticated(r) {
			r = csrf.UnsafeSkipCheck(r)
		}
		protected.ServeHTTP(w, r)
	})
}

func exposeCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := csrf.Token(r); tok != "" {
			w.Header().Set(CSRFHeader, tok)
		}
		next.ServeHTTP(w, r)
	})
}

// cookieAuthenticated mirrors tokenFrom: a Bearer header wins over the cookie.
func (sm *SessionManager) cookieAuthenticated(r *http.Request) bool {
	if bearerToken(r) != "" {
		return false
	}
	_, err := r.Cookie(sm.name)
	return err == nil
}

func (sm *SessionManager) rejectCSRF(w http.ResponseWriter, r *http.Request) {
	sm.logger.Warn("CSRF check failed",
		zap.String("path", r.URL.Path),
		zap.String("origin", r.Header.Get("Origin")),
		zap.Error(csrf.FailureReason(r)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "FORBIDDEN",
			"message": "The request is missing a valid CSRF token.",
		},
	})
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
