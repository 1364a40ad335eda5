// internal/app/system/auth/auth.go
//
// Package auth authenticates admin requests. A signed-in admin holds a JWT
// whose jti names a row in the sessions collection; a request is only
// treated as signed in while the signature verifies, the session is live
// and the admin account is active. Browsers carry the token in a
// gorilla/sessions cookie, API clients send it as a Bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	sessionstore "github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.uber.org/zap"
)

const (
	DefaultSessionName = "orkestra-session"
	DefaultTokenTTL    = 12 * time.Hour
	DefaultLoginPath   = "/admin/login"

	tokenKey = "token"
)

// SessionStore is the server-side session registry.
type SessionStore interface {
	Create(ctx context.Context, adminID int64, ip, userAgent, createdBy string, ttl time.Duration) (sessionstore.Session, error)
	Touch(ctx context.Context, id string) (sessionstore.Session, error)
	Close(ctx context.Context, id, reason string) error
}

// AdminLookup resolves the admin named by a token.
type AdminLookup interface {
	Get(ctx context.Context, id int64) (models.Admin, error)
}

// Config holds cookie and token settings.
type Config struct {
	SessionKey  string
	SessionName string
	Domain      string
	Secure      bool
	TokenSecret string
	TokenTTL    time.Duration
	LoginPath   string

	// TrustedOrigins lists extra hosts (host[:port]) allowed to send
	// cookie-authenticated mutations.
	TrustedOrigins []string
}

// SessionUser is what LoadSessionUser injects into r.Context().
type SessionUser struct {
	ID        int64
	Name      string
	Email     string
	SessionID string
}

// Issued describes a freshly opened session.
type Issued struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// SessionManager verifies tokens and opens and closes sessions.
type SessionManager struct {
	cookies   *sessions.CookieStore
	csrf      func(http.Handler) http.Handler
	secure    bool
	name      string
	secret    []byte
	ttl       time.Duration
	loginPath string
	sessions  SessionStore
	admins    AdminLookup
	logger    *zap.Logger
}

// NewSessionManager builds a SessionManager. The secure flag controls whether
// cookies are marked Secure. Cookies are always SameSite=Lax; clients on
// another site authenticate with the Bearer token instead.
func NewSessionManager(cfg Config, store SessionStore, admins AdminLookup, logger *zap.Logger) (*SessionManager, error) {
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(cfg.SessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(cfg.SessionKey)))
	}
	if len(cfg.TokenSecret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d characters", MinSecretLength)
	}

	cookies := sessions.NewCookieStore([]byte(cfg.SessionKey))
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	opts := &sessions.Options{
		Domain:   cfg.Domain,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	cookies.Options = opts

	sm := &SessionManager{
		cookies:   cookies,
		secure:    cfg.Secure,
		name:      cfg.SessionName,
		secret:    []byte(cfg.TokenSecret),
		ttl:       ttl,
		loginPath: cfg.LoginPath,
		sessions:  store,
		admins:    admins,
		logger:    logger,
	}
	if sm.name == "" {
		sm.name = DefaultSessionName
	}
	if sm.loginPath == "" {
		sm.loginPath = DefaultLoginPath
	}
	sm.csrf = newCSRF(cfg, http.HandlerFunc(sm.rejectCSRF))

	logger.Info("session manager initialized",
		zap.Bool("secure", cfg.Secure),
		zap.String("domain", cfg.Domain),
		zap.Duration("token_ttl", ttl))
	return sm, nil
}

// TTL is the lifetime of newly issued tokens.
func (sm *SessionManager) TTL() time.Duration { return sm.ttl }

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	sessionErrKey  ctxKey = "sessionErr"
)

// CurrentUser returns the signed-in admin and a "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// SessionError returns the infrastructure error that kept LoadSessionUser
// from verifying a presented token, if any. A request carrying such an error
// is anonymous but should be answered as unavailable, not unauthorized.
func SessionError(r *http.Request) error {
	err, _ := r.Context().Value(sessionErrKey).(error)
	return err
}

// WithTestUser returns r carrying u as the signed-in admin.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser injects the admin into context when the request carries a
// valid token for a live session. Bad or revoked tokens leave the request
// anonymous.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := sm.tokenFrom(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		u, err := sm.verify(r.Context(), raw)
		switch {
		case err == nil:
			r = withUser(r, u)
		case errors.Is(err, ErrInvalidToken):
		default:
			sm.logger.Warn("session lookup failed", zap.Error(err))
			r = r.WithContext(context.WithValue(r.Context(), sessionErrKey, err))
		}
		next.ServeHTTP(w, r)
	})
}

// verify checks the token, touches its session and loads the admin.
// ErrInvalidToken covers every reason the token cannot be honored.
func (sm *SessionManager) verify(ctx context.Context, raw string) (*SessionUser, error) {
	claims, err := ParseToken(sm.secret, raw)
	if err != nil {
		return nil, err
	}
	sess, err := sm.sessions.Touch(ctx, claims.ID)
	if errors.Is(err, sessionstore.ErrNotLive) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if sess.AdminID != claims.AdminID {
		return nil, ErrInvalidToken
	}

	admin, err := sm.admins.Get(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if admin.Status != models.AdminActive {
		return nil, ErrInvalidToken
	}
	return &SessionUser{
		ID:        admin.ID,
		Name:      admin.FullName,
		Email:     admin.Email,
		SessionID: sess.ID,
	}, nil
}

func (sm *SessionManager) tokenFrom(r *http.Request) string {
	if tok := bearerToken(r); tok != "" {
		return tok
	}
	sess, err := sm.cookies.Get(r, sm.name)
	if err != nil {
		return ""
	}
	tok, _ := sess.Values[tokenKey].(string)
	return tok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	return ""
}

// Login opens a session for admin, issues its token and stores the token in
// the session cookie.
func (sm *SessionManager) Login(w http.ResponseWriter, r *http.Request, admin models.Admin, createdBy string) (Issued, error) {
	sess, err := sm.sessions.Create(r.Context(), admin.ID, clientIP(r), r.UserAgent(), createdBy, sm.ttl)
	if err != nil {
		return Issued{}, err
	}
	tok, err := IssueToken(sm.secret, admin.ID, sess.ID, sess.ExpiresAt)
	if err != nil {
		return Issued{}, err
	}

	cs, _ := sm.cookies.Get(r, sm.name)
	cs.Values[tokenKey] = tok
	if err := cs.Save(r, w); err != nil {
		sm.logger.Warn("failed to save session cookie", zap.Error(err))
	}
	return Issued{Token: tok, SessionID: sess.ID, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout closes the current session and clears the cookie. It is a no-op
// for anonymous requests.
func (sm *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	cs, _ := sm.cookies.Get(r, sm.name)
	delete(cs.Values, tokenKey)
	cs.Options.MaxAge = -1
	if err := cs.Save(r, w); err != nil {
		sm.logger.Warn("failed to clear session cookie", zap.Error(err))
	}

	u, ok := CurrentUser(r)
	if !ok {
		return nil
	}
	return sm.sessions.Close(r.Context(), u.SessionID, sessionstore.EndLogout)
}

// RequireSignedIn ensures there is an admin in context (set by LoadSessionUser).
// If not signed in:
//   - HTML: 303 redirect to the login page with a return parameter.
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		if SessionError(r) != nil {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		if wantsHTML(r) {
			ret := url.QueryEscape(currentURI(r))
			http.Redirect(w, r, sm.loginPath+"?return="+ret, http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// clientIP expects chi's RealIP middleware to have rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
