// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	adminstore "github.com/orkestra-ventures/orkestra/internal/app/store/admins"
	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/store/oauthstate"
	sessionstore "github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL           = 10 * time.Minute
	afterLoginPath     = "/admin"
)

// Handler signs existing admins in with their Google account. It never
// creates admins.
type Handler struct {
	Admins     *adminstore.Store
	States     *oauthstate.Store
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
	Log        *zap.Logger

	OAuth       *oauth2.Config
	UserInfoURL string
	LoginPath   string
}

// NewHandler creates a Google sign-in handler. baseURL is the public origin,
// e.g. "https://orkestra.ventures".
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audit *auditlog.Logger, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Admins:     adminstore.New(db),
		States:     oauthstate.New(db),
		SessionMgr: sessionMgr,
		Audit:      audit,
		Log:        logger,
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		UserInfoURL: DefaultUserInfoURL,
		LoginPath:   auth.DefaultLoginPath,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.OAuth.ClientID != "" && h.OAuth.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Redirects to Google's consent screen with a one-time state and PKCE.         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		h.redirectToLogin(w, r, "google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}
	verifier := oauth2.GenerateVerifier()
	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.States.Save(ctx, state, verifier, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}

	dest := h.OAuth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	h.Log.Debug("initiating Google OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, resolves the admin and opens a session.                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.fail(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		h.fail(w, r, "invalid_state")
		return
	}

	stateCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	st, ok, err := h.States.Consume(stateCtx, state)
	cancel()
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}
	if !ok {
		h.fail(w, r, "invalid_state")
		return
	}

	exCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), h.Log, "google token exchange")
	defer cancel()
	token, err := h.OAuth.Exchange(exCtx, code, oauth2.VerifierOption(st.Verifier))
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.fail(w, r, "token_exchange")
		return
	}

	info, err := h.fetchUserInfo(exCtx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.fail(w, r, "user_info")
		return
	}
	if !info.EmailVerified {
		h.fail(w, r, "email_unverified")
		return
	}

	admin, err := h.findAdmin(exCtx, info)
	switch {
	case errors.Is(err, errNoAccount):
		h.Log.Info("Google OAuth: no admin account", zap.String("email", info.Email))
		h.fail(w, r, "no_account")
		return
	case errors.Is(err, errDisabled):
		h.fail(w, r, "account_disabled")
		return
	case errors.Is(err, errLinkedElsewhere):
		h.fail(w, r, "account_mismatch")
		return
	case err != nil:
		h.Log.Error("failed to look up admin", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}

	if _, err := h.SessionMgr.Login(w, r, admin, sessionstore.CreatedByGoogle); err != nil {
		h.Log.Error("failed to open session", zap.Error(err), zap.Int64("admin_id", admin.ID))
		h.redirectToLogin(w, r, "session")
		return
	}
	if err := h.Admins.TouchLogin(ctx, admin.ID); err != nil {
		h.Log.Warn("failed to record login time", zap.Int64("admin_id", admin.ID), zap.Error(err))
	}
	h.Audit.LoginSuccess(ctx, r, admin.ID, "google")
	h.Log.Info("admin signed in via Google", zap.Int64("admin_id", admin.ID))

	http.Redirect(w, r, urlutil.SafeReturn(st.ReturnURL, "", afterLoginPath), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin lookup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	errNoAccount       = errors.New("no admin account")
	errDisabled        = errors.New("admin disabled")
	errLinkedElsewhere = errors.New("admin linked to another Google account")
)

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.OAuth.Client(ctx, token)
	resp, err := client.Get(h.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" {
		return nil, errors.New("user info has no subject")
	}
	return &info, nil
}

// findAdmin resolves the Google subject to an admin: first by a linked
// Google id, then by email, linking the account on first use.
func (h *Handler) findAdmin(ctx context.Context, info *googleUserInfo) (models.Admin, error) {
	a, err := h.Admins.GetByGoogleID(ctx, info.ID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return models.Admin{}, err
	}
	if errors.Is(err, entity.ErrNotFound) {
		a, err = h.Admins.GetByEmail(ctx, info.Email)
		if errors.Is(err, entity.ErrNotFound) {
			return models.Admin{}, errNoAccount
		}
		if err != nil {
			return models.Admin{}, err
		}
		if a.GoogleID != "" && a.GoogleID != info.ID {
			return models.Admin{}, errLinkedElsewhere
		}
		if a.GoogleID == "" && a.Status == models.AdminActive {
			if err := h.Admins.LinkGoogle(ctx, a.ID, info.ID); err != nil {
				h.Log.Warn("failed to link Google account", zap.Int64("admin_id", a.ID), zap.Error(err))
			}
		}
	}
	if a.Status != models.AdminActive {
		return models.Admin{}, errDisabled
	}
	return a, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// fail audits a rejected sign-in and sends the browser back to the login page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, reason string) {
	h.Audit.GoogleLoginFailed(r.Context(), r, reason)
	h.redirectToLogin(w, r, reason)
}

func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request, errorCode string) {
	http.Redirect(w, r, h.LoginPath+"?error="+errorCode, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := securecookie.GenerateRandomKey(32)
	if b == nil {
		return "", errors.New("generate oauth state: random source failed")
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
