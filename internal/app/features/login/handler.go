// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"time"

	adminstore "github.com/orkestra-ventures/orkestra/internal/app/store/admins"
	sessionstore "github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/authutil"
	"github.com/orkestra-ventures/orkestra/internal/app/system/ratelimit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const badCredentials = "Invalid email or password."

type Handler struct {
	Admins     *adminstore.Store
	Sessions   *sessionstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter // nil disables login throttling
	Audit      *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Admins:     adminstore.New(db),
		Sessions:   sessionstore.New(db),
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		Audit:      audit,
		Log:        logger,
	}
}

type loginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Admin     models.Admin `json:"admin"`
}

// login checks an email and password and opens a session. Unknown emails,
// wrong passwords and disabled accounts all get the same answer.
func (h *Handler) login(ctx context.Context, c *rpc.Call) (any, error) {
	var in models.LoginInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(ctx, c.Request, in.Email); !ok {
			h.Audit.LoginRateLimited(ctx, c.Request, in.Email)
			return nil, rpc.TooManyRequests(reason)
		}
	}

	lookupCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "admin authenticate")
	admin, err := h.Admins.Authenticate(lookupCtx, in.Email, in.Password)
	cancel()
	if errors.Is(err, adminstore.ErrInvalidCredentials) {
		h.Audit.LoginFailed(ctx, c.Request, in.Email)
		return nil, rpc.Unauthorized(badCredentials)
	}
	if err != nil {
		return nil, err
	}

	issued, err := h.SessionMgr.Login(c.Writer, c.Request, admin, sessionstore.CreatedByLogin)
	if err != nil {
		return nil, err
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(ctx, in.Email)
	}
	if err := h.Admins.TouchLogin(ctx, admin.ID); err != nil {
		h.Log.Warn("failed to record login time", zap.Int64("admin_id", admin.ID), zap.Error(err))
	}
	h.Audit.LoginSuccess(ctx, c.Request, admin.ID, "password")

	h.Log.Info("admin signed in", zap.Int64("admin_id", admin.ID), zap.String("session_id", issued.SessionID))
	return loginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, Admin: admin}, nil
}

func (h *Handler) logout(ctx context.Context, c *rpc.Call) (any, error) {
	if err := h.SessionMgr.Logout(c.Writer, c.Request); err != nil {
		return nil, err
	}
	h.Audit.Logout(ctx, c.Request, c.ActorID())
	return rpc.OK, nil
}

func (h *Handler) me(ctx context.Context, c *rpc.Call) (any, error) {
	return h.Admins.Get(ctx, c.ActorID())
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required,max=200" label:"Current password"`
	NewPassword     string `json:"newPassword" validate:"required,max=200" label:"New password"`
}

func (h *Handler) changePassword(ctx context.Context, c *rpc.Call) (any, error) {
	var in changePasswordInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}

	if _, err := h.Admins.Authenticate(ctx, c.User.Email, in.CurrentPassword); err != nil {
		if errors.Is(err, adminstore.ErrInvalidCredentials) {
			return nil, rpc.FieldError("currentPassword", "Current password is incorrect.")
		}
		return nil, err
	}
	if in.NewPassword == in.CurrentPassword {
		return nil, rpc.FieldError("newPassword", "New password must be different from the current one.")
	}
	if err := authutil.ValidatePassword(in.NewPassword); err != nil {
		return nil, rpc.FieldError("newPassword", authutil.PasswordRules())
	}

	if err := h.Admins.SetPassword(ctx, c.ActorID(), in.NewPassword); err != nil {
		return nil, err
	}
	h.Audit.PasswordChanged(ctx, c.Request, c.ActorID())
	return rpc.OK, nil
}

type revokeResult struct {
	Revoked int64 `json:"revoked"`
}

// revokeSessions signs the admin out everywhere, including this session.
func (h *Handler) revokeSessions(ctx context.Context, c *rpc.Call) (any, error) {
	n, err := h.Sessions.CloseAllForAdmin(ctx, c.ActorID(), sessionstore.EndRevoked)
	if err != nil {
		return nil, err
	}
	if err := h.SessionMgr.Logout(c.Writer, c.Request); err != nil {
		h.Log.Warn("failed to clear session cookie after revoke", zap.Error(err))
	}
	h.Audit.SessionsRevoked(ctx, c.Request, c.ActorID(), n)
	return revokeResult{Revoked: n}, nil
}
