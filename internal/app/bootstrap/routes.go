// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	authgooglefeature "github.com/orkestra-ventures/orkestra/internal/app/features/authgoogle"
	exportsfeature "github.com/orkestra-ventures/orkestra/internal/app/features/exports"
	healthfeature "github.com/orkestra-ventures/orkestra/internal/app/features/health"
	adminstore "github.com/orkestra-ventures/orkestra/internal/app/store/admins"
	"github.com/orkestra-ventures/orkestra/internal/app/store/audit"
	sessionstore "github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The router serves:
//   - /health for load balancers
//   - /rpc/{procedure} for the site and the back-office
//   - /admin/export/{resource}.{csv|xlsx} for spreadsheet downloads
//   - /auth/google for Google sign-in, when configured
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	sessionMgr, err := auth.NewSessionManager(auth.Config{
		SessionKey:  appCfg.SessionKey,
		SessionName: appCfg.SessionName,
		Domain:      appCfg.SessionDomain,
		Secure:      coreCfg.Env == "prod",
		TokenSecret: appCfg.TokenSecret,
		TokenTTL:    appCfg.TokenTTL,
		LoginPath:   auth.DefaultLoginPath,

		TrustedOrigins: appCfg.CSRFTrustedOrigins,
	}, sessionstore.New(db), adminstore.New(db), logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Admin:  appCfg.AuditLogAdmin,
		Public: appCfg.AuditLogPublic,
	})

	r := chi.NewRouter()

	// Forwarded client addresses are only honored behind a known proxy.
	if appCfg.TrustProxy {
		r.Use(middleware.RealIP)
	}

	// Loads the signed-in admin, if any, into the request context.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	procedures := buildProcedures(appCfg, deps, sessionMgr, auditLog, logger)
	// Cookie-authenticated mutations must carry the CSRF token.
	r.With(rpc.LimitBody, sessionMgr.ProtectCSRF).Mount("/rpc", procedures.Routes())

	exportHandler := exportsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/admin/export", exportsfeature.Routes(exportHandler, sessionMgr.RequireSignedIn))

	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, auditLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	if googleHandler.IsConfigured() {
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
		logger.Info("Google sign-in enabled")
	}

	logger.Info("routes ready", zap.Int("procedures", len(procedures.Names())))
	return r, nil
}
