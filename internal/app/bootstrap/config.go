// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/go-redis/redis/v8"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Development-only secrets. ValidateConfig refuses them in prod.
const (
	devSessionKey  = "dev-only-change-me-please-0123456789ABCDEF"
	devTokenSecret = "dev-only-token-secret-change-me-0123456789"
)

var timeoutClasses = []string{"ping", "short", "medium", "long", "batch"}

// appConfigKeys defines the configuration keys for Orkestra.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ORKESTRA_MONGO_URI, ORKESTRA_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "orkestra", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: auth.DefaultSessionName, Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "token_secret", Default: devTokenSecret, Desc: "HMAC secret for admin tokens (32+ chars)"},
	{Name: "token_ttl", Default: "12h", Desc: "Admin token lifetime"},
	{Name: "session_idle_timeout", Default: "2h", Desc: "Close admin sessions idle this long (0 disables)"},
	{Name: "csrf_trusted_origins", Default: "", Desc: "Comma-separated extra origins allowed to post with the session cookie"},
	{Name: "trust_proxy", Default: false, Desc: "Take the client IP from X-Real-IP/X-Forwarded-For (only behind a proxy that sets them)"},

	{Name: "admin_email", Default: "", Desc: "Email of the first admin (created on startup if missing)"},
	{Name: "admin_password", Default: "", Desc: "Password for the first admin (blank = Google sign-in only)"},
	{Name: "admin_name", Default: "Administrator", Desc: "Display name for the first admin"},

	{Name: "owner_email", Default: "", Desc: "Where new-submission emails go"},
	{Name: "notify_webhook_url", Default: "", Desc: "Webhook for new-submission notifications (takes precedence over email)"},
	{Name: "notify_queue_size", Default: 256, Desc: "Pending notifications kept in memory"},
	{Name: "site_name", Default: "Orkestra Ventures", Desc: "Site name used in notification subjects"},

	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables email)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@orkestra.ventures", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Orkestra Ventures", Desc: "From display name"},

	{Name: "redis_url", Default: "", Desc: "Redis URL for shared rate limits (blank keeps them in memory)"},
	{Name: "rate_limit_submit", Default: 5, Desc: "Public submissions per IP per minute"},
	{Name: "rate_limit_login", Default: 10, Desc: "Login attempts per IP per minute"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public origin for links and OAuth callbacks"},

	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_public", Default: "db", Desc: "Public submission logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "invoice_overdue_job", Default: false, Desc: "Hourly job that marks unpaid invoices past due as overdue"},

	{Name: "timeout_ping", Default: "", Desc: "Health-check ping timeout (e.g. 2s)"},
	{Name: "timeout_short", Default: "", Desc: "Single-document lookup timeout"},
	{Name: "timeout_medium", Default: "", Desc: "Per-procedure timeout"},
	{Name: "timeout_long", Default: "", Desc: "Export and report timeout"},
	{Name: "timeout_batch", Default: "", Desc: "Background job timeout"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, in order of precedence:
// flags > env (ORKESTRA_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ORKESTRA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:         appValues.String("session_key"),
		SessionName:        appValues.String("session_name"),
		SessionDomain:      appValues.String("session_domain"),
		TokenSecret:        appValues.String("token_secret"),
		TokenTTL:           appValues.Duration("token_ttl", auth.DefaultTokenTTL),
		SessionIdleTimeout: appValues.Duration("session_idle_timeout", 2*time.Hour),
		CSRFTrustedOrigins: splitOrigins(appValues.String("csrf_trusted_origins")),
		TrustProxy:         appValues.Bool("trust_proxy"),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),

		OwnerEmail:       appValues.String("owner_email"),
		NotifyWebhookURL: appValues.String("notify_webhook_url"),
		NotifyQueueSize:  appValues.Int("notify_queue_size"),
		SiteName:         appValues.String("site_name"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		RedisURL:        appValues.String("redis_url"),
		RateLimitSubmit: appValues.Int("rate_limit_submit"),
		RateLimitLogin:  appValues.Int("rate_limit_login"),

		BaseURL: appValues.String("base_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditLogPublic: appValues.String("audit_log_public"),

		InvoiceOverdueJob: appValues.Bool("invoice_overdue_job"),

		Timeouts: map[string]string{},
	}
	for _, class := range timeoutClasses {
		appCfg.Timeouts[class] = appValues.String("timeout_" + class)
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}

	if len(appCfg.TokenSecret) < auth.MinSecretLength {
		return fmt.Errorf("token_secret must be at least %d characters", auth.MinSecretLength)
	}
	if coreCfg.Env == "prod" && (appCfg.SessionKey == devSessionKey || appCfg.TokenSecret == devTokenSecret) {
		return fmt.Errorf("session_key and token_secret must be changed from their development defaults in prod")
	}

	if _, err := timeouts.Parse(appCfg.Timeouts); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	for _, o := range appCfg.CSRFTrustedOrigins {
		if o == "" || strings.ContainsAny(o, "/ ") {
			return fmt.Errorf("csrf_trusted_origins entry %q must be a host or an http(s) origin", o)
		}
	}

	if appCfg.RedisURL != "" {
		if _, err := redis.ParseURL(appCfg.RedisURL); err != nil {
			return fmt.Errorf("invalid redis_url: %w", err)
		}
	}

	if appCfg.NotifyWebhookURL != "" {
		u, err := url.Parse(appCfg.NotifyWebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("notify_webhook_url must be an absolute http(s) URL")
		}
	}
	if appCfg.MailSMTPHost != "" && appCfg.OwnerEmail == "" && appCfg.NotifyWebhookURL == "" {
		logger.Warn("mail is configured but owner_email is empty; submissions will only be logged")
	}

	if appCfg.RateLimitSubmit < 1 || appCfg.RateLimitLogin < 1 {
		return fmt.Errorf("rate_limit_submit and rate_limit_login must be positive")
	}

	for _, setting := range []string{appCfg.AuditLogAuth, appCfg.AuditLogAdmin, appCfg.AuditLogPublic} {
		switch setting {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("audit log setting %q must be one of all, db, log, off", setting)
		}
	}

	return nil
}

// splitOrigins turns "https://a.example, b.example:8443" into the host[:port]
// form the CSRF check compares against.
func splitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "://") {
			if u, err := url.Parse(part); err == nil && u.Host != "" {
				part = u.Host
			}
		}
		out = append(out, part)
	}
	return out
}
