// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side: ports, TLS, logging, CORS and request limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Admin session cookie and token
	SessionKey         string
	SessionName        string
	SessionDomain      string
	TokenSecret        string
	TokenTTL           time.Duration
	SessionIdleTimeout time.Duration // 0 keeps sessions open until the token expires
	CSRFTrustedOrigins []string      // host[:port] values
	TrustProxy         bool          // honor X-Real-IP / X-Forwarded-For

	// First admin, created on startup when no admin has this email
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Owner notifications for new submissions
	OwnerEmail       string
	NotifyWebhookURL string
	NotifyQueueSize  int
	SiteName         string

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Rate limiting. RedisURL is optional; without it counters are per process.
	RedisURL        string
	RateLimitSubmit int // public submissions per IP per minute
	RateLimitLogin  int // login attempts per IP per minute

	// Public origin, used for links and the Google callback
	BaseURL string

	// Google OAuth (optional)
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging: "all", "db", "log" or "off" per category
	AuditLogAuth   string
	AuditLogAdmin  string
	AuditLogPublic string

	// Optional bookkeeping job; off unless enabled
	InvoiceOverdueJob bool

	// Timeout classes ("ping", "short", "medium", "long", "batch") as duration strings
	Timeouts map[string]string
}
