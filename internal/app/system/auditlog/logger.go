// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/orkestra-ventures/orkestra/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config selects where each category of audit event goes.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off".
type Config struct {
	// Auth covers sign-in, sign-out and password events.
	Auth string
	// Admin covers back-office record changes and exports.
	Admin string
	// Public covers anonymous form submissions and newsletter changes.
	Public string
}

// Logger writes audit events to MongoDB and/or zap depending on Config.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP returns the RemoteAddr host. Behind a trusted proxy chi's
// RealIP middleware has already put the client address there.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.Int64("actor_id", *event.ActorID))
	}
	if event.Resource != "" {
		fields = append(fields, zap.String("resource", event.Resource))
	}
	if event.RecordID != nil {
		fields = append(fields, zap.Int64("record_id", *event.RecordID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to its category setting. A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryPublic:
		setting = l.config.Public
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful admin sign-in. method is "password" or "google".
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, adminID int64, method string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.ActorID = &adminID
	e.Details = map[string]string{"method": method}
	l.Log(ctx, e)
}

// LoginFailed logs a rejected email/password attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedCredentials, false)
	e.FailureReason = "invalid credentials"
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// LoginRateLimited logs an attempt refused by the login limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit, false)
	e.FailureReason = "rate limited"
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// GoogleLoginFailed logs a rejected Google sign-in.
func (l *Logger) GoogleLoginFailed(ctx context.Context, r *http.Request, reason string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedGoogle, false)
	e.FailureReason = reason
	l.Log(ctx, e)
}

// Logout logs an explicit sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, adminID int64) {
	e := base(r, audit.CategoryAuth, audit.EventLogout, true)
	e.ActorID = &adminID
	l.Log(ctx, e)
}

// SessionsRevoked logs an admin closing all of their sessions.
func (l *Logger) SessionsRevoked(ctx context.Context, r *http.Request, adminID int64, count int64) {
	e := base(r, audit.CategoryAuth, audit.EventSessionRevoked, true)
	e.ActorID = &adminID
	e.Details = map[string]string{"count": strconv.FormatInt(count, 10)}
	l.Log(ctx, e)
}

// PasswordChanged logs a password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, adminID int64) {
	e := base(r, audit.CategoryAuth, audit.EventPasswordChanged, true)
	e.ActorID = &adminID
	l.Log(ctx, e)
}

// --- Admin Events ---

func (l *Logger) record(ctx context.Context, r *http.Request, eventType string, actorID int64, resource string, id int64, details map[string]string) {
	e := base(r, audit.CategoryAdmin, eventType, true)
	e.ActorID = &actorID
	e.Resource = resource
	e.RecordID = &id
	e.Details = details
	l.Log(ctx, e)
}

func (l *Logger) RecordCreated(ctx context.Context, r *http.Request, actorID int64, resource string, id int64) {
	l.record(ctx, r, audit.EventRecordCreated, actorID, resource, id, nil)
}

// RecordUpdated lists the wire names of the fields that were sent.
func (l *Logger) RecordUpdated(ctx context.Context, r *http.Request, actorID int64, resource string, id int64, fields []string) {
	l.record(ctx, r, audit.EventRecordUpdated, actorID, resource, id,
		map[string]string{"fields": strings.Join(fields, ",")})
}

func (l *Logger) RecordStatusChanged(ctx context.Context, r *http.Request, actorID int64, resource string, id int64, status string) {
	l.record(ctx, r, audit.EventRecordStatusChanged, actorID, resource, id,
		map[string]string{"status": status})
}

func (l *Logger) RecordDeleted(ctx context.Context, r *http.Request, actorID int64, resource string, id int64) {
	l.record(ctx, r, audit.EventRecordDeleted, actorID, resource, id, nil)
}

// RecordsExported logs a bulk download.
func (l *Logger) RecordsExported(ctx context.Context, r *http.Request, actorID int64, resource, format string, count int) {
	e := base(r, audit.CategoryAdmin, audit.EventRecordsExported, true)
	e.ActorID = &actorID
	e.Resource = resource
	e.Details = map[string]string{"format": format, "count": strconv.Itoa(count)}
	l.Log(ctx, e)
}

// --- Public Events ---

// FormSubmitted logs an anonymous application, contact or mentor submission.
func (l *Logger) FormSubmitted(ctx context.Context, r *http.Request, resource string, id int64) {
	e := base(r, audit.CategoryPublic, audit.EventFormSubmitted, true)
	e.Resource = resource
	e.RecordID = &id
	l.Log(ctx, e)
}

func (l *Logger) Subscribed(ctx context.Context, r *http.Request, id int64) {
	e := base(r, audit.CategoryPublic, audit.EventSubscribed, true)
	e.Resource = "newsletter"
	e.RecordID = &id
	l.Log(ctx, e)
}

// Unsubscribed is logged even when the address was unknown; found says which.
func (l *Logger) Unsubscribed(ctx context.Context, r *http.Request, found bool) {
	e := base(r, audit.CategoryPublic, audit.EventUnsubscribed, true)
	e.Resource = "newsletter"
	e.Details = map[string]string{"found": strconv.FormatBool(found)}
	l.Log(ctx, e)
}
