// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	adminstore "github.com/orkestra-ventures/orkestra/internal/app/store/admins"
	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	invoicestore "github.com/orkestra-ventures/orkestra/internal/app/store/invoices"
	"github.com/orkestra-ventures/orkestra/internal/app/store/oauthstate"
	sessionstore "github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"github.com/orkestra-ventures/orkestra/internal/app/system/tasks"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It seeds
// the first admin and starts the notification dispatcher and the session
// housekeeping jobs. Jobs that change business records run only when
// enabled in config.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	} else {
		logger.Warn("admin_email is not set; no admin is seeded")
	}

	deps.Notifier.Start()

	for _, j := range backgroundJobs(appCfg, deps.MongoDatabase, logger) {
		deps.Scheduler.Add(j)
	}
	deps.Scheduler.Start()

	return nil
}

// backgroundJobs lists the periodic jobs for this config. Session and OAuth
// state cleanup always run; the invoice job edits records admins own, so it
// is opt-in.
func backgroundJobs(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) []tasks.Job {
	jobs := []tasks.Job{
		tasks.SessionCleanupJob(sessionstore.New(db), logger, appCfg.SessionIdleTimeout),
		tasks.OAuthStateCleanupJob(oauthstate.New(db), logger),
	}
	if appCfg.InvoiceOverdueJob {
		jobs = append(jobs, tasks.InvoiceOverdueJob(invoicestore.New(db), logger))
	}
	return jobs
}

// ensureAdmin creates the configured admin when no admin has that email.
// An existing admin is left alone: its password and status are never reset
// from config.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	admins := adminstore.New(deps.MongoDatabase)

	existing, err := admins.GetByEmail(ctx, appCfg.AdminEmail)
	if err == nil {
		logger.Debug("admin already exists", zap.Int64("id", existing.ID))
		return nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return err
	}

	a, err := admins.Create(ctx, appCfg.AdminName, appCfg.AdminEmail, appCfg.AdminPassword)
	if err != nil {
		logger.Error("failed to create admin", zap.String("email", appCfg.AdminEmail), zap.Error(err))
		return err
	}
	if appCfg.AdminPassword == "" {
		logger.Info("created admin for Google sign-in only", zap.Int64("id", a.ID), zap.String("email", a.Email))
	} else {
		logger.Info("created admin", zap.Int64("id", a.ID), zap.String("email", a.Email))
	}
	return nil
}
