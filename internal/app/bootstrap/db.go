// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-redis/redis/v8"
	"github.com/orkestra-ventures/orkestra/internal/app/system/indexes"
	"github.com/orkestra-ventures/orkestra/internal/app/system/mailer"
	"github.com/orkestra-ventures/orkestra/internal/app/system/notify"
	"github.com/orkestra-ventures/orkestra/internal/app/system/ratelimit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/tasks"
	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
	"github.com/orkestra-ventures/orkestra/internal/app/system/validators"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const webhookTimeout = 10 * time.Second

// ConnectDB opens MongoDB and the optional Redis connection and builds the
// back-end services that hang off them. Nothing here starts a goroutine;
// Startup does that once the schema is in place.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	tcfg, err := timeouts.Parse(appCfg.Timeouts)
	if err != nil {
		return DBDeps{}, err
	}
	timeouts.Configure(tcfg)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisURL != "" {
		ropts, err := redis.ParseURL(appCfg.RedisURL)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("parse redis_url: %w", err)
		}
		rc := redis.NewClient(ropts)
		if err := rc.Ping(connectCtx).Err(); err != nil {
			// Counters fail open, so a Redis outage at boot is not fatal.
			logger.Warn("Redis ping failed; rate limits will fail open until it recovers", zap.Error(err))
		} else {
			logger.Info("connected to Redis", zap.String("addr", ropts.Addr))
		}
		deps.Redis = rc
	}
	deps.Limits = ratelimit.NewBackend(deps.Redis, logger)

	deps.Mailer = mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	deps.Notifier = notify.NewDispatcher(ownerSender(appCfg, deps.Mailer, logger), logger, appCfg.NotifyQueueSize)
	deps.Scheduler = tasks.NewScheduler(logger)

	return deps, nil
}

// ownerSender picks how the owner hears about new submissions: a webhook
// when one is configured, else email when SMTP and an owner address are
// set, else the log.
func ownerSender(appCfg AppConfig, m *mailer.Mailer, logger *zap.Logger) notify.Sender {
	switch {
	case appCfg.NotifyWebhookURL != "":
		logger.Info("owner notifications via webhook")
		return notify.NewWebhookSender(appCfg.NotifyWebhookURL, webhookTimeout)
	case m.Configured() && appCfg.OwnerEmail != "":
		logger.Info("owner notifications via email", zap.String("to", appCfg.OwnerEmail))
		return notify.NewMailSender(m, appCfg.OwnerEmail, appCfg.SiteName, appCfg.BaseURL)
	default:
		logger.Info("owner notifications go to the log only")
		return notify.NewLogSender(logger)
	}
}

// EnsureSchema installs collection validators, then indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	schemaCtx, cancel := context.WithTimeout(ctx, timeouts.Batch())
	defer cancel()

	if err := validators.EnsureAll(schemaCtx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(schemaCtx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("schema ready")
	return nil
}
