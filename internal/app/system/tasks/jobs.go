// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/oauthstate"
	"github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"go.uber.org/zap"
)

// SessionSweeper is the part of the sessions store the cleanup job needs.
type SessionSweeper interface {
	CloseExpired(ctx context.Context) (int64, error)
	CloseInactive(ctx context.Context, threshold time.Duration) (int64, error)
}

// OverdueMarker flags unpaid invoices whose due date has passed.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

var _ SessionSweeper = (*sessions.Store)(nil)

// SessionCleanupJob closes expired sessions and, when threshold > 0, sessions
// inactive for longer than threshold. Closed sessions stay for audit.
func SessionCleanupJob(sessStore SessionSweeper, logger *zap.Logger, threshold time.Duration) Job {
	return Job{
		Name:     "session-cleanup",
		Interval: 1 * time.Minute,
		Run: func(ctx context.Context) error {
			expired, err := sessStore.CloseExpired(ctx)
			if err != nil {
				return err
			}
			var inactive int64
			if threshold > 0 {
				if inactive, err = sessStore.CloseInactive(ctx, threshold); err != nil {
					return err
				}
			}
			if expired+inactive > 0 {
				logger.Info("closed sessions",
					zap.Int64("expired", expired),
					zap.Int64("inactive", inactive),
					zap.Duration("threshold", threshold))
			}
			return nil
		},
	}
}

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func OAuthStateCleanupJob(stateStore *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := stateStore.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired OAuth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// InvoiceOverdueJob moves sent invoices past their due date to overdue.
func InvoiceOverdueJob(invoices OverdueMarker, logger *zap.Logger) Job {
	return Job{
		Name:       "invoice-overdue",
		Interval:   1 * time.Hour,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			count, err := invoices.MarkOverdue(ctx, time.Now().UTC())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("marked invoices overdue", zap.Int64("count", count))
			}
			return nil
		},
	}
}
