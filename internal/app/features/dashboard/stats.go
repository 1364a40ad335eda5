// internal/app/features/dashboard/stats.go
package dashboard

import (
	"context"

	metricsstore "github.com/orkestra-ventures/orkestra/internal/app/store/metrics"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.uber.org/zap"
)

type statsResult struct {
	TotalApplications   int64                `json:"totalApplications"`
	PendingApplications int64                `json:"pendingApplications"`
	TotalContacts       int64                `json:"totalContacts"`
	NewContacts         int64                `json:"newContacts"`
	TotalNewsletter     int64                `json:"totalNewsletter"`
	RecentApplications  []models.Application `json:"recentApplications"`
	RecentContacts      []models.Contact     `json:"recentContacts"`
}

func (h *Handler) stats(ctx context.Context, c *rpc.Call) (any, error) {
	counts, err := metricsstore.FetchDashboardCounts(ctx, h.DB)
	if err != nil {
		return nil, err
	}
	apps, err := h.Applications.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, err
	}
	contacts, err := h.Contacts.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, err
	}

	h.Log.Debug("admin stats served", zap.Int64("admin_id", c.ActorID()))

	return statsResult{
		TotalApplications:   counts.Applications,
		PendingApplications: counts.PendingApplications,
		TotalContacts:       counts.Contacts,
		NewContacts:         counts.NewContacts,
		TotalNewsletter:     counts.Newsletter,
		RecentApplications:  apps,
		RecentContacts:      contacts,
	}, nil
}
