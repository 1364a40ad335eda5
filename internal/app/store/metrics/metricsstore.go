// internal/app/store/metrics/metricsstore.go
package metricsstore

import (
	"context"

	applicationstore "github.com/orkestra-ventures/orkestra/internal/app/store/applications"
	contactstore "github.com/orkestra-ventures/orkestra/internal/app/store/contacts"
	newsletterstore "github.com/orkestra-ventures/orkestra/internal/app/store/newsletter"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Applications        int64
	PendingApplications int64
	Contacts            int64
	NewContacts         int64
	// Newsletter counts active subscribers only.
	Newsletter int64
}

// FetchDashboardCounts returns the dashboard totals. The first failing count
// aborts the fetch.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) (Counts, error) {
	var out Counts

	counts := []struct {
		coll   string
		filter bson.M
		dst    *int64
	}{
		{applicationstore.Collection, bson.M{}, &out.Applications},
		{applicationstore.Collection, bson.M{"status": models.ApplicationPending}, &out.PendingApplications},
		{contactstore.Collection, bson.M{}, &out.Contacts},
		{contactstore.Collection, bson.M{"status": models.ContactNew}, &out.NewContacts},
		{newsletterstore.Collection, bson.M{"is_active": 1}, &out.Newsletter},
	}
	for _, c := range counts {
		n, err := db.Collection(c.coll).CountDocuments(ctx, c.filter)
		if err != nil {
			return Counts{}, err
		}
		*c.dst = n
	}
	return out, nil
}
