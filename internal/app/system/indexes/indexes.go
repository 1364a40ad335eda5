// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's index set is reconciled
idempotently. Errors are aggregated so every problem is visible and startup
can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range sets() {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

// listIndexes are the two orderings every resource collection is read in:
// newest-first pages and status-filtered pages.
func listIndexes(prefix string) []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_" + prefix + "_created"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_" + prefix + "_status_created"),
		},
	}
}

func with(base []mongo.IndexModel, extra ...mongo.IndexModel) []mongo.IndexModel {
	return append(base, extra...)
}

func idx(name string, keys ...string) mongo.IndexModel {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: d, Options: options.Index().SetName(name)}
}

func sets() []indexSet {
	return []indexSet{
		{"applications", with(listIndexes("applications"),
			idx("idx_applications_email", "email"),
			idx("idx_applications_track_careerpath", "track", "career_path"),
		)},
		{"contacts", with(listIndexes("contacts"),
			idx("idx_contacts_email", "email"),
		)},
		{"newsletter", []mongo.IndexModel{
			// At most one active subscription per address; inactive rows are history.
			{
				Keys: bson.D{{Key: "email_ci", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"is_active": 1}).
					SetName("uniq_newsletter_active_emailci"),
			},
			{
				Keys:    bson.D{{Key: "email_ci", Value: 1}, {Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_newsletter_emailci_active"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_newsletter_created"),
			},
		}},
		{"cohorts", with(listIndexes("cohorts"),
			idx("idx_cohorts_track_start", "track", "start_date"),
		)},
		{"mentors", with(listIndexes("mentors"),
			idx("idx_mentors_email", "email"),
		)},
		{"leads", with(listIndexes("leads"),
			idx("idx_leads_source", "source"),
		)},
		{"employees", with(listIndexes("employees"),
			idx("idx_employees_email", "email"),
			idx("idx_employees_department", "department"),
		)},
		{"attendance", with(listIndexes("attendance"),
			mongo.IndexModel{
				Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: -1}},
				Options: options.Index().SetName("idx_attendance_employee_date"),
			},
		)},
		{"budgets", with(listIndexes("budgets"),
			idx("idx_budgets_fiscalyear_category", "fiscal_year", "category"),
		)},
		{"expenses", with(listIndexes("expenses"),
			idx("idx_expenses_budget", "budget_id"),
			idx("idx_expenses_category", "category"),
		)},
		{"invoices", with(listIndexes("invoices"),
			mongo.IndexModel{
				Keys:    bson.D{{Key: "invoice_number", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_invoices_number"),
			},
			idx("idx_invoices_status_due", "status", "due_date"),
		)},
		{"transactions", with(listIndexes("transactions"),
			idx("idx_transactions_type_date", "type", "transaction_date"),
			idx("idx_transactions_invoice", "invoice_id"),
			idx("idx_transactions_expense", "expense_id"),
		)},
		{"web_pages", with(listIndexes("web_pages"),
			mongo.IndexModel{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_web_pages_slug"),
			},
		)},
		{"admins", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_admins_emailci"),
			},
			{
				Keys: bson.D{{Key: "google_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"google_id": bson.M{"$type": "string"}}).
					SetName("uniq_admins_googleid"),
			},
		}},
		{"sessions", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "logout_at", Value: 1}, {Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("idx_sessions_open"),
			},
			{
				Keys:    bson.D{{Key: "admin_id", Value: 1}, {Key: "login_at", Value: -1}},
				Options: options.Index().SetName("idx_sessions_admin"),
			},
		}},
		{"oauth_states", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "state", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("idx_oauth_state"),
			},
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_ttl"),
			},
		}},
		{"audit_events", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_audit_created"),
			},
			{
				Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_audit_actor_created"),
			},
			{
				Keys:    bson.D{{Key: "resource", Value: 1}, {Key: "record_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_audit_resource_record"),
			},
			{
				Keys:    bson.D{{Key: "event_type", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_audit_event_created"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Unique  *bool  `bson:"unique,omitempty"`
	Partial bson.M `bson:"partialFilterExpression,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func partialSig(v any) string {
	if v == nil {
		return ""
	}
	raw, err := bson.MarshalExtJSON(v, false, false)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // key sig -> index
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(ix.Key)] = ix
	}
	return existing, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A missing collection lists as empty on modern servers; anything else is real.
		existing = map[string]existingIndex{}
	}

	for _, m := range models {
		var name string
		var unique *bool
		var partial any
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
			partial = m.Options.PartialFilterExpression
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			same := isUnique(unique) == isUnique(ex.Unique) &&
				partialSig(partial) == partialSig(ex.Partial) &&
				(name == "" || name == ex.Name)
			if same {
				continue
			}
			// Options or name differ: drop and recreate.
			zap.L().Info("recreating index",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.String("keys", sig))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if wafflemongo.IsDup(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
