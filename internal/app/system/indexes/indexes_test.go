package indexes_test

import (
	"context"
	"testing"

	"github.com/orkestra-ventures/orkestra/internal/app/system/indexes"
	"github.com/orkestra-ventures/orkestra/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// SetupTestDB already ran EnsureAll once.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("third EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expected := map[string][]string{
		"applications": {"idx_applications_created", "idx_applications_status_created", "idx_applications_email"},
		"contacts":     {"idx_contacts_created", "idx_contacts_status_created"},
		"newsletter":   {"uniq_newsletter_active_emailci", "idx_newsletter_created"},
		"cohorts":      {"idx_cohorts_created", "idx_cohorts_track_start"},
		"mentors":      {"idx_mentors_status_created"},
		"leads":        {"idx_leads_source"},
		"employees":    {"idx_employees_department"},
		"attendance":   {"idx_attendance_employee_date"},
		"budgets":      {"idx_budgets_fiscalyear_category"},
		"expenses":     {"idx_expenses_budget"},
		"invoices":     {"uniq_invoices_number", "idx_invoices_status_due"},
		"transactions": {"idx_transactions_type_date"},
		"web_pages":    {"uniq_web_pages_slug", "idx_web_pages_status_created"},
		"admins":       {"uniq_admins_emailci", "uniq_admins_googleid"},
		"sessions":     {"idx_sessions_open", "idx_sessions_admin"},
		"oauth_states": {"idx_oauth_state", "idx_oauth_ttl"},
		"audit_events": {"idx_audit_created", "idx_audit_resource_record"},
	}

	for coll, want := range expected {
		names := indexNames(t, ctx, db, coll)
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_RecreatesChangedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Replace the unique slug index with a non-unique one under another name.
	coll := db.Collection("web_pages")
	if _, err := coll.Indexes().DropOne(ctx, "uniq_web_pages_slug"); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("old_slug"),
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db, "web_pages")
	if names["old_slug"] {
		t.Error("old_slug should have been replaced")
	}
	if !names["uniq_web_pages_slug"] {
		t.Error("uniq_web_pages_slug should exist")
	}
}

func TestEnsureAll_UniqueIndexEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("web_pages").InsertOne(ctx, bson.M{"_id": int64(1), "slug": "about", "title": "About"})
	if err != nil {
		t.Fatalf("insert page failed: %v", err)
	}
	_, err = db.Collection("web_pages").InsertOne(ctx, bson.M{"_id": int64(2), "slug": "about", "title": "Different About"})
	if err == nil {
		t.Error("expected duplicate key error for unique index on web_pages.slug")
	}
}

func TestEnsureAll_NewsletterUniqueOnlyWhileActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("newsletter")
	docs := []bson.M{
		{"_id": int64(1), "email_ci": "a@example.com", "is_active": 0},
		{"_id": int64(2), "email_ci": "a@example.com", "is_active": 0},
		{"_id": int64(3), "email_ci": "a@example.com", "is_active": 1},
	}
	for _, d := range docs {
		if _, err := coll.InsertOne(ctx, d); err != nil {
			t.Fatalf("insert %v failed: %v", d["_id"], err)
		}
	}

	_, err := coll.InsertOne(ctx, bson.M{"_id": int64(4), "email_ci": "a@example.com", "is_active": 1})
	if err == nil {
		t.Error("expected duplicate key error for a second active subscription")
	}
}
