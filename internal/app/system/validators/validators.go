// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/orkestra-ventures/orkestra/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	for _, c := range schemas() {
		ensure(c.name, c.schema)
	}

	// Support collections without validators; they still get created up front.
	for _, name := range []string{"counters", "sessions", "oauth_states", "audit_events"} {
		ensure(name, nil)
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

type collectionSchema struct {
	name   string
	schema bson.M
}

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	date     = bson.M{"bsonType": "date"}
	number   = bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0}
	dayStr   = bson.M{"bsonType": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
)

func enum(values []string) bson.M {
	a := make(bson.A, 0, len(values))
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

// record builds the schema shared by every integer-keyed record: a numeric
// _id, both timestamps and the given required fields and property rules.
func record(required []string, props bson.M) bson.M {
	req := bson.A{"_id", "created_at", "updated_at"}
	for _, r := range required {
		req = append(req, r)
	}
	p := bson.M{
		"_id":        bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
		"created_at": date,
		"updated_at": date,
	}
	for k, v := range props {
		p[k] = v
	}
	return bson.M{"$jsonSchema": bson.M{"bsonType": "object", "required": req, "properties": p}}
}

func schemas() []collectionSchema {
	return []collectionSchema{
		{"applications", record(
			[]string{"full_name", "email", "track", "career_path", "status"},
			bson.M{
				"full_name":   nonBlank,
				"email":       nonBlank,
				"track":       enum(models.Tracks),
				"career_path": enum(models.CareerPaths),
				"status":      enum(models.ApplicationStatuses),
			})},
		{"contacts", record(
			[]string{"name", "email", "message", "status"},
			bson.M{
				"name":         nonBlank,
				"email":        nonBlank,
				"message":      nonBlank,
				"inquiry_type": enum(models.InquiryTypes),
				"status":       enum(models.ContactStatuses),
			})},
		{"newsletter", record(
			[]string{"email", "email_ci", "is_active"},
			bson.M{
				"email":           nonBlank,
				"email_ci":        nonBlank,
				"is_active":       bson.M{"enum": bson.A{0, 1}},
				"unsubscribed_at": date,
			})},
		{"cohorts", record(
			[]string{"name", "track", "start_date", "status"},
			bson.M{
				"name":       nonBlank,
				"track":      enum(models.Tracks),
				"mode":       enum(models.CohortModes),
				"start_date": dayStr,
				"end_date":   dayStr,
				"capacity":   number,
				"enrolled":   number,
				"status":     enum(models.CohortStatuses),
			})},
		{"mentors", record(
			[]string{"full_name", "email", "status"},
			bson.M{
				"full_name": nonBlank,
				"email":     nonBlank,
				"track":     enum(models.MentorTracks),
				"status":    enum(models.MentorStatuses),
			})},
		{"leads", record(
			[]string{"full_name", "status"},
			bson.M{
				"full_name":       nonBlank,
				"email":           bson.M{"bsonType": "string"},
				"source":          enum(models.LeadSources),
				"estimated_value": number,
				"status":          enum(models.LeadStatuses),
			})},
		{"employees", record(
			[]string{"full_name", "email", "position", "status"},
			bson.M{
				"full_name":       nonBlank,
				"email":           nonBlank,
				"position":        nonBlank,
				"employment_type": enum(models.EmploymentTypes),
				"hire_date":       dayStr,
				"salary":          number,
				"status":          enum(models.EmployeeStatuses),
			})},
		{"attendance", record(
			[]string{"employee_id", "date", "status"},
			bson.M{
				"employee_id": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
				"date":        dayStr,
				"status":      enum(models.AttendanceStatuses),
			})},
		{"budgets", record(
			[]string{"name", "amount", "currency", "status"},
			bson.M{
				"name":     nonBlank,
				"amount":   number,
				"spent":    number,
				"currency": bson.M{"bsonType": "string", "pattern": "^[A-Z]{3}$"},
				"period":   enum(models.BudgetPeriods),
				"status":   enum(models.BudgetStatuses),
			})},
		{"expenses", record(
			[]string{"description", "amount", "currency", "expense_date", "status"},
			bson.M{
				"description":    nonBlank,
				"amount":         number,
				"currency":       bson.M{"bsonType": "string", "pattern": "^[A-Z]{3}$"},
				"expense_date":   dayStr,
				"payment_method": enum(models.PaymentMethods),
				"status":         enum(models.ExpenseStatuses),
			})},
		{"invoices", record(
			[]string{"invoice_number", "client_name", "amount", "currency", "issue_date", "due_date", "status"},
			bson.M{
				"invoice_number": nonBlank,
				"client_name":    nonBlank,
				"amount":         number,
				"tax":            number,
				"currency":       bson.M{"bsonType": "string", "pattern": "^[A-Z]{3}$"},
				"issue_date":     dayStr,
				"due_date":       dayStr,
				"status":         enum(models.InvoiceStatuses),
			})},
		{"transactions", record(
			[]string{"type", "amount", "currency", "transaction_date", "status"},
			bson.M{
				"type":             enum(models.TransactionTypes),
				"amount":           number,
				"currency":         bson.M{"bsonType": "string", "pattern": "^[A-Z]{3}$"},
				"transaction_date": dayStr,
				"status":           enum(models.TransactionStatuses),
			})},
		{"web_pages", record(
			[]string{"slug", "title", "status"},
			bson.M{
				"slug":         bson.M{"bsonType": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
				"title":        nonBlank,
				"status":       enum(models.WebPageStatuses),
				"published_at": date,
			})},
		{"admins", record(
			[]string{"full_name", "email", "email_ci", "status"},
			bson.M{
				"full_name": nonBlank,
				"email":     nonBlank,
				"email_ci":  nonBlank,
				"status":    enum(models.AdminStatuses),
			})},
	}
}
