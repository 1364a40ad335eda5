package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	adminstore "github.com/orkestra-ventures/orkestra/internal/app/store/admins"
	applicationstore "github.com/orkestra-ventures/orkestra/internal/app/store/applications"
	contactstore "github.com/orkestra-ventures/orkestra/internal/app/store/contacts"
	webpagestore "github.com/orkestra-ventures/orkestra/internal/app/store/webpages"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestPassword satisfies the password rules and is used by CreateAdmin.
const TestPassword = "Corr3ct-Horse-Battery"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAdmin creates an active admin whose password is TestPassword.
func (f *Fixtures) CreateAdmin(ctx context.Context, email string) models.Admin {
	f.t.Helper()
	a, err := adminstore.New(f.db).Create(ctx, "Test Admin", email, TestPassword)
	if err != nil {
		f.t.Fatalf("create admin: %v", err)
	}
	return a
}

// ApplicationInput returns a create payload that passes validation.
func ApplicationInput(email string) models.ApplicationInput {
	return models.ApplicationInput{
		FullName:   "Nour Hassan",
		Email:      email,
		Phone:      "+20 100 000 0000",
		Country:    "Egypt",
		City:       "Cairo",
		Track:      "technical",
		CareerPath: "egypt",
		Education:  "BSc Computer Science",
		Motivation: "I want to build AI products.",
		Goals:      "Ship a production model.",
	}
}

// CreateApplication stores a valid application for email.
func (f *Fixtures) CreateApplication(ctx context.Context, email string) models.Application {
	f.t.Helper()
	a, err := applicationstore.New(f.db).Create(ctx, ApplicationInput(email))
	if err != nil {
		f.t.Fatalf("create application: %v", err)
	}
	return a
}

// ContactInput returns a create payload that passes validation.
func ContactInput(email string) models.ContactInput {
	return models.ContactInput{
		Name:    "Omar Said",
		Email:   email,
		Subject: "Partnership",
		Message: "We would like to sponsor a cohort.",
	}
}

// CreateContact stores a valid contact message for email.
func (f *Fixtures) CreateContact(ctx context.Context, email string) models.Contact {
	f.t.Helper()
	c, err := contactstore.New(f.db).Create(ctx, ContactInput(email))
	if err != nil {
		f.t.Fatalf("create contact: %v", err)
	}
	return c
}

// CreateWebPage stores a page with the given slug and status.
func (f *Fixtures) CreateWebPage(ctx context.Context, slug, status string) models.WebPage {
	f.t.Helper()
	p, err := webpagestore.New(f.db).Create(ctx, models.WebPageInput{
		Slug:    slug,
		Title:   "Page " + slug,
		Content: "<p>Hello</p>",
		Status:  status,
	})
	if err != nil {
		f.t.Fatalf("create web page: %v", err)
	}
	return p
}
