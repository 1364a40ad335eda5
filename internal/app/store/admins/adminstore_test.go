package adminstore_test

import (
	"errors"
	"testing"

	adminstore "github.com/orkestra-ventures/orkestra/internal/app/store/admins"
	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/authutil"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"github.com/orkestra-ventures/orkestra/internal/testutil"
)

const pw = "Orkestra!2026"

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, "  Sara Ali ", "Sara@Orkestra.io", pw)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.ID != 1 {
		t.Errorf("ID: got %d, want 1", a.ID)
	}
	if a.FullName != "Sara Ali" {
		t.Errorf("FullName: got %q, want %q", a.FullName, "Sara Ali")
	}
	if a.EmailCI != "sara@orkestra.io" {
		t.Errorf("EmailCI: got %q", a.EmailCI)
	}
	if a.Status != models.AdminActive {
		t.Errorf("Status: got %q, want %q", a.Status, models.AdminActive)
	}
	if a.PasswordHash == "" || a.PasswordHash == pw {
		t.Error("expected a bcrypt hash to be stored")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "A", "a@orkestra.io", pw); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, "B", "A@ORKESTRA.IO", pw)
	if !errors.Is(err, adminstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if !errors.Is(err, entity.ErrDuplicate) {
		t.Error("ErrDuplicateEmail should wrap entity.ErrDuplicate")
	}
}

func TestStore_Create_WeakPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, "A", "a@orkestra.io", "abc")
	if !errors.Is(err, authutil.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestStore_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "Sara", "sara@orkestra.io", pw)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Authenticate(ctx, " SARA@orkestra.io", pw)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID: got %d, want %d", got.ID, created.ID)
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "sara@orkestra.io", "not-it-at-all"},
		{"unknown email", "nobody@orkestra.io", pw},
		{"empty password", "sara@orkestra.io", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Authenticate(ctx, tc.email, tc.password)
			if !errors.Is(err, adminstore.ErrInvalidCredentials) {
				t.Errorf("got %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestStore_Authenticate_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, "Sara", "sara@orkestra.io", pw)
	if err := store.SetStatus(ctx, a.ID, models.AdminDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if _, err := store.Authenticate(ctx, "sara@orkestra.io", pw); !errors.Is(err, adminstore.ErrInvalidCredentials) {
		t.Errorf("disabled admin: got %v, want ErrInvalidCredentials", err)
	}
	if err := store.SetStatus(ctx, a.ID, "banned"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStore_SetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, "Sara", "sara@orkestra.io", pw)
	if err := store.SetPassword(ctx, a.ID, "Another#Pass9"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if _, err := store.Authenticate(ctx, "sara@orkestra.io", pw); err == nil {
		t.Error("old password should no longer work")
	}
	if _, err := store.Authenticate(ctx, "sara@orkestra.io", "Another#Pass9"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestStore_GoogleLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, "Sara", "sara@orkestra.io", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Authenticate(ctx, "sara@orkestra.io", ""); err == nil {
		t.Error("google-only account must not accept an empty password")
	}

	if _, err := store.GetByGoogleID(ctx, "g-123"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("before link: got %v, want ErrNotFound", err)
	}
	if err := store.LinkGoogle(ctx, a.ID, "g-123"); err != nil {
		t.Fatalf("LinkGoogle failed: %v", err)
	}
	got, err := store.GetByGoogleID(ctx, "g-123")
	if err != nil {
		t.Fatalf("GetByGoogleID failed: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("ID: got %d, want %d", got.ID, a.ID)
	}

	// Two admins without a Google link must not collide on the sparse index.
	if _, err := store.Create(ctx, "Omar", "omar@orkestra.io", ""); err != nil {
		t.Errorf("second google-less admin: %v", err)
	}
}

func TestStore_TouchLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, "Sara", "sara@orkestra.io", pw)
	if err := store.TouchLogin(ctx, a.ID); err != nil {
		t.Fatalf("TouchLogin failed: %v", err)
	}
	got, _ := store.Get(ctx, a.ID)
	if got.LastLoginAt == nil {
		t.Error("expected LastLoginAt to be set")
	}
	if !got.UpdatedAt.After(a.UpdatedAt) {
		t.Error("expected UpdatedAt to move forward")
	}
}
