package oauthstate_test

import (
	"testing"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/oauthstate"
	"github.com/orkestra-ventures/orkestra/internal/testutil"
)

func TestStore_SaveAndConsume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "state-1", "verifier-1", "/admin", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	st, ok, err := store.Consume(ctx, "state-1")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !ok {
		t.Fatal("expected state to be valid")
	}
	if st.Verifier != "verifier-1" {
		t.Errorf("Verifier: got %q, want %q", st.Verifier, "verifier-1")
	}
	if st.ReturnURL != "/admin" {
		t.Errorf("ReturnURL: got %q, want %q", st.ReturnURL, "/admin")
	}
}

func TestStore_Consume_EmptyReturnURL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "state-2", "v", "", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	st, ok, err := store.Consume(ctx, "state-2")
	if err != nil || !ok {
		t.Fatalf("Consume: ok=%v err=%v", ok, err)
	}
	if st.ReturnURL != "" {
		t.Errorf("expected empty ReturnURL, got %q", st.ReturnURL)
	}
}

func TestStore_Consume_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, ok, err := store.Consume(ctx, "nope")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if ok {
		t.Error("expected unknown state to be invalid")
	}
}

func TestStore_Consume_SingleUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "once", "v", "/", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, _ := store.Consume(ctx, "once"); !ok {
		t.Fatal("first Consume should succeed")
	}
	if _, ok, _ := store.Consume(ctx, "once"); ok {
		t.Error("second Consume should fail")
	}
}

func TestStore_Consume_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "old", "v", "/", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, _ := store.Consume(ctx, "old"); ok {
		t.Error("expired state should be invalid")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Save(ctx, "expired-1", "v", "", time.Now().Add(-time.Hour))
	_ = store.Save(ctx, "expired-2", "v", "", time.Now().Add(-time.Minute))
	_ = store.Save(ctx, "live", "v", "", time.Now().Add(time.Hour))

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	// The TTL monitor may have removed some already.
	if n > 2 {
		t.Errorf("deleted: got %d, want at most 2", n)
	}
	if _, ok, _ := store.Consume(ctx, "live"); !ok {
		t.Error("live state should survive cleanup")
	}
}

func TestStore_Save_DuplicateState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	exp := time.Now().Add(10 * time.Minute)
	if err := store.Save(ctx, "dup", "v1", "", exp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "dup", "v2", "", exp); err == nil {
		t.Error("expected duplicate state to fail")
	}
}
