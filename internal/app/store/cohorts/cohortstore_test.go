package cohortstore_test

import (
	"errors"
	"testing"

	cohortstore "github.com/orkestra-ventures/orkestra/internal/app/store/cohorts"
	"github.com/orkestra-ventures/orkestra/internal/app/system/inputval"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"github.com/orkestra-ventures/orkestra/internal/testutil"
)

func input() models.CohortInput {
	return models.CohortInput{
		Name:      " Spring 2026 ",
		Track:     "technical",
		StartDate: "2026-03-01",
		EndDate:   "2026-06-30",
		Capacity:  30,
	}
}

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, input())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Name != "Spring 2026" {
		t.Errorf("Name: got %q", c.Name)
	}
	if c.Mode != "onsite" {
		t.Errorf("Mode: got %q, want onsite", c.Mode)
	}
	if c.Status != "planned" {
		t.Errorf("Status: got %q, want planned", c.Status)
	}
}

func TestStore_Update_EndBeforeStoredStartRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, _ := store.Create(ctx, input())

	end := "2026-02-01"
	err := store.Update(ctx, c.ID, models.CohortUpdate{EndDate: &end}, nil)
	var res inputval.Result
	if !errors.As(err, &res) {
		t.Fatalf("end only: got %v, want inputval.Result", err)
	}
	if msg := res.Fields()["endDate"]; msg != "End date must not be before Start date." {
		t.Errorf("endDate message: got %q", msg)
	}

	start := "2026-07-01"
	if err := store.Update(ctx, c.ID, models.CohortUpdate{StartDate: &start}, nil); !errors.As(err, &res) {
		t.Errorf("start only: got %v, want inputval.Result", err)
	}

	got, _ := store.Get(ctx, c.ID)
	if got.StartDate != "2026-03-01" || got.EndDate != "2026-06-30" {
		t.Errorf("dates changed: start=%q end=%q", got.StartDate, got.EndDate)
	}
}

func TestStore_Update_OtherFieldsSkipDateRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, _ := store.Create(ctx, input())
	status := "open"
	if err := store.Update(ctx, c.ID, models.CohortUpdate{Status: &status}, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	start := "2026-04-01"
	if err := store.Update(ctx, c.ID, models.CohortUpdate{StartDate: &start}, nil); err != nil {
		t.Fatalf("start within range: %v", err)
	}
	got, _ := store.Get(ctx, c.ID)
	if got.Status != "open" || got.StartDate != start {
		t.Errorf("got status=%q start=%q", got.Status, got.StartDate)
	}
}
