package expensestore_test

import (
	"testing"

	expensestore "github.com/orkestra-ventures/orkestra/internal/app/store/expenses"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"github.com/orkestra-ventures/orkestra/internal/testutil"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := expensestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	budget := int64(7)
	e, err := store.Create(ctx, models.ExpenseInput{
		Description: "Venue deposit",
		Category:    " Events ",
		Amount:      4500,
		ExpenseDate: "2026-02-10",
		Vendor:      " Hall Co ",
		BudgetID:    &budget,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if e.Category != "Events" || e.Vendor != "Hall Co" {
		t.Errorf("trim: category=%q vendor=%q", e.Category, e.Vendor)
	}
	if e.Currency != models.DefaultCurrency {
		t.Errorf("Currency: got %q, want %q", e.Currency, models.DefaultCurrency)
	}
	if e.Status != "pending" {
		t.Errorf("Status: got %q, want pending", e.Status)
	}

	got, _ := store.Get(ctx, e.ID)
	if got.BudgetID == nil || *got.BudgetID != 7 {
		t.Errorf("BudgetID: got %v, want 7", got.BudgetID)
	}
}

func TestStore_Update_NormalizesCurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := expensestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e, _ := store.Create(ctx, models.ExpenseInput{Description: "x", Category: "c", Amount: 1, ExpenseDate: "2026-01-01"})
	c := " gbp"
	if err := store.Update(ctx, e.ID, models.ExpenseUpdate{Currency: &c}, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := store.Get(ctx, e.ID)
	if got.Currency != "GBP" {
		t.Errorf("Currency: got %q, want GBP", got.Currency)
	}
}
