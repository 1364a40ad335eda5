// internal/app/store/expenses/expensestore.go
package expensestore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "expenses"

type Store struct {
	*entity.Collection[models.Expense]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Expense](db, Collection, entity.Options{
		SearchFields: []string{"description", "category", "vendor"},
		FilterFields: map[string]string{
			"category":      "category",
			"budgetId":      "budget_id",
			"paymentMethod": "payment_method",
		},
	})}
}

func (s *Store) Create(ctx context.Context, in models.ExpenseInput) (models.Expense, error) {
	e := models.Expense{
		Description:   in.Description,
		Category:      normalize.Name(in.Category),
		Amount:        in.Amount,
		Currency:      entity.Or(normalize.Currency(in.Currency), models.DefaultCurrency),
		ExpenseDate:   in.ExpenseDate,
		Vendor:        normalize.Name(in.Vendor),
		BudgetID:      in.BudgetID,
		PaymentMethod: in.PaymentMethod,
		ReceiptURL:    in.ReceiptURL,
		Status:        entity.Or(in.Status, "pending"),
	}
	if err := s.Insert(ctx, &e); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.ExpenseUpdate, ifUpdatedAt *time.Time) error {
	if up.Currency != nil {
		c := normalize.Currency(*up.Currency)
		up.Currency = &c
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}

