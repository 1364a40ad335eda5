// internal/app/store/transactions/transactionstore.go
package transactionstore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "transactions"

type Store struct {
	*entity.Collection[models.Transaction]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Transaction](db, Collection, entity.Options{
		SearchFields: []string{"description", "category", "reference", "account"},
		FilterFields: map[string]string{
			"type":      "type",
			"category":  "category",
			"account":   "account",
			"invoiceId": "invoice_id",
			"expenseId": "expense_id",
		},
	})}
}

// Create stores a transaction. Status defaults to completed.
func (s *Store) Create(ctx context.Context, in models.TransactionInput) (models.Transaction, error) {
	t := models.Transaction{
		Type:            in.Type,
		Amount:          in.Amount,
		Currency:        entity.Or(normalize.Currency(in.Currency), models.DefaultCurrency),
		TransactionDate: in.TransactionDate,
		Category:        normalize.Name(in.Category),
		Description:     in.Description,
		Reference:       normalize.Name(in.Reference),
		Account:         normalize.Name(in.Account),
		InvoiceID:       in.InvoiceID,
		ExpenseID:       in.ExpenseID,
		Status:          entity.Or(in.Status, "completed"),
	}
	if err := s.Insert(ctx, &t); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.TransactionUpdate, ifUpdatedAt *time.Time) error {
	if up.Currency != nil {
		c := normalize.Currency(*up.Currency)
		up.Currency = &c
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}
