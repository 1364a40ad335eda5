// internal/app/store/budgets/budgetstore.go
package budgetstore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "budgets"

type Store struct {
	*entity.Collection[models.Budget]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Budget](db, Collection, entity.Options{
		SearchFields: []string{"name", "category", "notes"},
		FilterFields: map[string]string{
			"category":   "category",
			"fiscalYear": "fiscal_year",
			"period":     "period",
		},
	})}
}

func (s *Store) Create(ctx context.Context, in models.BudgetInput) (models.Budget, error) {
	b := models.Budget{
		Name:       normalize.Name(in.Name),
		Category:   normalize.Name(in.Category),
		FiscalYear: in.FiscalYear,
		Period:     entity.Or(in.Period, "annual"),
		Amount:     in.Amount,
		Spent:      in.Spent,
		Currency:   entity.Or(normalize.Currency(in.Currency), models.DefaultCurrency),
		Notes:      in.Notes,
		Status:     entity.Or(in.Status, "draft"),
	}
	if err := s.Insert(ctx, &b); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.BudgetUpdate, ifUpdatedAt *time.Time) error {
	if up.Currency != nil {
		c := normalize.Currency(*up.Currency)
		up.Currency = &c
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}
