// internal/app/store/leads/leadstore.go
package leadstore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "leads"

type Store struct {
	*entity.Collection[models.Lead]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Lead](db, Collection, entity.Options{
		SearchFields: []string{"full_name", "email", "company", "interest"},
		FilterFields: map[string]string{"source": "source"},
	})}
}

func (s *Store) Create(ctx context.Context, in models.LeadInput) (models.Lead, error) {
	l := models.Lead{
		FullName:       normalize.Name(in.FullName),
		Email:          normalize.Email(in.Email),
		Phone:          normalize.Name(in.Phone),
		Company:        normalize.Name(in.Company),
		Source:         entity.Or(in.Source, "website"),
		Interest:       in.Interest,
		EstimatedValue: in.EstimatedValue,
		Notes:          in.Notes,
		Status:         entity.Or(in.Status, "new"),
	}
	if err := s.Insert(ctx, &l); err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.LeadUpdate, ifUpdatedAt *time.Time) error {
	if up.Email != nil {
		e := normalize.Email(*up.Email)
		up.Email = &e
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}
