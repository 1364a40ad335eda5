// internal/app/store/contacts/contactstore.go
package contactstore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "contacts"

type Store struct {
	*entity.Collection[models.Contact]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Contact](db, Collection, entity.Options{
		SearchFields: []string{"name", "email", "company", "subject"},
		FilterFields: map[string]string{"inquiryType": "inquiry_type"},
	})}
}

func (s *Store) Create(ctx context.Context, in models.ContactInput) (models.Contact, error) {
	c := models.Contact{
		Name:        normalize.Name(in.Name),
		Email:       normalize.Email(in.Email),
		Phone:       normalize.Name(in.Phone),
		Company:     normalize.Name(in.Company),
		Subject:     normalize.Name(in.Subject),
		Message:     in.Message,
		InquiryType: entity.Or(in.InquiryType, "general"),
		Status:      entity.Or(in.Status, models.ContactNew),
	}
	if err := s.Insert(ctx, &c); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.ContactUpdate, ifUpdatedAt *time.Time) error {
	if up.Email != nil {
		e := normalize.Email(*up.Email)
		up.Email = &e
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}
