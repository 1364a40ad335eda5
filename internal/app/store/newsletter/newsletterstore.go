// internal/app/store/newsletter/newsletterstore.go
//
// Subscribers are never physically removed: Delete and Unsubscribe flip
// is_active to 0. A partial unique index on email_ci (active rows only)
// keeps at most one active subscription per address.
package newsletterstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "newsletter"

// ErrAlreadySubscribed wraps entity.ErrDuplicate.
var ErrAlreadySubscribed = fmt.Errorf("%w: this email is already subscribed to the newsletter", entity.ErrDuplicate)

type Store struct {
	*entity.Collection[models.NewsletterSubscriber]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.NewsletterSubscriber](db, Collection, entity.Options{
		SearchFields: []string{"email_ci", "name", "source"},
		FilterFields: map[string]string{"isActive": "is_active", "source": "source"},
	})}
}

// Subscribe adds an active subscription for in.Email. A previously
// unsubscribed row for the same address is reactivated rather than
// duplicated. ErrAlreadySubscribed is returned if the address is active.
func (s *Store) Subscribe(ctx context.Context, in models.NewsletterInput) (models.NewsletterSubscriber, error) {
	emailCI := normalize.Email(in.Email)

	prev, err := s.FindOne(ctx,
		bson.M{"email_ci": emailCI, "is_active": 0},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	switch {
	case err == nil:
		set := entity.Literal(bson.M{"is_active": 1})
		if name := normalize.Name(in.Name); name != "" {
			set["name"] = bson.M{"$literal": name}
		}
		if src := normalize.Name(in.Source); src != "" {
			set["source"] = bson.M{"$literal": src}
		}
		set["unsubscribed_at"] = "$$REMOVE"
		if err := s.Apply(ctx, prev.ID, set, nil); err != nil {
			return models.NewsletterSubscriber{}, alreadySubscribed(err)
		}
		return s.Get(ctx, prev.ID)
	case !errors.Is(err, entity.ErrNotFound):
		return models.NewsletterSubscriber{}, err
	}

	sub := models.NewsletterSubscriber{
		Email:    normalize.Email(in.Email),
		EmailCI:  emailCI,
		Name:     normalize.Name(in.Name),
		Source:   entity.Or(normalize.Name(in.Source), "website"),
		IsActive: 1,
	}
	if err := s.Insert(ctx, &sub); err != nil {
		return models.NewsletterSubscriber{}, alreadySubscribed(err)
	}
	return sub, nil
}

// Create is Subscribe under the generic resource name.
func (s *Store) Create(ctx context.Context, in models.NewsletterInput) (models.NewsletterSubscriber, error) {
	return s.Subscribe(ctx, in)
}

// Unsubscribe deactivates the active subscription for email.
func (s *Store) Unsubscribe(ctx context.Context, email string) error {
	sub, err := s.FindOne(ctx, bson.M{"email_ci": normalize.Email(email), "is_active": 1})
	if err != nil {
		return err
	}
	return s.Delete(ctx, sub.ID)
}

// Delete is a soft delete: the row stays with is_active=0.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.Apply(ctx, id, deactivate(), nil)
}

// Update applies the non-nil fields of up. Toggling isActive stamps or clears
// unsubscribedAt accordingly.
func (s *Store) Update(ctx context.Context, id int64, up models.NewsletterUpdate, ifUpdatedAt *time.Time) error {
	fields, err := entity.Fields(up)
	if err != nil {
		return err
	}
	set := entity.Literal(fields)
	if up.IsActive != nil {
		if *up.IsActive == 0 {
			set = merge(set, deactivate())
		} else {
			set["unsubscribed_at"] = "$$REMOVE"
		}
	}
	return alreadySubscribed(s.Apply(ctx, id, set, ifUpdatedAt))
}

// ActiveCount returns the number of active subscribers.
func (s *Store) ActiveCount(ctx context.Context) (int64, error) {
	return s.Count(ctx, bson.M{"is_active": 1})
}

func deactivate() bson.M {
	return bson.M{
		"is_active":       bson.M{"$literal": 0},
		"unsubscribed_at": bson.M{"$ifNull": bson.A{"$unsubscribed_at", entity.Now()}},
	}
}

func merge(a, b bson.M) bson.M {
	for k, v := range b {
		a[k] = v
	}
	return a
}

func alreadySubscribed(err error) error {
	if errors.Is(err, entity.ErrDuplicate) {
		return ErrAlreadySubscribed
	}
	return err
}
