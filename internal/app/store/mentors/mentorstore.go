// internal/app/store/mentors/mentorstore.go
package mentorstore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "mentors"

type Store struct {
	*entity.Collection[models.Mentor]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Mentor](db, Collection, entity.Options{
		SearchFields: []string{"full_name", "email", "expertise", "company"},
		FilterFields: map[string]string{"track": "track"},
	})}
}

func (s *Store) Create(ctx context.Context, in models.MentorInput) (models.Mentor, error) {
	m := models.Mentor{
		FullName:     normalize.Name(in.FullName),
		Email:        normalize.Email(in.Email),
		Phone:        normalize.Name(in.Phone),
		Expertise:    in.Expertise,
		Company:      normalize.Name(in.Company),
		Title:        normalize.Name(in.Title),
		Track:        entity.Or(in.Track, "both"),
		LinkedInURL:  in.LinkedInURL,
		Bio:          in.Bio,
		Availability: in.Availability,
		Status:       entity.Or(in.Status, "pending"),
	}
	if err := s.Insert(ctx, &m); err != nil {
		return models.Mentor{}, err
	}
	return m, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.MentorUpdate, ifUpdatedAt *time.Time) error {
	if up.Email != nil {
		e := normalize.Email(*up.Email)
		up.Email = &e
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}
