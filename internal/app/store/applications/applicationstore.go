// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "applications"

type Store struct {
	*entity.Collection[models.Application]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Application](db, Collection, entity.Options{
		SearchFields: []string{"full_name", "email", "phone", "country", "city"},
		FilterFields: map[string]string{
			"track":      "track",
			"careerPath": "career_path",
			"country":    "country",
			"cohortId":   "cohort_id",
		},
	})}
}

// Create stores a new application. Status defaults to pending.
func (s *Store) Create(ctx context.Context, in models.ApplicationInput) (models.Application, error) {
	a := models.Application{
		FullName:     normalize.Name(in.FullName),
		Email:        normalize.Email(in.Email),
		Phone:        normalize.Name(in.Phone),
		Country:      normalize.Name(in.Country),
		City:         normalize.Name(in.City),
		Track:        in.Track,
		CareerPath:   in.CareerPath,
		Education:    in.Education,
		Experience:   in.Experience,
		Motivation:   in.Motivation,
		Goals:        in.Goals,
		LinkedInURL:  in.LinkedInURL,
		PortfolioURL: in.PortfolioURL,
		CohortID:     in.CohortID,
		Notes:        in.Notes,
		Status:       entity.Or(in.Status, models.ApplicationPending),
	}
	if err := s.Insert(ctx, &a); err != nil {
		return models.Application{}, err
	}
	return a, nil
}

// Update applies the non-nil fields of up.
func (s *Store) Update(ctx context.Context, id int64, up models.ApplicationUpdate, ifUpdatedAt *time.Time) error {
	if up.Email != nil {
		e := normalize.Email(*up.Email)
		up.Email = &e
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}
