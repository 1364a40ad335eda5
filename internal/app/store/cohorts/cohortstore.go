// internal/app/store/cohorts/cohortstore.go
package cohortstore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "cohorts"

type Store struct {
	*entity.Collection[models.Cohort]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Cohort](db, Collection, entity.Options{
		SearchFields: []string{"name", "location", "description"},
		FilterFields: map[string]string{"track": "track", "mode": "mode"},
	})}
}

func (s *Store) Create(ctx context.Context, in models.CohortInput) (models.Cohort, error) {
	c := models.Cohort{
		Name:        normalize.Name(in.Name),
		Track:       in.Track,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Capacity:    in.Capacity,
		Enrolled:    in.Enrolled,
		Location:    normalize.Name(in.Location),
		Mode:        entity.Or(in.Mode, "onsite"),
		Description: in.Description,
		Status:      entity.Or(in.Status, "planned"),
	}
	if err := s.Insert(ctx, &c); err != nil {
		return models.Cohort{}, err
	}
	return c, nil
}

// Update rejects a change that would leave the end date before the start
// date, comparing against the stored value of whichever date is not sent.
func (s *Store) Update(ctx context.Context, id int64, up models.CohortUpdate, ifUpdatedAt *time.Time) error {
	return s.PatchOrdered(ctx, id, up, ifUpdatedAt, entity.DateOrder{
		Start:   "start_date",
		End:     "end_date",
		Field:   "endDate",
		Message: "End date must not be before Start date.",
	})
}
