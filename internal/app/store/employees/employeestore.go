// internal/app/store/employees/employeestore.go
package employeestore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "employees"

type Store struct {
	*entity.Collection[models.Employee]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Employee](db, Collection, entity.Options{
		SearchFields: []string{"full_name", "email", "position", "department"},
		FilterFields: map[string]string{
			"department":     "department",
			"employmentType": "employment_type",
		},
	})}
}

func (s *Store) Create(ctx context.Context, in models.EmployeeInput) (models.Employee, error) {
	e := models.Employee{
		FullName:       normalize.Name(in.FullName),
		Email:          normalize.Email(in.Email),
		Phone:          normalize.Name(in.Phone),
		Position:       normalize.Name(in.Position),
		Department:     normalize.Name(in.Department),
		EmploymentType: entity.Or(in.EmploymentType, "full_time"),
		HireDate:       in.HireDate,
		Salary:         in.Salary,
		Status:         entity.Or(in.Status, "active"),
	}
	if err := s.Insert(ctx, &e); err != nil {
		return models.Employee{}, err
	}
	return e, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.EmployeeUpdate, ifUpdatedAt *time.Time) error {
	if up.Email != nil {
		e := normalize.Email(*up.Email)
		up.Email = &e
	}
	return s.Patch(ctx, id, up, ifUpdatedAt)
}
