// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "attendance"

type Store struct {
	*entity.Collection[models.AttendanceRecord]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.AttendanceRecord](db, Collection, entity.Options{
		SearchFields: []string{"date", "notes"},
		FilterFields: map[string]string{"employeeId": "employee_id", "date": "date"},
	})}
}

func (s *Store) Create(ctx context.Context, in models.AttendanceInput) (models.AttendanceRecord, error) {
	a := models.AttendanceRecord{
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		Notes:      in.Notes,
		Status:     entity.Or(in.Status, "present"),
	}
	if err := s.Insert(ctx, &a); err != nil {
		return models.AttendanceRecord{}, err
	}
	return a, nil
}

func (s *Store) Update(ctx context.Context, id int64, up models.AttendanceUpdate, ifUpdatedAt *time.Time) error {
	return s.Patch(ctx, id, up, ifUpdatedAt)
}

// ForEmployee returns an employee's records, newest date first.
func (s *Store) ForEmployee(ctx context.Context, employeeID int64) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	return s.Find(ctx, bson.M{"employee_id": employeeID}, opts)
}
