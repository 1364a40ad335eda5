// internal/domain/models/attendance.go
package models

var AttendanceStatuses = []string{"present", "absent", "late", "leave", "remote"}

// AttendanceRecord is one employee's attendance for one day.
type AttendanceRecord struct {
	Meta       `bson:",inline"`
	EmployeeID int64  `bson:"employee_id" json:"employeeId"`
	Date       string `bson:"date" json:"date"`
	CheckIn    string `bson:"check_in,omitempty" json:"checkIn,omitempty"`
	CheckOut   string `bson:"check_out,omitempty" json:"checkOut,omitempty"`
	Notes      string `bson:"notes,omitempty" json:"notes,omitempty"`
	Status     string `bson:"status" json:"status"`
}

type AttendanceInput struct {
	EmployeeID int64  `json:"employeeId" validate:"required,gt=0" label:"Employee"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02" label:"Date"`
	CheckIn    string `json:"checkIn" validate:"omitempty,datetime=15:04" label:"Check-in time"`
	CheckOut   string `json:"checkOut" validate:"omitempty,datetime=15:04" label:"Check-out time"`
	Notes      string `json:"notes" validate:"max=2000" label:"Notes"`
	Status     string `json:"status" validate:"omitempty,oneof=present absent late leave remote" label:"Status"`
}

type AttendanceUpdate struct {
	EmployeeID *int64  `bson:"employee_id,omitempty" json:"employeeId" validate:"omitempty,gt=0" label:"Employee"`
	Date       *string `bson:"date,omitempty" json:"date" validate:"omitempty,datetime=2006-01-02" label:"Date"`
	CheckIn    *string `bson:"check_in,omitempty" json:"checkIn" validate:"omitempty,datetime=15:04" label:"Check-in time"`
	CheckOut   *string `bson:"check_out,omitempty" json:"checkOut" validate:"omitempty,datetime=15:04" label:"Check-out time"`
	Notes      *string `bson:"notes,omitempty" json:"notes" validate:"omitempty,max=2000" label:"Notes"`
	Status     *string `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=present absent late leave remote" label:"Status"`
}
