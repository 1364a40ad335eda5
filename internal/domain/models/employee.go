// internal/domain/models/employee.go
package models

var (
	EmployeeStatuses = []string{"active", "on_leave", "terminated"}
	EmploymentTypes  = []string{"full_time", "part_time", "contract", "intern"}
)

type Employee struct {
	Meta           `bson:",inline"`
	FullName       string  `bson:"full_name" json:"fullName"`
	Email          string  `bson:"email" json:"email"`
	Phone          string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Position       string  `bson:"position" json:"position"`
	Department     string  `bson:"department" json:"department"`
	EmploymentType string  `bson:"employment_type" json:"employmentType"`
	HireDate       string  `bson:"hire_date" json:"hireDate"`
	Salary         float64 `bson:"salary" json:"salary"`
	Status         string  `bson:"status" json:"status"`
}

type EmployeeInput struct {
	FullName       string  `json:"fullName" validate:"required,max=200" label:"Full name"`
	Email          string  `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone          string  `json:"phone" validate:"max=40" label:"Phone"`
	Position       string  `json:"position" validate:"required,max=200" label:"Position"`
	Department     string  `json:"department" validate:"required,max=200" label:"Department"`
	EmploymentType string  `json:"employmentType" validate:"omitempty,oneof=full_time part_time contract intern" label:"Employment type"`
	HireDate       string  `json:"hireDate" validate:"required,datetime=2006-01-02" label:"Hire date"`
	Salary         float64 `json:"salary" validate:"gte=0" label:"Salary"`
	Status         string  `json:"status" validate:"omitempty,oneof=active on_leave terminated" label:"Status"`
}

type EmployeeUpdate struct {
	FullName       *string  `bson:"full_name,omitempty" json:"fullName" validate:"omitempty,min=1,max=200" label:"Full name"`
	Email          *string  `bson:"email,omitempty" json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Phone          *string  `bson:"phone,omitempty" json:"phone" validate:"omitempty,max=40" label:"Phone"`
	Position       *string  `bson:"position,omitempty" json:"position" validate:"omitempty,min=1,max=200" label:"Position"`
	Department     *string  `bson:"department,omitempty" json:"department" validate:"omitempty,min=1,max=200" label:"Department"`
	EmploymentType *string  `bson:"employment_type,omitempty" json:"employmentType" validate:"omitempty,oneof=full_time part_time contract intern" label:"Employment type"`
	HireDate       *string  `bson:"hire_date,omitempty" json:"hireDate" validate:"omitempty,datetime=2006-01-02" label:"Hire date"`
	Salary         *float64 `bson:"salary,omitempty" json:"salary" validate:"omitempty,gte=0" label:"Salary"`
	Status         *string  `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=active on_leave terminated" label:"Status"`
}
