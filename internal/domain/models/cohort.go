// internal/domain/models/cohort.go
package models

var (
	CohortStatuses = []string{"planned", "open", "in_progress", "completed", "cancelled"}
	CohortModes    = []string{"onsite", "online", "hybrid"}
)

// Cohort is one scheduled intake of a training track.
type Cohort struct {
	Meta        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Track       string `bson:"track" json:"track"`
	StartDate   string `bson:"start_date" json:"startDate"`
	EndDate     string `bson:"end_date" json:"endDate"`
	Capacity    int    `bson:"capacity" json:"capacity"`
	Enrolled    int    `bson:"enrolled" json:"enrolled"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
	Mode        string `bson:"mode" json:"mode"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Status      string `bson:"status" json:"status"`
}

type CohortInput struct {
	Name        string `json:"name" validate:"required,max=200" label:"Name"`
	Track       string `json:"track" validate:"required,oneof=technical business" label:"Track"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02" label:"Start date"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02,notbefore=StartDate" label:"End date"`
	Capacity    int    `json:"capacity" validate:"gte=0,lte=100000" label:"Capacity"`
	Enrolled    int    `json:"enrolled" validate:"gte=0" label:"Enrolled"`
	Location    string `json:"location" validate:"max=200" label:"Location"`
	Mode        string `json:"mode" validate:"omitempty,oneof=onsite online hybrid" label:"Mode"`
	Description string `json:"description" validate:"max=5000" label:"Description"`
	Status      string `json:"status" validate:"omitempty,oneof=planned open in_progress completed cancelled" label:"Status"`
}

type CohortUpdate struct {
	Name        *string `bson:"name,omitempty" json:"name" validate:"omitempty,min=1,max=200" label:"Name"`
	Track       *string `bson:"track,omitempty" json:"track" validate:"omitempty,oneof=technical business" label:"Track"`
	StartDate   *string `bson:"start_date,omitempty" json:"startDate" validate:"omitempty,datetime=2006-01-02" label:"Start date"`
	EndDate     *string `bson:"end_date,omitempty" json:"endDate" validate:"omitempty,datetime=2006-01-02" label:"End date"`
	Capacity    *int    `bson:"capacity,omitempty" json:"capacity" validate:"omitempty,gte=0,lte=100000" label:"Capacity"`
	Enrolled    *int    `bson:"enrolled,omitempty" json:"enrolled" validate:"omitempty,gte=0" label:"Enrolled"`
	Location    *string `bson:"location,omitempty" json:"location" validate:"omitempty,max=200" label:"Location"`
	Mode        *string `bson:"mode,omitempty" json:"mode" validate:"omitempty,oneof=onsite online hybrid" label:"Mode"`
	Description *string `bson:"description,omitempty" json:"description" validate:"omitempty,max=5000" label:"Description"`
	Status      *string `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=planned open in_progress completed cancelled" label:"Status"`
}
