// internal/domain/models/application.go
package models

// Application statuses.
const (
	ApplicationPending   = "pending"
	ApplicationReviewing = "reviewing"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
)

var (
	ApplicationStatuses = []string{ApplicationPending, ApplicationReviewing, ApplicationAccepted, ApplicationRejected}
	Tracks              = []string{"technical", "business"}
	CareerPaths         = []string{"egypt", "uae", "international", "entrepreneurship"}
)

// Application is a prospective student's program application.
type Application struct {
	Meta         `bson:",inline"`
	FullName     string `bson:"full_name" json:"fullName"`
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone" json:"phone"`
	Country      string `bson:"country" json:"country"`
	City         string `bson:"city" json:"city"`
	Track        string `bson:"track" json:"track"`
	CareerPath   string `bson:"career_path" json:"careerPath"`
	Education    string `bson:"education" json:"education"`
	Experience   string `bson:"experience,omitempty" json:"experience,omitempty"`
	Motivation   string `bson:"motivation" json:"motivation"`
	Goals        string `bson:"goals" json:"goals"`
	LinkedInURL  string `bson:"linkedin_url,omitempty" json:"linkedinUrl,omitempty"`
	PortfolioURL string `bson:"portfolio_url,omitempty" json:"portfolioUrl,omitempty"`
	CohortID     *int64 `bson:"cohort_id,omitempty" json:"cohortId,omitempty"`
	Notes        string `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       string `bson:"status" json:"status"`
}

// ApplicationInput is the create payload, shared by the public form and the admin area.
type ApplicationInput struct {
	FullName     string `json:"fullName" validate:"required,max=200" label:"Full name"`
	Email        string `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone        string `json:"phone" validate:"required,max=40" label:"Phone"`
	Country      string `json:"country" validate:"required,max=100" label:"Country"`
	City         string `json:"city" validate:"required,max=100" label:"City"`
	Track        string `json:"track" validate:"required,oneof=technical business" label:"Track"`
	CareerPath   string `json:"careerPath" validate:"required,oneof=egypt uae international entrepreneurship" label:"Career path"`
	Education    string `json:"education" validate:"required,max=500" label:"Education"`
	Experience   string `json:"experience" validate:"max=2000" label:"Experience"`
	Motivation   string `json:"motivation" validate:"required,max=5000" label:"Motivation"`
	Goals        string `json:"goals" validate:"required,max=5000" label:"Goals"`
	LinkedInURL  string `json:"linkedinUrl" validate:"omitempty,httpurl,max=500" label:"LinkedIn URL"`
	PortfolioURL string `json:"portfolioUrl" validate:"omitempty,httpurl,max=500" label:"Portfolio URL"`
	CohortID     *int64 `json:"cohortId" validate:"omitempty,gt=0" label:"Cohort"`
	Notes        string `json:"notes" validate:"max=5000" label:"Notes"`
	Status       string `json:"status" validate:"omitempty,oneof=pending reviewing accepted rejected" label:"Status"`
}

// ApplicationUpdate is a partial update; nil fields are left unchanged.
type ApplicationUpdate struct {
	FullName     *string `bson:"full_name,omitempty" json:"fullName" validate:"omitempty,min=1,max=200" label:"Full name"`
	Email        *string `bson:"email,omitempty" json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Phone        *string `bson:"phone,omitempty" json:"phone" validate:"omitempty,min=1,max=40" label:"Phone"`
	Country      *string `bson:"country,omitempty" json:"country" validate:"omitempty,min=1,max=100" label:"Country"`
	City         *string `bson:"city,omitempty" json:"city" validate:"omitempty,min=1,max=100" label:"City"`
	Track        *string `bson:"track,omitempty" json:"track" validate:"omitempty,oneof=technical business" label:"Track"`
	CareerPath   *string `bson:"career_path,omitempty" json:"careerPath" validate:"omitempty,oneof=egypt uae international entrepreneurship" label:"Career path"`
	Education    *string `bson:"education,omitempty" json:"education" validate:"omitempty,min=1,max=500" label:"Education"`
	Experience   *string `bson:"experience,omitempty" json:"experience" validate:"omitempty,max=2000" label:"Experience"`
	Motivation   *string `bson:"motivation,omitempty" json:"motivation" validate:"omitempty,min=1,max=5000" label:"Motivation"`
	Goals        *string `bson:"goals,omitempty" json:"goals" validate:"omitempty,min=1,max=5000" label:"Goals"`
	LinkedInURL  *string `bson:"linkedin_url,omitempty" json:"linkedinUrl" validate:"omitempty,httpurl,max=500" label:"LinkedIn URL"`
	PortfolioURL *string `bson:"portfolio_url,omitempty" json:"portfolioUrl" validate:"omitempty,httpurl,max=500" label:"Portfolio URL"`
	CohortID     *int64  `bson:"cohort_id,omitempty" json:"cohortId" validate:"omitempty,gt=0" label:"Cohort"`
	Notes        *string `bson:"notes,omitempty" json:"notes" validate:"omitempty,max=5000" label:"Notes"`
	Status       *string `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=pending reviewing accepted rejected" label:"Status"`
}
