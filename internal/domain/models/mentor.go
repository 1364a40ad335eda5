// internal/domain/models/mentor.go
package models

var (
	MentorStatuses = []string{"pending", "active", "inactive"}
	MentorTracks   = []string{"technical", "business", "both"}
)

type Mentor struct {
	Meta         `bson:",inline"`
	FullName     string `bson:"full_name" json:"fullName"`
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Expertise    string `bson:"expertise" json:"expertise"`
	Company      string `bson:"company,omitempty" json:"company,omitempty"`
	Title        string `bson:"title,omitempty" json:"title,omitempty"`
	Track        string `bson:"track" json:"track"`
	LinkedInURL  string `bson:"linkedin_url,omitempty" json:"linkedinUrl,omitempty"`
	Bio          string `bson:"bio,omitempty" json:"bio,omitempty"`
	Availability string `bson:"availability,omitempty" json:"availability,omitempty"`
	Status       string `bson:"status" json:"status"`
}

type MentorInput struct {
	FullName     string `json:"fullName" validate:"required,max=200" label:"Full name"`
	Email        string `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone        string `json:"phone" validate:"max=40" label:"Phone"`
	Expertise    string `json:"expertise" validate:"required,max=500" label:"Expertise"`
	Company      string `json:"company" validate:"max=200" label:"Company"`
	Title        string `json:"title" validate:"max=200" label:"Title"`
	Track        string `json:"track" validate:"omitempty,oneof=technical business both" label:"Track"`
	LinkedInURL  string `json:"linkedinUrl" validate:"omitempty,httpurl,max=500" label:"LinkedIn URL"`
	Bio          string `json:"bio" validate:"max=5000" label:"Bio"`
	Availability string `json:"availability" validate:"max=500" label:"Availability"`
	Status       string `json:"status" validate:"omitempty,oneof=pending active inactive" label:"Status"`
}

type MentorUpdate struct {
	FullName     *string `bson:"full_name,omitempty" json:"fullName" validate:"omitempty,min=1,max=200" label:"Full name"`
	Email        *string `bson:"email,omitempty" json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Phone        *string `bson:"phone,omitempty" json:"phone" validate:"omitempty,max=40" label:"Phone"`
	Expertise    *string `bson:"expertise,omitempty" json:"expertise" validate:"omitempty,min=1,max=500" label:"Expertise"`
	Company      *string `bson:"company,omitempty" json:"company" validate:"omitempty,max=200" label:"Company"`
	Title        *string `bson:"title,omitempty" json:"title" validate:"omitempty,max=200" label:"Title"`
	Track        *string `bson:"track,omitempty" json:"track" validate:"omitempty,oneof=technical business both" label:"Track"`
	LinkedInURL  *string `bson:"linkedin_url,omitempty" json:"linkedinUrl" validate:"omitempty,httpurl,max=500" label:"LinkedIn URL"`
	Bio          *string `bson:"bio,omitempty" json:"bio" validate:"omitempty,max=5000" label:"Bio"`
	Availability *string `bson:"availability,omitempty" json:"availability" validate:"omitempty,max=500" label:"Availability"`
	Status       *string `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=pending active inactive" label:"Status"`
}
