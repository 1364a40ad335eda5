// internal/domain/models/contact.go
package models

// Contact statuses.
const (
	ContactNew        = "new"
	ContactInProgress = "in_progress"
	ContactResolved   = "resolved"
)

var (
	ContactStatuses = []string{ContactNew, ContactInProgress, ContactResolved}
	InquiryTypes    = []string{"general", "admissions", "partnership", "media", "other"}
)

// Contact is a message left through the public contact form.
type Contact struct {
	Meta        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email" json:"email"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	Company     string `bson:"company,omitempty" json:"company,omitempty"`
	Subject     string `bson:"subject" json:"subject"`
	Message     string `bson:"message" json:"message"`
	InquiryType string `bson:"inquiry_type" json:"inquiryType"`
	Status      string `bson:"status" json:"status"`
}

type ContactInput struct {
	Name        string `json:"name" validate:"required,max=200" label:"Name"`
	Email       string `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone       string `json:"phone" validate:"max=40" label:"Phone"`
	Company     string `json:"company" validate:"max=200" label:"Company"`
	Subject     string `json:"subject" validate:"required,max=300" label:"Subject"`
	Message     string `json:"message" validate:"required,max=10000" label:"Message"`
	InquiryType string `json:"inquiryType" validate:"omitempty,oneof=general admissions partnership media other" label:"Inquiry type"`
	Status      string `json:"status" validate:"omitempty,oneof=new in_progress resolved" label:"Status"`
}

type ContactUpdate struct {
	Name        *string `bson:"name,omitempty" json:"name" validate:"omitempty,min=1,max=200" label:"Name"`
	Email       *string `bson:"email,omitempty" json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Phone       *string `bson:"phone,omitempty" json:"phone" validate:"omitempty,max=40" label:"Phone"`
	Company     *string `bson:"company,omitempty" json:"company" validate:"omitempty,max=200" label:"Company"`
	Subject     *string `bson:"subject,omitempty" json:"subject" validate:"omitempty,min=1,max=300" label:"Subject"`
	Message     *string `bson:"message,omitempty" json:"message" validate:"omitempty,min=1,max=10000" label:"Message"`
	InquiryType *string `bson:"inquiry_type,omitempty" json:"inquiryType" validate:"omitempty,oneof=general admissions partnership media other" label:"Inquiry type"`
	Status      *string `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=new in_progress resolved" label:"Status"`
}
