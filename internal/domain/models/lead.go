// internal/domain/models/lead.go
package models

var (
	LeadStatuses = []string{"new", "contacted", "qualified", "converted", "lost"}
	LeadSources  = []string{"website", "referral", "event", "social", "partner", "other"}
)

// Lead is a sales prospect (corporate training buyer, sponsor, partner).
type Lead struct {
	Meta           `bson:",inline"`
	FullName       string  `bson:"full_name" json:"fullName"`
	Email          string  `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Company        string  `bson:"company,omitempty" json:"company,omitempty"`
	Source         string  `bson:"source" json:"source"`
	Interest       string  `bson:"interest,omitempty" json:"interest,omitempty"`
	EstimatedValue float64 `bson:"estimated_value" json:"estimatedValue"`
	Notes          string  `bson:"notes,omitempty" json:"notes,omitempty"`
	Status         string  `bson:"status" json:"status"`
}

type LeadInput struct {
	FullName       string  `json:"fullName" validate:"required,max=200" label:"Full name"`
	Email          string  `json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Phone          string  `json:"phone" validate:"max=40" label:"Phone"`
	Company        string  `json:"company" validate:"max=200" label:"Company"`
	Source         string  `json:"source" validate:"omitempty,oneof=website referral event social partner other" label:"Source"`
	Interest       string  `json:"interest" validate:"max=500" label:"Interest"`
	EstimatedValue float64 `json:"estimatedValue" validate:"gte=0" label:"Estimated value"`
	Notes          string  `json:"notes" validate:"max=5000" label:"Notes"`
	Status         string  `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost" label:"Status"`
}

type LeadUpdate struct {
	FullName       *string  `bson:"full_name,omitempty" json:"fullName" validate:"omitempty,min=1,max=200" label:"Full name"`
	Email          *string  `bson:"email,omitempty" json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Phone          *string  `bson:"phone,omitempty" json:"phone" validate:"omitempty,max=40" label:"Phone"`
	Company        *string  `bson:"company,omitempty" json:"company" validate:"omitempty,max=200" label:"Company"`
	Source         *string  `bson:"source,omitempty" json:"source" validate:"omitempty,oneof=website referral event social partner other" label:"Source"`
	Interest       *string  `bson:"interest,omitempty" json:"interest" validate:"omitempty,max=500" label:"Interest"`
	EstimatedValue *float64 `bson:"estimated_value,omitempty" json:"estimatedValue" validate:"omitempty,gte=0" label:"Estimated value"`
	Notes          *string  `bson:"notes,omitempty" json:"notes" validate:"omitempty,max=5000" label:"Notes"`
	Status         *string  `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=new contacted qualified converted lost" label:"Status"`
}
