// internal/domain/models/newsletter.go
package models

import "time"

// NewsletterSubscriber is one newsletter signup. Unsubscribing flips IsActive
// to 0 instead of deleting the row, so the history survives.
type NewsletterSubscriber struct {
	Meta           `bson:",inline"`
	Email          string     `bson:"email" json:"email"`
	EmailCI        string     `bson:"email_ci" json:"-"`
	Name           string     `bson:"name,omitempty" json:"name,omitempty"`
	Source         string     `bson:"source,omitempty" json:"source,omitempty"`
	IsActive       int        `bson:"is_active" json:"isActive"`
	UnsubscribedAt *time.Time `bson:"unsubscribed_at,omitempty" json:"unsubscribedAt,omitempty"`
}

type NewsletterInput struct {
	Email  string `json:"email" validate:"required,email,max=254" label:"Email"`
	Name   string `json:"name" validate:"max=200" label:"Name"`
	Source string `json:"source" validate:"max=100" label:"Source"`
}

type NewsletterUpdate struct {
	Name     *string `bson:"name,omitempty" json:"name" validate:"omitempty,max=200" label:"Name"`
	Source   *string `bson:"source,omitempty" json:"source" validate:"omitempty,max=100" label:"Source"`
	IsActive *int    `bson:"is_active,omitempty" json:"isActive" validate:"omitempty,oneof=0 1" label:"Active"`
}

// UnsubscribeInput identifies a subscriber by email.
type UnsubscribeInput struct {
	Email string `json:"email" validate:"required,email,max=254" label:"Email"`
}
