// internal/domain/models/admin.go
package models

import "time"

const (
	AdminActive   = "active"
	AdminDisabled = "disabled"
)

var AdminStatuses = []string{AdminActive, AdminDisabled}

// Admin is a back-office account. Only admins can call procedures outside the
// public surface.
type Admin struct {
	Meta         `bson:",inline"`
	FullName     string     `bson:"full_name" json:"fullName"`
	Email        string     `bson:"email" json:"email"`
	EmailCI      string     `bson:"email_ci" json:"-"`
	PasswordHash string     `bson:"password_hash,omitempty" json:"-"`
	GoogleID     string     `bson:"google_id,omitempty" json:"-"`
	Status       string     `bson:"status" json:"status"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
}

// LoginInput is the credential check payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=200" label:"Password"`
}
