// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/authutil"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "admins"

var (
	// ErrDuplicateEmail wraps entity.ErrDuplicate.
	ErrDuplicateEmail = fmt.Errorf("%w: an admin with this email already exists", entity.ErrDuplicate)
	// ErrInvalidCredentials is returned for an unknown email, a wrong password
	// or a disabled account alike, so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Store struct {
	*entity.Collection[models.Admin]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Admin](db, Collection, entity.Options{
		SearchFields: []string{"full_name", "email"},
	})}
}

// Create adds an active admin. An empty password creates a Google-only account.
func (s *Store) Create(ctx context.Context, fullName, email, password string) (models.Admin, error) {
	a := models.Admin{
		FullName: normalize.Name(fullName),
		Email:    normalize.Email(email),
		EmailCI:  normalize.Email(email),
		Status:   models.AdminActive,
	}
	if password != "" {
		if err := authutil.ValidatePassword(password); err != nil {
			return models.Admin{}, err
		}
		hash, err := authutil.HashPassword(password)
		if err != nil {
			return models.Admin{}, err
		}
		a.PasswordHash = hash
	}
	if err := s.Insert(ctx, &a); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return models.Admin{}, ErrDuplicateEmail
		}
		return models.Admin{}, err
	}
	return a, nil
}

// GetByEmail looks an admin up case-insensitively.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	return s.FindOne(ctx, bson.M{"email_ci": normalize.Email(email)})
}

// GetByGoogleID returns the admin linked to a Google account subject.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (models.Admin, error) {
	if googleID == "" {
		return models.Admin{}, entity.ErrNotFound
	}
	return s.FindOne(ctx, bson.M{"google_id": googleID})
}

// Authenticate checks an email/password pair against an active admin.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.Admin, error) {
	a, err := s.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return models.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Admin{}, err
	}
	if a.Status != models.AdminActive || !authutil.CheckPassword(password, a.PasswordHash) {
		return models.Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

// SetPassword validates and stores a new password hash.
func (s *Store) SetPassword(ctx context.Context, id int64, password string) error {
	if err := authutil.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Patch(ctx, id, bson.M{"password_hash": hash}, nil)
}

// SetStatus enables or disables an admin.
func (s *Store) SetStatus(ctx context.Context, id int64, status string) error {
	if !models.Contains(models.AdminStatuses, status) {
		return fmt.Errorf("unknown admin status %q", status)
	}
	return s.UpdateStatus(ctx, id, status)
}

// LinkGoogle attaches a Google subject to an admin.
func (s *Store) LinkGoogle(ctx context.Context, id int64, googleID string) error {
	return s.Patch(ctx, id, bson.M{"google_id": googleID}, nil)
}

// TouchLogin records a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id int64) error {
	return s.Patch(ctx, id, bson.M{"last_login_at": entity.Now()}, nil)
}
