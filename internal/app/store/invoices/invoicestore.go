// internal/app/store/invoices/invoicestore.go
package invoicestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "invoices"

// ErrDuplicateNumber wraps entity.ErrDuplicate.
var ErrDuplicateNumber = fmt.Errorf("%w: invoice number is already in use", entity.ErrDuplicate)

type Store struct {
	*entity.Collection[models.Invoice]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.Invoice](db, Collection, entity.Options{
		SearchFields: []string{"invoice_number", "client_name", "client_email"},
		FilterFields: map[string]string{"clientName": "client_name", "currency": "currency"},
	})}
}

func (s *Store) Create(ctx context.Context, in models.InvoiceInput) (models.Invoice, error) {
	inv := models.Invoice{
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		ClientName:    normalize.Name(in.ClientName),
		ClientEmail:   normalize.Email(in.ClientEmail),
		Amount:        in.Amount,
		Tax:           in.Tax,
		Currency:      entity.Or(normalize.Currency(in.Currency), models.DefaultCurrency),
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Description:   in.Description,
		Status:        entity.Or(in.Status, "draft"),
	}
	if err := s.Insert(ctx, &inv); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return models.Invoice{}, ErrDuplicateNumber
		}
		return models.Invoice{}, err
	}
	return inv, nil
}

var dueAfterIssue = entity.DateOrder{
	Start:   "issue_date",
	End:     "due_date",
	Field:   "dueDate",
	Message: "Due date must not be before Issue date.",
}

func (s *Store) Update(ctx context.Context, id int64, up models.InvoiceUpdate, ifUpdatedAt *time.Time) error {
	if up.InvoiceNumber != nil {
		n := strings.TrimSpace(*up.InvoiceNumber)
		up.InvoiceNumber = &n
	}
	if up.ClientEmail != nil {
		e := normalize.Email(*up.ClientEmail)
		up.ClientEmail = &e
	}
	if up.Currency != nil {
		c := normalize.Currency(*up.Currency)
		up.Currency = &c
	}
	err := s.PatchOrdered(ctx, id, up, ifUpdatedAt, dueAfterIssue)
	if errors.Is(err, entity.ErrDuplicate) {
		return ErrDuplicateNumber
	}
	return err
}

// GetByNumber looks an invoice up by its number.
func (s *Store) GetByNumber(ctx context.Context, number string) (models.Invoice, error) {
	return s.FindOne(ctx, bson.M{"invoice_number": strings.TrimSpace(number)})
}

// MarkOverdue flips sent invoices whose due date is before today to overdue.
// Dates are YYYY-MM-DD strings, so lexical comparison is chronological.
func (s *Store) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	res, err := s.Raw().UpdateMany(ctx,
		bson.M{"status": "sent", "due_date": bson.M{"$lt": today.Format(models.DateLayout)}},
		bson.A{bson.M{"$set": bson.M{
			"status":     "overdue",
			"updated_at": bson.M{"$max": bson.A{entity.Now(), bson.M{"$add": bson.A{"$updated_at", 1}}}},
		}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
