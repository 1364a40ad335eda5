// internal/app/store/webpages/webpagestore.go
package webpagestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/htmlsanitize"
	"github.com/orkestra-ventures/orkestra/internal/app/system/normalize"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "web_pages"

// ErrDuplicateSlug wraps entity.ErrDuplicate.
var ErrDuplicateSlug = fmt.Errorf("%w: a page with this slug already exists", entity.ErrDuplicate)

type Store struct {
	*entity.Collection[models.WebPage]
}

func New(db *mongo.Database) *Store {
	return &Store{entity.New[models.WebPage](db, Collection, entity.Options{
		SearchFields: []string{"slug", "title", "meta_description"},
	})}
}

// Create stores a page. Content is sanitized; publishing stamps PublishedAt.
func (s *Store) Create(ctx context.Context, in models.WebPageInput) (models.WebPage, error) {
	p := models.WebPage{
		Slug:            normalize.Slug(in.Slug),
		Title:           normalize.Name(in.Title),
		Content:         htmlsanitize.Sanitize(in.Content),
		MetaDescription: normalize.Name(in.MetaDescription),
		Status:          entity.Or(in.Status, "draft"),
	}
	if p.Status == models.WebPagePublished {
		now := entity.Now()
		p.PublishedAt = &now
	}
	if err := s.Insert(ctx, &p); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return models.WebPage{}, ErrDuplicateSlug
		}
		return models.WebPage{}, err
	}
	return p, nil
}

// Update applies the non-nil fields of up. PublishedAt is only stamped the
// first time a page becomes published.
func (s *Store) Update(ctx context.Context, id int64, up models.WebPageUpdate, ifUpdatedAt *time.Time) error {
	if up.Slug != nil {
		v := normalize.Slug(*up.Slug)
		up.Slug = &v
	}
	if up.Content != nil {
		v := htmlsanitize.Sanitize(*up.Content)
		up.Content = &v
	}
	fields, err := entity.Fields(up)
	if err != nil {
		return err
	}
	set := entity.Literal(fields)
	if up.Status != nil && *up.Status == models.WebPagePublished {
		set["published_at"] = publishedAtExpr()
	}
	return dupSlug(s.Apply(ctx, id, set, ifUpdatedAt))
}

// UpdateStatus overrides the generic transition to stamp PublishedAt.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	set := entity.Literal(bson.M{"status": status})
	if status == models.WebPagePublished {
		set["published_at"] = publishedAtExpr()
	}
	return s.Apply(ctx, id, set, nil)
}

// GetPublishedBySlug returns the published page with the given slug.
func (s *Store) GetPublishedBySlug(ctx context.Context, slug string) (models.WebPage, error) {
	return s.FindOne(ctx, bson.M{"slug": normalize.Slug(slug), "status": models.WebPagePublished})
}

func publishedAtExpr() bson.M {
	return bson.M{"$ifNull": bson.A{"$published_at", entity.Now()}}
}

func dupSlug(err error) error {
	if errors.Is(err, entity.ErrDuplicate) {
		return ErrDuplicateSlug
	}
	return err
}
