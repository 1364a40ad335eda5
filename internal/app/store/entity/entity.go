// internal/app/store/entity/entity.go
//
// Package entity is the shared persistence layer behind every business
// resource. A Collection[T] stores records that embed models.Meta: it assigns
// ids and timestamps, answers list/detail queries and applies partial updates.
// Per-resource stores embed a Collection and add their own create/update
// rules on top.
package entity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	counterstore "github.com/orkestra-ventures/orkestra/internal/app/store/counters"
	"github.com/orkestra-ventures/orkestra/internal/app/system/inputval"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("a record with the same unique value already exists")
	ErrConflict     = errors.New("record was changed since it was loaded")
	ErrInvalidQuery = errors.New("invalid query")
)

const (
	DefaultLimit int64 = 50
	MaxLimit     int64 = 500
)

// Options describes how a collection can be searched and filtered.
type Options struct {
	// SearchFields are the bson fields matched (case-insensitive substring) by Query.Search.
	SearchFields []string
	// FilterFields maps accepted Query.Filters keys (wire names) to bson fields.
	FilterFields map[string]string
}

// Query is a server-side list request.
type Query struct {
	Search  string         `json:"q" validate:"max=200" label:"Search"`
	Status  string         `json:"status" validate:"max=50" label:"Status"`
	Filters map[string]any `json:"filters"`
	Limit   int64          `json:"limit" validate:"gte=0,lte=500" label:"Limit"`
	Offset  int64          `json:"offset" validate:"gte=0" label:"Offset"`
}

// Page is one window of a list result together with the unpaged total.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

// Collection is a typed view over one MongoDB collection of T records.
type Collection[T any] struct {
	c    *mongo.Collection
	ids  *counterstore.Store
	opts Options
}

// New returns a Collection for the named MongoDB collection.
func New[T any](db *mongo.Database, name string, opts Options) *Collection[T] {
	return &Collection[T]{
		c:    db.Collection(name),
		ids:  counterstore.New(db),
		opts: opts,
	}
}

// Name returns the underlying collection name.
func (c *Collection[T]) Name() string { return c.c.Name() }

// Raw exposes the driver collection for resource-specific queries.
func (c *Collection[T]) Raw() *mongo.Collection { return c.c }

// Now is the store clock: UTC, truncated to the millisecond precision BSON keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func metaOf[T any](rec *T) *models.Meta {
	r, ok := any(rec).(models.Record)
	if !ok {
		panic(fmt.Sprintf("entity: %T does not embed models.Meta", rec))
	}
	return r.GetMeta()
}

// Insert allocates an id, stamps CreatedAt/UpdatedAt and stores rec.
func (c *Collection[T]) Insert(ctx context.Context, rec *T) error {
	m := metaOf(rec)
	id, err := c.ids.Next(ctx, c.c.Name())
	if err != nil {
		return err
	}
	ts := Now()
	m.ID = id
	m.CreatedAt = ts
	m.UpdatedAt = ts

	if _, err := c.c.InsertOne(ctx, rec); err != nil {
		*m = models.Meta{}
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetAll returns every record ordered by creation time, then id.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return c.Find(ctx, bson.M{}, opts)
}

// Find returns records matching filter. The result is never nil.
func (c *Collection[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List applies search, status and field filters and returns one page, newest first.
func (c *Collection[T]) List(ctx context.Context, q Query) (Page[T], error) {
	filter, err := c.Filter(q)
	if err != nil {
		return Page[T]{}, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	total, err := c.c.CountDocuments(ctx, filter)
	if err != nil {
		return Page[T]{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	items, err := c.Find(ctx, filter, opts)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Filter translates q into a MongoDB filter. Unknown filter keys and
// non-scalar filter values are rejected with ErrInvalidQuery.
func (c *Collection[T]) Filter(q Query) (bson.M, error) {
	filter := bson.M{}

	if s := strings.TrimSpace(q.Search); s != "" && len(c.opts.SearchFields) > 0 {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		or := make(bson.A, 0, len(c.opts.SearchFields))
		for _, f := range c.opts.SearchFields {
			or = append(or, bson.M{f: re})
		}
		filter["$or"] = or
	}

	if s := strings.TrimSpace(q.Status); s != "" {
		filter["status"] = s
	}

	for key, v := range q.Filters {
		field, ok := c.opts.FilterFields[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidQuery, key)
		}
		switch v.(type) {
		case string, float64, int, int64, bool, nil:
		default:
			return nil, fmt.Errorf("%w: filter %q must be a scalar", ErrInvalidQuery, key)
		}
		filter[field] = v
	}
	return filter, nil
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id int64) (T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

// FindOne returns the first record matching filter, or ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (T, error) {
	var rec T
	err := c.c.FindOne(ctx, filter, opts...).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return rec, ErrNotFound
	}
	return rec, err
}

// Count returns the number of records matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	return c.c.CountDocuments(ctx, filter)
}

// Recent returns the n most recently created records.
func (c *Collection[T]) Recent(ctx context.Context, n int64) ([]T, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(n)
	return c.Find(ctx, bson.M{}, opts)
}

// Patch sets the non-omitted fields of patch (a struct with bson omitempty
// tags, or a bson.M) on record id. See Apply for precondition handling.
func (c *Collection[T]) Patch(ctx context.Context, id int64, patch any, ifUpdatedAt *time.Time) error {
	fields, err := Fields(patch)
	if err != nil {
		return err
	}
	return c.Apply(ctx, id, Literal(fields), ifUpdatedAt)
}

// Apply runs a single pipeline update on record id. set holds aggregation
// expressions keyed by field name; updated_at is always refreshed and is
// guaranteed to move forward by at least one millisecond.
//
// When ifUpdatedAt is non-nil the write only applies if the stored
// updated_at still equals it; otherwise ErrConflict is returned.
func (c *Collection[T]) Apply(ctx context.Context, id int64, set bson.M, ifUpdatedAt *time.Time) error {
	return c.apply(ctx, id, set, ifUpdatedAt, nil)
}

// DateOrder is a rule that one YYYY-MM-DD field must not fall before another.
// Field and Message name the wire field and text reported on violation.
type DateOrder struct {
	Start   string
	End     string
	Field   string
	Message string
}

// PatchOrdered is Patch for records carrying a DateOrder rule. When the patch
// touches either date, the rule is checked in the same write against the
// merged values (patched value, else stored value), so a partial update can
// not leave the record with its end before its start. A violation returns an
// inputval.Result naming rule.Field.
func (c *Collection[T]) PatchOrdered(ctx context.Context, id int64, patch any, ifUpdatedAt *time.Time, rule DateOrder) error {
	fields, err := Fields(patch)
	if err != nil {
		return err
	}
	start, hasStart := fields[rule.Start]
	end, hasEnd := fields[rule.End]
	if !hasStart && !hasEnd {
		return c.Apply(ctx, id, Literal(fields), ifUpdatedAt)
	}

	startExpr := any("$" + rule.Start)
	if hasStart {
		startExpr = bson.M{"$literal": start}
	}
	endExpr := any("$" + rule.End)
	if hasEnd {
		endExpr = bson.M{"$literal": end}
	}
	blank := func(e any) bson.M {
		return bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{e, ""}}, ""}}
	}
	guard := bson.M{"$expr": bson.M{"$or": bson.A{
		blank(startExpr),
		blank(endExpr),
		bson.M{"$gte": bson.A{endExpr, startExpr}},
	}}}

	err = c.apply(ctx, id, Literal(fields), ifUpdatedAt, guard)
	if errors.Is(err, errGuard) {
		return inputval.Result{Errors: []inputval.FieldError{{Field: rule.Field, Message: rule.Message}}}
	}
	return err
}

var errGuard = errors.New("update guard not satisfied")

func (c *Collection[T]) apply(ctx context.Context, id int64, set bson.M, ifUpdatedAt *time.Time, guard bson.M) error {
	stage := bson.M{}
	for k, v := range set {
		stage[k] = v
	}
	stage["updated_at"] = bson.M{"$max": bson.A{
		Now(),
		bson.M{"$add": bson.A{"$updated_at", 1}},
	}}

	base := bson.M{"_id": id}
	if ifUpdatedAt != nil {
		base["updated_at"] = ifUpdatedAt.UTC().Truncate(time.Millisecond)
	}
	filter := base
	if guard != nil {
		filter = bson.M{"$and": bson.A{base, guard}}
	}

	res, err := c.c.UpdateOne(ctx, filter, mongo.Pipeline{{{Key: "$set", Value: stage}}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if ifUpdatedAt == nil && guard == nil {
		return ErrNotFound
	}
	n, err := c.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if ifUpdatedAt != nil {
		n, err = c.c.CountDocuments(ctx, base)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrConflict
		}
	}
	if guard != nil {
		return errGuard
	}
	return ErrConflict
}

// UpdateStatus is the narrow status transition. Any status may follow any other.
func (c *Collection[T]) UpdateStatus(ctx context.Context, id int64, status string) error {
	return c.Apply(ctx, id, Literal(bson.M{"status": status}), nil)
}

// Delete removes record id permanently.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	res, err := c.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Fields flattens a patch into field/value pairs. Identity and timestamp
// fields are always dropped.
func Fields(patch any) (bson.M, error) {
	out := bson.M{}
	switch p := patch.(type) {
	case nil:
	case bson.M:
		for k, v := range p {
			out[k] = v
		}
	default:
		raw, err := bson.Marshal(patch)
		if err != nil {
			return nil, err
		}
		if err := bson.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
	}
	delete(out, "_id")
	delete(out, "created_at")
	delete(out, "updated_at")
	return out, nil
}

// Literal wraps values so a pipeline update stores them verbatim instead of
// evaluating strings like "$field" as expressions.
func Literal(fields bson.M) bson.M {
	out := make(bson.M, len(fields))
	for k, v := range fields {
		out[k] = bson.M{"$literal": v}
	}
	return out
}

// IsUnavailable reports whether err means the database could not be reached
// in time, as opposed to rejecting the operation.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var sse topology.ServerSelectionError
	if errors.As(err, &sse) {
		return true
	}
	return errors.Is(err, mongo.ErrClientDisconnected)
}

// Or returns def when s is blank.
func Or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
