// internal/app/features/crud/crud.go
//
// Package crud registers the standard admin procedures for a resource
// namespace: getAll, list, getById, create, update, updateStatus and delete.
package crud

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
)

// Store is what a resource store offers to be served over RPC. The
// per-resource stores satisfy it through their embedded entity.Collection
// plus their own Create and Update.
type Store[T, In, Up any] interface {
	GetAll(ctx context.Context) ([]T, error)
	List(ctx context.Context, q entity.Query) (entity.Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, up Up, ifUpdatedAt *time.Time) error
	Delete(ctx context.Context, id int64) error
}

// StatusSetter is implemented by stores whose records carry a status.
type StatusSetter interface {
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// Resource describes one namespace.
type Resource[T, In, Up any] struct {
	// Name is the namespace, e.g. "webPages".
	Name  string
	Store Store[T, In, Up]
	// Statuses enables updateStatus. Leave nil for resources without a status.
	Statuses []string
}

// IDInput addresses a single record.
type IDInput struct {
	ID int64 `json:"id" validate:"required,gt=0" label:"ID"`
}

// StatusInput is the updateStatus payload.
type StatusInput struct {
	ID     int64  `json:"id" validate:"required,gt=0" label:"ID"`
	Status string `json:"status" validate:"required,max=50" label:"Status"`
}

// UpdateTarget is the addressing part of an update payload. The remaining
// fields of the same JSON object are the partial update itself.
type UpdateTarget struct {
	ID          int64      `json:"id" validate:"required,gt=0" label:"ID"`
	IfUpdatedAt *time.Time `json:"ifUpdatedAt"`
}

// Register adds the resource's procedures to rt. Every procedure requires
// an admin session.
func Register[T, In, Up any](rt *rpc.Router, res Resource[T, In, Up], audit *auditlog.Logger) {
	h := &handler[T, In, Up]{res: res, audit: audit}
	ns := res.Name

	rt.Query(ns+".getAll", rpc.Admin, h.getAll)
	rt.Query(ns+".list", rpc.Admin, h.list)
	rt.Query(ns+".getById", rpc.Admin, h.getByID)
	rt.Mutation(ns+".create", rpc.Admin, h.create)
	rt.Mutation(ns+".update", rpc.Admin, h.update)
	rt.Mutation(ns+".delete", rpc.Admin, h.delete)

	if res.Statuses != nil {
		if _, ok := res.Store.(StatusSetter); ok {
			rt.Mutation(ns+".updateStatus", rpc.Admin, h.updateStatus)
		}
	}
}

type handler[T, In, Up any] struct {
	res   Resource[T, In, Up]
	audit *auditlog.Logger
}

func (h *handler[T, In, Up]) getAll(ctx context.Context, c *rpc.Call) (any, error) {
	return h.res.Store.GetAll(ctx)
}

func (h *handler[T, In, Up]) list(ctx context.Context, c *rpc.Call) (any, error) {
	var q entity.Query
	if err := c.Bind(&q); err != nil {
		return nil, err
	}
	if q.Status != "" && h.res.Statuses != nil && !models.Contains(h.res.Statuses, q.Status) {
		return nil, statusError(h.res.Statuses)
	}
	return h.res.Store.List(ctx, q)
}

func (h *handler[T, In, Up]) getByID(ctx context.Context, c *rpc.Call) (any, error) {
	var in IDInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	return h.res.Store.Get(ctx, in.ID)
}

func (h *handler[T, In, Up]) create(ctx context.Context, c *rpc.Call) (any, error) {
	var in In
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	rec, err := h.res.Store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	h.audit.RecordCreated(ctx, c.Request, c.ActorID(), h.res.Name, RecordID(&rec))
	return rec, nil
}

func (h *handler[T, In, Up]) update(ctx context.Context, c *rpc.Call) (any, error) {
	var target UpdateTarget
	if err := c.Bind(&target); err != nil {
		return nil, err
	}
	var up Up
	if err := c.Bind(&up); err != nil {
		return nil, err
	}
	if err := h.res.Store.Update(ctx, target.ID, up, target.IfUpdatedAt); err != nil {
		return nil, err
	}
	h.audit.RecordUpdated(ctx, c.Request, c.ActorID(), h.res.Name, target.ID, ChangedFields(up))
	return rpc.OK, nil
}

func (h *handler[T, In, Up]) updateStatus(ctx context.Context, c *rpc.Call) (any, error) {
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	if !models.Contains(h.res.Statuses, in.Status) {
		return nil, statusError(h.res.Statuses)
	}
	if err := h.res.Store.(StatusSetter).UpdateStatus(ctx, in.ID, in.Status); err != nil {
		return nil, err
	}
	h.audit.RecordStatusChanged(ctx, c.Request, c.ActorID(), h.res.Name, in.ID, in.Status)
	return rpc.OK, nil
}

func (h *handler[T, In, Up]) delete(ctx context.Context, c *rpc.Call) (any, error) {
	var in IDInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	if err := h.res.Store.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	h.audit.RecordDeleted(ctx, c.Request, c.ActorID(), h.res.Name, in.ID)
	return rpc.OK, nil
}

func statusError(statuses []string) error {
	return rpc.FieldError("status", "Status must be one of: "+strings.Join(statuses, ", ")+".")
}

// RecordID returns the id of a record that embeds models.Meta, or 0.
func RecordID[T any](rec *T) int64 {
	if r, ok := any(rec).(models.Record); ok {
		return r.GetMeta().ID
	}
	return 0
}

// ChangedFields lists the stored field names a partial update sets.
func ChangedFields(up any) []string {
	fields, err := entity.Fields(up)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
