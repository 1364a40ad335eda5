// internal/app/features/dashboard/inbox.go
package dashboard

import (
	"context"

	"github.com/orkestra-ventures/orkestra/internal/app/features/crud"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
)

func (h *Handler) allApplications(ctx context.Context, c *rpc.Call) (any, error) {
	return h.Applications.GetAll(ctx)
}

func (h *Handler) updateApplicationStatus(ctx context.Context, c *rpc.Call) (any, error) {
	return h.setStatus(ctx, c, "applications", models.ApplicationStatuses, h.Applications.UpdateStatus)
}

func (h *Handler) deleteApplication(ctx context.Context, c *rpc.Call) (any, error) {
	return h.remove(ctx, c, "applications", h.Applications.Delete)
}

func (h *Handler) allContacts(ctx context.Context, c *rpc.Call) (any, error) {
	return h.Contacts.GetAll(ctx)
}

func (h *Handler) updateContactStatus(ctx context.Context, c *rpc.Call) (any, error) {
	return h.setStatus(ctx, c, "contacts", models.ContactStatuses, h.Contacts.UpdateStatus)
}

func (h *Handler) deleteContact(ctx context.Context, c *rpc.Call) (any, error) {
	return h.remove(ctx, c, "contacts", h.Contacts.Delete)
}

func (h *Handler) allNewsletter(ctx context.Context, c *rpc.Call) (any, error) {
	return h.Newsletter.GetAll(ctx)
}

func (h *Handler) setStatus(ctx context.Context, c *rpc.Call, resource string, statuses []string,
	update func(context.Context, int64, string) error) (any, error) {
	var in crud.StatusInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	if !models.Contains(statuses, in.Status) {
		return nil, rpc.FieldError("status", "Status is not a recognized value.")
	}
	if err := update(ctx, in.ID, in.Status); err != nil {
		return nil, err
	}
	h.Audit.RecordStatusChanged(ctx, c.Request, c.ActorID(), resource, in.ID, in.Status)
	return rpc.OK, nil
}

func (h *Handler) remove(ctx context.Context, c *rpc.Call, resource string,
	del func(context.Context, int64) error) (any, error) {
	var in crud.IDInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	if err := del(ctx, in.ID); err != nil {
		return nil, err
	}
	h.Audit.RecordDeleted(ctx, c.Request, c.ActorID(), resource, in.ID)
	return rpc.OK, nil
}
