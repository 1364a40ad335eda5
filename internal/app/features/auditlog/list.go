// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/audit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
)

// list pages through the audit trail, newest first.
func (h *Handler) list(ctx context.Context, c *rpc.Call) (any, error) {
	var in listInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	page := in.Page
	if page < 1 {
		page = 1
	}

	filter := audit.QueryFilter{
		Category:  in.Category,
		EventType: in.EventType,
		Resource:  in.Resource,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if in.ActorID > 0 {
		filter.ActorID = &in.ActorID
	}
	if in.StartDate != "" {
		t, _ := time.Parse(dateLayout, in.StartDate)
		filter.StartTime = &t
	}
	if in.EndDate != "" {
		t, _ := time.Parse(dateLayout, in.EndDate)
		endOfDay := t.Add(24*time.Hour - time.Millisecond)
		filter.EndTime = &endOfDay
	}
	if filter.StartTime != nil && filter.EndTime != nil && filter.EndTime.Before(*filter.StartTime) {
		return nil, rpc.FieldError("endDate", "End date must not be before the start date.")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	return listResult{Items: toRows(events), Total: total, Page: page, TotalPages: totalPages}, nil
}

// forRecord returns the change history of one record.
func (h *Handler) forRecord(ctx context.Context, c *rpc.Call) (any, error) {
	var in recordInput
	if err := c.Bind(&in); err != nil {
		return nil, err
	}
	events, err := h.Events.ForRecord(ctx, in.Resource, in.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	return toRows(events), nil
}

// failedLogins lists rejected sign-ins from the last day.
func (h *Handler) failedLogins(ctx context.Context, c *rpc.Call) (any, error) {
	events, err := h.Events.GetFailedLogins(ctx, time.Now().UTC().Add(-failedWindow), failedMaxRows)
	if err != nil {
		return nil, err
	}
	return toRows(events), nil
}
