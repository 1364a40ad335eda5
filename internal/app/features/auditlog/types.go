// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/store/audit"
)

const (
	pageSize      = 50
	historyLimit  = 100
	dateLayout    = "2006-01-02"
	failedWindow  = 24 * time.Hour
	failedMaxRows = 200
)

// eventRow is the wire shape of one audit event.
type eventRow struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"createdAt"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	ActorID       *int64            `json:"actorId,omitempty"`
	Resource      string            `json:"resource,omitempty"`
	RecordID      *int64            `json:"recordId,omitempty"`
	IP            string            `json:"ip"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toRows(events []audit.Event) []eventRow {
	out := make([]eventRow, 0, len(events))
	for _, e := range events {
		out = append(out, eventRow{
			ID:            e.ID.Hex(),
			CreatedAt:     e.CreatedAt,
			Category:      e.Category,
			EventType:     e.EventType,
			ActorID:       e.ActorID,
			Resource:      e.Resource,
			RecordID:      e.RecordID,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		})
	}
	return out
}

type listInput struct {
	Category  string `json:"category" validate:"omitempty,oneof=auth admin public" label:"Category"`
	EventType string `json:"eventType" validate:"omitempty,max=50" label:"Event type"`
	Resource  string `json:"resource" validate:"omitempty,max=50" label:"Resource"`
	ActorID   int64  `json:"actorId" validate:"omitempty,gt=0" label:"Actor"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02" label:"Start date"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02" label:"End date"`
	Page      int    `json:"page" validate:"omitempty,gte=1,lte=10000" label:"Page"`
}

type listResult struct {
	Items      []eventRow `json:"items"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

type recordInput struct {
	Resource string `json:"resource" validate:"required,max=50" label:"Resource"`
	ID       int64  `json:"id" validate:"required,gt=0" label:"ID"`
}
