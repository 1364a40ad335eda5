package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	auditfeature "github.com/orkestra-ventures/orkestra/internal/app/features/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/store/audit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/testutil"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (http.Handler, *auditlog.Logger) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	rec := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Admin: "db", Public: "db"})

	rt := rpc.NewRouter(logger)
	auditfeature.Register(rt, auditfeature.NewHandler(db, logger))
	return testutil.MountRPC(rt, testutil.AdminUser()), rec
}

type listResult struct {
	Items []struct {
		EventType string `json:"eventType"`
		Resource  string `json:"resource"`
		RecordID  *int64 `json:"recordId"`
		Success   bool   `json:"success"`
	} `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

func TestList_FiltersByCategory(t *testing.T) {
	srv, events := newTestServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/", nil)

	events.RecordCreated(ctx, req, 1, "contacts", 10)
	events.RecordDeleted(ctx, req, 1, "contacts", 10)
	events.LoginFailed(ctx, req, "admin@example.com")

	_, env := testutil.CallRPC(t, srv, "audit.list", map[string]string{"category": "admin"})
	var got listResult
	testutil.DecodeResult(t, env, &got)
	if got.Total != 2 || len(got.Items) != 2 {
		t.Fatalf("admin events: got total=%d items=%d, want 2", got.Total, len(got.Items))
	}
	if got.Items[0].EventType != audit.EventRecordDeleted {
		t.Errorf("newest first: got %q", got.Items[0].EventType)
	}
	if got.Page != 1 || got.TotalPages != 1 {
		t.Errorf("paging: got page=%d totalPages=%d", got.Page, got.TotalPages)
	}

	_, env = testutil.CallRPC(t, srv, "audit.list", nil)
	testutil.DecodeResult(t, env, &got)
	if got.Total != 3 {
		t.Errorf("all events: got %d, want 3", got.Total)
	}
}

func TestList_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := testutil.CallRPC(t, srv, "audit.list", map[string]string{"category": "billing"})
	if rec.Code != http.StatusBadRequest || env.Error.Fields["category"] == "" {
		t.Errorf("bad category: got %d %+v", rec.Code, env.Error)
	}

	rec, env = testutil.CallRPC(t, srv, "audit.list", map[string]string{"startDate": "2026-02-10", "endDate": "2026-02-01"})
	if rec.Code != http.StatusBadRequest || env.Error.Fields["endDate"] == "" {
		t.Errorf("inverted range: got %d %+v", rec.Code, env.Error)
	}
}

func TestList_DateRange(t *testing.T) {
	srv, events := newTestServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	events.RecordCreated(ctx, httptest.NewRequest("POST", "/", nil), 1, "leads", 3)

	today := time.Now().UTC().Format("2006-01-02")
	_, env := testutil.CallRPC(t, srv, "audit.list", map[string]string{"startDate": today, "endDate": today})
	var got listResult
	testutil.DecodeResult(t, env, &got)
	if got.Total != 1 {
		t.Errorf("today: got %d, want 1", got.Total)
	}

	_, env = testutil.CallRPC(t, srv, "audit.list", map[string]string{"endDate": "2000-01-01"})
	testutil.DecodeResult(t, env, &got)
	if got.Total != 0 {
		t.Errorf("before 2000: got %d, want 0", got.Total)
	}
}

func TestForRecord(t *testing.T) {
	srv, events := newTestServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/", nil)

	events.RecordCreated(ctx, req, 1, "invoices", 4)
	events.RecordStatusChanged(ctx, req, 1, "invoices", 4, "sent")
	events.RecordCreated(ctx, req, 1, "invoices", 5)

	_, env := testutil.CallRPC(t, srv, "audit.forRecord", map[string]any{"resource": "invoices", "id": 4})
	var rows []struct {
		EventType string `json:"eventType"`
		RecordID  int64  `json:"recordId"`
	}
	testutil.DecodeResult(t, env, &rows)
	if len(rows) != 2 {
		t.Fatalf("history: got %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		if r.RecordID != 4 {
			t.Errorf("unexpected record %d in history", r.RecordID)
		}
	}
}

func TestFailedLogins(t *testing.T) {
	srv, events := newTestServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/", nil)

	events.LoginFailed(ctx, req, "admin@example.com")
	events.LoginRateLimited(ctx, req, "admin@example.com")
	events.LoginSuccess(ctx, req, 1, "password")

	_, env := testutil.CallRPC(t, srv, "audit.failedLogins", nil)
	var rows []struct {
		Success bool `json:"success"`
	}
	testutil.DecodeResult(t, env, &rows)
	if len(rows) != 2 {
		t.Fatalf("failed logins: got %d, want 2", len(rows))
	}
	for _, r := range rows {
		if r.Success {
			t.Error("successful login listed as failed")
		}
	}
}
