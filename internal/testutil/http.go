package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
)

// AdminUser returns a signed-in admin for handler tests.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:        1,
		Name:      "Test Admin",
		Email:     "admin@test.com",
		SessionID: "test-session",
	}
}

// MountRPC serves rt under /rpc. When user is non-nil every request runs as
// that admin.
func MountRPC(rt *rpc.Router, user *auth.SessionUser) http.Handler {
	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, auth.WithTestUser(req, user))
			})
		})
	}
	r.Mount("/rpc", rt.Routes())
	return r
}

// Envelope is the decoded RPC response body.
type Envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *EnvelopeError  `json:"error"`
}

type EnvelopeError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields"`
	RequestID string            `json:"requestId"`
}

// CallRPC posts input as JSON to /rpc/{proc} and decodes the envelope.
// A nil input sends an empty body.
func CallRPC(t *testing.T, h http.Handler, proc string, input any) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	return CallRPCWithToken(t, h, proc, input, "")
}

// CallRPCWithToken is CallRPC with a Bearer token, when token is non-empty.
func CallRPCWithToken(t *testing.T, h http.Handler, proc string, input any, token string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var body bytes.Buffer
	if input != nil {
		if err := json.NewEncoder(&body).Encode(input); err != nil {
			t.Fatalf("encode input: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/rpc/"+proc, &body)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:40000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

// DecodeResult unmarshals a successful envelope's result into v.
func DecodeResult(t *testing.T, env Envelope, v any) {
	t.Helper()
	if env.Error != nil {
		t.Fatalf("unexpected error envelope: %+v", env.Error)
	}
	if err := json.Unmarshal(env.Result, v); err != nil {
		t.Fatalf("decode result %s: %v", env.Result, err)
	}
}
