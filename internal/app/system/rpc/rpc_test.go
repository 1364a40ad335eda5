package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/ratelimit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type echoInput struct {
	Name    string   `json:"name" validate:"required,max=20" label:"Name"`
	Phone   string   `json:"phone" label:"Phone"`
	Count   int64    `json:"count" validate:"gte=0" label:"Count"`
	Ratio   *float64 `json:"ratio" label:"Ratio"`
	Enabled bool     `json:"enabled"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Fields    map[string]string `json:"fields"`
		RequestID string            `json:"requestId"`
	} `json:"error"`
}

func newRouter(t *testing.T, logger *zap.Logger) *rpc.Router {
	t.Helper()
	rt := rpc.NewRouter(logger)

	echo := func(ctx context.Context, c *rpc.Call) (any, error) {
		var in echoInput
		if err := c.Bind(&in); err != nil {
			return nil, err
		}
		return in, nil
	}
	rt.Query("test.echo", rpc.Public, echo)
	rt.Mutation("test.save", rpc.Public, echo)
	rt.Query("test.secret", rpc.Admin, func(ctx context.Context, c *rpc.Call) (any, error) {
		return map[string]int64{"actor": c.ActorID()}, nil
	})
	rt.Query("test.fail", rpc.Public, func(ctx context.Context, c *rpc.Call) (any, error) {
		var in struct {
			Kind string `json:"kind"`
		}
		_ = c.Decode(&in)
		switch in.Kind {
		case "missing":
			return nil, fmt.Errorf("load contact: %w", entity.ErrNotFound)
		case "stale":
			return nil, entity.ErrConflict
		case "dup":
			return nil, fmt.Errorf("%w: invoice number is already in use", entity.ErrDuplicate)
		case "query":
			return nil, fmt.Errorf("%w: unknown filter", entity.ErrInvalidQuery)
		case "down":
			return nil, context.DeadlineExceeded
		}
		return nil, errors.New("secret database detail")
	})
	return rt
}

func mount(rt *rpc.Router, user *auth.SessionUser) http.Handler {
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

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestQuery_GetWithInput(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	q := url.QueryEscape(`{"name":"Ada","count":3}`)
	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/rpc/test.echo?input="+q, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var got echoInput
	require.NoError(t, json.Unmarshal(env.Result, &got))
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, int64(3), got.Count)
}

func TestQuery_PostJSON(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	req := httptest.NewRequest(http.MethodPost, "/rpc/test.echo", strings.NewReader(`{"name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, _ := do(t, h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMutation_RejectsGet(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/rpc/test.save", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, rpc.CodeMethodNotSupported, env.Error.Code)
}

func TestMutation_FormCoercion(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	form := url.Values{
		"name":    {"Ada"},
		"phone":   {"0100 123"},
		"count":   {" 42 "},
		"ratio":   {"0.5"},
		"enabled": {"on"},
	}
	req := httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, env := do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got echoInput
	require.NoError(t, json.Unmarshal(env.Result, &got))
	assert.Equal(t, "0100 123", got.Phone, "text fields must not be coerced")
	assert.Equal(t, int64(42), got.Count)
	require.NotNil(t, got.Ratio)
	assert.Equal(t, 0.5, *got.Ratio)
	assert.True(t, got.Enabled)
}

func TestMutation_FormBadNumber(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	form := url.Values{"name": {"Ada"}, "count": {"many"}}
	req := httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, env := do(t, h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Count must be a whole number.", env.Error.Fields["count"])
}

func TestMutation_FormBlankFieldsStayUnset(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	form := url.Values{
		"name":               {"Ada"},
		"ratio":              {"  "},
		"count":              {""},
		"unknown":            {"ignored"},
		"gorilla.csrf.Token": {"abc"},
	}
	req := httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, env := do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got echoInput
	require.NoError(t, json.Unmarshal(env.Result, &got))
	assert.Nil(t, got.Ratio, "a blank numeric field must stay unset")
	assert.Equal(t, int64(0), got.Count)
	assert.False(t, got.Enabled)
}

func TestMutation_FormBadBool(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	form := url.Values{"name": {"Ada"}, "enabled": {"maybe"}}
	req := httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, env := do(t, h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "enabled must be true or false.", env.Error.Fields["enabled"])
}

func TestValidationError(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	req := httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(`{"name":"","count":-1}`))
	rec, env := do(t, h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, rpc.CodeBadRequest, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "name")
	assert.Contains(t, env.Error.Fields, "count")
	assert.NotEmpty(t, env.Error.RequestID)
}

func TestMalformedInput(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)

	rec, _ := do(t, h, httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(`{"name":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, h, httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(`{"name":"Ada","count":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error.Fields, "count")

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/rpc/test.echo?input=%7B", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBodyTooLarge(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	big := `{"name":"` + strings.Repeat("a", rpc.MaxBodyBytes) + `"}`
	rec, env := do(t, h, httptest.NewRequest(http.MethodPost, "/rpc/test.save", strings.NewReader(big)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, rpc.CodePayloadTooLarge, env.Error.Code)
}

func TestUnknownProcedure(t *testing.T) {
	h := mount(newRouter(t, zap.NewNop()), nil)
	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/rpc/nope.nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, rpc.CodeNotFound, env.Error.Code)
}

func TestAdminAccess(t *testing.T) {
	rt := newRouter(t, zap.NewNop())

	rec, env := do(t, mount(rt, nil), httptest.NewRequest(http.MethodGet, "/rpc/test.secret", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, rpc.CodeUnauthorized, env.Error.Code)

	rec, env = do(t, mount(rt, &auth.SessionUser{ID: 7}), httptest.NewRequest(http.MethodGet, "/rpc/test.secret", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"actor":7}`, string(env.Result))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		kind    string
		status  int
		code    string
		message string
	}{
		{"missing", http.StatusNotFound, rpc.CodeNotFound, "Record not found."},
		{"stale", http.StatusConflict, rpc.CodeConflict, ""},
		{"dup", http.StatusConflict, rpc.CodeConflict, "invoice number is already in use"},
		{"query", http.StatusBadRequest, rpc.CodeBadRequest, ""},
		{"down", http.StatusServiceUnavailable, rpc.CodeUnavailable, ""},
		{"other", http.StatusInternalServerError, rpc.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			h := mount(newRouter(t, zap.New(core)), nil)
			q := url.QueryEscape(`{"kind":"` + tt.kind + `"}`)
			rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/rpc/test.fail?input="+q, nil))

			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Error.Message)
			}
			assert.NotContains(t, env.Error.Message, "secret")
			if tt.status >= 500 {
				assert.Equal(t, 1, logs.FilterMessage("procedure failed").Len())
			} else {
				assert.Equal(t, 0, logs.Len())
			}
		})
	}
}

func TestRateLimited(t *testing.T) {
	lim := ratelimit.New(1, time.Minute)
	defer lim.Stop()

	rt := rpc.NewRouter(zap.NewNop())
	rt.Mutation("test.limited", rpc.Public, func(ctx context.Context, c *rpc.Call) (any, error) {
		return rpc.OK, nil
	}, rpc.RateLimited(lim))
	h := mount(rt, nil)

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/rpc/test.limited", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		return req
	}

	rec, env := do(t, h, newReq())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, string(env.Result))

	rec, env = do(t, h, newReq())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, rpc.CodeTooManyRequests, env.Error.Code)
}

func TestRegisterTwicePanics(t *testing.T) {
	rt := rpc.NewRouter(zap.NewNop())
	noop := func(ctx context.Context, c *rpc.Call) (any, error) { return nil, nil }
	rt.Query("a.b", rpc.Public, noop)
	assert.Panics(t, func() { rt.Mutation("a.b", rpc.Public, noop) })
	assert.Equal(t, []string{"a.b"}, rt.Names())
}
