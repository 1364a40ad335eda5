// internal/app/system/rpc/rpc.go
//
// Package rpc serves typed procedures over HTTP. Each procedure has a dotted
// name ("contacts.getAll") and is called at /rpc/{name}. Queries accept GET
// with an ?input=<json> parameter or POST; mutations accept POST with a JSON
// or form body. Results and failures share one JSON envelope:
//
//	{"result": ...}
//	{"error": {"code": "BAD_REQUEST", "message": "...", "fields": {...}, "requestId": "..."}}
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/ratelimit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Kind separates read-only procedures from mutations.
type Kind int

const (
	KindQuery Kind = iota
	KindMutation
)

func (k Kind) String() string {
	if k == KindMutation {
		return "mutation"
	}
	return "query"
}

// Access says who may call a procedure.
type Access int

const (
	Public Access = iota
	Admin
)

// Success is the result of procedures that only acknowledge.
type Success struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK acknowledges a completed mutation.
var OK = Success{Success: true}

// Handler runs one procedure call.
type Handler func(ctx context.Context, c *Call) (any, error)

// Call carries one request through a Handler.
type Call struct {
	Name      string
	RequestID string
	Request   *http.Request
	Writer    http.ResponseWriter
	// User is nil on anonymous public calls.
	User *auth.SessionUser

	in input
}

// ActorID is the calling admin's id, or 0.
func (c *Call) ActorID() int64 {
	if c.User == nil {
		return 0
	}
	return c.User.ID
}

// Procedure is a registered handler.
type Procedure struct {
	Name   string
	Kind   Kind
	Access Access
	Limit  ratelimit.Counter
	Handle Handler
}

// Option adjusts a procedure at registration.
type Option func(*Procedure)

// RateLimited checks every call against c, keyed by client IP.
func RateLimited(c ratelimit.Counter) Option {
	return func(p *Procedure) { p.Limit = c }
}

// Router holds the registered procedures. Register everything before
// serving; the table is not guarded for concurrent writes.
type Router struct {
	log   *zap.Logger
	procs map[string]*Procedure
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{log: logger, procs: map[string]*Procedure{}}
}

// Query registers a read-only procedure.
func (rt *Router) Query(name string, access Access, h Handler, opts ...Option) {
	rt.add(name, KindQuery, access, h, opts)
}

// Mutation registers a procedure that changes state.
func (rt *Router) Mutation(name string, access Access, h Handler, opts ...Option) {
	rt.add(name, KindMutation, access, h, opts)
}

func (rt *Router) add(name string, kind Kind, access Access, h Handler, opts []Option) {
	if _, dup := rt.procs[name]; dup {
		panic(fmt.Sprintf("rpc: procedure %q registered twice", name))
	}
	p := &Procedure{Name: name, Kind: kind, Access: access, Handle: h}
	for _, o := range opts {
		o(p)
	}
	rt.procs[name] = p
}

// Lookup returns the named procedure.
func (rt *Router) Lookup(name string) (*Procedure, bool) {
	p, ok := rt.procs[name]
	return p, ok
}

// Names lists every registered procedure, sorted.
func (rt *Router) Names() []string {
	out := make([]string, 0, len(rt.procs))
	for n := range rt.procs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Routes returns a subrouter meant to be mounted at /rpc.
func (rt *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{proc}", rt.ServeHTTP)
	r.Post("/{proc}", rt.ServeHTTP)
	return r
}

// ServeHTTP dispatches one call. The procedure name comes from the {proc}
// URL parameter.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "proc")
	reqID := uuid.NewString()
	w.Header().Set("X-Request-ID", reqID)

	p, ok := rt.procs[name]
	if !ok {
		rt.fail(w, name, reqID, NotFound(fmt.Sprintf("No procedure named %q.", name)))
		return
	}
	if p.Kind == KindMutation && r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		rt.fail(w, name, reqID, newError(http.StatusMethodNotAllowed, CodeMethodNotSupported, "Mutations must be sent with POST."))
		return
	}

	user, _ := auth.CurrentUser(r)
	if p.Access == Admin && user == nil {
		if err := auth.SessionError(r); err != nil {
			rt.log.Error("session lookup failed", zap.String("procedure", name), zap.String("request_id", reqID), zap.Error(err))
			rt.fail(w, name, reqID, ErrUnavailable)
			return
		}
		rt.fail(w, name, reqID, ErrUnauthorized)
		return
	}

	if p.Limit != nil && !p.Limit.Allow(r.Context(), ratelimit.ClientIP(r)) {
		rt.log.Warn("procedure rate limited", zap.String("procedure", name), zap.String("ip", ratelimit.ClientIP(r)))
		rt.fail(w, name, reqID, ErrRateLimited)
		return
	}

	in, err := readInput(w, r)
	if err != nil {
		rt.fail(w, name, reqID, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), rt.log, name)
	defer cancel()

	call := &Call{Name: name, RequestID: reqID, Request: r, Writer: w, User: user, in: in}
	result, err := p.Handle(ctx, call)
	if err != nil {
		rt.fail(w, name, reqID, err)
		return
	}
	writeJSON(w, http.StatusOK, success{Result: result})
}

type success struct {
	Result any `json:"result"`
}

type failure struct {
	Error failureBody `json:"error"`
}

type failureBody struct {
	*Error
	RequestID string `json:"requestId"`
}

func (rt *Router) fail(w http.ResponseWriter, name, reqID string, err error) {
	e, public := toError(err)
	if !public {
		rt.log.Error("procedure failed",
			zap.String("procedure", name),
			zap.String("request_id", reqID),
			zap.String("code", e.Code),
			zap.Error(err))
	} else if e.Status != http.StatusUnauthorized {
		rt.log.Debug("procedure rejected",
			zap.String("procedure", name),
			zap.String("code", e.Code),
			zap.String("message", e.Message))
	}
	writeJSON(w, e.Status, failure{Error: failureBody{Error: e, RequestID: reqID}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
