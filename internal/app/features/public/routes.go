// internal/app/features/public/routes.go
package public

import (
	"github.com/orkestra-ventures/orkestra/internal/app/system/ratelimit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
)

// Register adds the public procedures to rt. submit limits the form and
// newsletter mutations per client IP; nil disables limiting.
func Register(rt *rpc.Router, h *Handler, submit ratelimit.Counter) {
	var limited []rpc.Option
	if submit != nil {
		limited = append(limited, rpc.RateLimited(submit))
	}

	rt.Mutation("applications.submit", rpc.Public, h.submitApplication, limited...)
	rt.Mutation("contacts.submit", rpc.Public, h.submitContact, limited...)
	rt.Mutation("newsletter.subscribe", rpc.Public, h.subscribe, limited...)
	rt.Mutation("newsletter.unsubscribe", rpc.Public, h.unsubscribe, limited...)
	rt.Query("webPages.getBySlug", rpc.Public, h.pageBySlug)
}
