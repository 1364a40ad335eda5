// internal/app/features/auditlog/routes.go
package auditlog

import "github.com/orkestra-ventures/orkestra/internal/app/system/rpc"

// Register adds the read-only audit.* procedures. All require an admin.
func Register(rt *rpc.Router, h *Handler) {
	rt.Query("audit.list", rpc.Admin, h.list)
	rt.Query("audit.forRecord", rpc.Admin, h.forRecord)
	rt.Query("audit.failedLogins", rpc.Admin, h.failedLogins)
}
