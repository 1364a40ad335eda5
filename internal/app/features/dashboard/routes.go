// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/orkestra-ventures/orkestra/internal/app/system/rpc"

// Register adds the admin.* procedures. All of them need an admin session.
func Register(rt *rpc.Router, h *Handler) {
	rt.Query("admin.getStats", rpc.Admin, h.stats)

	rt.Query("admin.getAllApplications", rpc.Admin, h.allApplications)
	rt.Mutation("admin.updateApplicationStatus", rpc.Admin, h.updateApplicationStatus)
	rt.Mutation("admin.deleteApplication", rpc.Admin, h.deleteApplication)

	rt.Query("admin.getAllContacts", rpc.Admin, h.allContacts)
	rt.Mutation("admin.updateContactStatus", rpc.Admin, h.updateContactStatus)
	rt.Mutation("admin.deleteContact", rpc.Admin, h.deleteContact)

	rt.Query("admin.getAllNewsletter", rpc.Admin, h.allNewsletter)
}
