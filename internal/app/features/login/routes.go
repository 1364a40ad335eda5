// internal/app/features/login/routes.go
package login

import "github.com/orkestra-ventures/orkestra/internal/app/system/rpc"

// Register adds the auth.* procedures.
func Register(rt *rpc.Router, h *Handler) {
	rt.Mutation("auth.login", rpc.Public, h.login)
	rt.Mutation("auth.logout", rpc.Admin, h.logout)
	rt.Query("auth.me", rpc.Admin, h.me)
	rt.Mutation("auth.changePassword", rpc.Admin, h.changePassword)
	rt.Mutation("auth.revokeSessions", rpc.Admin, h.revokeSessions)
}
