package dashboardhandler

import (
	"net/http"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/session"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

type view struct {
	View        string          `json:"view"`
	Welcome     string          `json:"welcome"`
	Session     session.Session `json:"session"`
	Permissions []string        `json:"permissions"`
}

// Handle serves the landing data of a dashboard. It runs behind a guard, so
// a missing session here means the route was wired without one.
func Handle(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := requestctx.GetRequestID(r.Context())
		store, ok := middleware.GetStore(r.Context())
		if !ok {
			api.Redirect(w, http.StatusUnauthorized, "login_required", "login required", session.LoginPath, reqID)
			return
		}
		sess, ok := store.CurrentSession()
		if !ok {
			api.Redirect(w, http.StatusUnauthorized, "login_required", "login required", session.LoginPath, reqID)
			return
		}
		current := name
		if current == "" {
			current = string(sess.Role)
		}
		api.Success(w, view{
			View:        current,
			Welcome:     "Welcome, " + sess.Email,
			Session:     sess,
			Permissions: auth.PermissionsFor(sess.Role),
		}, reqID)
	}
}
