package middleware

import (
	"log/slog"
	"net/http"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/session"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/api"
)

// RequireRole admits only a logged-in tab whose session role is role.
func RequireRole(role auth.Role, collector *metrics.Collector) func(http.Handler) http.Handler {
	return guardWith(collector, func(g session.Guard) session.Decision {
		return g.Require(role)
	})
}

// RequireSession admits any logged-in tab.
func RequireSession(collector *metrics.Collector) func(http.Handler) http.Handler {
	return guardWith(collector, session.Guard.RequireAny)
}

func guardWith(collector *metrics.Collector, decide func(session.Guard) session.Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := session.Decision{Reason: session.ReasonUnauthenticated, RedirectTo: session.LoginPath}
			if store, ok := GetStore(r.Context()); ok {
				decision = decide(session.NewGuard(store))
			}
			if !decision.Allowed {
				collector.GuardRedirect()
				slog.Debug("guard redirect",
					"reason", decision.Reason,
					"path", r.URL.Path,
					"requestId", GetRequestID(r.Context()),
				)
				api.Redirect(w, http.StatusUnauthorized, "login_required", "login required", decision.RedirectTo, GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
