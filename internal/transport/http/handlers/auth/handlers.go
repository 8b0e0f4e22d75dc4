package authhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/session"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

const (
	msgInvalidCredentials = "Invalid credentials. Please try again."
	msgInvalidPasscode    = "Invalid OTP. Please try again."
)

type Handler struct {
	Auth    *session.Authenticator
	Metrics *metrics.Collector
	// Disclose returns the issued passcode in the login response. Development only.
	Disclose bool
}

func NewHandler(authenticator *session.Authenticator, collector *metrics.Collector, disclose bool) *Handler {
	return &Handler{Auth: authenticator, Metrics: collector, Disclose: disclose}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	State    session.State `json:"state"`
	Email    string        `json:"email"`
	Role     auth.Role     `json:"role"`
	Passcode string        `json:"passcode,omitempty"`
}

type verifyRequest struct {
	Passcode string `json:"passcode"`
}

type verifyResponse struct {
	State    session.State   `json:"state"`
	Session  session.Session `json:"session"`
	Redirect string          `json:"redirect"`
}

type sessionResponse struct {
	State       session.State    `json:"state"`
	Session     *session.Session `json:"session,omitempty"`
	Permissions []string         `json:"permissions,omitempty"`
	PendingFor  string           `json:"pendingEmail,omitempty"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	store, ok := middleware.GetStore(r.Context())
	if !ok {
		api.Fail(w, http.StatusInternalServerError, "session_error", "session unavailable", reqID)
		return
	}
	var payload loginRequest
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	pending, err := h.Auth.Login(r.Context(), store, payload.Email, payload.Password, payload.Role)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.Metrics.LoginAttempt(false)
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", msgInvalidCredentials, reqID)
		return
	case errors.Is(err, session.ErrDeliveryFailed):
		slog.Warn("passcode delivery failed", "tabId", store.TabID(), "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "delivery_failed", "could not deliver the sign-in code", reqID)
		return
	default:
		slog.Warn("login failed", "tabId", store.TabID(), "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start sign-in", reqID)
		return
	}

	h.Metrics.LoginAttempt(true)
	resp := loginResponse{State: session.StateAwaitingPasscode, Email: pending.Email, Role: pending.Role}
	if h.Disclose {
		resp.Passcode = pending.Passcode
	}
	api.Success(w, resp, reqID)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	store, ok := middleware.GetStore(r.Context())
	if !ok {
		api.Fail(w, http.StatusInternalServerError, "session_error", "session unavailable", reqID)
		return
	}
	var payload verifyRequest
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	sess, err := h.Auth.Verify(r.Context(), store, payload.Passcode)
	if err != nil {
		if errors.Is(err, session.ErrInvalidPasscode) {
			h.Metrics.VerifyAttempt(false)
		}
		// The pending login is gone after these two, so the client restarts at login.
		switch {
		case errors.Is(err, session.ErrTooManyAttempts):
			api.Redirect(w, http.StatusUnauthorized, "too_many_attempts", msgInvalidPasscode, session.LoginPath, reqID)
		case errors.Is(err, session.ErrPasscodeExpired):
			api.Redirect(w, http.StatusUnauthorized, "passcode_expired", msgInvalidPasscode, session.LoginPath, reqID)
		case errors.Is(err, session.ErrInvalidPasscode):
			api.Fail(w, http.StatusUnauthorized, "invalid_passcode", msgInvalidPasscode, reqID)
		default:
			slog.Warn("verify failed", "tabId", store.TabID(), "err", err, "requestId", reqID)
			api.Fail(w, http.StatusInternalServerError, "session_error", "failed to complete sign-in", reqID)
		}
		return
	}

	h.Metrics.VerifyAttempt(true)
	api.Success(w, verifyResponse{
		State:    session.StateLoggedIn,
		Session:  sess,
		Redirect: sess.Role.DashboardPath(),
	}, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	store, ok := middleware.GetStore(r.Context())
	if !ok {
		api.Fail(w, http.StatusInternalServerError, "session_error", "session unavailable", reqID)
		return
	}
	if err := h.Auth.Logout(r.Context(), store); err != nil {
		slog.Warn("logout failed", "tabId", store.TabID(), "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to sign out", reqID)
		return
	}
	h.Metrics.Logout()
	api.Success(w, map[string]string{"state": string(session.StateLoggedOut), "redirect": session.LoginPath}, reqID)
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	store, ok := middleware.GetStore(r.Context())
	if !ok {
		api.Fail(w, http.StatusInternalServerError, "session_error", "session unavailable", reqID)
		return
	}
	resp := sessionResponse{State: store.State()}
	if sess, ok := store.CurrentSession(); ok {
		resp.Session = &sess
		resp.Permissions = auth.PermissionsFor(sess.Role)
	} else if pending, ok := store.Pending(); ok {
		resp.PendingFor = pending.Email
	}
	api.Success(w, resp, reqID)
}
