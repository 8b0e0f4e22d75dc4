package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/session"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
)

const (
	TabCookie      = "hrp_tab"
	TabTokenHeader = "X-Tab-Token"
)

type ctxKey string

const (
	ctxKeyStore  ctxKey = "session_store"
	ctxKeyMinted ctxKey = "tab_minted"
)

type TabConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Tab resolves the caller's tab from a bearer token or the tab cookie and
// attaches that tab's session store to the request context. Requests without
// a valid token get a freshly minted tab.
func Tab(registry *session.Registry, cfg TabConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tabID := resolveTab(r, cfg.Secret)
			var store *session.Store
			if tabID == "" {
				minted, err := mintTab(w, cfg)
				if err != nil {
					slog.Error("mint tab token failed", "err", err, "requestId", GetRequestID(r.Context()))
					api.Fail(w, http.StatusInternalServerError, "tab_error", "could not start a session", GetRequestID(r.Context()))
					return
				}
				tabID = minted
				store = registry.Fresh(tabID)
				r = r.WithContext(context.WithValue(r.Context(), ctxKeyMinted, true))
			} else {
				restored, err := registry.Get(r.Context(), tabID)
				if err != nil {
					slog.Error("restore session failed", "err", err, "tabId", tabID, "requestId", GetRequestID(r.Context()))
					api.Fail(w, http.StatusServiceUnavailable, "session_unavailable", "session storage unavailable", GetRequestID(r.Context()))
					return
				}
				store = restored
			}

			ctx := requestctx.WithTabID(r.Context(), tabID)
			ctx = context.WithValue(ctx, ctxKeyStore, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetStore(ctx context.Context) (*session.Store, bool) {
	store, ok := ctx.Value(ctxKeyStore).(*session.Store)
	return store, ok && store != nil
}

// resolveTab returns the tab id of the first valid token, trying the bearer
// header before the cookie. It returns "" when neither parses.
func resolveTab(r *http.Request, secret string) string {
	for _, token := range tabTokens(r) {
		if claims, err := auth.ParseToken(secret, token); err == nil && claims.TabID != "" {
			return claims.TabID
		}
	}
	return ""
}

func tabTokens(r *http.Request) []string {
	var tokens []string
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			tokens = append(tokens, parts[1])
		}
	}
	if cookie, err := r.Cookie(TabCookie); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	return tokens
}

// tabMinted reports whether the tab was minted for this request, so the
// caller has not yet proven it holds a token.
func tabMinted(ctx context.Context) bool {
	minted, _ := ctx.Value(ctxKeyMinted).(bool)
	return minted
}

func mintTab(w http.ResponseWriter, cfg TabConfig) (string, error) {
	tabID := uuid.NewString()
	token, err := auth.GenerateToken(cfg.Secret, auth.Claims{TabID: tabID}, cfg.TTL)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TabCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set(TabTokenHeader, token)
	return tabID, nil
}
