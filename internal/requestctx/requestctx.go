package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	tabIDKey     ctxKey = "tab_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithTabID(ctx context.Context, tabID string) context.Context {
	return context.WithValue(ctx, tabIDKey, tabID)
}

func GetTabID(ctx context.Context) string {
	if value, ok := ctx.Value(tabIDKey).(string); ok {
		return value
	}
	return ""
}
