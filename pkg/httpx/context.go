package httpx

import (
	"context"

	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
)

type ctxKey string

const CtxKeySubject ctxKey = "subject"

// WithSession stores the verified session's account on the context.
func WithSession(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, CtxKeySubject, c.Subject)
}

// SubjectFromContext returns the authenticated account id, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(CtxKeySubject).(string)
	return sub, ok && sub != ""
}
