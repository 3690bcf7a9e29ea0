package auth

import (
	"context"
	"strconv"
)

type ctxKey string

const ctxKeySub ctxKey = "sub"

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserID is the numeric user id carried in the token subject; 0 when absent.
func UserID(ctx context.Context) int64 {
	id, _ := strconv.ParseInt(SubjectFromContext(ctx), 10, 64)
	return id
}
