package core

import (
	"context"

	"github.com/google/uuid"
)

// Caller is the authenticated principal behind a request.
type Caller struct {
	UserID     uuid.UUID
	FullName   string
	Roles      []string
	TenantID   uuid.UUID
	SuperAdmin bool
}

// InTenant reports whether the caller operates inside a tenant context.
func (c Caller) InTenant() bool { return c.TenantID != uuid.Nil }

type ctxKeyCaller struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKeyCaller{}, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKeyCaller{}).(Caller)
	return c, ok
}
