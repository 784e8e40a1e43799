// Package scope decides which scope's history a caller may read or write.
package scope

import (
	"errors"
	"fmt"

	"github.com/lzjever/mbos-activity/internal/core"
)

var (
	ErrCrossScope      = errors.New("scope: access across tenant/system boundary")
	ErrUnauthenticated = errors.New("scope: caller has neither a tenant nor super admin rights")
)

// Resolver maps an authenticated caller and a subject kind to the single
// scope the caller may see for that kind.
type Resolver struct{}

func NewResolver() *Resolver { return &Resolver{} }

// Resolve returns System for a super admin acting outside any tenant and
// Tenant(T) for a caller bound to tenant T. Kinds whose policy forbids the
// resolved scope fail with ErrCrossScope. A non-nil requested scope must
// equal the resolved one.
func (r *Resolver) Resolve(caller core.Caller, kind core.SubjectKind, requested *core.Scope) (core.Scope, error) {
	if !kind.Valid() {
		return core.Scope{}, fmt.Errorf("scope: unknown subject kind %q", kind)
	}

	var resolved core.Scope
	switch {
	case caller.InTenant():
		resolved = core.TenantScope(caller.TenantID)
	case caller.SuperAdmin:
		resolved = core.SystemScope()
	default:
		return core.Scope{}, ErrUnauthenticated
	}

	switch kind.Policy() {
	case core.PolicySystemOnly:
		if !resolved.IsSystem() {
			return core.Scope{}, fmt.Errorf("%w: %s history is system-wide", ErrCrossScope, kind)
		}
	case core.PolicyTenantOnly:
		if !resolved.IsTenant() {
			return core.Scope{}, fmt.Errorf("%w: %s history belongs to a tenant", ErrCrossScope, kind)
		}
	}

	if requested != nil && !requested.Equal(resolved) {
		return core.Scope{}, fmt.Errorf("%w: requested %s, caller resolves to %s", ErrCrossScope, requested, resolved)
	}
	return resolved, nil
}
