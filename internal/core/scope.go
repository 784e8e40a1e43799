package core

import (
	"errors"

	"github.com/google/uuid"
)

type scopeKind uint8

const (
	scopeUnset scopeKind = iota
	scopeSystem
	scopeTenant
)

// Scope is the visibility boundary of a subject or an activity entry: either
// one tenant or the system-wide space outside any tenant. The zero value is
// not a valid scope.
type Scope struct {
	kind   scopeKind
	tenant uuid.UUID
}

var errInvalidScope = errors.New("scope: tenant scope requires a tenant id")

// SystemScope returns the cross-tenant scope.
func SystemScope() Scope {
	return Scope{kind: scopeSystem}
}

// TenantScope returns the scope of a single tenant.
func TenantScope(tenantID uuid.UUID) Scope {
	return Scope{kind: scopeTenant, tenant: tenantID}
}

// ScopeFromTenantID maps the persisted nullable tenant column back to a scope.
func ScopeFromTenantID(tenantID *uuid.UUID) Scope {
	if tenantID == nil {
		return SystemScope()
	}
	return TenantScope(*tenantID)
}

func (s Scope) IsSystem() bool { return s.kind == scopeSystem }

func (s Scope) IsTenant() bool { return s.kind == scopeTenant }

// TenantID returns the tenant and true for tenant scopes.
func (s Scope) TenantID() (uuid.UUID, bool) {
	if s.kind != scopeTenant {
		return uuid.Nil, false
	}
	return s.tenant, true
}

// NullableTenantID is the persisted form: nil for system scope.
func (s Scope) NullableTenantID() *uuid.UUID {
	if s.kind != scopeTenant {
		return nil
	}
	id := s.tenant
	return &id
}

// Validate rejects the zero value and tenant scopes without a tenant id.
func (s Scope) Validate() error {
	switch s.kind {
	case scopeSystem:
		return nil
	case scopeTenant:
		if s.tenant == uuid.Nil {
			return errInvalidScope
		}
		return nil
	default:
		return errors.New("scope: unset")
	}
}

func (s Scope) Equal(other Scope) bool {
	return s.kind == other.kind && s.tenant == other.tenant
}

func (s Scope) String() string {
	switch s.kind {
	case scopeSystem:
		return "system"
	case scopeTenant:
		return "tenant:" + s.tenant.String()
	default:
		return "unset"
	}
}
