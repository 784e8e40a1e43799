package core

import "fmt"

// SubjectKind names the kind of domain object an activity entry documents.
type SubjectKind string

const (
	SubjectUser        SubjectKind = "user"
	SubjectRole        SubjectKind = "role"
	SubjectTenant      SubjectKind = "tenant"
	SubjectProgram     SubjectKind = "program"
	SubjectDepartment  SubjectKind = "department"
	SubjectDivision    SubjectKind = "division"
	SubjectServiceArea SubjectKind = "service_area"
	SubjectJobTitle    SubjectKind = "job_title"
	SubjectTeam        SubjectKind = "team"
	SubjectAccount     SubjectKind = "account"
	SubjectContact     SubjectKind = "contact"
	SubjectLocation    SubjectKind = "location"
	SubjectEntity      SubjectKind = "entity"
)

// ScopePolicy says which scopes a subject kind can live in.
type ScopePolicy string

const (
	PolicyDual       ScopePolicy = "dual"
	PolicySystemOnly ScopePolicy = "system_only"
	PolicyTenantOnly ScopePolicy = "tenant_only"
)

var subjectPolicies = map[SubjectKind]ScopePolicy{
	SubjectUser:        PolicyDual,
	SubjectRole:        PolicyDual,
	SubjectProgram:     PolicyDual,
	SubjectTenant:      PolicySystemOnly,
	SubjectDepartment:  PolicyTenantOnly,
	SubjectDivision:    PolicyTenantOnly,
	SubjectServiceArea: PolicyTenantOnly,
	SubjectJobTitle:    PolicyTenantOnly,
	SubjectTeam:        PolicyTenantOnly,
	SubjectAccount:     PolicyTenantOnly,
	SubjectContact:     PolicyTenantOnly,
	SubjectLocation:    PolicyTenantOnly,
	SubjectEntity:      PolicyTenantOnly,
}

// SubjectKinds returns every known subject kind.
func SubjectKinds() []SubjectKind {
	return []SubjectKind{
		SubjectUser, SubjectRole, SubjectTenant, SubjectProgram,
		SubjectDepartment, SubjectDivision, SubjectServiceArea, SubjectJobTitle, SubjectTeam,
		SubjectAccount, SubjectContact, SubjectLocation, SubjectEntity,
	}
}

// subjectPlurals holds the collection name each kind is routed under.
var subjectPlurals = map[SubjectKind]string{
	SubjectUser:        "users",
	SubjectRole:        "roles",
	SubjectTenant:      "tenants",
	SubjectProgram:     "programs",
	SubjectDepartment:  "departments",
	SubjectDivision:    "divisions",
	SubjectServiceArea: "service_areas",
	SubjectJobTitle:    "job_titles",
	SubjectTeam:        "teams",
	SubjectAccount:     "accounts",
	SubjectContact:     "contacts",
	SubjectLocation:    "locations",
	SubjectEntity:      "entities",
}

var subjectsByPlural = func() map[string]SubjectKind {
	m := make(map[string]SubjectKind, len(subjectPlurals))
	for k, p := range subjectPlurals {
		m[p] = k
	}
	return m
}()

// ParseSubjectKind accepts the URL form of a kind, e.g. "entities" or "entity".
func ParseSubjectKind(s string) (SubjectKind, error) {
	if _, ok := subjectPolicies[SubjectKind(s)]; ok {
		return SubjectKind(s), nil
	}
	if k, ok := subjectsByPlural[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown subject kind %q", s)
}

// Plural returns the collection name used in URLs.
func (k SubjectKind) Plural() string {
	return subjectPlurals[k]
}

// Policy returns the scope policy for the kind. Unknown kinds are tenant-only.
func (k SubjectKind) Policy() ScopePolicy {
	if p, ok := subjectPolicies[k]; ok {
		return p
	}
	return PolicyTenantOnly
}

func (k SubjectKind) Valid() bool {
	_, ok := subjectPolicies[k]
	return ok
}
