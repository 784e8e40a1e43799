package events

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

// Tenant history lives in the system scope: it is written by super admins
// managing tenants from outside.

type TenantUpdated struct {
	activity.Header
	Change
}

func (TenantUpdated) EventKind() activity.EventKind { return "TenantUpdated" }
func (TenantUpdated) Revision() activity.Revision   { return 1 }
func (TenantUpdated) SubjectKind() core.SubjectKind { return core.SubjectTenant }
func (TenantUpdated) Render() string                { return "Tenant details updated" }

func (e TenantUpdated) Validate() error { return validateChange(&e, &e.Header, &e.Change) }

// TenantEntered records a super admin switching into the tenant.
type TenantEntered struct {
	activity.Header
}

func (TenantEntered) EventKind() activity.EventKind { return "TenantEntered" }
func (TenantEntered) Revision() activity.Revision   { return 1 }
func (TenantEntered) SubjectKind() core.SubjectKind { return core.SubjectTenant }
func (TenantEntered) Render() string                { return "Tenant entered" }

type TenantExited struct {
	activity.Header
}

func (TenantExited) EventKind() activity.EventKind { return "TenantExited" }
func (TenantExited) Revision() activity.Revision   { return 1 }
func (TenantExited) SubjectKind() core.SubjectKind { return core.SubjectTenant }
func (TenantExited) Render() string                { return "Tenant exited" }

type TenantProgramsAssigned struct {
	activity.Header
	AssignedPrograms string `json:"assigned_programs"`
}

func (TenantProgramsAssigned) EventKind() activity.EventKind { return "TenantProgramsAssigned" }
func (TenantProgramsAssigned) Revision() activity.Revision   { return 1 }
func (TenantProgramsAssigned) SubjectKind() core.SubjectKind { return core.SubjectTenant }

func (e TenantProgramsAssigned) Render() string {
	return fmt.Sprintf("Access to the following programs has been granted: %s", e.AssignedPrograms)
}

func (e TenantProgramsAssigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.AssignedPrograms, validation.Required),
	)
}

type TenantProgramsUnassigned struct {
	activity.Header
	UnassignedPrograms string `json:"unassigned_programs"`
}

func (TenantProgramsUnassigned) EventKind() activity.EventKind { return "TenantProgramsUnassigned" }
func (TenantProgramsUnassigned) Revision() activity.Revision   { return 1 }
func (TenantProgramsUnassigned) SubjectKind() core.SubjectKind { return core.SubjectTenant }

func (e TenantProgramsUnassigned) Render() string {
	return fmt.Sprintf("Access to the following programs has been revoked: %s", e.UnassignedPrograms)
}

func (e TenantProgramsUnassigned) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Header),
		validation.Field(&e.UnassignedPrograms, validation.Required),
	)
}
